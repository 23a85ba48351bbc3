// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// listArticles serves the filtered public listing. Rendered pages are
// cached briefly in Redis keyed by the sorted query string.
func (a *API) listArticles(w http.ResponseWriter, r *http.Request) {
	key := cache.ArticleListKey(r.URL.Query())
	if a.cache != nil {
		if body, ok := a.cache.Get(r.Context(), key); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	filter := parseArticleFilter(r.URL.Query())
	items, total, err := a.articles.List(filter)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if items == nil {
		items = []models.Article{}
	}

	body, err := marshalEnvelope(http.StatusOK, "", items, NewMeta(total, filter.Page, filter.Limit))
	if err != nil {
		writeErr(w, r, err)
		return
	}

	if a.cache != nil {
		a.cache.Set(r.Context(), key, body)
	}
	writeRaw(w, http.StatusOK, body)
}

// getArticleBySlug is the public detail read. Every hit counts one view
// and returns the markdown body rendered to HTML, which is why this
// endpoint is deliberately never cached.
func (a *API) getArticleBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := a.articles.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if article == nil {
		writeErr(w, r, ErrNotFound("Article not found"))
		return
	}

	views, err := a.articles.IncrementViews(article.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	article.ViewsCount = views

	html, err := markdown.ToHTML(article.Content)
	if err != nil {
		// A render failure should not hide the article; serve the raw body.
		slog.Warn("markdown render failed", "article", article.ID, "error", err)
	} else {
		article.ContentHTML = html
	}

	writeData(w, http.StatusOK, "", article, nil)
}

// getArticle retrieves an article by id for the admin editor, without
// touching the view counter.
func (a *API) getArticle(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	article, err := a.articles.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if article == nil {
		writeErr(w, r, ErrNotFound("Article not found"))
		return
	}
	writeData(w, http.StatusOK, "", article, nil)
}

// createArticle creates an article authored by the caller. The slug is
// derived from the title; an explicit published status stamps published_at
// immediately.
func (a *API) createArticle(w http.ResponseWriter, r *http.Request) {
	var req articleCreateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	authorID, err := claims.UserID()
	if err != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	if req.CategoryID != nil {
		if apiErr := a.checkCategoryExists(*req.CategoryID); apiErr != nil {
			writeErr(w, r, apiErr)
			return
		}
	}

	status := req.Status
	if status == "" {
		status = models.ArticleStatusDraft
	}

	articleSlug := slug.FromTitle(req.Title)
	if apiErr := a.checkSlugFree(articleSlug, uuid.Nil); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	article := &models.Article{
		Title:         req.Title,
		Slug:          articleSlug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
		PublishedAt:   req.PublishedAt,
		AuthorID:      authorID,
		CategoryID:    req.CategoryID,
	}

	created, err := a.articles.Create(article)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeErr(w, r, ErrConflict("An article with this title already exists"))
			return
		}
		writeErr(w, r, err)
		return
	}

	a.invalidateArticles(r)
	writeData(w, http.StatusCreated, "Article created", created, nil)
}

// updateArticle merges partial input into the stored article. A title
// change re-derives the slug; the first transition into published status
// stamps published_at, and later transitions never move it.
func (a *API) updateArticle(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	var req articleUpdateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	article, err := a.articles.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if article == nil {
		writeErr(w, r, ErrNotFound("Article not found"))
		return
	}

	if req.Title != nil && *req.Title != article.Title {
		newSlug := slug.FromTitle(*req.Title)
		if apiErr := a.checkSlugFree(newSlug, article.ID); apiErr != nil {
			writeErr(w, r, apiErr)
			return
		}
		article.Title = *req.Title
		article.Slug = newSlug
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Excerpt != nil {
		article.Excerpt = req.Excerpt
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}
	if req.FeaturedImage != nil {
		article.FeaturedImage = req.FeaturedImage
	}
	if req.CategoryID != nil {
		if apiErr := a.checkCategoryExists(*req.CategoryID); apiErr != nil {
			writeErr(w, r, apiErr)
			return
		}
		article.CategoryID = req.CategoryID
	}
	if req.Status != nil {
		article.Status = *req.Status
		if article.Status == models.ArticleStatusPublished && article.PublishedAt == nil {
			now := time.Now()
			article.PublishedAt = &now
		}
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, err := claims.UserID()
	if err != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	if err := a.articles.Update(article, actor); err != nil {
		if store.IsUniqueViolation(err) {
			writeErr(w, r, ErrConflict("An article with this title already exists"))
			return
		}
		writeErr(w, r, err)
		return
	}

	updated, err := a.articles.FindByID(article.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	a.invalidateArticles(r)
	writeData(w, http.StatusOK, "Article updated", updated, nil)
}

// deleteArticle soft-deletes the article. The row, its comments, and its
// media metadata survive for audit purposes.
func (a *API) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	article, err := a.articles.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if article == nil {
		writeErr(w, r, ErrNotFound("Article not found"))
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, err := claims.UserID()
	if err != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	if err := a.articles.SoftDelete(id, actor); err != nil {
		writeErr(w, r, err)
		return
	}

	a.invalidateArticles(r)
	writeData(w, http.StatusOK, "Article deleted", nil, nil)
}

// checkSlugFree rejects a slug already claimed by a different article.
func (a *API) checkSlugFree(s string, selfID uuid.UUID) *Error {
	existing, err := a.articles.FindBySlug(s)
	if err != nil {
		return ErrInternal()
	}
	if existing != nil && existing.ID != selfID {
		return ErrConflict("An article with this title already exists")
	}
	return nil
}

// checkCategoryExists rejects references to missing or deleted categories.
func (a *API) checkCategoryExists(id uuid.UUID) *Error {
	category, err := a.categories.FindByID(id)
	if err != nil {
		return ErrInternal()
	}
	if category == nil {
		return ErrValidation("Validation failed",
			[]FieldError{{Field: "category_id", Message: "category does not exist"}})
	}
	return nil
}

// invalidateArticles drops cached listings and dashboard totals after any
// article mutation.
func (a *API) invalidateArticles(r *http.Request) {
	if a.cache != nil {
		a.cache.InvalidateArticles(r.Context())
	}
}
