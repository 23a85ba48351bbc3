// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// listComments returns comments newest-first, optionally narrowed to one
// article via ?article_id=.
func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	articleID := uuid.Nil
	if v := r.URL.Query().Get("article_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeErr(w, r, ErrBadRequest("Invalid article_id filter"))
			return
		}
		articleID = id
	}

	items, err := a.comments.List(articleID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if items == nil {
		items = []models.Comment{}
	}
	writeData(w, http.StatusOK, "", items, nil)
}

func (a *API) getComment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	comment, err := a.comments.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if comment == nil {
		writeErr(w, r, ErrNotFound("Comment not found"))
		return
	}
	writeData(w, http.StatusOK, "", comment, nil)
}

// createComment attaches a comment to an active article. Any authenticated
// user may comment.
func (a *API) createComment(w http.ResponseWriter, r *http.Request) {
	var req commentCreateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	article, err := a.articles.FindByID(req.ArticleID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if article == nil {
		writeErr(w, r, ErrNotFound("Article not found"))
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	author, err := claims.UserID()
	if err != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	created, err := a.comments.Create(req.Content, req.ArticleID, author)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Comment created", created, nil)
}

// updateComment edits a comment's content. Only the comment's author or an
// admin may do so.
func (a *API) updateComment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	var req commentUpdateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	comment, actor, apiErr := a.commentForMutation(r, id)
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	updated, err := a.comments.Update(comment.ID, req.Content, actor)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if updated == nil {
		writeErr(w, r, ErrNotFound("Comment not found"))
		return
	}
	writeData(w, http.StatusOK, "Comment updated", updated, nil)
}

// deleteComment soft-deletes a comment under the same author-or-admin rule.
func (a *API) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	comment, actor, apiErr := a.commentForMutation(r, id)
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	if err := a.comments.SoftDelete(comment.ID, actor); err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Comment deleted", nil, nil)
}

// commentForMutation loads the comment and enforces the author-or-admin
// ownership rule, returning the acting user's id.
func (a *API) commentForMutation(r *http.Request, id uuid.UUID) (*models.Comment, uuid.UUID, *Error) {
	comment, err := a.comments.FindByID(id)
	if err != nil {
		return nil, uuid.Nil, ErrInternal()
	}
	if comment == nil {
		return nil, uuid.Nil, ErrNotFound("Comment not found")
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, uerr := claims.UserID()
	if uerr != nil {
		return nil, uuid.Nil, ErrUnauthorized("Invalid token subject")
	}
	if comment.AuthorID != actor && !claims.IsAdmin() {
		return nil, uuid.Nil, ErrForbidden("Only the comment author or an admin may modify it")
	}
	return comment, actor, nil
}
