// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/imaging"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
)

const (
	// maxImageSize caps image uploads at 5 MB.
	maxImageSize = 5 << 20

	// maxVideoSize caps video uploads at 50 MB.
	maxVideoSize = 50 << 20

	// thumbnailWidth is the max width of generated image thumbnails.
	thumbnailWidth = 400
)

// errStorageUnavailable is returned when the object store is not configured.
func errStorageUnavailable() *Error {
	return &Error{
		Status:  http.StatusServiceUnavailable,
		Code:    "STORAGE_UNAVAILABLE",
		Message: "Object storage is not configured",
	}
}

// uploadMedia accepts a multipart file, sniffs its real content type,
// stores it in the bucket, and records its metadata. Images also get a
// JPEG thumbnail stored next to the original.
//
// Form fields: file (required), folder ("tmp" for editor uploads that have
// no article yet), article_id (optional owning article).
func (a *API) uploadMedia(w http.ResponseWriter, r *http.Request) {
	if a.files == nil {
		writeErr(w, r, errStorageUnavailable())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxVideoSize+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeErr(w, r, ErrBadRequest("Malformed multipart body or file too large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, r, ErrValidation("Validation failed",
			[]FieldError{{Field: "file", Message: "is required"}}))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	// Sniff the real type instead of trusting the client's Content-Type.
	contentType := http.DetectContentType(data)
	mediaType, ok := models.MediaTypeFromContentType(contentType)
	if !ok {
		writeErr(w, r, ErrValidation("Validation failed",
			[]FieldError{{Field: "file", Message: "must be an image or video"}}))
		return
	}

	maxSize := maxImageSize
	if mediaType == models.MediaTypeVideo {
		maxSize = maxVideoSize
	}
	if len(data) > maxSize {
		writeErr(w, r, ErrValidation("Validation failed",
			[]FieldError{{Field: "file", Message: "exceeds the size limit"}}))
		return
	}

	folder := storage.UploadsFolder
	if r.FormValue("folder") == storage.TempFolder {
		folder = storage.TempFolder
	}

	var articleID *uuid.UUID
	if v := r.FormValue("article_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeErr(w, r, ErrBadRequest("Invalid article_id"))
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
		articleID = &id
		folder = storage.ArticleFolder(id.String())
	}

	key := storage.ObjectName(folder, header.Filename, time.Now())
	if err := a.files.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		writeErr(w, r, err)
		return
	}

	// Thumbnails are best-effort; a decode failure never fails the upload.
	thumbnailURL := ""
	if mediaType == models.MediaTypeImage {
		if thumb, err := imaging.Thumbnail(data, thumbnailWidth); err != nil {
			slog.Warn("thumbnail generation failed", "key", key, "error", err)
		} else {
			dir, base := path.Split(key)
			thumbKey := dir + "thumb-" + base
			if err := a.files.Upload(r.Context(), thumbKey, "image/jpeg",
				bytes.NewReader(thumb), int64(len(thumb))); err != nil {
				slog.Warn("thumbnail upload failed", "key", thumbKey, "error", err)
			} else {
				thumbnailURL = a.files.FileURL(thumbKey)
			}
		}
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, uerr := claims.UserID()
	if uerr != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	created, err := a.media.Create(&models.Media{
		URL:          a.files.FileURL(key),
		Filename:     path.Base(key),
		OriginalName: header.Filename,
		Type:         mediaType,
		ArticleID:    articleID,
	}, actor)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, "File uploaded", map[string]any{
		"media":         created,
		"thumbnail_url": thumbnailURL,
	}, nil)
}

// createMedia records a media row for a file that already lives in the
// bucket (or on an external host), without moving any bytes.
func (a *API) createMedia(w http.ResponseWriter, r *http.Request) {
	var req createMediaRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	if req.ArticleID != nil {
		article, err := a.articles.FindByID(*req.ArticleID)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if article == nil {
			writeErr(w, r, ErrNotFound("Article not found"))
			return
		}
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, uerr := claims.UserID()
	if uerr != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	created, err := a.media.Create(&models.Media{
		URL:          req.URL,
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		Type:         req.Type,
		ArticleID:    req.ArticleID,
	}, actor)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Media recorded", created, nil)
}

// listMedia returns the media metadata owned by an article.
func (a *API) listMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("article_id"))
	if err != nil {
		writeErr(w, r, ErrBadRequest("article_id query parameter is required"))
		return
	}

	items, lerr := a.media.ListByArticle(id)
	if lerr != nil {
		writeErr(w, r, lerr)
		return
	}
	if items == nil {
		items = []models.Media{}
	}
	writeData(w, http.StatusOK, "", items, nil)
}

// moveTempImages relocates editor uploads from the temporary folder into
// the article's permanent folder once the article is saved, and records a
// media row for each. Responds with an old-URL to new-URL mapping so the
// client can rewrite the article body.
func (a *API) moveTempImages(w http.ResponseWriter, r *http.Request) {
	if a.files == nil {
		writeErr(w, r, errStorageUnavailable())
		return
	}

	var req moveTempRequest
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
	actor, uerr := claims.UserID()
	if uerr != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	moved := make(map[string]string, len(req.URLs))
	for _, rawURL := range req.URLs {
		key, ok := a.files.ExtractKey(rawURL)
		if !ok || !strings.HasPrefix(key, storage.TempFolder+"/") {
			writeErr(w, r, ErrValidation("Validation failed",
				[]FieldError{{Field: "urls", Message: "must point at temporary uploads in this storage"}}))
			return
		}

		base := path.Base(key)
		dstKey := storage.ArticleFolder(article.ID.String()) + "/" + base
		if err := a.files.Move(r.Context(), key, dstKey); err != nil {
			writeErr(w, r, err)
			return
		}

		newURL := a.files.FileURL(dstKey)
		if _, err := a.media.Create(&models.Media{
			URL:          newURL,
			Filename:     base,
			OriginalName: base,
			Type:         models.MediaTypeImage,
			ArticleID:    &article.ID,
		}, actor); err != nil {
			writeErr(w, r, err)
			return
		}
		moved[rawURL] = newURL
	}

	writeData(w, http.StatusOK, "Images moved", map[string]any{"moved": moved}, nil)
}
