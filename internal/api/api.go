// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package api implements the REST handlers and routing for the Inkwell CMS.
// Every response is wrapped in a uniform envelope; every failure carries a
// machine-readable error code.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// API bundles the handler dependencies. Cache and files may be nil, in
// which case caching is skipped and media endpoints report the storage
// as unavailable.
type API struct {
	cfg        *config.Config
	users      *store.UserStore
	articles   *store.ArticleStore
	categories *store.CategoryStore
	comments   *store.CommentStore
	media      *store.MediaStore
	tokens     *auth.Manager
	files      *storage.Client
	cache      *cache.ResponseCache
}

// New wires the handler set.
func New(
	cfg *config.Config,
	users *store.UserStore,
	articles *store.ArticleStore,
	categories *store.CategoryStore,
	comments *store.CommentStore,
	media *store.MediaStore,
	tokens *auth.Manager,
	files *storage.Client,
	responseCache *cache.ResponseCache,
) *API {
	return &API{
		cfg:        cfg,
		users:      users,
		articles:   articles,
		categories: categories,
		comments:   comments,
		media:      media,
		tokens:     tokens,
		files:      files,
		cache:      responseCache,
	}
}

// health reports liveness. Kept outside the API prefix so load balancers
// can probe it without versioned paths.
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "", map[string]string{"status": "ok"}, nil)
}

// pathID parses the named chi URL parameter as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, *Error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, ErrBadRequest("Invalid id in URL")
	}
	return id, nil
}
