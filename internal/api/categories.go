// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// listCategories returns all active categories with article counts.
// Small and rarely changing, so no pagination.
func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	items, err := a.categories.ListActive()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeData(w, http.StatusOK, "", items, &Meta{Total: len(items)})
}

func (a *API) getCategory(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	category, err := a.categories.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if category == nil {
		writeErr(w, r, ErrNotFound("Category not found"))
		return
	}
	writeData(w, http.StatusOK, "", category, nil)
}

// createCategory creates a category with a slug derived from its name.
// Names are unique among non-deleted categories.
func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryCreateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	existing, err := a.categories.FindByName(req.Name)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if existing != nil {
		writeErr(w, r, ErrConflict("A category with this name already exists"))
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, err := claims.UserID()
	if err != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug.FromTitle(req.Name),
		Description: req.Description,
		Color:       req.Color,
	}

	created, err := a.categories.Create(category, actor)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeErr(w, r, ErrConflict("A category with this name already exists"))
			return
		}
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Category created", created, nil)
}

// updateCategory merges partial input. A name change re-derives the slug.
func (a *API) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	var req categoryUpdateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	category, err := a.categories.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if category == nil {
		writeErr(w, r, ErrNotFound("Category not found"))
		return
	}

	if req.Name != nil && *req.Name != category.Name {
		existing, err := a.categories.FindByName(*req.Name)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if existing != nil && existing.ID != category.ID {
			writeErr(w, r, ErrConflict("A category with this name already exists"))
			return
		}
		category.Name = *req.Name
		category.Slug = slug.FromTitle(*req.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, err := claims.UserID()
	if err != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	updated, err := a.categories.Update(category, actor)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeErr(w, r, ErrConflict("A category with this name already exists"))
			return
		}
		writeErr(w, r, err)
		return
	}
	if updated == nil {
		writeErr(w, r, ErrNotFound("Category not found"))
		return
	}
	writeData(w, http.StatusOK, "Category updated", updated, nil)
}

// deleteCategory soft-deletes the category. Articles keep their reference
// but stop embedding the category in responses.
func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	category, err := a.categories.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if category == nil {
		writeErr(w, r, ErrNotFound("Category not found"))
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, err := claims.UserID()
	if err != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}

	if err := a.categories.SoftDelete(id, actor); err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Category deleted", nil, nil)
}
