// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// listUsers returns the paginated admin user listing, optionally filtered
// by role.
func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r.URL.Query())

	var role models.Role
	if v := models.Role(r.URL.Query().Get("role")); v.Valid() {
		role = v
	}

	items, total, err := a.users.List(page, limit, role)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if items == nil {
		items = []models.User{}
	}
	writeData(w, http.StatusOK, "", items, NewMeta(total, page, limit))
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if user == nil {
		writeErr(w, r, ErrNotFound("User not found"))
		return
	}
	writeData(w, http.StatusOK, "", user, nil)
}

// updateUser changes a user's name and/or email, keeping both unique.
// Users may only edit their own profile.
func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, uerr := claims.UserID()
	if uerr != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}
	if actor != id {
		writeErr(w, r, ErrForbidden("Users may only edit their own profile"))
		return
	}

	var req userUpdateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	name, email := "", ""
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if name == "" && email == "" {
		writeErr(w, r, ErrBadRequest("Nothing to update"))
		return
	}

	existing, err := a.users.FindByEmailOrName(email, name, id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if existing != nil {
		writeErr(w, r, ErrConflict("Email or username already in use"))
		return
	}

	updated, err := a.users.UpdateProfile(id, name, email, actor)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeErr(w, r, ErrConflict("Email or username already in use"))
			return
		}
		writeErr(w, r, err)
		return
	}
	if updated == nil {
		writeErr(w, r, ErrNotFound("User not found"))
		return
	}
	writeData(w, http.StatusOK, "User updated", updated, nil)
}

// updateUserRole promotes or demotes a user. Admins cannot demote
// themselves, so the system always keeps at least the acting admin.
func (a *API) updateUserRole(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	var req roleUpdateRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, uerr := claims.UserID()
	if uerr != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}
	if actor == id && req.Role != models.RoleAdmin {
		writeErr(w, r, ErrForbidden("Admins cannot demote themselves"))
		return
	}

	updated, err := a.users.UpdateRole(id, req.Role, actor)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if updated == nil {
		writeErr(w, r, ErrNotFound("User not found"))
		return
	}
	writeData(w, http.StatusOK, "Role updated", updated, nil)
}

// deleteUser soft-deletes an account. Self-deletion is rejected for the
// same reason as self-demotion.
func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	actor, uerr := claims.UserID()
	if uerr != nil {
		writeErr(w, r, ErrUnauthorized("Invalid token subject"))
		return
	}
	if actor == id {
		writeErr(w, r, ErrForbidden("Admins cannot delete their own account"))
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if user == nil {
		writeErr(w, r, ErrNotFound("User not found"))
		return
	}

	if err := a.users.SoftDelete(id, actor); err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "User deleted", nil, nil)
}
