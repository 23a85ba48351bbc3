// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import "net/http"

// Error is a request-scoped failure with a machine-readable code. Handlers
// return it for expected conditions (bad input, missing rows, role checks);
// anything else is logged and surfaced as a generic internal error so
// internals never leak to clients.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// FieldError describes a single invalid DTO field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation reports malformed or missing input fields.
func ErrValidation(message string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: message, Details: details}
}

// ErrBadRequest reports a request that is syntactically broken.
func ErrBadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

// ErrUnauthorized reports a missing or unusable credential.
func ErrUnauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// ErrForbidden reports a failed role or ownership check.
func ErrForbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: message}
}

// ErrNotFound reports an entity that is absent or soft-deleted.
func ErrNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

// ErrConflict reports a unique-field collision (email, username, category name).
func ErrConflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Code: "CONFLICT", Message: message}
}

// ErrInternal hides unexpected failures behind a generic message.
func ErrInternal() *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error"}
}
