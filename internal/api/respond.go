// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Meta carries pagination information alongside list responses.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit,omitempty"`
	TotalPages int `json:"totalPages,omitempty"`
}

// NewMeta computes the pagination meta block, rounding total pages up.
func NewMeta(total, page, limit int) *Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// envelope is the uniform wrapper around every successful response body.
type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data"`
	Meta       *Meta  `json:"meta,omitempty"`
}

// errorEnvelope is the uniform wrapper around every failure response body.
type errorEnvelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Error      *Error `json:"error"`
}

// marshalEnvelope renders a success envelope to JSON bytes. Split out from
// writeData so list handlers can cache the exact bytes they send.
func marshalEnvelope(status int, message string, data any, meta *Meta) ([]byte, error) {
	return json.Marshal(envelope{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
		Meta:       meta,
	})
}

// writeRaw sends pre-marshaled envelope bytes.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeData wraps the payload in the success envelope and sends it.
func writeData(w http.ResponseWriter, status int, message string, data any, meta *Meta) {
	body, err := marshalEnvelope(status, message, data, meta)
	if err != nil {
		slog.Error("response marshal failed", "error", err)
		writeErr(w, nil, ErrInternal())
		return
	}
	writeRaw(w, status, body)
}

// writeErr sends the error envelope. Unexpected errors are logged with
// request context and replaced by a generic internal error.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		attrs := []any{"error", err}
		if r != nil {
			attrs = append(attrs, "method", r.Method, "path", r.URL.Path)
		}
		slog.Error("unexpected handler error", attrs...)
		apiErr = ErrInternal()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(errorEnvelope{
		Success:    false,
		StatusCode: apiErr.Status,
		Error:      apiErr,
	})
}
