// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"inkwell/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ClaimsKey is the context key for the verified token claims.
	ClaimsKey contextKey = "claims"
)

// LoadClaims extracts and verifies the bearer token from the Authorization
// header and stores its claims in the request context. Downstream handlers
// access them via ClaimsFromCtx(). This middleware does NOT enforce
// authentication — public routes pass through untouched, and a malformed
// or expired token is treated as unauthenticated.
func LoadClaims(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if claims, err := tokens.Parse(strings.TrimSpace(token)); err == nil {
					ctx := context.WithValue(r.Context(), ClaimsKey, claims)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid full-scope token.
// Must be applied after LoadClaims in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil || claims.Scope != "" {
			writeErrorEnvelope(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireTwoFAToken admits both full-scope tokens and the short-lived
// pending-2FA tokens issued at login. Used only by the 2FA verify endpoint.
func RequireTwoFAToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil || (claims.Scope != "" && claims.Scope != auth.ScopeTwoFA) {
			writeErrorEnvelope(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil || !claims.IsAdmin() {
			writeErrorEnvelope(w, http.StatusForbidden, "FORBIDDEN", "Admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClaimsFromCtx extracts the token claims from the request context.
// Returns nil if no valid token was presented.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// writeErrorEnvelope emits the uniform error envelope. The middleware
// package keeps its own minimal writer so it does not depend on the api
// package, which sits above it in the import graph.
func writeErrorEnvelope(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"statusCode": status,
		"error":      map[string]string{"code": code, "message": message},
	})
}
