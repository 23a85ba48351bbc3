// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "inkwell/internal/middleware"
)

// Routes assembles the full router. loginLimiter throttles the
// credential endpoints; the caller owns its lifecycle.
func (a *API) Routes(loginLimiter *mw.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Recoverer)
	r.Use(mw.Logger)
	r.Use(mw.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.LoadClaims(a.tokens))

	r.Get("/health", a.health)

	r.Route(a.cfg.APIPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/register", a.register)
			r.With(loginLimiter.Middleware).Post("/login", a.login)
			r.With(mw.RequireTwoFAToken).Post("/2fa/verify", a.twoFAVerify)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAuth)
				r.Get("/profile", a.profile)
				r.Post("/2fa/setup", a.twoFASetup)
			})
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", a.listArticles)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAuth, mw.RequireAdmin)
				r.Post("/", a.createArticle)
				r.Get("/admin/{id}", a.getArticle)
				r.Patch("/{id}", a.updateArticle)
				r.Delete("/{id}", a.deleteArticle)
			})

			// Registered last: static admin paths above take precedence.
			r.Get("/{slug}", a.getArticleBySlug)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", a.listCategories)
			r.Get("/{id}", a.getCategory)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAuth, mw.RequireAdmin)
				r.Post("/", a.createCategory)
				r.Patch("/{id}", a.updateCategory)
				r.Delete("/{id}", a.deleteCategory)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", a.listComments)
			r.Get("/{id}", a.getComment)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAuth)
				r.Post("/", a.createComment)
				r.Patch("/{id}", a.updateComment)
				r.Delete("/{id}", a.deleteComment)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(mw.RequireAuth)
			r.Get("/{id}", a.getUser)
			r.Patch("/{id}", a.updateUser)
			r.Post("/change-password", a.changePassword)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)
				r.Get("/", a.listUsers)
				r.Patch("/{id}/role", a.updateUserRole)
				r.Delete("/{id}", a.deleteUser)
			})
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(mw.RequireAuth)
			r.Post("/upload", a.uploadMedia)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)
				r.Get("/", a.listMedia)
				r.Post("/", a.createMedia)
				r.Post("/move-temp", a.moveTempImages)
			})
		})

		r.With(mw.RequireAuth, mw.RequireAdmin).Get("/dashboard", a.dashboard)
	})

	return r
}
