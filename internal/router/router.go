// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// closet site. Browsing is public; every mutation requires a login.
package router

import (
	"github.com/go-chi/chi/v5"

	"closet/internal/handlers"
	"closet/internal/middleware"
	"closet/internal/session"
)

// Handlers bundles the handler groups the router dispatches to.
type Handlers struct {
	Auth       *handlers.Auth
	Garments   *handlers.Garments
	Categories *handlers.Categories
	Health     *handlers.Health
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginLimiter throttles login attempts;
// secure sets the Secure flag on the CSRF cookie.
func New(sessionStore *session.Store, loginLimiter *middleware.RateLimiter, secure bool, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check: no session, no CSRF.
	r.Get("/health", h.Health.Check)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(secure))
		r.Use(middleware.LoadSession(sessionStore))

		// Public pages.
		r.Get("/", h.Garments.Index)
		r.Get("/login", h.Auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", h.Auth.LoginSubmit)
		r.Get("/logout", h.Auth.Logout)
		r.Get("/categories", h.Categories.List)

		// Mutations require a login.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/add", h.Garments.Add)

			r.Get("/categories/add", h.Categories.AddForm)
			r.Post("/categories/add", h.Categories.Add)
			r.Post("/categories", h.Categories.Add)
			r.Get("/categories/{slug}/edit", h.Categories.EditForm)
			r.Post("/categories/{slug}/edit", h.Categories.Edit)
			r.Get("/categories/{slug}/delete", h.Categories.DeleteConfirm)
			r.Post("/categories/{slug}/delete", h.Categories.Delete)
		})

		r.Get("/categories/{slug}", h.Categories.Show)
	})

	return r
}
