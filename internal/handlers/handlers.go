// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the closet site.
// Handlers are grouped by area (Auth, Garments, Categories, Health) and
// share the page helpers defined here.
package handlers

import (
	"log/slog"
	"net/http"

	"closet/internal/middleware"
	"closet/internal/render"
	"closet/internal/session"
)

// pages bundles the renderer and session store every HTML handler group
// needs.
type pages struct {
	renderer *render.Renderer
	sessions *session.Store
}

// page renders a template after moving queued flashes from the session
// into the page. The emptied session is saved before the response is
// written.
func (p pages) page(w http.ResponseWriter, r *http.Request, status int, name string, data *render.PageData) {
	if data == nil {
		data = &render.PageData{}
	}
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && len(sess.Flashes) > 0 {
		data.Flashes = append(sess.PopFlashes(), data.Flashes...)
		if err := p.sessions.Save(r.Context(), w, r, sess); err != nil {
			slog.Warn("session save failed", "error", err, "request_id", middleware.RequestIDFromCtx(r.Context()))
		}
	}
	p.renderer.Page(w, r, status, name, data)
}

// flash queues a message for the next rendered page, creating a session
// for anonymous visitors.
func (p pages) flash(w http.ResponseWriter, r *http.Request, level, message string) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		sess = &session.Data{}
	}
	sess.AddFlash(level, message)
	if err := p.sessions.Save(r.Context(), w, r, sess); err != nil {
		slog.Warn("flash save failed", "error", err, "request_id", middleware.RequestIDFromCtx(r.Context()))
	}
}

// errorPage renders the generic error template.
func (p pages) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	p.page(w, r, status, "error", &render.PageData{
		Title: http.StatusText(status),
		Data:  map[string]any{"Message": message},
	})
}

// unavailable renders the 503 page after logging the storage failure.
func (p pages) unavailable(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("storage unavailable", "error", err, "path", r.URL.Path, "request_id", middleware.RequestIDFromCtx(r.Context()))
	p.errorPage(w, r, http.StatusServiceUnavailable, "The closet is temporarily unavailable. Please try again later.")
}
