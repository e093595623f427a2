// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"closet/internal/render"
	"closet/internal/services/category"
	"closet/internal/session"
	"closet/internal/store"
)

// Garments groups the garment list handlers.
type Garments struct {
	pages
	garments   *store.GarmentStore
	categories *category.Service
}

// NewGarments creates a new Garments handler group.
func NewGarments(renderer *render.Renderer, sessions *session.Store, garments *store.GarmentStore, categories *category.Service) *Garments {
	return &Garments{
		pages:      pages{renderer: renderer, sessions: sessions},
		garments:   garments,
		categories: categories,
	}
}

// Index lists garments, newest first, next to the category forest.
func (g *Garments) Index(w http.ResponseWriter, r *http.Request) {
	items, err := g.garments.ListRecent(r.Context())
	if err != nil {
		g.unavailable(w, r, err)
		return
	}
	forest, err := g.categories.Forest(r.Context())
	if err != nil {
		g.unavailable(w, r, err)
		return
	}

	g.page(w, r, http.StatusOK, "garments", &render.PageData{
		Title: "Garments",
		Data: map[string]any{
			"Garments": items,
			"Forest":   forest,
		},
	})
}

// Add stores a new garment from the form on the garment list.
func (g *Garments) Add(w http.ResponseWriter, r *http.Request) {
	description := r.PostFormValue("description")
	if msg := validateGarment(description); msg != "" {
		g.flash(w, r, session.FlashWarning, msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	garment, err := g.garments.Create(r.Context(), strings.TrimSpace(description))
	if err != nil {
		g.unavailable(w, r, err)
		return
	}

	slog.Info("garment created", "id", garment.ID)
	g.flash(w, r, session.FlashSuccess, "New garment was successfully added")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
