// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"closet/internal/middleware"
	"closet/internal/render"
	"closet/internal/session"
)

// Credentials is the single account allowed to log in. Password is either
// plain text or a bcrypt hash (recognized by its "$2" prefix).
type Credentials struct {
	Username string
	Password string
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	pages
	creds Credentials
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, creds Credentials) *Auth {
	return &Auth{
		pages: pages{renderer: renderer, sessions: sessions},
		creds: creds,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.IsLoggedIn(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.page(w, r, http.StatusOK, "login", &render.PageData{Title: "Login"})
}

// LoginSubmit processes the login form. The username is checked before
// the password so the flash names the field that was wrong.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	var failure string
	switch {
	case subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) != 1:
		failure = "Invalid username"
	case !a.checkPassword(password):
		failure = "Invalid password"
	}
	if failure != "" {
		slog.Warn("login failed", "username", username, "reason", failure, "request_id", middleware.RequestIDFromCtx(r.Context()))
		a.page(w, r, http.StatusOK, "login", &render.PageData{
			Title:   "Login",
			Flashes: []session.Flash{{Level: session.FlashWarning, Message: failure}},
			Data:    map[string]any{"Username": username},
		})
		return
	}

	// Rotate the session ID on login.
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	data := &session.Data{Username: username, LoggedIn: true}
	data.AddFlash(session.FlashSuccess, "You were logged in")
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("session create failed", "error", err)
		a.unavailable(w, r, err)
		return
	}

	slog.Info("user logged in", "username", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the login and redirects to the garment list.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	data := &session.Data{}
	data.AddFlash(session.FlashInfo, "You were logged out")
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		slog.Warn("session create failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *Auth) checkPassword(password string) bool {
	if strings.HasPrefix(a.creds.Password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(a.creds.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
}
