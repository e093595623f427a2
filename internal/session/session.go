// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides HTTP session management.
// Sessions are identified by a signed cookie and stored as JSON in Valkey
// (or process memory during development) with automatic TTL expiry.
// Anonymous visitors get a session as soon as a flash message has to
// outlive a redirect.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "closet_session"

	// DefaultTTL is how long a session lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Flash levels, used as CSS classes by the templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Data holds the session payload stored in Valkey.
type Data struct {
	Username  string    `json:"username,omitempty"`
	LoggedIn  bool      `json:"logged_in"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddFlash queues a message for the next page.
func (d *Data) AddFlash(level, message string) {
	d.Flashes = append(d.Flashes, Flash{Level: level, Message: message})
}

// PopFlashes returns and clears the queued messages.
func (d *Data) PopFlashes() []Flash {
	f := d.Flashes
	d.Flashes = nil
	return f
}

// backend persists encoded session payloads by ID.
type backend interface {
	load(ctx context.Context, id string) ([]byte, bool, error)
	store(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	exists(ctx context.Context, id string) (bool, error)
	remove(ctx context.Context, id string) error
}

// Store manages the session lifecycle on top of a backend.
type Store struct {
	backend backend
	ttl     time.Duration
	secure  bool
	secret  []byte
}

func newStore(b backend, secure bool, secret string) *Store {
	return &Store{
		backend: b,
		ttl:     DefaultTTL,
		secure:  secure,
		secret:  []byte(secret),
	}
}

// Create generates a new session, persists it, and sets the session
// cookie on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()
	if err := s.put(ctx, id, data); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data using the session ID from the request
// cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := s.idFromRequest(r)
	if !ok {
		return nil, nil // No cookie or bad signature = no session (not an error)
	}

	payload, found, err := s.backend.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !found {
		return nil, nil // Session expired or doesn't exist
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Update replaces the session data without changing the session ID or
// cookie. Resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id, ok := s.idFromRequest(r)
	if !ok {
		return fmt.Errorf("session update: no cookie")
	}
	return s.put(ctx, id, data)
}

// Save writes data to the request's session, creating one when the
// request does not carry a live session.
func (s *Store) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) error {
	if id, ok := s.idFromRequest(r); ok {
		live, err := s.backend.exists(ctx, id)
		if err != nil {
			return fmt.Errorf("session save: %w", err)
		}
		if live {
			return s.put(ctx, id, data)
		}
	}
	_, err := s.Create(ctx, w, data)
	return err
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := s.idFromRequest(r)
	if !ok {
		return nil // No cookie, nothing to destroy
	}

	if err := s.backend.remove(ctx, id); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

func (s *Store) put(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.backend.store(ctx, id, payload, s.ttl); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// sign returns "id.mac" where mac is the hex HMAC-SHA256 of id.
func (s *Store) sign(id string) string {
	return id + "." + s.mac(id)
}

func (s *Store) mac(id string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}

// idFromRequest returns the session ID from a correctly signed cookie.
func (s *Store) idFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	id, sig, found := strings.Cut(cookie.Value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.mac(id))) {
		return "", false
	}
	return id, true
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
