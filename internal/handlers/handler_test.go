// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Every test runs against a fresh SQLite database and an in-memory
// session store.
package handlers

import (
	"context"
	"database/sql"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"closet/internal/database"
	"closet/internal/middleware"
	"closet/internal/render"
	"closet/internal/services/category"
	"closet/internal/session"
	"closet/internal/store"
)

type testEnv struct {
	db         *sql.DB
	renderer   *render.Renderer
	sessions   *session.Store
	service    *category.Service
	garments   *store.GarmentStore
	auth       *Auth
	garmentsH  *Garments
	categories *Categories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(database.SQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "closet.db")))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.SQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewMemoryStore(false, "test-secret")
	service := category.NewService(store.NewCategoryStore(db, database.SQLite), nil)
	garments := store.NewGarmentStore(db, database.SQLite)

	return &testEnv{
		db:         db,
		renderer:   renderer,
		sessions:   sessions,
		service:    service,
		garments:   garments,
		auth:       NewAuth(renderer, sessions, Credentials{Username: "admin", Password: "default"}),
		garmentsH:  NewGarments(renderer, sessions, garments, service),
		categories: NewCategories(renderer, sessions, service),
	}
}

// request describes one handler invocation.
type request struct {
	method  string
	target  string
	form    url.Values
	session *session.Data
	params  map[string]string
	cookies []*http.Cookie
}

func (e *testEnv) do(t *testing.T, h http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	method := req.method
	if method == "" {
		method = http.MethodGet
		if req.form != nil {
			method = http.MethodPost
		}
	}
	var r *http.Request
	if req.form != nil {
		r = httptest.NewRequest(method, req.target, strings.NewReader(req.form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, req.target, nil)
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}

	ctx := r.Context()
	if req.session != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, req.session)
	}
	if len(req.params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range req.params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	rr := httptest.NewRecorder()
	h(rr, r.WithContext(ctx))
	return rr
}

// loggedIn returns a fresh logged-in session payload.
func loggedIn() *session.Data {
	return &session.Data{Username: "admin", LoggedIn: true}
}

// sessionAfter loads the session the response cookie points at.
func (e *testEnv) sessionAfter(t *testing.T, rr *httptest.ResponseRecorder) *session.Data {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	data, err := e.sessions.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("session Get: %v", err)
	}
	if data == nil {
		t.Fatal("expected a session after the response")
	}
	return data
}

// flashMessages returns the messages queued in the response's session.
func (e *testEnv) flashMessages(t *testing.T, rr *httptest.ResponseRecorder) []string {
	t.Helper()
	var msgs []string
	for _, f := range e.sessionAfter(t, rr).Flashes {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

func (e *testEnv) addCategory(t *testing.T, name, slug, parent string) {
	t.Helper()
	if _, err := e.service.Add(context.Background(), category.AddParams{Name: name, Slug: slug, Parent: &parent}); err != nil {
		t.Fatalf("Add(%s): %v", slug, err)
	}
}

// body returns the response body with HTML entities decoded.
func body(rr *httptest.ResponseRecorder) string {
	return html.UnescapeString(rr.Body.String())
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, http.StatusSeeOther, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
}
