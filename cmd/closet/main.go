// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the closet server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"closet/internal/cache"
	"closet/internal/config"
	"closet/internal/database"
	"closet/internal/handlers"
	"closet/internal/middleware"
	"closet/internal/render"
	"closet/internal/router"
	"closet/internal/services/category"
	"closet/internal/session"
	"closet/internal/store"
)

// Login attempts allowed per client IP: a burst of five, then one more
// every twelve seconds.
const (
	loginBurst    = 5
	loginInterval = 12 * time.Second
)

func main() {
	// Load configuration from environment variables and .env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"db_driver", cfg.DBDriver,
	)

	// Connect to the catalog database.
	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		slog.Error("invalid database driver", "error", err)
		os.Exit(1)
	}
	dsn := cfg.DSN()
	if dialect == database.SQLite {
		dsn = database.SQLiteDSN(dsn)
	}
	db, err := database.Connect(dialect, dsn)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db, dialect); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	checks := map[string]handlers.Check{"database": db.PingContext}

	// Sessions live in Valkey. Development falls back to process memory
	// when Valkey is not running.
	secureCookies := !cfg.IsDev()
	var sessionStore *session.Store
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	switch {
	case err == nil:
		defer valkeyClient.Close()
		sessionStore = session.NewStore(valkeyClient, secureCookies, cfg.SecretKey)
		checks["valkey"] = func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() }
	case cfg.IsDev():
		slog.Warn("valkey unavailable, keeping sessions in memory", "error", err)
		sessionStore = session.NewMemoryStore(secureCookies, cfg.SecretKey)
	default:
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}

	// Initialize the HTML template renderer.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores and the category service.
	categoryStore := store.NewCategoryStore(db, dialect)
	garmentStore := store.NewGarmentStore(db, dialect)
	categoryService := category.NewService(categoryStore, logger)

	loginLimiter := middleware.NewRateLimiter(loginBurst, loginInterval)
	defer loginLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, loginLimiter, secureCookies, router.Handlers{
		Auth:       handlers.NewAuth(renderer, sessionStore, handlers.Credentials{Username: cfg.Username, Password: cfg.Password}),
		Garments:   handlers.NewGarments(renderer, sessionStore, garmentStore, categoryService),
		Categories: handlers.NewCategories(renderer, sessionStore, categoryService),
		Health:     handlers.NewHealth(checks),
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
