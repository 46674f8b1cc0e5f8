// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package main is the entry point for the My Library server.
//
// My Library is a self-hosted personal book tracker: a JSON file holds the
// owner's library and wishlist, a REST API serves the shelves with
// filtering, sorting, and recommendations, and a WebSocket pushes changes
// to open browser tabs.
//
// # Application Architecture
//
// The server initializes components in this order:
//
//  1. Configuration: Koanf v2 layered load (defaults, YAML file, env vars)
//  2. Store: the JSON database file, created if missing
//  3. Recommendation engine and browse pipeline
//  4. WebSocket hub for real-time updates
//  5. Authentication: optional password login gating writes
//  6. HTTP server: REST API plus the static frontend
//
// The WebSocket hub and HTTP server run under a suture supervision tree
// and are restarted on failure.
//
// # Configuration
//
// Environment variables use the LIBRARY_ prefix and override the config
// file, e.g.:
//
//	export LIBRARY_SERVER_PORT=3000
//	export LIBRARY_STORE_PATH=/data/database.json
//	export LIBRARY_AUTH_ENABLED=true
//	export LIBRARY_AUTH_PASSWORD_HASH='$2a$10$...'
//	export LIBRARY_AUTH_JWT_SECRET=$(openssl rand -base64 32)
//	./my-library
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops accepting
// connections, waits for in-flight requests, and flushes the store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stratonov777/my-library/internal/api"
	"github.com/stratonov777/my-library/internal/auth"
	"github.com/stratonov777/my-library/internal/backup"
	"github.com/stratonov777/my-library/internal/config"
	"github.com/stratonov777/my-library/internal/logging"
	"github.com/stratonov777/my-library/internal/pipeline"
	"github.com/stratonov777/my-library/internal/recommend"
	"github.com/stratonov777/my-library/internal/store"
	"github.com/stratonov777/my-library/internal/supervisor"
	"github.com/stratonov777/my-library/internal/supervisor/services"
	ws "github.com/stratonov777/my-library/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; config is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Bool("auth_enabled", cfg.Auth.Enabled).
		Str("lang", cfg.Browse.Lang).
		Msg("Configuration loaded")

	s, err := store.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open store")
	}
	logging.Info().Msg("Store opened")

	authMgr, err := auth.NewManager(cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}
	if !cfg.Auth.Enabled {
		logging.Warn().Msg("Authentication is DISABLED; anyone who can reach the server can edit the library")
	}

	engine := recommend.NewEngine(cfg.Recommend, logging.Logger())
	pipe := pipeline.New(cfg.Browse.Lang, logging.Logger())
	hub := ws.NewHub()

	handlers := api.NewHandlers(s, engine, pipe, hub, authMgr)
	mw := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	router := api.NewRouter(handlers, mw, authMgr, cfg.Server.StaticDir)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	if cfg.Backup.Enabled {
		backupMgr, err := backup.NewManager(cfg.Store.Path, cfg.Backup, logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize backups")
		}
		tree.AddMessagingService(backupMgr)
		logging.Info().
			Str("dir", cfg.Backup.Dir).
			Dur("interval", cfg.Backup.Interval).
			Msg("Scheduled backups enabled")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
