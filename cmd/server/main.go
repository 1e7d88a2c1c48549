// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

// Package main is the entry point for the KidsAdvisor server application.
//
// KidsAdvisor is a family-events platform: an authenticated REST API over an
// embedded Badger store with a hybrid recommendation engine (TF-IDF content
// similarity blended with user-based collaborative filtering) and a
// gamification layer (XP, levels, badges, leaderboard).
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, environment variables (Koanf v2)
//  2. Logging: global zerolog logger (json or console format)
//  3. Store: embedded BadgerDB document store with value-log GC worker
//  4. Services: recommendation engine and gamification service
//  5. Authentication: JWT manager (HS256) and bcrypt password hashing
//  6. HTTP Server: Chi router with versioned /api/v1 routes and /metrics
//  7. Supervisor: suture tree running the HTTP server and the GC worker
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins): environment variables, config.yaml, built-in defaults. JWT_SECRET is
// required; production mode additionally requires a 32+ character secret.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests up to the configured
// shutdown timeout, and closes the store.
//
// # Example Usage
//
// Development with an in-memory store:
//
//	export JWT_SECRET=dev-secret
//	export STORE_IN_MEMORY=true
//	export LOG_FORMAT=console
//	./kidsadvisor
//
// Production:
//
//	export ENVIRONMENT=production
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export STORE_PATH=/data/kidsadvisor
//	./kidsadvisor
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kidsadvisor/kidsadvisor/internal/api"
	"github.com/kidsadvisor/kidsadvisor/internal/auth"
	"github.com/kidsadvisor/kidsadvisor/internal/config"
	"github.com/kidsadvisor/kidsadvisor/internal/gamification"
	"github.com/kidsadvisor/kidsadvisor/internal/logging"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
	"github.com/kidsadvisor/kidsadvisor/internal/store"
	"github.com/kidsadvisor/kidsadvisor/internal/supervisor"
	"github.com/kidsadvisor/kidsadvisor/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("store_path", cfg.Store.Path).
		Bool("store_in_memory", cfg.Store.InMemory).
		Msg("Starting KidsAdvisor")

	st, err := store.Open(cfg.Store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Msg("Store opened successfully")

	recommender, err := recommend.NewService(st, recommend.ServiceConfig{
		ContentWeight:       cfg.Recommend.ContentWeight,
		CollaborativeWeight: cfg.Recommend.CollaborativeWeight,
		DefaultLimit:        cfg.Recommend.DefaultLimit,
		Neighbors:           cfg.Recommend.Neighbors,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation service")
	}

	game := gamification.NewService(st, logging.Logger())

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create JWT manager")
	}

	handlers := api.NewHandlers(st, recommender, game, jwtManager, *cfg, logging.Logger())
	chiMw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handlers, chiMw)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	treeCfg := supervisor.DefaultTreeConfig()
	if cfg.Server.ShutdownTimeout > 0 {
		treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	tree := supervisor.NewTree(slogLogger, treeCfg)

	tree.AddStoreService(services.NewStoreGCService(st, cfg.Store.GCInterval, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, treeCfg.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
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

	// Wait for the error channel to close (supervisor finished)
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
