// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

// Package main is the entry point for the Vitrina server.
//
// Vitrina is a product catalog backend that serves content-based
// recommendations (TF-IDF cosine similarity over product features) together
// with user registration and token login.
//
// # Application Architecture
//
// The server initializes components in this order:
//
//  1. Configuration: defaults, optional config.yaml, environment variables (Koanf v2)
//  2. Database: DuckDB catalog and accounts store, optional seed data
//  3. Model store and recommendation engine
//  4. Authentication: JWT manager for login tokens
//  5. HTTP router: recommendation, retrain, and account endpoints
//  6. Supervisor tree: training pipeline and HTTP server under suture
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (HTTP_PORT, DUCKDB_PATH, JWT_SECRET, MODEL_PATH, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// JWT_SECRET must be at least 32 characters.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops accepting
// connections, in-flight requests get 10 seconds to drain, then the
// database is closed.
//
// # Example Usage
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export DUCKDB_PATH=/data/vitrina.duckdb
//	export MODEL_PATH=/data/model/recommender.gob.gz
//	export RECOMMEND_TRAIN_ON_STARTUP=true
//	./vitrina
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/vitrina/internal/api"
	"github.com/tomtom215/vitrina/internal/auth"
	"github.com/tomtom215/vitrina/internal/config"
	"github.com/tomtom215/vitrina/internal/database"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/recommend"
	"github.com/tomtom215/vitrina/internal/recommend/storage"
	"github.com/tomtom215/vitrina/internal/supervisor"
	"github.com/tomtom215/vitrina/internal/supervisor/services"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("model_path", cfg.Recommend.ModelPath).
		Str("addr", cfg.Server.Addr()).
		Msg("Configuration loaded")

	// Database
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Model store and recommendation engine
	store, err := storage.NewStore(cfg.Recommend.ModelPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize model store")
	}
	engine := recommend.NewEngine(db, store, logging.Logger())

	// Authentication
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	// HTTP surface
	handler := api.NewHandler(engine, db, db, jwtManager, cfg.Recommend.TopN)
	router := api.NewRouter(handler, &api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.RecordAppInfo(version)
	go metrics.TrackUptime(ctx, 15*time.Second)

	// Supervisor tree: zerolog bridged to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddPipelineService(services.NewTrainService(engine, services.TrainServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
	}, logging.Logger()))

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
