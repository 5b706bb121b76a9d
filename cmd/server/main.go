// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package main is the entry point for the Leafbase server application.
//
// Leafbase is a vegan product catalog and brand scoring API serving the
// mobile apps and the contributor frontend. It exposes a REST API for
// the product catalog, brand scoring, barcode scan ingest with a live
// WebSocket feed, and periodic SQLite exports for offline use.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: load settings from .env, environment variables and
//     config file (koanf v2)
//  2. Database: embedded DuckDB catalog, schema applied on open
//  3. Bootstrap: admin account and optional demo data seeding
//  4. Auth: bcrypt hasher, JWT manager, API key auth, casbin enforcer
//  5. Integrations: SMTP mailer, Overpass geo lookup with Badger cache
//  6. Events: scan hub and the NATS JetStream ingest pipeline
//  7. Exports: SQLite artifact builder and rebuild scheduler
//  8. HTTP server: chi REST API with Swagger documentation
//
// All long-running components run under a suture supervisor tree with
// automatic restart and failure isolation between the events, jobs and
// API layers.
//
// # Configuration
//
// Configuration is loaded via koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (see .env.example)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Minimal production setup:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export ADMIN_EMAIL=admin@example.org
//	export ADMIN_PASSWORD=secure-password
//	export DATABASE_PATH=/data/leafbase.duckdb
//	./leafbase
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Drains the scan pipeline and closes the database
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/mverdier/leafbase/docs" // Import generated swagger docs
	"github.com/mverdier/leafbase/internal/api"
	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/authz"
	"github.com/mverdier/leafbase/internal/cache"
	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/events"
	"github.com/mverdier/leafbase/internal/export"
	"github.com/mverdier/leafbase/internal/files"
	"github.com/mverdier/leafbase/internal/geo"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/mail"
	"github.com/mverdier/leafbase/internal/supervisor"
	"github.com/mverdier/leafbase/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load .env before config so local development matches the compose
	// setup. Missing files are fine, the environment wins either way.
	_ = godotenv.Load()

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

	logging.Info().Str("version", version).Msg("Starting Leafbase")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Bool("events_enabled", cfg.Events.Enabled).
		Bool("export_enabled", cfg.Export.Enabled).
		Msg("Configuration loaded")

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

	// Context for graceful shutdown, canceled on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hasher := auth.NewHasher(cfg.Security.BcryptCost)

	// Bootstrap the admin account before the API accepts requests.
	if cfg.Security.AdminEmail != "" && cfg.Security.AdminPassword != "" {
		adminHash, err := hasher.Hash(cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to hash admin password")
		}
		created, err := db.EnsureAdminUser(ctx, cfg.Security.AdminNickname, cfg.Security.AdminEmail, adminHash)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to ensure admin account")
		}
		if !created {
			logging.Debug().Msg("Admin account already present")
		}
	} else {
		logging.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, no admin account seeded")
	}

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(ctx); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
		logging.Warn().Msg("This should only be used for local development and CI!")
	}

	mailer := mail.NewMailer(&cfg.SMTP, cfg.Server.FrontendURL)
	authService := auth.NewService(db, jwtManager, hasher, mailer)
	authMiddleware := auth.NewMiddleware(authService, &cfg.Security)
	defer authMiddleware.Close()

	enforcer, err := authz.NewEnforcer(&cfg.Security.Casbin)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize casbin enforcer")
	}
	authzMiddleware := authz.NewMiddleware(enforcer)
	logging.Info().Msg("Role policy loaded")

	// Overpass lookups are cached in a local Badger store when a cache
	// directory is configured.
	var geoCache *cache.Store
	if cfg.Geo.CacheDir != "" {
		geoCache, err = cache.Open(cfg.Geo.CacheDir)
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to open geo cache, continuing without")
		} else {
			defer func() {
				if err := geoCache.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing geo cache")
				}
			}()
			geoCache.StartGC(ctx, 10*time.Minute)
		}
	}
	geoClient := geo.NewClient(&cfg.Geo, geoCache)

	hub := events.NewHub()
	pipeline := events.NewPipeline(&cfg.Events, db, hub, geoClient, float64(cfg.Geo.SearchRadiusM))

	exporter := export.NewExporter(db)
	scheduler := export.NewScheduler(exporter, &cfg.Export)

	uploads, err := files.NewStore(&cfg.Uploads)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize upload store")
	}

	handler := api.NewHandler(api.HandlerDeps{
		DB:       db,
		Config:   cfg,
		Auth:     authService,
		Hasher:   hasher,
		Pipeline: pipeline,
		Hub:      hub,
		Exporter: exporter,
		Uploads:  uploads,
		Version:  version,
	})
	router := api.NewRouter(handler, authMiddleware, authzMiddleware, cfg.Uploads.Dir)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog compatibility.
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddEventsService(services.NewHubService(hub))
	tree.AddEventsService(services.NewPipelineService(pipeline, 10*time.Second))
	tree.AddJobService(services.NewExportSchedulerService(scheduler))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
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

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
