// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package config provides centralized configuration management for Leafbase.

This package handles loading, validation, and parsing of configuration for
all application components. It ensures consistent configuration across the
backend services and provides sensible defaults for optional settings.

# Configuration Sources

Configuration is loaded through Koanf v2 in three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML config file (config.yaml, or CONFIG_PATH)
 3. Environment variables

# Configuration Structure

The package organizes configuration into logical groups:

  - ServerConfig: HTTP server settings (host, port, timeout, environment)
  - DatabaseConfig: DuckDB catalog database path and tuning
  - APIConfig: Pagination bounds for list endpoints
  - SecurityConfig: JWT, bcrypt, admin bootstrap, rate limiting, Casbin roles
  - SMTPConfig: Outbound mail for password resets and notifications
  - UploadsConfig: Brand logo upload directory and size cap
  - GeoConfig: Overpass shop lookup, geocode cache, circuit breaker
  - ExportConfig: Mobile SQLite export artifacts
  - EventsConfig: NATS JetStream scan ingest pipeline
  - LoggingConfig: Log level and output format

# Environment Variables

Commonly used variables by component:

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8000)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development or production (default: development)
  - FRONTEND_URL: Base URL of the web frontend, used in reset links
  - PUBLIC_URL: Base URL of this API, used in absolute logo URLs

Catalog Database (DatabaseConfig):
  - DUCKDB_PATH: Database file path (default: /data/leafbase.duckdb)
  - DUCKDB_MAX_MEMORY: Memory limit (default: 2GB)
  - DUCKDB_THREADS: Thread count (default: CPU count)
  - SEED_DEMO_DATA: Seed a small demo catalog on empty databases

Authentication (SecurityConfig):
  - JWT_SECRET: JWT signing secret (min 32 chars, required in production)
  - TOKEN_EXPIRY: Access token lifetime (default: 192h)
  - BCRYPT_COST: Password hash cost (default: 12)
  - ADMIN_NICKNAME / ADMIN_EMAIL / ADMIN_PASSWORD: Bootstrap admin account
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Request rate limiting
  - DISABLE_RATE_LIMIT: Development only, rejected in production
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - CASBIN_DEFAULT_ROLE: Role granted to self-registered users

Mail (SMTPConfig):
  - SMTP_HOST / SMTP_PORT / SMTP_USERNAME / SMTP_PASSWORD
  - SMTP_FROM / SMTP_FROM_NAME: Sender identity
    Mail delivery is skipped entirely while SMTP is unconfigured.

Shop Geolocation (GeoConfig):
  - OVERPASS_URL: Overpass API interpreter endpoint
  - OVERPASS_TIMEOUT: Query timeout (default: 20s)
  - SHOP_SEARCH_RADIUS: Nearby shop radius in meters (default: 100)
  - GEO_CACHE_DIR / GEO_CACHE_TTL: On-disk geocode cache

Mobile Exports (ExportConfig):
  - EXPORT_ENABLED / EXPORT_DIR / EXPORT_INTERVAL / EXPORT_ON_STARTUP

Scan Ingest (EventsConfig):
  - NATS_ENABLED: Enable the JetStream pipeline (default: true)
  - NATS_EMBEDDED: Run an embedded NATS server (default: true)
  - NATS_URL: External broker URL when not embedded
  - NATS_STORE_DIR / NATS_MAX_MEMORY / NATS_MAX_STORE: JetStream storage
  - NATS_RETENTION_DAYS / NATS_DURABLE_NAME / NATS_SUBSCRIBERS

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error, fatal (default: info)
  - LOG_FORMAT: json or console (default: json)

# Usage Example

Basic configuration loading:

	import "github.com/mverdier/leafbase/internal/config"

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Starting server on %s\n", cfg.Server.Addr())
	fmt.Printf("Catalog database: %s\n", cfg.Database.Path)

# Validation

Load performs validation after unmarshalling and fails fast on bad input:

  - ENVIRONMENT must be development or production
  - Production requires JWT_SECRET (32+ chars) and active rate limiting
  - ADMIN_PASSWORD, when set, must satisfy the strict password policy
  - SMTP, when configured, requires SMTP_FROM and FRONTEND_URL
  - OVERPASS_URL must be a bare http(s) base URL
  - NATS_URL must use a nats, tls, ws, or wss scheme when not embedded

Validation errors name the environment variable to fix, not the struct field.

# Thread Safety

The Config struct is immutable after Load() returns, making it safe for
concurrent access from multiple goroutines without synchronization.
*/
package config
