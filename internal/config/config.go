// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
// Provides centralized configuration management for all application components including
// the catalog database, HTTP server, authentication, shop geolocation, mobile
// exports, the scan ingest pipeline, and logging.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Server.Port, cfg.Database.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	SMTP     SMTPConfig     `koanf:"smtp"`     // Optional: outbound mail for password resets and brand contact
	Uploads  UploadsConfig  `koanf:"uploads"`  // Brand logo storage
	Geo      GeoConfig      `koanf:"geo"`      // Overpass shop lookup and geocode cache
	Export   ExportConfig   `koanf:"export"`   // Mobile SQLite export artifacts
	Events   EventsConfig   `koanf:"events"`   // Scan ingest pipeline with Watermill/NATS JetStream
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int           `koanf:"port"`         // HTTP listen port
	Host        string        `koanf:"host"`         // Bind address
	Timeout     time.Duration `koanf:"timeout"`      // Read/write timeout for the HTTP server
	Environment string        `koanf:"environment"`  // development or production
	FrontendURL string        `koanf:"frontend_url"` // Public frontend base URL, used in password reset links
	PublicURL   string        `koanf:"public_url"`   // Public API base URL, used in absolute links (logos, swagger)
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction returns true when the server runs in production mode.
// Production mode enforces stricter validation (JWT secret required,
// rate limiting cannot be disabled).
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig holds the embedded DuckDB catalog configuration.
type DatabaseConfig struct {
	Path         string `koanf:"path"`           // DuckDB file path; empty or :memory: for in-memory
	MaxMemory    string `koanf:"max_memory"`     // DuckDB memory limit (e.g. "2GB")
	Threads      int    `koanf:"threads"`        // DuckDB thread count; 0 = runtime.NumCPU()
	SeedDemoData bool   `koanf:"seed_demo_data"` // Populate the catalog with demo products on startup
}

// APIConfig holds pagination limits for list endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"` // Page size when the client omits one
	MaxPageSize     int `koanf:"max_page_size"`     // Hard cap on client-requested page sizes
}

// SecurityConfig holds authentication and authorization configuration.
type SecurityConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`     // HMAC secret for access tokens; required in production
	TokenExpiry   time.Duration `koanf:"token_expiry"`   // Access token lifetime
	BcryptCost    int           `koanf:"bcrypt_cost"`    // bcrypt work factor for password hashing
	AdminNickname string        `koanf:"admin_nickname"` // Bootstrap admin account nickname (seeded at first start)
	AdminEmail    string        `koanf:"admin_email"`    // Bootstrap admin account email
	AdminPassword string        `koanf:"admin_password"` // Bootstrap admin account password

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`    // Requests allowed per window per client IP
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`  // Rate limit window
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`    // Allowed CORS origins
	TrustedProxies []string `koanf:"trusted_proxies"` // Proxies allowed to set X-Forwarded-For

	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig holds role-based access control configuration.
// When ModelPath or PolicyPath are empty, the embedded model and policy
// for the admin/contributor/user role split are used.
type CasbinConfig struct {
	ModelPath   string `koanf:"model_path"`
	PolicyPath  string `koanf:"policy_path"`
	DefaultRole string `koanf:"default_role"` // Role granted to newly registered users
}

// SMTPConfig holds outbound mail configuration.
// When Host or Username are empty, mail delivery is skipped and a warning
// is logged instead; API operations still succeed.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`      // 465 for implicit TLS, otherwise STARTTLS is attempted
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`      // Sender address
	FromName string `koanf:"from_name"` // Sender display name
}

// Configured returns true when enough settings are present to send mail.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

// UploadsConfig holds file upload configuration for brand logos.
type UploadsConfig struct {
	Dir     string `koanf:"dir"`      // Root directory for uploaded files
	MaxSize int64  `koanf:"max_size"` // Maximum upload size in bytes
}

// GeoConfig holds shop geolocation configuration.
// Nearby shop discovery queries the Overpass API behind a circuit breaker,
// with responses cached in a local Badger store.
type GeoConfig struct {
	OverpassURL   string        `koanf:"overpass_url"`   // Overpass interpreter endpoint
	Timeout       time.Duration `koanf:"timeout"`        // HTTP timeout per Overpass request
	SearchRadiusM int           `koanf:"search_radius_m"` // Shop search radius in meters
	UserAgent     string        `koanf:"user_agent"`     // User-Agent sent to Overpass

	CacheDir string        `koanf:"cache_dir"` // Badger cache directory; empty disables the cache
	CacheTTL time.Duration `koanf:"cache_ttl"` // Lifetime of cached Overpass responses

	BreakerMaxFailures  uint32        `koanf:"breaker_max_failures"`  // Consecutive failures before the breaker opens
	BreakerResetTimeout time.Duration `koanf:"breaker_reset_timeout"` // Open state duration before a probe request
}

// ExportConfig holds mobile export artifact configuration.
// Exports are SQLite files consumed offline by the mobile apps.
type ExportConfig struct {
	Enabled   bool          `koanf:"enabled"`    // Enable the periodic export scheduler
	Dir       string        `koanf:"dir"`        // Directory for generated artifacts
	Interval  time.Duration `koanf:"interval"`   // Time between scheduled export runs
	OnStartup bool          `koanf:"on_startup"` // Run one export pass immediately at startup
}

// EventsConfig holds the scan ingest pipeline configuration.
// When enabled, scan events are published to a NATS JetStream stream and
// persisted by a consumer; when disabled, scans are persisted synchronously
// in the HTTP handler.
type EventsConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`             // NATS server URL
	EmbeddedServer bool   `koanf:"embedded_server"` // Run an in-process NATS server
	StoreDir       string `koanf:"store_dir"`       // JetStream storage directory
	MaxMemory      int64  `koanf:"max_memory"`      // JetStream memory limit in bytes
	MaxStore       int64  `koanf:"max_store"`       // JetStream disk limit in bytes

	StreamRetentionDays int    `koanf:"stream_retention_days"` // Scan stream retention
	DurableName         string `koanf:"durable_name"`          // Durable consumer name
	QueueGroup          string `koanf:"queue_group"`           // Queue group for consumer instances
	SubscribersCount    int    `koanf:"subscribers_count"`     // Parallel consumers
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"` // Include caller file:line
}
