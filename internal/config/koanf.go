// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/leafbase/config.yaml",
	"/etc/leafbase/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
			FrontendURL: "",
			PublicURL:   "",
		},
		Database: DatabaseConfig{
			Path:         "/data/leafbase.duckdb",
			MaxMemory:    "2GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			SeedDemoData: false,
		},
		API: APIConfig{
			DefaultPageSize: 5,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenExpiry:       8 * 24 * time.Hour,
			BcryptCost:        12,
			AdminNickname:     "admin",
			AdminEmail:        "",
			AdminPassword:     "",
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
			Casbin: CasbinConfig{
				ModelPath:   "",
				PolicyPath:  "",
				DefaultRole: "user",
			},
		},
		SMTP: SMTPConfig{
			Host:     "",
			Port:     587,
			Username: "",
			Password: "",
			From:     "",
			FromName: "Leafbase",
		},
		Uploads: UploadsConfig{
			Dir:     "/data/uploads",
			MaxSize: 5 << 20, // 5MB
		},
		Geo: GeoConfig{
			OverpassURL:         "https://overpass.kumi.systems/api/interpreter",
			Timeout:             20 * time.Second,
			SearchRadiusM:       100,
			UserAgent:           "leafbase/1.0 (+https://github.com/mverdier/leafbase)",
			CacheDir:            "/data/geocache",
			CacheTTL:            24 * time.Hour,
			BreakerMaxFailures:  5,
			BreakerResetTimeout: 60 * time.Second,
		},
		Export: ExportConfig{
			Enabled:   false, // Disabled by default - opt-in only
			Dir:       "/data/exports",
			Interval:  24 * time.Hour,
			OnStartup: false,
		},
		Events: EventsConfig{
			Enabled:             true,
			URL:                 "nats://127.0.0.1:4222",
			EmbeddedServer:      true,
			StoreDir:            "/data/nats/jetstream",
			MaxMemory:           1 << 30,  // 1GB
			MaxStore:            10 << 30, // 10GB
			StreamRetentionDays: 30,
			DurableName:         "scan-processor",
			QueueGroup:          "scan-consumers",
			SubscribersCount:    2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - JWT_SECRET -> security.jwt_secret
//   - SMTP_HOST -> smtp.host
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",
		"frontend_url": "server.frontend_url",
		"public_url":   "server.public_url",

		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",
		"seed_demo_data":    "database.seed_demo_data",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Security mappings
		"jwt_secret":          "security.jwt_secret",
		"token_expiry":        "security.token_expiry",
		"bcrypt_cost":         "security.bcrypt_cost",
		"admin_nickname":      "security.admin_nickname",
		"admin_email":         "security.admin_email",
		"admin_password":      "security.admin_password",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",

		// Casbin mappings
		"casbin_model_path":   "security.casbin.model_path",
		"casbin_policy_path":  "security.casbin.policy_path",
		"casbin_default_role": "security.casbin.default_role",

		// SMTP mappings
		"smtp_host":      "smtp.host",
		"smtp_port":      "smtp.port",
		"smtp_username":  "smtp.username",
		"smtp_password":  "smtp.password",
		"smtp_from":      "smtp.from",
		"smtp_from_name": "smtp.from_name",

		// Uploads mappings
		"upload_dir":      "uploads.dir",
		"upload_max_size": "uploads.max_size",

		// Geo mappings
		"overpass_url":             "geo.overpass_url",
		"overpass_timeout":         "geo.timeout",
		"shop_search_radius":       "geo.search_radius_m",
		"geo_user_agent":           "geo.user_agent",
		"geo_cache_dir":            "geo.cache_dir",
		"geo_cache_ttl":            "geo.cache_ttl",
		"geo_breaker_max_failures": "geo.breaker_max_failures",
		"geo_breaker_reset":        "geo.breaker_reset_timeout",

		// Export mappings
		"export_enabled":    "export.enabled",
		"export_dir":        "export.dir",
		"export_interval":   "export.interval",
		"export_on_startup": "export.on_startup",

		// Events (NATS) mappings
		"nats_enabled":        "events.enabled",
		"nats_url":            "events.url",
		"nats_embedded":       "events.embedded_server",
		"nats_store_dir":      "events.store_dir",
		"nats_max_memory":     "events.max_memory",
		"nats_max_store":      "events.max_store",
		"nats_retention_days": "events.stream_retention_days",
		"nats_durable_name":   "events.durable_name",
		"nats_queue_group":    "events.queue_group",
		"nats_subscribers":    "events.subscribers_count",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for mutex protection when accessing
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
