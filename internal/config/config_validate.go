// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateSMTP(); err != nil {
		return err
	}

	if err := c.validateGeo(); err != nil {
		return err
	}

	if err := c.validateExport(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production', got %q", c.Server.Environment)
	}

	if c.Server.FrontendURL != "" {
		if err := validateHTTPURL(c.Server.FrontendURL, "FRONTEND_URL"); err != nil {
			return err
		}
	}

	if c.Server.PublicURL != "" {
		if err := validateHTTPURL(c.Server.PublicURL, "PUBLIC_URL"); err != nil {
			return err
		}
	}

	return nil
}

// validateDatabase validates catalog database configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required (use :memory: for an in-memory catalog)")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS cannot be negative")
	}
	return nil
}

// validateAPI validates pagination configuration
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) cannot be smaller than API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

// validateSecurity validates authentication configuration
func (c *Config) validateSecurity() error {
	if c.Server.IsProduction() {
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when ENVIRONMENT=production")
		}
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production (got %d)",
				len(c.Security.JWTSecret))
		}
		if c.Security.RateLimitDisabled {
			return fmt.Errorf("DISABLE_RATE_LIMIT cannot be set when ENVIRONMENT=production")
		}
	}

	if c.Security.TokenExpiry <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY must be positive")
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Security.BcryptCost)
	}

	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}

	// A seeded admin account must satisfy the strict password policy.
	if c.Security.AdminPassword != "" {
		policy := DefaultPasswordPolicy()
		if err := policy.ValidateWithError(c.Security.AdminPassword, c.Security.AdminNickname); err != nil {
			return fmt.Errorf("ADMIN_PASSWORD rejected: %w", err)
		}
	}

	role := c.Security.Casbin.DefaultRole
	if role != "admin" && role != "contributor" && role != "user" {
		return fmt.Errorf("CASBIN_DEFAULT_ROLE must be admin, contributor, or user, got %q", role)
	}

	return nil
}

// validateSMTP validates outbound mail configuration (only if configured)
func (c *Config) validateSMTP() error {
	if !c.SMTP.Configured() {
		return nil // Mail is optional - delivery is skipped when unconfigured
	}

	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", c.SMTP.Port)
	}

	if c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP credentials are set")
	}

	if !strings.Contains(c.SMTP.From, "@") {
		return fmt.Errorf("SMTP_FROM must be an email address, got %q", c.SMTP.From)
	}

	if c.Server.FrontendURL == "" {
		return fmt.Errorf("FRONTEND_URL is required when SMTP is configured (used in password reset links)")
	}

	return nil
}

// validateGeo validates shop geolocation configuration
func (c *Config) validateGeo() error {
	if c.Geo.OverpassURL == "" {
		return fmt.Errorf("OVERPASS_URL is required")
	}

	parsed, err := url.Parse(c.Geo.OverpassURL)
	if err != nil {
		return fmt.Errorf("OVERPASS_URL failed to parse: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("OVERPASS_URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("OVERPASS_URL host is required")
	}

	if c.Geo.SearchRadiusM < 1 {
		return fmt.Errorf("SHOP_SEARCH_RADIUS must be at least 1 meter")
	}

	if c.Geo.Timeout <= 0 {
		return fmt.Errorf("OVERPASS_TIMEOUT must be positive")
	}

	return nil
}

// validateExport validates mobile export configuration (only if enabled)
func (c *Config) validateExport() error {
	if !c.Export.Enabled {
		return nil
	}

	if c.Export.Dir == "" {
		return fmt.Errorf("EXPORT_DIR is required when EXPORT_ENABLED=true")
	}

	if c.Export.Interval < 1 {
		return fmt.Errorf("EXPORT_INTERVAL must be positive")
	}

	return nil
}

// validateEvents validates scan ingest pipeline configuration (only if enabled)
func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}

	if !c.Events.EmbeddedServer {
		if err := validateNATSURL(c.Events.URL); err != nil {
			return err
		}
	}

	if c.Events.EmbeddedServer && c.Events.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
	}

	if c.Events.StreamRetentionDays < 1 {
		return fmt.Errorf("NATS_RETENTION_DAYS must be at least 1")
	}

	if c.Events.SubscribersCount < 1 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be at least 1")
	}

	if c.Events.DurableName == "" {
		return fmt.Errorf("NATS_DURABLE_NAME is required when NATS_ENABLED=true")
	}

	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "warning": true, "error": true, "fatal": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal; got %q",
			c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}

	return nil
}

// validateHTTPURL validates that a URL is properly formatted for HTTP/HTTPS services.
// Validates: scheme (http/https), host present, no paths or query params.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	// Allow trailing slash but no other paths
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted.
// Supports nats://, tls://, and ws:// schemes with hostnames and optional ports.
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("NATS_URL failed to parse: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("NATS_URL scheme must be nats, tls, ws, or wss; got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("NATS_URL host is required")
	}

	return nil
}
