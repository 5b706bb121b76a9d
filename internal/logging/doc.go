// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package logging provides centralized zerolog-based structured logging for Leafbase.
//
// The package wraps a single global zerolog logger behind a small API:
// JSON output for production, human-readable console output for
// development, and context-aware helpers that stamp request and
// correlation IDs onto every line.
//
// # Quick Start
//
//	import "github.com/mverdier/leafbase/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("ean", ean).Msg("Product created")
//	logging.Error().Err(err).Int("code", 500).Msg("Request failed")
//
//	// Context-aware logging (request_id and correlation_id added automatically)
//	logging.Ctx(ctx).Info().Msg("Processing scan")
//
// # Log Levels
//
// Supported levels, from most to least verbose: trace, debug, info
// (default), warn, error, fatal.
//
// # Component Loggers
//
// Create component-specific child loggers with default fields:
//
//	geoLogger := logging.WithComponent("geo")
//	geoLogger.Info().Msg("Overpass lookup started")
//
// # Specialized Loggers
//
// SecurityLogger records authentication and authorization events with
// automatic sanitization of nicknames, emails, and tokens. EventLogger
// records scan ingest pipeline stages with the scan UUID on every line.
//
// # slog Adapter
//
// NewSlogLogger returns an slog.Logger backed by zerolog for libraries
// that require slog, such as the sutureslog supervisor handler.
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
package logging
