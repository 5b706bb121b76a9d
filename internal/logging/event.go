// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger provides specialized logging for the scan ingest pipeline.
// The pipeline moves scan events from the HTTP API through the message
// broker to persistence, so every log line carries the scan UUID.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates a logger configured for scan event processing.
func NewEventLogger() *EventLogger {
	return &EventLogger{
		logger: With().Str("component", "events").Logger(),
	}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// WithFields returns a new EventLogger with additional default fields.
func (e *EventLogger) WithFields(fields map[string]interface{}) *EventLogger {
	ctx := e.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &EventLogger{logger: ctx.Logger()}
}

// Debug logs a debug message.
func (e *EventLogger) Debug(msg string, fields ...interface{}) {
	event := e.logger.Debug()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// Info logs an info message.
func (e *EventLogger) Info(msg string, fields ...interface{}) {
	event := e.logger.Info()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// Warn logs a warning message.
func (e *EventLogger) Warn(msg string, fields ...interface{}) {
	event := e.logger.Warn()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// Error logs an error message.
func (e *EventLogger) Error(msg string, fields ...interface{}) {
	event := e.logger.Error()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

// ctxEvent starts an event at the given level with correlation fields
// pulled from the context.
func (e *EventLogger) ctxEvent(ctx context.Context, level zerolog.Level) *zerolog.Event {
	event := e.logger.WithLevel(level)
	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		event = event.Str("correlation_id", correlationID)
	}
	return event
}

// LogScanReceived logs when a scan event enters the pipeline.
func (e *EventLogger) LogScanReceived(ctx context.Context, scanUUID, ean string) {
	e.ctxEvent(ctx, zerolog.InfoLevel).
		Str("scan_uuid", scanUUID).
		Str("ean", ean).
		Msg("scan received")
}

// LogScanPersisted logs when a scan event is written to the catalog.
func (e *EventLogger) LogScanPersisted(ctx context.Context, scanUUID string, scanID int64, durationMs int64) {
	e.ctxEvent(ctx, zerolog.InfoLevel).
		Str("scan_uuid", scanUUID).
		Int64("scan_id", scanID).
		Int64("duration_ms", durationMs).
		Msg("scan persisted")
}

// LogScanFailed logs when scan processing fails.
func (e *EventLogger) LogScanFailed(ctx context.Context, scanUUID string, err error) {
	e.ctxEvent(ctx, zerolog.ErrorLevel).
		Str("scan_uuid", scanUUID).
		Err(err).
		Msg("scan processing failed")
}

// LogDuplicate logs when a duplicate scan event is detected.
func (e *EventLogger) LogDuplicate(ctx context.Context, scanUUID, reason string) {
	e.ctxEvent(ctx, zerolog.DebugLevel).
		Str("scan_uuid", scanUUID).
		Str("reason", reason).
		Msg("duplicate scan skipped")
}

// LogShopAttached logs when a nearby shop is linked to a scan.
func (e *EventLogger) LogShopAttached(ctx context.Context, scanUUID string, shopID int64, source string) {
	e.ctxEvent(ctx, zerolog.InfoLevel).
		Str("scan_uuid", scanUUID).
		Int64("shop_id", shopID).
		Str("source", source).
		Msg("shop attached to scan")
}
