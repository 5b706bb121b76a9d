// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Scan event pipeline throughput
// - Shop resolution and Overpass lookups
// - Export artifact builds
// - Live feed WebSocket connections

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Scan Pipeline Metrics
	ScansPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_published_total",
			Help: "Total number of scan events published to the stream",
		},
	)

	ScanPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scan_publish_failures_total",
			Help: "Total number of scan publishes that failed or were rejected",
		},
	)

	ScansConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_consumed_total",
			Help: "Total number of scan messages consumed from the stream",
		},
	)

	ScansPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scans_persisted_total",
			Help: "Total number of scan events written to the database",
		},
		[]string{"mode"}, // "queued", "sync"
	)

	ScansDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_deduplicated_total",
			Help: "Total number of scan messages skipped as duplicates",
		},
	)

	ScanParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scan_parse_failures_total",
			Help: "Total number of scan messages that failed to decode",
		},
	)

	ScanProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scan_processing_duration_seconds",
			Help:    "Duration of scan message processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ShopResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_resolutions_total",
			Help: "Total number of shop resolution attempts for geotagged scans",
		},
		[]string{"outcome"}, // "nearby", "imported", "none", "failed"
	)

	// Live Feed Metrics
	LiveFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_feed_clients",
			Help: "Current number of connected live feed WebSocket clients",
		},
	)

	LiveFeedMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_feed_messages_sent_total",
			Help: "Total number of messages delivered to live feed clients",
		},
	)

	LiveFeedMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_feed_messages_dropped_total",
			Help: "Total number of live feed messages dropped on full client queues",
		},
	)

	// Overpass Metrics
	OverpassLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "overpass_lookup_duration_seconds",
			Help:    "Duration of Overpass API shop lookups",
			Buckets: prometheus.DefBuckets,
		},
	)

	OverpassLookupErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overpass_lookup_errors_total",
			Help: "Total number of failed Overpass API lookups",
		},
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "geocode"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Export Metrics
	ExportBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "export_build_duration_seconds",
			Help:    "Duration of export artifact builds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120}, // Full rebuilds scale with catalog size
		},
		[]string{"artifact"},
	)

	ExportRowsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_rows_exported_total",
			Help: "Total number of rows written to export artifacts",
		},
		[]string{"artifact"},
	)

	ExportRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_rows_skipped_total",
			Help: "Total number of rows skipped during export builds",
		},
		[]string{"artifact"},
	)

	ExportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_errors_total",
			Help: "Total number of export build errors",
		},
		[]string{"artifact", "error_type"},
	)

	ExportLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "export_last_success_timestamp",
			Help: "Unix timestamp of the last successful export build",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request on a rate-limited endpoint
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordScanPublished records a scan event published to the stream
func RecordScanPublished() {
	ScansPublished.Inc()
}

// RecordScanPublishFailure records a failed or rejected scan publish
func RecordScanPublishFailure() {
	ScanPublishFailures.Inc()
}

// RecordScanConsumed records a scan message consumed from the stream
func RecordScanConsumed() {
	ScansConsumed.Inc()
}

// RecordScanPersisted records a scan event written to the database. mode
// is "queued" for the stream consumer and "sync" for the fallback path.
func RecordScanPersisted(mode string) {
	ScansPersisted.WithLabelValues(mode).Inc()
}

// RecordScanDeduplicated records a scan message skipped as a duplicate
func RecordScanDeduplicated() {
	ScansDeduplicated.Inc()
}

// RecordScanParseFailure records a scan message that failed to decode
func RecordScanParseFailure() {
	ScanParseFailures.Inc()
}

// RecordScanProcessingDuration records the duration of scan message processing
func RecordScanProcessingDuration(duration time.Duration) {
	ScanProcessingDuration.Observe(duration.Seconds())
}

// RecordShopResolution records the outcome of a shop resolution attempt
func RecordShopResolution(outcome string) {
	ShopResolutions.WithLabelValues(outcome).Inc()
}

// RecordLiveFeedMessage records a message delivered to a live feed client
func RecordLiveFeedMessage() {
	LiveFeedMessagesSent.Inc()
}

// RecordLiveFeedDrop records a live feed message dropped on a full queue
func RecordLiveFeedDrop() {
	LiveFeedMessagesDropped.Inc()
}

// RecordOverpassLookup records an Overpass API lookup and its outcome
func RecordOverpassLookup(duration time.Duration, err error) {
	OverpassLookupDuration.Observe(duration.Seconds())
	if err != nil {
		OverpassLookupErrors.Inc()
	}
}

// RecordCacheHit records a cache hit
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordExportBuild records an export artifact build and its outcome
func RecordExportBuild(artifact string, duration time.Duration, exported, skipped int, err error) {
	ExportBuildDuration.WithLabelValues(artifact).Observe(duration.Seconds())
	ExportRowsExported.WithLabelValues(artifact).Add(float64(exported))
	ExportRowsSkipped.WithLabelValues(artifact).Add(float64(skipped))
	if err != nil {
		errorType := "other"
		errorMsg := err.Error()
		switch {
		case contains(errorMsg, "failed to query"):
			errorType = "database"
		case contains(errorMsg, "failed to open"), contains(errorMsg, "failed to create"),
			contains(errorMsg, "failed to begin"), contains(errorMsg, "failed to prepare"),
			contains(errorMsg, "failed to commit"), contains(errorMsg, "failed to close"):
			errorType = "artifact"
		}
		ExportErrors.WithLabelValues(artifact, errorType).Inc()
	} else {
		// Update last success timestamp
		ExportLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordBreakerRequest records the result of a request through a circuit breaker
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a circuit breaker state change and
// moves the state gauge to the new state.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetAppInfo records application version information
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// Helper function to check if string starts with substring
func contains(s, substr string) bool {
	return len(s) >= len(substr) && s[:len(substr)] == substr
}
