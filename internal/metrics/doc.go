// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - API request latency and throughput
  - Database query performance
  - Scan event pipeline throughput
  - Shop resolution and Overpass API lookups
  - Export artifact build statistics
  - Circuit breaker state transitions
  - Cache hit/miss rates
  - Live feed WebSocket connection counts

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation (SELECT, COUNT, INSERT, UPDATE, DELETE), table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Active database connections (gauge)

Scan Pipeline Metrics:
  - scans_published_total: Scan events published to the stream (counter)
  - scan_publish_failures_total: Failed or rejected publishes (counter)
  - scans_consumed_total: Messages consumed from the stream (counter)
  - scans_persisted_total: Scan events written to the database (counter)
    Labels: mode (queued, sync)
  - scans_deduplicated_total: Duplicate messages skipped (counter)
  - scan_parse_failures_total: Undecodable messages dropped (counter)
  - scan_processing_duration_seconds: Message processing time (histogram)
  - shop_resolutions_total: Shop resolution attempts (counter)
    Labels: outcome (nearby, imported, none, failed)

Export Metrics:
  - export_build_duration_seconds: Artifact build time (histogram)
    Labels: artifact
  - export_rows_exported_total: Rows written (counter)
    Labels: artifact
  - export_rows_skipped_total: Rows skipped (counter)
    Labels: artifact
  - export_errors_total: Failed builds (counter)
    Labels: artifact, error_type
  - export_last_success_timestamp: Unix timestamp of last successful build (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breakers (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

Live Feed Metrics:
  - live_feed_clients: Connected WebSocket clients (gauge)
  - live_feed_messages_sent_total: Messages delivered (counter)
  - live_feed_messages_dropped_total: Messages dropped on full queues (counter)

# Usage Example

Recording API metrics with middleware:

	func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	    return func(w http.ResponseWriter, r *http.Request) {
	        metrics.TrackActiveRequest(true)
	        defer metrics.TrackActiveRequest(false)

	        start := time.Now()
	        wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	        next(wrapper, r)

	        metrics.RecordAPIRequest(r.Method, r.URL.Path,
	            strconv.Itoa(wrapper.statusCode), time.Since(start))
	    }
	}

Recording database query metrics:

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("SELECT", meta.Table, time.Since(start), err)

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'leafbase'
	    static_configs:
	      - targets: ['localhost:8080']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# API request rate
	rate(api_requests_total[5m])

	# API p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Scan pipeline throughput
	rate(scans_persisted_total[5m])

	# Geocode cache hit rate
	sum(rate(cache_hits_total{cache_type="geocode"}[5m]))
	/
	(sum(rate(cache_hits_total{cache_type="geocode"}[5m])) + sum(rate(cache_misses_total{cache_type="geocode"}[5m])))

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use the chi route pattern, not the raw URL
  - Error types are truncated or mapped to predefined constants
  - User-specific labels are avoided

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/database: Database metrics recording
  - internal/events: Scan pipeline metrics recording
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
