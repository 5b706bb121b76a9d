// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression, access
logging, request ID tracking, security headers, and Prometheus metrics.
All components use the standard chi signature func(http.Handler)
http.Handler and compose with the authentication middleware from
internal/auth and the role enforcement from internal/authz.

Key Components:

  - RequestID: UUID-based request tracking for distributed tracing
  - RequestLogger: structured access log line per request (zerolog)
  - PrometheusMetrics: HTTP request/response instrumentation
  - Compression: gzip compression for clients that accept it
  - SecurityHeaders: CSP, frame, sniffing and HSTS headers

Middleware Stack:

The router applies the stack once for the whole API:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
	r.Use(authMW.RateLimit)

	r.Route("/api/v1/products", func(r chi.Router) {
	    r.Use(authMW.RequireUser) // per-group authentication
	    r.Use(authzMW.Enforce)    // casbin role policy
	    ...
	})

Usage Example - Request ID:

	// Access the request ID in a handler
	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    logging.CtxInfo(r.Context()).Msg("Processing request")
	}

The same ID is returned to the client in the X-Request-ID response
header and attached to every log line written through logging.Ctx*.

Usage Example - Prometheus Metrics:

	// Metrics are recorded with the chi route pattern as endpoint label
	// GET /api/v1/products/42 -> endpoint="/api/v1/products/{productID}"
	r.Use(middleware.PrometheusMetrics)

Ordering Constraints:

  - RequestID must run before RequestLogger and any handler that logs,
    otherwise log lines carry no request_id.
  - PrometheusMetrics reads the route pattern after the handler ran, so
    its position relative to the route groups does not matter.
  - Compression must wrap handlers, not the WebSocket upgrade: upgrade
    requests bypass it so the live scan feed can hijack the connection.

Thread Safety:

All middleware components are thread-safe:
  - Compression pools gzip writers with sync.Pool
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/auth: authentication middleware and per-IP rate limiting
  - internal/authz: casbin role policy enforcement
  - internal/api: route groups wrapped by this stack
  - internal/metrics: Prometheus metric definitions
*/
package middleware
