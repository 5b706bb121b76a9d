// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package middleware

import (
	"net/http"
	"time"

	"github.com/mverdier/leafbase/internal/logging"
)

// slowRequestThreshold promotes a request's access log line from debug
// to warn. Latency percentiles live in the Prometheus histograms; the
// log line is for finding the one slow request in context.
const slowRequestThreshold = time.Second

// logResponseWriter captures status and body size for the access log.
type logResponseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (w *logResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *logResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// RequestLogger writes one structured access log line per request,
// carrying the request and correlation IDs set by RequestID. Normal
// traffic logs at debug; slow requests and 5xx responses log at warn
// so they surface without raising the global level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &logResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		event := logging.CtxDebug(r.Context())
		if duration > slowRequestThreshold || wrapper.statusCode >= http.StatusInternalServerError {
			event = logging.CtxWarn(r.Context())
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int("bytes", wrapper.bytes).
			Dur("duration", duration).
			Str("remote", r.RemoteAddr).
			Msg("Request handled")
	})
}
