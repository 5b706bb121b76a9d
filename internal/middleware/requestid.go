// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mverdier/leafbase/internal/logging"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID tags every request with a unique ID, exposed in the
// X-Request-ID response header and the request context. An ID supplied
// by an upstream proxy is kept. The logging context also gets the ID
// plus a fresh correlation ID, so log lines from the handler down to
// the scan pipeline can be tied back to the request.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
