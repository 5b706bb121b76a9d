// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/models"

	"github.com/goccy/go-json"
)

// ChiMiddleware builds the route-group middleware that comes from the
// chi ecosystem: CORS and the scoped httprate limiters. The general
// per-IP API limit lives in auth.Middleware; these cover the endpoints
// with their own budgets (login brute force, health probes).
type ChiMiddleware struct {
	cors func(http.Handler) http.Handler
}

// NewChiMiddleware creates the factory from the security config. CORS
// origins default to none, so cross-origin browsers are locked out
// until origins are configured explicitly.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	return &ChiMiddleware{
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Api-Key"},
			AllowCredentials: false,
			MaxAge:           86400,
		}),
	}
}

// CORS returns the CORS middleware. Mounted globally so OPTIONS
// preflights are answered before auth runs.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitAuth caps credential endpoints at 10 attempts per IP per
// minute.
func (m *ChiMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	return httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

// RateLimitHealth keeps health probes cheap but bounded: 300 per IP
// per minute is generous for any monitoring cadence.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return httprate.Limit(300, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

// rateLimited answers 429 in the detail envelope.
func rateLimited(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(models.ErrorDetail{Detail: "Too many requests"})
}
