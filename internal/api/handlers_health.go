// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"

	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

// Health handles GET /api/v1/health. The database is pinged; a failing
// catalog makes the whole service unhealthy (503).
//
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Failure 503 {object} models.HealthStatus
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:   "ok",
		Database: "ok",
		Version:  h.version,
	}
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Health check database ping failed")
		status.Status = "unhealthy"
		status.Database = "unreachable"
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// HealthLive handles GET /api/v1/health/live. Always 200 while the
// process serves requests; used as the container liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{Status: "alive"})
}

// HealthReady handles GET /api/v1/health/ready: readiness is the
// database answering.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, models.HealthStatus{Status: "not ready"})
		return
	}
	respondJSON(w, http.StatusOK, models.HealthStatus{Status: "ready"})
}
