// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"
	"testing"

	"github.com/mverdier/leafbase/internal/models"
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/health", "", nil)
	wantStatus(t, rec, http.StatusOK)

	var status models.HealthStatus
	decodeInto(t, rec, &status)
	if status.Status != "ok" {
		t.Errorf("status = %q, want %q", status.Status, "ok")
	}
	if status.Database != "ok" {
		t.Errorf("database = %q, want %q", status.Database, "ok")
	}
	if status.Version != "test" {
		t.Errorf("version = %q, want %q", status.Version, "test")
	}
}

func TestHealthProbes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/health/live", "", nil)
	wantStatus(t, rec, http.StatusOK)
	var live models.HealthStatus
	decodeInto(t, rec, &live)
	if live.Status != "alive" {
		t.Errorf("live status = %q, want %q", live.Status, "alive")
	}

	rec = ts.do(http.MethodGet, "/api/v1/health/ready", "", nil)
	wantStatus(t, rec, http.StatusOK)
	var ready models.HealthStatus
	decodeInto(t, rec, &ready)
	if ready.Status != "ready" {
		t.Errorf("ready status = %q, want %q", ready.Status, "ready")
	}
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)

	// No Authorization header at all.
	rec := ts.do(http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code == http.StatusUnauthorized {
		t.Fatal("health endpoint must not require authentication")
	}
}
