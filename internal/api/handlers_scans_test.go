// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/mverdier/leafbase/internal/models"
)

func TestScansCreateSynchronous(t *testing.T) {
	ts := newTestServer(t)
	user := ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	// Events are disabled in the harness, so the scan persists on the
	// request path and the stored row comes back.
	rec := ts.do(http.MethodPost, "/api/v1/scans", token, models.CreateScanRequest{
		EAN: "3017620422003",
	})
	wantStatus(t, rec, http.StatusCreated)

	var event models.ScanEvent
	decodeInto(t, rec, &event)
	if event.ID == 0 {
		t.Fatal("persisted scan has no id")
	}
	if event.EAN != "3017620422003" {
		t.Errorf("ean = %q, want %q", event.EAN, "3017620422003")
	}
	// The signed-in caller is recorded as the scanner.
	if event.UserID == nil || *event.UserID != user.ID {
		t.Errorf("user_id = %v, want %d", event.UserID, user.ID)
	}
}

func TestScansCreateValidatesCoordinates(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	lat := 123.0
	rec := ts.do(http.MethodPost, "/api/v1/scans", token, models.CreateScanRequest{
		EAN:      "3017620422003",
		Latitude: &lat,
	})
	wantStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestScansByEAN(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	for i := 0; i < 3; i++ {
		rec := ts.do(http.MethodPost, "/api/v1/scans", token, models.CreateScanRequest{
			EAN: "4000417025005",
		})
		wantStatus(t, rec, http.StatusCreated)
	}

	rec := ts.do(http.MethodGet, "/api/v1/scans/by-ean/4000417025005", token, nil)
	wantStatus(t, rec, http.StatusOK)
	var scans []models.ScanEvent
	decodeInto(t, rec, &scans)
	if len(scans) != 3 {
		t.Errorf("len(scans) = %d, want 3", len(scans))
	}

	rec = ts.do(http.MethodGet, "/api/v1/scans/by-ean/4000417025005?limit=2", token, nil)
	wantStatus(t, rec, http.StatusOK)
	decodeInto(t, rec, &scans)
	if len(scans) != 2 {
		t.Errorf("len(scans) = %d, want 2", len(scans))
	}
}

func TestScansByEANLimitBounds(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	for _, limit := range []string{"0", "1001", "-5"} {
		rec := ts.do(http.MethodGet, "/api/v1/scans/by-ean/123?limit="+limit, token, nil)
		wantStatus(t, rec, http.StatusBadRequest)
		wantDetail(t, rec, "limit must be between 1 and 1000")
	}
}

func TestScansListAndCount(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	rec := ts.do(http.MethodPost, "/api/v1/scans", token, models.CreateScanRequest{EAN: "111"})
	wantStatus(t, rec, http.StatusCreated)

	rec = ts.do(http.MethodGet, "/api/v1/scans", token, nil)
	wantStatus(t, rec, http.StatusOK)
	var all []models.ScanEvent
	decodeInto(t, rec, &all)
	if len(all) != 1 {
		t.Errorf("len(events) = %d, want 1", len(all))
	}

	rec = ts.do(http.MethodGet, "/api/v1/scans/search", token, nil)
	wantStatus(t, rec, http.StatusOK)
	var page models.Page[models.ScanEvent]
	decodeInto(t, rec, &page)
	if page.Total != 1 {
		t.Errorf("total = %d, want 1", page.Total)
	}

	rec = ts.do(http.MethodGet, "/api/v1/scans/count", token, nil)
	wantStatus(t, rec, http.StatusOK)
	var count models.CountResult
	decodeInto(t, rec, &count)
	if count.Total != 1 {
		t.Errorf("count total = %d, want 1", count.Total)
	}
}

func TestScansDeleteAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	userToken := ts.token("vera@leafbase.test")

	rec := ts.do(http.MethodPost, "/api/v1/scans", userToken, models.CreateScanRequest{EAN: "222"})
	wantStatus(t, rec, http.StatusCreated)
	var event models.ScanEvent
	decodeInto(t, rec, &event)

	rec = ts.do(http.MethodDelete, fmt.Sprintf("/api/v1/scans/%d", event.ID), userToken, nil)
	wantStatus(t, rec, http.StatusForbidden)

	rec = ts.do(http.MethodDelete, fmt.Sprintf("/api/v1/scans/%d", event.ID), admin, nil)
	wantStatus(t, rec, http.StatusNoContent)
}

func TestScansLiveUnavailableWithoutHub(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	// The harness runs without a hub, so the live feed reports 503.
	rec := ts.do(http.MethodGet, "/api/v1/scans/live", token, nil)
	wantStatus(t, rec, http.StatusServiceUnavailable)
	wantDetail(t, rec, "Live feed is not available")
}
