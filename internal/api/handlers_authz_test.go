// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/models"
)

// doWithKey runs a request authenticated with an API key.
func (ts *testServer) doWithKey(method, target, apiKey string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var req *http.Request
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			ts.t.Fatalf("failed to marshal request body: %v", err)
		}
		req = httptest.NewRequest(method, target, bytes.NewReader(buf))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set(auth.APIKeyHeader, apiKey)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createAPIClient(name, key string) models.APIClient {
	ts.t.Helper()
	active := true
	client, err := ts.db.CreateAPIClient(context.Background(), &models.CreateAPIClientRequest{
		Name:     name,
		IsActive: &active,
	}, key)
	if err != nil {
		ts.t.Fatalf("CreateAPIClient() error = %v", err)
	}
	return client
}

func TestGuardedRoutesRequireCredentials(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{
		"/api/v1/products",
		"/api/v1/brands",
		"/api/v1/users",
		"/api/v1/scans",
	} {
		rec := ts.do(http.MethodGet, target, "", nil)
		wantStatus(t, rec, http.StatusUnauthorized)
		wantDetail(t, rec, "Not authenticated")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/products", "not-a-jwt", nil)
	wantStatus(t, rec, http.StatusUnauthorized)
}

func TestUserCannotManageUsers(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	rec := ts.do(http.MethodGet, "/api/v1/users", token, nil)
	wantStatus(t, rec, http.StatusForbidden)
	wantDetail(t, rec, "The user does not have enough privileges")

	rec = ts.do(http.MethodPost, "/api/v1/users", token, models.CreateUserRequest{
		Nickname: "sneaky",
		Email:    "sneaky@leafbase.test",
		Password: testPassword,
		Role:     models.RoleAdmin,
	})
	wantStatus(t, rec, http.StatusForbidden)
}

func TestUserCannotDeleteProducts(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	product := createProduct(ts, admin, "2500000000001", "Hummus")

	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	rec := ts.do(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ID), token, nil)
	wantStatus(t, rec, http.StatusForbidden)
}

func TestContributorCanDeleteProducts(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("cora", "cora@leafbase.test", models.RoleContributor)
	token := ts.token("cora@leafbase.test")

	product := createProduct(ts, token, "2600000000001", "Kimchi")

	rec := ts.do(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ID), token, nil)
	wantStatus(t, rec, http.StatusNoContent)
}

func TestAdminBypassesPolicy(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()

	rec := ts.do(http.MethodGet, "/api/v1/users", admin, nil)
	wantStatus(t, rec, http.StatusOK)

	var all []models.User
	decodeInto(t, rec, &all)
	if len(all) != 1 {
		t.Errorf("len(users) = %d, want 1", len(all))
	}
}

func TestAPIClientScannerSurface(t *testing.T) {
	ts := newTestServer(t)
	ts.createAPIClient("scanner-backend", "test-api-key-scanner-1")

	// The external intake accepts an API key.
	rec := ts.doWithKey(http.MethodPost, "/api/v1/external/products",
		"test-api-key-scanner-1", models.CreateProductRequest{EAN: "2700000000001"})
	wantStatus(t, rec, http.StatusCreated)

	// Client management stays admin-only.
	rec = ts.doWithKey(http.MethodGet, "/api/v1/apiclients", "test-api-key-scanner-1", nil)
	wantStatus(t, rec, http.StatusForbidden)

	// A wrong key never authenticates.
	rec = ts.doWithKey(http.MethodPost, "/api/v1/external/products",
		"wrong-key", models.CreateProductRequest{EAN: "2700000000002"})
	wantStatus(t, rec, http.StatusUnauthorized)
}

func TestAPIClientCannotReadCatalogDetail(t *testing.T) {
	ts := newTestServer(t)
	ts.createAPIClient("scanner-backend", "test-api-key-scanner-2")

	// The scanner surface has no grant on brand reads.
	rec := ts.doWithKey(http.MethodGet, "/api/v1/brands", "test-api-key-scanner-2", nil)
	wantStatus(t, rec, http.StatusForbidden)
}
