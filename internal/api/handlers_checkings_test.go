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

func createChecking(ts *testServer, token string, productID int64) models.Checking {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/v1/checkings", token, models.CreateCheckingRequest{
		ProductID: productID,
	})
	wantStatus(ts.t, rec, http.StatusCreated)
	var checking models.Checking
	decodeInto(ts.t, rec, &checking)
	return checking
}

func TestCheckingsCreate(t *testing.T) {
	ts := newTestServer(t)
	contributor := ts.createAccount("cora", "cora@leafbase.test", models.RoleContributor)
	token := ts.token("cora@leafbase.test")

	product := createProduct(ts, token, "2800000000001", "Oat Yoghurt")
	checking := createChecking(ts, token, product.ID)

	if checking.Status != models.CheckingPending {
		t.Errorf("status = %q, want %q", checking.Status, models.CheckingPending)
	}
	// The checking is always owned by the caller.
	if checking.User == nil || checking.User.ID != contributor.ID {
		t.Errorf("user = %+v, want id %d", checking.User, contributor.ID)
	}
}

func TestCheckingsCreateMissingProduct(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("cora", "cora@leafbase.test", models.RoleContributor)
	token := ts.token("cora@leafbase.test")

	rec := ts.do(http.MethodPost, "/api/v1/checkings", token, models.CreateCheckingRequest{
		ProductID: 9999,
	})
	wantStatus(t, rec, http.StatusBadRequest)
	wantDetail(t, rec, "Product with id 9999 does not exist")
}

func TestCheckingsCreateRequiresContributor(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	token := ts.token("vera@leafbase.test")

	rec := ts.do(http.MethodPost, "/api/v1/checkings", token, models.CreateCheckingRequest{
		ProductID: 1,
	})
	wantStatus(t, rec, http.StatusForbidden)
}

func TestCheckingsUpdateOwnerOnly(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("cora", "cora@leafbase.test", models.RoleContributor)
	ts.createAccount("carl", "carl@leafbase.test", models.RoleContributor)
	owner := ts.token("cora@leafbase.test")
	other := ts.token("carl@leafbase.test")

	product := createProduct(ts, owner, "2900000000001", "Cashew Cheese")
	checking := createChecking(ts, owner, product.ID)

	status := models.CheckingVegan
	body := models.UpdateCheckingRequest{Status: &status}
	target := fmt.Sprintf("/api/v1/checkings/%d", checking.ID)

	// Another contributor may not record the brand's reply.
	rec := ts.do(http.MethodPut, target, other, body)
	wantStatus(t, rec, http.StatusForbidden)
	wantDetail(t, rec, "The user does not have enough privileges")

	// The owner may.
	rec = ts.do(http.MethodPut, target, owner, body)
	wantStatus(t, rec, http.StatusOK)
	var updated models.Checking
	decodeInto(t, rec, &updated)
	if updated.Status != models.CheckingVegan {
		t.Errorf("status = %q, want %q", updated.Status, models.CheckingVegan)
	}
}

func TestCheckingsUpdateAdminOverride(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	ts.createAccount("cora", "cora@leafbase.test", models.RoleContributor)
	owner := ts.token("cora@leafbase.test")

	product := createProduct(ts, owner, "3000000000001", "Lentil Soup")
	checking := createChecking(ts, owner, product.ID)

	status := models.CheckingNonVegan
	rec := ts.do(http.MethodPut, fmt.Sprintf("/api/v1/checkings/%d", checking.ID),
		admin, models.UpdateCheckingRequest{Status: &status})
	wantStatus(t, rec, http.StatusOK)
}

func TestCheckingsListVisibleToUsers(t *testing.T) {
	ts := newTestServer(t)
	ts.createAccount("cora", "cora@leafbase.test", models.RoleContributor)
	contributor := ts.token("cora@leafbase.test")
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)
	user := ts.token("vera@leafbase.test")

	product := createProduct(ts, contributor, "3100000000001", "Miso Paste")
	createChecking(ts, contributor, product.ID)

	// Plain users read the brand-contact log but cannot open one.
	rec := ts.do(http.MethodGet, "/api/v1/checkings", user, nil)
	wantStatus(t, rec, http.StatusOK)
	var all []models.Checking
	decodeInto(t, rec, &all)
	if len(all) != 1 {
		t.Errorf("len(checkings) = %d, want 1", len(all))
	}

	rec = ts.do(http.MethodGet, "/api/v1/checkings/search", user, nil)
	wantStatus(t, rec, http.StatusOK)
	var page models.Page[models.Checking]
	decodeInto(t, rec, &page)
	if page.Total != 1 {
		t.Errorf("total = %d, want 1", page.Total)
	}
}
