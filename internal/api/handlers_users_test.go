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

func TestUsersGetByEmail(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)

	rec := ts.do(http.MethodGet, "/api/v1/users/email/vera@leafbase.test", admin, nil)
	wantStatus(t, rec, http.StatusOK)

	var user models.User
	decodeInto(t, rec, &user)
	if user.Nickname != "vera" {
		t.Errorf("nickname = %q, want %q", user.Nickname, "vera")
	}

	rec = ts.do(http.MethodGet, "/api/v1/users/email/nobody@leafbase.test", admin, nil)
	wantStatus(t, rec, http.StatusNotFound)
	wantDetail(t, rec, "User not found")
}

func TestUsersPatchUpdate(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	target := ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)

	nickname := "veranika"
	rec := ts.do(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", target.ID), admin,
		models.UpdateUserRequest{Nickname: &nickname})
	wantStatus(t, rec, http.StatusOK)

	var user models.User
	decodeInto(t, rec, &user)
	if user.Nickname != "veranika" {
		t.Errorf("nickname = %q, want %q", user.Nickname, "veranika")
	}
	if user.Email != "vera@leafbase.test" {
		t.Errorf("email = %q, want it untouched", user.Email)
	}
}

func TestUsersListShapes(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken()
	ts.createAccount("vera", "vera@leafbase.test", models.RoleUser)

	rec := ts.do(http.MethodGet, "/api/v1/users", admin, nil)
	wantStatus(t, rec, http.StatusOK)
	var all []models.User
	decodeInto(t, rec, &all)
	if len(all) != 2 {
		t.Errorf("len(users) = %d, want 2", len(all))
	}

	rec = ts.do(http.MethodGet, "/api/v1/users/search?page_size=1", admin, nil)
	wantStatus(t, rec, http.StatusOK)
	var page models.Page[models.User]
	decodeInto(t, rec, &page)
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}
	if len(page.Items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(page.Items))
	}
}
