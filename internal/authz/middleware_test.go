// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/models"
)

func userPrincipal(role models.Role) *auth.Principal {
	return &auth.Principal{User: &models.User{ID: 7, Nickname: "vera", Role: role}}
}

func clientPrincipal() *auth.Principal {
	return &auth.Principal{Client: &models.APIClient{ID: 2, Name: "scanner-app"}}
}

func TestMiddlewareEnforce(t *testing.T) {
	enforcer := setupEnforcer(t, nil)
	m := NewMiddleware(enforcer)

	tests := []struct {
		name       string
		method     string
		path       string
		principal  *auth.Principal
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "no principal",
			method:     http.MethodGet,
			path:       "/api/v1/products",
			principal:  nil,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "user reads products",
			method:     http.MethodGet,
			path:       "/api/v1/products",
			principal:  userPrincipal(models.RoleUser),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "user cannot delete a product",
			method:     http.MethodDelete,
			path:       "/api/v1/products/12",
			principal:  userPrincipal(models.RoleUser),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "contributor updates a product",
			method:     http.MethodPut,
			path:       "/api/v1/products/12",
			principal:  userPrincipal(models.RoleContributor),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "user cannot manage accounts",
			method:     http.MethodGet,
			path:       "/api/v1/users",
			principal:  userPrincipal(models.RoleUser),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin manages accounts",
			method:     http.MethodDelete,
			path:       "/api/v1/users/3",
			principal:  userPrincipal(models.RoleAdmin),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "api client pushes an external product",
			method:     http.MethodPost,
			path:       "/api/v1/external/products",
			principal:  clientPrincipal(),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "api client cannot read accounts",
			method:     http.MethodGet,
			path:       "/api/v1/users",
			principal:  clientPrincipal(),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := m.Enforce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.principal != nil {
				req = req.WithContext(auth.WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestMiddlewareDenialBody(t *testing.T) {
	enforcer := setupEnforcer(t, nil)
	m := NewMiddleware(enforcer)

	handler := m.Enforce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run on a denied request")
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/12", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), userPrincipal(models.RoleUser)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"detail"`) ||
		!strings.Contains(body, "The user does not have enough privileges") {
		t.Errorf("body = %q, want a detail envelope with the privileges message", body)
	}
}

func TestMethodToAction(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{http.MethodGet, "read"},
		{http.MethodHead, "read"},
		{http.MethodOptions, "read"},
		{http.MethodPost, "write"},
		{http.MethodPut, "write"},
		{http.MethodPatch, "write"},
		{http.MethodDelete, "delete"},
		{"TRACE", "read"},
	}

	for _, tt := range tests {
		if got := methodToAction(tt.method); got != tt.want {
			t.Errorf("methodToAction(%q) = %q, want %q", tt.method, got, tt.want)
		}
	}
}
