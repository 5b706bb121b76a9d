// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	expectedHeaders := []string{
		"Content-Security-Policy",
		"X-Frame-Options",
		"X-Content-Type-Options",
		"Referrer-Policy",
		"Permissions-Policy",
	}

	for _, header := range expectedHeaders {
		if w.Header().Get(header) == "" {
			t.Errorf("Expected header %s to be set", header)
		}
	}

	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP should contain default-src 'self', got %s", csp)
	}
	if !strings.Contains(csp, "frame-ancestors 'none'") {
		t.Errorf("CSP should contain frame-ancestors 'none', got %s", csp)
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %s, want DENY", w.Header().Get("X-Frame-Options"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("X-Content-Type-Options = %s, want nosniff", w.Header().Get("X-Content-Type-Options"))
	}

	t.Run("no HSTS over plain HTTP", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/products", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if hsts := w.Header().Get("Strict-Transport-Security"); hsts != "" {
			t.Errorf("Expected no HSTS header over plain HTTP, got %s", hsts)
		}
	})

	t.Run("HSTS behind TLS-terminating proxy", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/products", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		hsts := w.Header().Get("Strict-Transport-Security")
		if hsts == "" || !strings.Contains(hsts, "max-age=31536000") {
			t.Errorf("HSTS header missing or incorrect: %s", hsts)
		}
	})

	t.Run("HSTS with direct TLS", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/products", nil)
		req.TLS = &tls.ConnectionState{}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Header().Get("Strict-Transport-Security") == "" {
			t.Error("Expected HSTS header on a TLS request")
		}
	})

	t.Run("handler still runs", func(t *testing.T) {
		called := false
		wrapped := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusCreated)
		}))

		req := httptest.NewRequest("POST", "/api/v1/brands", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		if !called {
			t.Error("Expected wrapped handler to be called")
		}
		if w.Code != http.StatusCreated {
			t.Errorf("Expected status 201, got %d", w.Code)
		}
	})
}
