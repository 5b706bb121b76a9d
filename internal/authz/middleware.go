// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package authz

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/logging"
)

// Middleware enforces the route policy for authenticated requests.
type Middleware struct {
	enforcer *Enforcer
	audit    *logging.SecurityLogger
}

// NewMiddleware creates the authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		audit:    logging.NewSecurityLogger(),
	}
}

// Enforce authorizes the request against the role policy using the
// request path as object and the HTTP method as action. It must run
// after the authentication middleware that attaches the principal.
func (m *Middleware) Enforce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFrom(r.Context())
		if !ok {
			writeDetail(w, http.StatusForbidden, "Not authenticated")
			return
		}

		subject := principal.Subject()
		allowed, err := m.enforcer.Allowed(subject, r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Error().Err(err).Str("path", r.URL.Path).Msg("Authorization check failed")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if !allowed {
			m.audit.LogPermissionDenied(principal.UserID(), subject, r.URL.Path, r.Method)
			writeDetail(w, http.StatusForbidden, "The user does not have enough privileges")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing to do about a failed error write
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
