// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package auth

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
)

// APIKeyHeader carries the machine-client credential.
const APIKeyHeader = "X-Api-Key"

// ErrNoCredentials is returned when a request reaches a guarded route
// without any credential at all.
var ErrNoCredentials = errors.New("not authenticated")

// Middleware authenticates requests against the catalog credentials
// and attaches the resulting Principal to the request context. Route
// groups pick the scheme: RequireUser for account tokens,
// RequireClient for partner integrations, RequireUserOrClient where
// both may call. Role checks happen afterwards in the authz package.
type Middleware struct {
	service        *Service
	limiter        *RateLimiter
	trustedProxies map[string]bool
}

// NewMiddleware creates the authentication middleware. The per-IP rate
// limiter is only armed when the config enables it; Close releases its
// background sweep.
func NewMiddleware(service *Service, cfg *config.SecurityConfig) *Middleware {
	m := &Middleware{
		service:        service,
		trustedProxies: make(map[string]bool, len(cfg.TrustedProxies)),
	}
	for _, proxy := range cfg.TrustedProxies {
		m.trustedProxies[proxy] = true
	}
	if !cfg.RateLimitDisabled && cfg.RateLimitReqs > 0 {
		m.limiter = NewRateLimiter(cfg.RateLimitReqs, cfg.RateLimitWindow)
	}
	return m
}

// Close stops the rate limiter sweep goroutine.
func (m *Middleware) Close() {
	if m.limiter != nil {
		m.limiter.Stop()
	}
}

// RequireUser admits requests carrying a valid bearer token for an
// active account.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.userPrincipal(r)
		if err != nil {
			rejectAuth(w, err, schemeBearer)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireClient admits requests carrying a valid X-Api-Key header.
func (m *Middleware) RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.clientPrincipal(r)
		if err != nil {
			rejectAuth(w, err, "")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireUserOrClient admits either scheme. The bearer token wins when
// both headers are present.
func (m *Middleware) RequireUserOrClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			principal *Principal
			err       error
			scheme    = schemeBearer
		)
		switch {
		case r.Header.Get("Authorization") != "":
			principal, err = m.userPrincipal(r)
		case r.Header.Get(APIKeyHeader) != "":
			principal, err = m.clientPrincipal(r)
			scheme = ""
		default:
			err = ErrNoCredentials
		}
		if err != nil {
			rejectAuth(w, err, scheme)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RateLimit applies the per-IP request budget before any handler work.
// A nil limiter (rate limiting disabled) passes everything through.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(m.ClientIP(r)) {
			metrics.RecordRateLimitHit(r.URL.Path)
			writeDetail(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the address the request came from. X-Forwarded-For
// and X-Real-IP are only honored when the direct peer is a configured
// trusted proxy.
func (m *Middleware) ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !m.trustedProxies[host] {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); net.ParseIP(xri) != nil {
		return xri
	}
	return host
}

func (m *Middleware) userPrincipal(r *http.Request) (*Principal, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	user, err := m.service.UserFromToken(r.Context(), token)
	if err != nil {
		return nil, err
	}
	return &Principal{User: &user}, nil
}

func (m *Middleware) clientPrincipal(r *http.Request) (*Principal, error) {
	key := r.Header.Get(APIKeyHeader)
	if key == "" {
		return nil, ErrNoCredentials
	}
	client, err := m.service.ClientFromKey(r.Context(), key, m.ClientIP(r), r.URL.Path)
	if err != nil {
		return nil, err
	}
	return &Principal{Client: &client}, nil
}

const schemeBearer = "Bearer"

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredentials
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, schemeBearer) || token == "" {
		return "", fmt.Errorf("%w: malformed authorization header", ErrInvalidCredentials)
	}
	return token, nil
}

// rejectAuth writes the response for a failed authentication. The
// WWW-Authenticate challenge is only advertised on the token scheme.
func rejectAuth(w http.ResponseWriter, err error, challenge string) {
	if challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}
	switch {
	case errors.Is(err, ErrNoCredentials):
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, ErrInactiveAccount):
		writeDetail(w, http.StatusBadRequest, "Inactive user")
	case errors.Is(err, ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
	default:
		logging.Error().Err(err).Msg("Authentication failed")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing to do about a failed error write
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
