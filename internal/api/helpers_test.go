// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/authz"
	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/events"
	"github.com/mverdier/leafbase/internal/export"
	"github.com/mverdier/leafbase/internal/files"
	"github.com/mverdier/leafbase/internal/models"
)

const testPassword = "correct-horse-battery"

// noopMailer satisfies auth.ResetMailer without sending anything.
type noopMailer struct{}

func (noopMailer) SendPasswordReset(context.Context, string, string, string) error { return nil }

// testServer wires a full router against an in-memory catalog.
type testServer struct {
	t       *testing.T
	db      *database.DB
	auth    *auth.Service
	hasher  *auth.Hasher
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		API:    config.APIConfig{DefaultPageSize: 5, MaxPageSize: 100},
		Security: config.SecurityConfig{
			JWTSecret:         "this_is_a_very_long_secret_key_for_testing_purposes_12345",
			TokenExpiry:       time.Hour,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"http://localhost:3000"},
		},
		Uploads: config.UploadsConfig{Dir: t.TempDir(), MaxSize: 1 << 20},
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	hasher := auth.NewHasher(bcrypt.MinCost)
	svc := auth.NewService(db, jwtManager, hasher, noopMailer{})

	authMW := auth.NewMiddleware(svc, &cfg.Security)
	t.Cleanup(authMW.Close)

	enforcer, err := authz.NewEnforcer(&config.CasbinConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	uploads, err := files.NewStore(&cfg.Uploads)
	if err != nil {
		t.Fatalf("files.NewStore() error = %v", err)
	}

	pipeline := events.NewPipeline(&config.EventsConfig{Enabled: false}, db, nil, nil, 0)

	handler := NewHandler(HandlerDeps{
		DB:       db,
		Config:   cfg,
		Auth:     svc,
		Hasher:   hasher,
		Pipeline: pipeline,
		Exporter: export.NewExporter(db),
		Uploads:  uploads,
		Version:  "test",
	})
	router := NewRouter(handler, authMW, authz.NewMiddleware(enforcer), cfg.Uploads.Dir)

	return &testServer{
		t:       t,
		db:      db,
		auth:    svc,
		hasher:  hasher,
		handler: router.Setup(),
	}
}

// createAccount inserts an active account and returns it.
func (ts *testServer) createAccount(nickname, email string, role models.Role) models.User {
	ts.t.Helper()

	hash, err := ts.hasher.Hash(testPassword)
	if err != nil {
		ts.t.Fatalf("Hash() error = %v", err)
	}
	active := true
	user, err := ts.db.CreateUser(context.Background(), &models.CreateUserRequest{
		Nickname: nickname,
		Email:    email,
		Role:     role,
		IsActive: &active,
	}, hash)
	if err != nil {
		ts.t.Fatalf("CreateUser() error = %v", err)
	}
	return user
}

// token logs the account in directly through the service, skipping the
// HTTP auth endpoints so their rate limit budget stays untouched.
func (ts *testServer) token(email string) string {
	ts.t.Helper()

	token, _, err := ts.auth.Login(context.Background(), email, testPassword, "127.0.0.1", "api-test")
	if err != nil {
		ts.t.Fatalf("Login() error = %v", err)
	}
	return token
}

// adminToken creates a fresh admin account and returns its token.
func (ts *testServer) adminToken() string {
	ts.t.Helper()
	ts.createAccount("root", "root@leafbase.test", models.RoleAdmin)
	return ts.token("root@leafbase.test")
}

// do runs one request through the router. A nil body sends no payload;
// everything else is JSON encoded.
func (ts *testServer) do(method, target, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			ts.t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// decodeInto unmarshals a response recorder body.
func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// wantStatus fails the test when the recorded status differs.
func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

// wantDetail asserts the error envelope carries the expected message.
func wantDetail(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var e models.ErrorDetail
	decodeInto(t, rec, &e)
	if e.Detail != want {
		t.Errorf("detail = %q, want %q", e.Detail, want)
	}
}
