// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mverdier/leafbase/internal/config"
)

// testDBSemaphore limits concurrent database creation to prevent resource
// exhaustion in CI. Too many concurrent DuckDB CGO calls can hang, so
// creation is fully serialized.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes the New() call itself.
var testDBMutex sync.Mutex

// setupTestDB creates an in-memory test database with timeout protection.
// The semaphore is held for the entire test lifecycle (released via
// t.Cleanup), so only one test has an active DuckDB connection at a time.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Failed to close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s (DuckDB may be under resource pressure)")
		return nil
	}
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)

	if db.Conn() == nil {
		t.Fatal("expected live connection")
	}

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}

func TestNewCreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tables := []string{
		"brands", "products", "additives", "cosmetics", "household_cleaners",
		"product_categories", "interesting_products", "partners", "partner_categories",
		"users", "error_reports", "scoring_categories", "scoring_criteria",
		"brand_scores", "checkings", "api_clients", "shops", "scan_events",
	}
	for _, table := range tables {
		var count int64
		err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		if err != nil {
			t.Errorf("table %s not queryable: %v", table, err)
		}
	}
}

func TestCheckpoint(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Checkpoint(ctx); err != nil {
		t.Errorf("checkpoint failed: %v", err)
	}
}

func TestGetCurrentSchemaVersion(t *testing.T) {
	db := setupTestDB(t)

	version, err := db.GetCurrentSchemaVersion()
	checkNoError(t, err)
	if version < 0 {
		t.Errorf("expected non-negative schema version, got %d", version)
	}
}

func TestFuzzyProbe(t *testing.T) {
	db := setupTestDB(t)

	// jaro_winkler_similarity is a DuckDB core function, the probe
	// should find it on every engine the tests run against.
	if !db.FuzzyAvailable() {
		t.Error("expected fuzzy matching to be available")
	}
}

func TestStatementCache(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	stmt1, err := db.getStmt(ctx, "SELECT COUNT(*) FROM brands")
	checkNoError(t, err)
	stmt2, err := db.getStmt(ctx, "SELECT COUNT(*) FROM brands")
	checkNoError(t, err)

	if stmt1 != stmt2 {
		t.Error("expected identical query to reuse the cached statement")
	}
}
