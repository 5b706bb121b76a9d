// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"context"
	"testing"

	"github.com/mverdier/leafbase/internal/models"
)

func insertLookalikeBrands(t *testing.T, db *DB, ctx context.Context) {
	t.Helper()
	for _, name := range []string{"Verdura", "Petit Pois", "Danove Group"} {
		if _, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: name}); err != nil {
			t.Fatalf("failed to seed brand %q: %v", name, err)
		}
	}
}

func TestGetBrandLookalike(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLookalikeBrands(t, db, ctx)

	t.Run("exact name", func(t *testing.T) {
		match, err := db.GetBrandLookalike(ctx, "Verdura")
		checkNoError(t, err)
		if match.Name == nil {
			t.Fatal("expected a match")
		}
		checkStringEqual(t, "name", *match.Name, "Verdura")
		if db.FuzzyAvailable() {
			if match.Similarity == nil {
				t.Fatal("expected a similarity score")
			}
			checkFloat64Equal(t, "similarity", *match.Similarity, 1)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		match, err := db.GetBrandLookalike(ctx, "verdura")
		checkNoError(t, err)
		if match.Name == nil {
			t.Fatal("expected a match")
		}
		checkStringEqual(t, "name", *match.Name, "Verdura")
	})

	t.Run("close misspelling", func(t *testing.T) {
		if !db.FuzzyAvailable() {
			t.Skip("similarity function unavailable")
		}
		match, err := db.GetBrandLookalike(ctx, "Verdur")
		checkNoError(t, err)
		if match.Name == nil {
			t.Fatal("expected a match")
		}
		checkStringEqual(t, "name", *match.Name, "Verdura")
		if match.Similarity == nil || *match.Similarity <= lookalikeThreshold {
			t.Errorf("expected similarity above %v, got %v", lookalikeThreshold, match.Similarity)
		}
	})

	t.Run("unrelated query returns empty match", func(t *testing.T) {
		if !db.FuzzyAvailable() {
			t.Skip("similarity function unavailable")
		}
		match, err := db.GetBrandLookalike(ctx, "Zzqxwv")
		checkNoError(t, err)
		if match.ID != nil || match.Name != nil {
			t.Errorf("expected an empty match, got %+v", match)
		}
	})
}

func TestGetBrandLookalike_EmptyCatalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	match, err := db.GetBrandLookalike(ctx, "Verdura")
	checkNoError(t, err)
	if match.ID != nil || match.Name != nil || match.Similarity != nil {
		t.Errorf("expected an empty match on an empty catalog, got %+v", match)
	}
}

func TestBrandLookalikeFallback(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLookalikeBrands(t, db, ctx)

	// The fallback path only fires on builds without the similarity
	// function, but it must stay correct either way.
	match, err := db.brandLookalikeFallback(ctx, "petit pois")
	checkNoError(t, err)
	if match.Name == nil {
		t.Fatal("expected a match")
	}
	checkStringEqual(t, "name", *match.Name, "Petit Pois")
	if match.Similarity != nil {
		t.Errorf("fallback should not report similarity, got %v", *match.Similarity)
	}
}
