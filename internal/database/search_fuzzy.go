// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
search_fuzzy.go - Fuzzy Brand Name Matching

Scan lookups often carry misspelled or partial brand names ("Alpro"
vs "alpro soja"). The lookalike search returns the catalog brand whose
name is closest to the query so the client can suggest a linkage.

Matching uses DuckDB's built-in jaro_winkler_similarity function. A
startup probe verifies the function exists on the running engine; when
it does not, the search degrades to substring matching without a
similarity score.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

// lookalikeThreshold is the minimum Jaro-Winkler similarity for a match
// to be reported. Below it the search returns an empty result rather
// than a misleading suggestion.
const lookalikeThreshold = 0.7

// checkFuzzyAvailable probes jaro_winkler_similarity once at startup.
func (db *DB) checkFuzzyAvailable() {
	var sim float64
	err := db.conn.QueryRow("SELECT jaro_winkler_similarity('probe', 'probe')").Scan(&sim)
	if err != nil {
		db.fuzzyAvailable = false
		logging.Warn().
			Err(err).
			Msg("jaro_winkler_similarity unavailable, brand lookalike degrades to substring matching")
		return
	}
	db.fuzzyAvailable = true
}

// FuzzyAvailable reports whether similarity scoring is active.
func (db *DB) FuzzyAvailable() bool {
	return db.fuzzyAvailable
}

// GetBrandLookalike returns the brand whose name best matches the query
// string. The result is empty (all fields nil) when no brand clears the
// similarity threshold or the catalog has no brands.
func (db *DB) GetBrandLookalike(ctx context.Context, query string) (models.BrandLookalike, error) {
	if db.fuzzyAvailable {
		return db.brandLookalikeSimilarity(ctx, query)
	}
	return db.brandLookalikeFallback(ctx, query)
}

// brandLookalikeSimilarity scores every brand name and keeps the best.
func (db *DB) brandLookalikeSimilarity(ctx context.Context, query string) (models.BrandLookalike, error) {
	var match models.BrandLookalike
	var id int64
	var name string
	var sim float64

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, jaro_winkler_similarity(LOWER(name), LOWER(?)) AS sim
		 FROM brands
		 ORDER BY sim DESC, name ASC
		 LIMIT 1`,
		query,
	).Scan(&id, &name, &sim)
	if err == sql.ErrNoRows {
		return match, nil
	}
	if err != nil {
		return match, fmt.Errorf("brand lookalike query failed: %w", err)
	}

	if sim < lookalikeThreshold {
		return match, nil
	}

	match.ID = &id
	match.Name = &name
	match.Similarity = &sim
	return match, nil
}

// brandLookalikeFallback substring-matches when similarity scoring is
// unavailable. The shortest matching name wins as the tightest fit; no
// similarity score is reported.
func (db *DB) brandLookalikeFallback(ctx context.Context, query string) (models.BrandLookalike, error) {
	var match models.BrandLookalike
	var id int64
	var name string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM brands
		 WHERE name ILIKE ?
		 ORDER BY LENGTH(name) ASC, name ASC
		 LIMIT 1`,
		"%"+query+"%",
	).Scan(&id, &name)
	if err == sql.ErrNoRows {
		return match, nil
	}
	if err != nil {
		return match, fmt.Errorf("brand lookalike fallback query failed: %w", err)
	}

	match.ID = &id
	match.Name = &name
	return match, nil
}
