// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package database provides the DuckDB-backed persistence layer for the
// catalog. It owns the schema, versioned migrations, the filter-string
// to SQL translator, and per-entity CRUD methods on the DB type.
//
// DuckDB runs in-process; there is no server to connect to. The package
// opens a single database file (or :memory: in tests), tunes the
// database/sql pool to the configured thread count, and caches prepared
// statements for hot queries.
//
// Listing endpoints share a common shape: a ListParams with pagination,
// ordering and a filter map, translated by BuildFilters into a bound
// WHERE clause. Unknown filter keys and operators are skipped rather
// than rejected so that older clients keep working across schema
// changes.
package database
