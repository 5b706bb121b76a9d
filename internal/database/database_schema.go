// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema including table creation
and index management.

Tables:
  - brands: Manufacturer brands with a parent_id hierarchy
  - products: Barcoded food products keyed by EAN, with vegan status and
    editorial workflow state
  - additives: E-number food additives with vegan verdicts
  - cosmetics / household_cleaners: Per-brand vegan and cruelty-free flags
  - product_categories / interesting_products: Curated placements for
    mobile clients
  - partners / partner_categories: Affiliated businesses and discounts
  - error_reports: End-user reports of wrong catalog data
  - scoring_categories / scoring_criteria / brand_scores: The brand
    scoring grid (0-5 per criterion, one row per brand and criterion)
  - checkings: Brand contact requests tied to a product and a user
  - users / api_clients: Accounts and machine credentials
  - shops / scan_events: Physical stores and the raw scan telemetry

Schema Strategy (Pre-Release):
All columns are defined in the initial CREATE TABLE statements. Versioned
migrations in migrations.go stay empty until the first public release,
after which schema changes land there.

Primary Keys:
DuckDB has no IDENTITY columns, so every table draws its BIGINT id from a
per-table sequence via DEFAULT nextval(...). INSERT ... RETURNING id picks
the assigned value up without a second round trip.

Referential Integrity:
Foreign keys are intentionally NOT declared. DuckDB's FK support lacks ON
DELETE actions and restricts updates on referenced tables, so the crud
layer enforces the references itself: existence checks before insert
(ErrForeignKeyViolation) and explicit cascade deletes for checkings.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the sequences and core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := db.getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the sequence and table creation SQL
// statements, ordered so that referenced tables exist before the tables
// whose crud methods check against them.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		// Per-table id sequences
		`CREATE SEQUENCE IF NOT EXISTS seq_brands START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_products START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_additives START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_cosmetics START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_household_cleaners START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_product_categories START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_interesting_products START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_partners START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_partner_categories START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_error_reports START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_scoring_categories START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_scoring_criteria START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_brand_scores START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_checkings START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_users START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_api_clients START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_shops START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_scan_events START 1;`,

		// Brands table - hierarchical via parent_id (self-reference)
		`CREATE TABLE IF NOT EXISTS brands (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_brands'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL,
			parent_id BIGINT,
			logo_path TEXT
		);`,

		// Products table - the core catalog, EAN is the natural key
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_products'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ean TEXT NOT NULL UNIQUE,
			name TEXT,
			description TEXT,
			problem_description TEXT,
			brand_id BIGINT,
			brand_name TEXT,
			status TEXT NOT NULL DEFAULT 'MAYBE_VEGAN',
			biodynamic BOOLEAN NOT NULL DEFAULT FALSE,
			state TEXT NOT NULL DEFAULT 'CREATED',
			created_from_off BOOLEAN NOT NULL DEFAULT FALSE
		);`,

		// Additives table - E-numbers
		`CREATE TABLE IF NOT EXISTS additives (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_additives'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			e_number TEXT NOT NULL UNIQUE,
			name TEXT,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'MAYBE_VEGAN',
			source TEXT
		);`,

		// Cosmetics table - one row per cosmetics brand
		`CREATE TABLE IF NOT EXISTS cosmetics (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_cosmetics'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			brand_name TEXT NOT NULL UNIQUE,
			is_vegan BOOLEAN NOT NULL DEFAULT FALSE,
			is_cruelty_free BOOLEAN NOT NULL DEFAULT FALSE,
			description TEXT
		);`,

		// Household cleaners table - same shape as cosmetics plus source
		`CREATE TABLE IF NOT EXISTS household_cleaners (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_household_cleaners'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			brand_name TEXT NOT NULL UNIQUE,
			is_vegan BOOLEAN NOT NULL DEFAULT FALSE,
			is_cruelty_free BOOLEAN NOT NULL DEFAULT FALSE,
			description TEXT,
			source TEXT
		);`,

		// Product categories table - hierarchical via parent_category_id
		`CREATE TABLE IF NOT EXISTS product_categories (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_product_categories'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL UNIQUE,
			parent_category_id BIGINT,
			image TEXT
		);`,

		// Interesting products table - curated placements, EAN-referenced
		`CREATE TABLE IF NOT EXISTS interesting_products (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_interesting_products'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ean TEXT NOT NULL,
			name TEXT,
			image TEXT,
			type TEXT NOT NULL DEFAULT 'popular',
			category_id BIGINT NOT NULL,
			brand_id BIGINT
		);`,

		// Partner categories table
		`CREATE TABLE IF NOT EXISTS partner_categories (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_partner_categories'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL UNIQUE
		);`,

		// Partners table - affiliated businesses with discount codes
		`CREATE TABLE IF NOT EXISTS partners (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_partners'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL,
			logo_path TEXT,
			description TEXT,
			discount_text TEXT,
			discount_code TEXT,
			is_affiliate BOOLEAN NOT NULL DEFAULT FALSE,
			show_code_in_website BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			category_id BIGINT
		);`,

		// Users table - staff and contributor accounts
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_users'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			nickname TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			avatar TEXT,
			reset_token TEXT,
			reset_token_expires TIMESTAMP
		);`,

		// Error reports table - EAN-referenced so reports survive missing products
		`CREATE TABLE IF NOT EXISTS error_reports (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_error_reports'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ean TEXT NOT NULL,
			comment TEXT NOT NULL,
			contact TEXT,
			handled BOOLEAN NOT NULL DEFAULT FALSE,
			created_by BIGINT
		);`,

		// Scoring grid: categories group criteria, brand_scores holds one
		// 0-5 score per (brand, criterion) pair
		`CREATE TABLE IF NOT EXISTS scoring_categories (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_scoring_categories'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL UNIQUE
		);`,

		`CREATE TABLE IF NOT EXISTS scoring_criteria (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_scoring_criteria'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL,
			category_id BIGINT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS brand_scores (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_brand_scores'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			brand_id BIGINT NOT NULL,
			criterion_id BIGINT NOT NULL,
			score DOUBLE NOT NULL,
			description TEXT,
			UNIQUE(brand_id, criterion_id)
		);`,

		// Checkings table - brand contact requests per product and user
		`CREATE TABLE IF NOT EXISTS checkings (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_checkings'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			requested_on TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			responded_on TIMESTAMP,
			status TEXT NOT NULL DEFAULT 'PENDING',
			response TEXT,
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL
		);`,

		// API clients table - machine credentials for the intake endpoints
		`CREATE TABLE IF NOT EXISTS api_clients (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_api_clients'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL UNIQUE,
			api_key TEXT NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT FALSE
		);`,

		// Shops table - staff-created or imported from OpenStreetMap.
		// osm_id is unique but nullable; DuckDB allows multiple NULLs in
		// unique indexes so staff shops without OSM provenance coexist.
		`CREATE TABLE IF NOT EXISTS shops (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_shops'),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			name TEXT NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			address TEXT,
			city TEXT,
			country TEXT,
			osm_id TEXT UNIQUE,
			osm_type TEXT,
			shop_type TEXT
		);`,

		// Scan events table - immutable scan telemetry. event_uuid is the
		// idempotency key for the at-least-once ingest pipeline.
		`CREATE TABLE IF NOT EXISTS scan_events (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_scan_events'),
			event_uuid UUID NOT NULL UNIQUE,
			date_created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ean TEXT NOT NULL,
			latitude DOUBLE,
			longitude DOUBLE,
			shop_id BIGINT,
			user_id BIGINT,
			lookup_api_response TEXT
		);`,
	}
}

// createIndexes creates database indexes for query optimization
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := db.getIndexQueries()

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		// Catalog lookups
		`CREATE INDEX IF NOT EXISTS idx_products_brand_id ON products(brand_id);`,
		`CREATE INDEX IF NOT EXISTS idx_products_status ON products(status);`,
		`CREATE INDEX IF NOT EXISTS idx_products_state ON products(state);`,
		`CREATE INDEX IF NOT EXISTS idx_brands_parent_id ON brands(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_brands_name ON brands(name);`,

		// Curated placements
		`CREATE INDEX IF NOT EXISTS idx_interesting_products_category ON interesting_products(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_interesting_products_type ON interesting_products(type);`,
		`CREATE INDEX IF NOT EXISTS idx_product_categories_parent ON product_categories(parent_category_id);`,

		// Partners
		`CREATE INDEX IF NOT EXISTS idx_partners_category ON partners(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_partners_active ON partners(is_active);`,

		// Error reports are looked up by EAN (non-unique, several reports
		// per product) and triaged by handled flag
		`CREATE INDEX IF NOT EXISTS idx_error_reports_ean ON error_reports(ean);`,
		`CREATE INDEX IF NOT EXISTS idx_error_reports_handled ON error_reports(handled);`,

		// Scoring grid
		`CREATE INDEX IF NOT EXISTS idx_scoring_criteria_category ON scoring_criteria(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_brand_scores_brand ON brand_scores(brand_id);`,
		`CREATE INDEX IF NOT EXISTS idx_brand_scores_criterion ON brand_scores(criterion_id);`,

		// Checkings enrich product reads, so the product_id lookup is hot
		`CREATE INDEX IF NOT EXISTS idx_checkings_product ON checkings(product_id);`,
		`CREATE INDEX IF NOT EXISTS idx_checkings_user ON checkings(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_checkings_requested_on ON checkings(requested_on DESC);`,

		// Password reset lookups
		`CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users(reset_token);`,

		// Shop proximity search prefilters on the bounding box
		`CREATE INDEX IF NOT EXISTS idx_shops_lat_lon ON shops(latitude, longitude);`,

		// Scan telemetry: per-EAN history ordered by recency, plus the
		// per-user and per-shop rollups
		`CREATE INDEX IF NOT EXISTS idx_scan_events_ean ON scan_events(ean);`,
		`CREATE INDEX IF NOT EXISTS idx_scan_events_date ON scan_events(date_created DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_scan_events_ean_date ON scan_events(ean, date_created DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_scan_events_user ON scan_events(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_scan_events_shop ON scan_events(shop_id);`,
	}
}
