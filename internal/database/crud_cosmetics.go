// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_cosmetics.go - Cosmetic and Household Cleaner CRUD Operations

Both entities track vegan / cruelty-free standing per brand name, not
per product: certifications apply brand-wide. The two tables share a
shape except for the cleaners' source column, so both live here.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const cosmeticSelectColumns = `cosmetics.id, cosmetics.created_at, cosmetics.updated_at,
	cosmetics.brand_name, cosmetics.is_vegan, cosmetics.is_cruelty_free, cosmetics.description`

const householdCleanerSelectColumns = `household_cleaners.id, household_cleaners.created_at,
	household_cleaners.updated_at, household_cleaners.brand_name, household_cleaners.is_vegan,
	household_cleaners.is_cruelty_free, household_cleaners.description, household_cleaners.source`

// scanCosmetic scans one cosmetic row.
func scanCosmetic(rows *sql.Rows) (models.Cosmetic, error) {
	var c models.Cosmetic
	var description sql.NullString

	if err := rows.Scan(
		&c.ID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.BrandName,
		&c.IsVegan,
		&c.IsCrueltyFree,
		&description,
	); err != nil {
		return c, fmt.Errorf("failed to scan cosmetic: %w", err)
	}

	if description.Valid {
		c.Description = &description.String
	}
	return c, nil
}

// scanHouseholdCleaner scans one household cleaner row.
func scanHouseholdCleaner(rows *sql.Rows) (models.HouseholdCleaner, error) {
	var h models.HouseholdCleaner
	var description, source sql.NullString

	if err := rows.Scan(
		&h.ID,
		&h.CreatedAt,
		&h.UpdatedAt,
		&h.BrandName,
		&h.IsVegan,
		&h.IsCrueltyFree,
		&description,
		&source,
	); err != nil {
		return h, fmt.Errorf("failed to scan household cleaner: %w", err)
	}

	if description.Valid {
		h.Description = &description.String
	}
	if source.Valid {
		h.Source = &source.String
	}
	return h, nil
}

// CountCosmetics returns the number of cosmetics matching the filters.
func (db *DB) CountCosmetics(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, cosmeticsTable, filters)
}

// GetCosmetic retrieves a single cosmetic by ID.
func (db *DB) GetCosmetic(ctx context.Context, id int64) (models.Cosmetic, error) {
	return getOneWhere(ctx, db, cosmeticsTable, cosmeticSelectColumns, "",
		map[string]any{"id": id}, scanCosmetic)
}

// ListCosmetics returns one page of cosmetics plus the filtered total.
func (db *DB) ListCosmetics(ctx context.Context, p ListParams) ([]models.Cosmetic, int64, error) {
	return listAndCount(ctx, db, cosmeticsTable, cosmeticSelectColumns, "", p, scanCosmetic)
}

// GetAllCosmetics returns every cosmetic brand ordered by name.
func (db *DB) GetAllCosmetics(ctx context.Context) ([]models.Cosmetic, error) {
	return getAllRows(ctx, db, cosmeticsTable, cosmeticSelectColumns, "",
		"cosmetics.brand_name ASC", scanCosmetic)
}

// CreateCosmetic inserts a new cosmetic brand entry. The vegan and
// cruelty-free flags default to false when omitted.
func (db *DB) CreateCosmetic(ctx context.Context, req *models.CreateCosmeticRequest) (models.Cosmetic, error) {
	isVegan := req.IsVegan != nil && *req.IsVegan
	isCrueltyFree := req.IsCrueltyFree != nil && *req.IsCrueltyFree

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO cosmetics (created_at, updated_at, brand_name, is_vegan, is_cruelty_free, description)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.BrandName, isVegan, isCrueltyFree, req.Description,
	).Scan(&id)
	if err != nil {
		return models.Cosmetic{}, classifyError(err)
	}

	return db.GetCosmetic(ctx, id)
}

// UpdateCosmetic applies a partial update.
func (db *DB) UpdateCosmetic(ctx context.Context, id int64, req *models.UpdateCosmeticRequest) (models.Cosmetic, error) {
	p := &patchSet{}
	addSet(p, "brand_name", req.BrandName)
	addSet(p, "is_vegan", req.IsVegan)
	addSet(p, "is_cruelty_free", req.IsCrueltyFree)
	addSet(p, "description", req.Description)

	if err := db.applyPatch(ctx, "cosmetics", id, p, time.Now().UTC()); err != nil {
		return models.Cosmetic{}, err
	}
	return db.GetCosmetic(ctx, id)
}

// DeleteCosmetic removes a cosmetic entry.
func (db *DB) DeleteCosmetic(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "cosmetics", id)
}

// CountHouseholdCleaners returns the number of household cleaners
// matching the filters.
func (db *DB) CountHouseholdCleaners(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, householdCleanersTable, filters)
}

// GetHouseholdCleaner retrieves a single household cleaner by ID.
func (db *DB) GetHouseholdCleaner(ctx context.Context, id int64) (models.HouseholdCleaner, error) {
	return getOneWhere(ctx, db, householdCleanersTable, householdCleanerSelectColumns, "",
		map[string]any{"id": id}, scanHouseholdCleaner)
}

// ListHouseholdCleaners returns one page of household cleaners plus the
// filtered total.
func (db *DB) ListHouseholdCleaners(ctx context.Context, p ListParams) ([]models.HouseholdCleaner, int64, error) {
	return listAndCount(ctx, db, householdCleanersTable, householdCleanerSelectColumns, "", p, scanHouseholdCleaner)
}

// GetAllHouseholdCleaners returns every cleaner brand ordered by name.
func (db *DB) GetAllHouseholdCleaners(ctx context.Context) ([]models.HouseholdCleaner, error) {
	return getAllRows(ctx, db, householdCleanersTable, householdCleanerSelectColumns, "",
		"household_cleaners.brand_name ASC", scanHouseholdCleaner)
}

// CreateHouseholdCleaner inserts a new household cleaner brand entry.
func (db *DB) CreateHouseholdCleaner(ctx context.Context, req *models.CreateHouseholdCleanerRequest) (models.HouseholdCleaner, error) {
	isVegan := req.IsVegan != nil && *req.IsVegan
	isCrueltyFree := req.IsCrueltyFree != nil && *req.IsCrueltyFree

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO household_cleaners (created_at, updated_at, brand_name, is_vegan, is_cruelty_free, description, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.BrandName, isVegan, isCrueltyFree, req.Description, req.Source,
	).Scan(&id)
	if err != nil {
		return models.HouseholdCleaner{}, classifyError(err)
	}

	return db.GetHouseholdCleaner(ctx, id)
}

// UpdateHouseholdCleaner applies a partial update.
func (db *DB) UpdateHouseholdCleaner(ctx context.Context, id int64, req *models.UpdateHouseholdCleanerRequest) (models.HouseholdCleaner, error) {
	p := &patchSet{}
	addSet(p, "brand_name", req.BrandName)
	addSet(p, "is_vegan", req.IsVegan)
	addSet(p, "is_cruelty_free", req.IsCrueltyFree)
	addSet(p, "description", req.Description)
	addSet(p, "source", req.Source)

	if err := db.applyPatch(ctx, "household_cleaners", id, p, time.Now().UTC()); err != nil {
		return models.HouseholdCleaner{}, err
	}
	return db.GetHouseholdCleaner(ctx, id)
}

// DeleteHouseholdCleaner removes a household cleaner entry.
func (db *DB) DeleteHouseholdCleaner(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "household_cleaners", id)
}
