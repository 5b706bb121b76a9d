// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_additives.go - Food Additive CRUD Operations

Additives are flat rows keyed by E-number (E120, E441...). The mobile
client resolves scanned ingredient lists against this table, so the
E-number lookup is the hot path.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const additiveSelectColumns = `additives.id, additives.created_at, additives.updated_at,
	additives.e_number, additives.name, additives.description, additives.status, additives.source`

// scanAdditive scans one additive row.
func scanAdditive(rows *sql.Rows) (models.Additive, error) {
	var a models.Additive
	var name, description, source sql.NullString

	if err := rows.Scan(
		&a.ID,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.ENumber,
		&name,
		&description,
		&a.Status,
		&source,
	); err != nil {
		return a, fmt.Errorf("failed to scan additive: %w", err)
	}

	if name.Valid {
		a.Name = &name.String
	}
	if description.Valid {
		a.Description = &description.String
	}
	if source.Valid {
		a.Source = &source.String
	}
	return a, nil
}

// CountAdditives returns the number of additives matching the filters.
func (db *DB) CountAdditives(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, additivesTable, filters)
}

// GetAdditive retrieves a single additive by ID.
func (db *DB) GetAdditive(ctx context.Context, id int64) (models.Additive, error) {
	return getOneWhere(ctx, db, additivesTable, additiveSelectColumns, "",
		map[string]any{"id": id}, scanAdditive)
}

// GetAdditiveByENumber retrieves an additive by its E-number.
func (db *DB) GetAdditiveByENumber(ctx context.Context, eNumber string) (models.Additive, error) {
	return getOneWhere(ctx, db, additivesTable, additiveSelectColumns, "",
		map[string]any{"e_number": eNumber}, scanAdditive)
}

// ListAdditives returns one page of additives plus the filtered total.
func (db *DB) ListAdditives(ctx context.Context, p ListParams) ([]models.Additive, int64, error) {
	return listAndCount(ctx, db, additivesTable, additiveSelectColumns, "", p, scanAdditive)
}

// GetAllAdditives returns every additive ordered by E-number.
func (db *DB) GetAllAdditives(ctx context.Context) ([]models.Additive, error) {
	return getAllRows(ctx, db, additivesTable, additiveSelectColumns, "",
		"additives.e_number ASC", scanAdditive)
}

// CreateAdditive inserts a new additive. Status defaults to MAYBE_VEGAN.
func (db *DB) CreateAdditive(ctx context.Context, req *models.CreateAdditiveRequest) (models.Additive, error) {
	status := string(models.AdditiveStatusMaybeVegan)
	if req.Status != nil {
		status = *req.Status
	}

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO additives (created_at, updated_at, e_number, name, description, status, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.ENumber, req.Name, req.Description, status, req.Source,
	).Scan(&id)
	if err != nil {
		return models.Additive{}, classifyError(err)
	}

	return db.GetAdditive(ctx, id)
}

// UpdateAdditive applies a partial update.
func (db *DB) UpdateAdditive(ctx context.Context, id int64, req *models.UpdateAdditiveRequest) (models.Additive, error) {
	p := &patchSet{}
	addSet(p, "e_number", req.ENumber)
	addSet(p, "name", req.Name)
	addSet(p, "description", req.Description)
	addSet(p, "status", req.Status)
	addSet(p, "source", req.Source)

	if err := db.applyPatch(ctx, "additives", id, p, time.Now().UTC()); err != nil {
		return models.Additive{}, err
	}
	return db.GetAdditive(ctx, id)
}

// DeleteAdditive removes an additive.
func (db *DB) DeleteAdditive(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "additives", id)
}
