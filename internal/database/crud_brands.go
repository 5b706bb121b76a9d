// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_brands.go - Brand CRUD Operations

Brands form a hierarchy through parent_id (a label owned by a group).
Reads resolve the parent row into a compact reference. Deletes detach
referencing rows explicitly because the schema declares no FK actions
(see database_schema.go).
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const brandSelectColumns = `brands.id, brands.created_at, brands.updated_at,
	brands.name, brands.parent_id, brands.logo_path, pb.id, pb.name`

const brandParentJoin = `LEFT JOIN brands pb ON pb.id = brands.parent_id`

// scanBrand scans one brand row including the optional parent reference.
func scanBrand(rows *sql.Rows) (models.Brand, error) {
	var b models.Brand
	var parentID, refID sql.NullInt64
	var logoPath, refName sql.NullString

	if err := rows.Scan(
		&b.ID,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Name,
		&parentID,
		&logoPath,
		&refID,
		&refName,
	); err != nil {
		return b, fmt.Errorf("failed to scan brand: %w", err)
	}

	if parentID.Valid {
		b.ParentID = &parentID.Int64
	}
	if logoPath.Valid {
		b.LogoPath = &logoPath.String
	}
	if refID.Valid {
		b.Parent = &models.BrandRef{ID: refID.Int64, Name: refName.String}
	}
	return b, nil
}

// CountBrands returns the number of brands matching the filters.
func (db *DB) CountBrands(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, brandsTable, filters)
}

// GetBrand retrieves a single brand by ID with its parent resolved.
func (db *DB) GetBrand(ctx context.Context, id int64) (models.Brand, error) {
	return getOneWhere(ctx, db, brandsTable, brandSelectColumns, brandParentJoin,
		map[string]any{"id": id}, scanBrand)
}

// GetBrandByName retrieves a brand by exact name match.
func (db *DB) GetBrandByName(ctx context.Context, name string) (models.Brand, error) {
	return getOneWhere(ctx, db, brandsTable, brandSelectColumns, brandParentJoin,
		map[string]any{"name": name}, scanBrand)
}

// ListBrands returns one page of brands plus the filtered total.
func (db *DB) ListBrands(ctx context.Context, p ListParams) ([]models.Brand, int64, error) {
	return listAndCount(ctx, db, brandsTable, brandSelectColumns, brandParentJoin, p, scanBrand)
}

// GetAllBrands returns every brand ordered by name, for selection lists.
func (db *DB) GetAllBrands(ctx context.Context) ([]models.Brand, error) {
	return getAllRows(ctx, db, brandsTable, brandSelectColumns, brandParentJoin,
		"brands.name ASC", scanBrand)
}

// CreateBrand inserts a new brand and returns it with the parent
// reference resolved. The parent, when given, must exist.
func (db *DB) CreateBrand(ctx context.Context, req *models.CreateBrandRequest) (models.Brand, error) {
	if req.ParentID != nil {
		if err := db.requireRef(ctx, "brands", "Brand", *req.ParentID); err != nil {
			return models.Brand{}, err
		}
	}

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO brands (created_at, updated_at, name, parent_id)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		now, now, req.Name, req.ParentID,
	).Scan(&id)
	if err != nil {
		return models.Brand{}, classifyError(err)
	}

	return db.GetBrand(ctx, id)
}

// UpdateBrand applies a partial update. Absent fields keep their values.
func (db *DB) UpdateBrand(ctx context.Context, id int64, req *models.UpdateBrandRequest) (models.Brand, error) {
	if req.ParentID != nil {
		if err := db.requireRef(ctx, "brands", "Brand", *req.ParentID); err != nil {
			return models.Brand{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "name", req.Name)
	addSet(p, "parent_id", req.ParentID)

	if err := db.applyPatch(ctx, "brands", id, p, time.Now().UTC()); err != nil {
		return models.Brand{}, err
	}
	return db.GetBrand(ctx, id)
}

// SetBrandLogoPath stores the relative path of an uploaded brand logo.
func (db *DB) SetBrandLogoPath(ctx context.Context, id int64, logoPath string) (models.Brand, error) {
	p := &patchSet{}
	p.set("logo_path", logoPath)

	if err := db.applyPatch(ctx, "brands", id, p, time.Now().UTC()); err != nil {
		return models.Brand{}, err
	}
	return db.GetBrand(ctx, id)
}

// DeleteBrand removes a brand. Products and interesting products that
// referenced it are detached, child brands are orphaned to top level,
// and its scores are dropped.
func (db *DB) DeleteBrand(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "brands", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		detach := []string{
			"UPDATE products SET brand_id = NULL WHERE brand_id = ?",
			"UPDATE brands SET parent_id = NULL WHERE parent_id = ?",
			"UPDATE interesting_products SET brand_id = NULL WHERE brand_id = ?",
			"DELETE FROM brand_scores WHERE brand_id = ?",
		}
		for _, q := range detach {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("failed to detach brand references: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM brands WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "brands")
	})
}
