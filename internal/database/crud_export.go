// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mverdier/leafbase/internal/models"
)

// ExportProductRow is one source row for the products SQLite artifact.
// Brand carries the joined brand name when the product is linked to a
// brand; the exporter falls back to Description otherwise.
type ExportProductRow struct {
	EAN                string
	Name               *string
	Description        *string
	Brand              *string
	Status             models.ProductStatus
	Biodynamic         bool
	ProblemDescription *string
}

// ExportCosmeticRow is one source row for the cosmetics SQLite artifact.
type ExportCosmeticRow struct {
	BrandName     string
	IsVegan       bool
	IsCrueltyFree bool
}

// ExportStates are the editorial states whose products reach export
// artifacts. Drafts and rejected entries stay out.
var ExportStates = []models.ProductState{
	models.ProductStatePublished,
	models.ProductStateNeedContact,
	models.ProductStateWaitingReply,
}

// ListExportableProducts returns every product in a publishable state,
// with the brand name resolved. Rows without an EAN are included so the
// exporter can count skips the same way the stats endpoint does.
func (db *DB) ListExportableProducts(ctx context.Context) ([]ExportProductRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT products.ean, products.name, products.description, b.name,
			products.status, products.biodynamic, products.problem_description
		FROM products
		LEFT JOIN brands b ON b.id = products.brand_id
		WHERE products.state IN (?, ?, ?)
		ORDER BY products.ean`

	args := make([]any, len(ExportStates))
	for i, state := range ExportStates {
		args[i] = string(state)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exportable products: %w", err)
	}
	defer rows.Close()

	var result []ExportProductRow
	for rows.Next() {
		var r ExportProductRow
		var name, description, brand, problem sql.NullString

		if err := rows.Scan(&r.EAN, &name, &description, &brand, &r.Status, &r.Biodynamic, &problem); err != nil {
			return nil, fmt.Errorf("failed to scan exportable product: %w", err)
		}
		if name.Valid {
			r.Name = &name.String
		}
		if description.Valid {
			r.Description = &description.String
		}
		if brand.Valid {
			r.Brand = &brand.String
		}
		if problem.Valid {
			r.ProblemDescription = &problem.String
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exportable products iteration error: %w", err)
	}
	return result, nil
}

// ListExportableCosmetics returns every cosmetics brand row for the
// cosmetics artifact.
func (db *DB) ListExportableCosmetics(ctx context.Context) ([]ExportCosmeticRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT brand_name, is_vegan, is_cruelty_free
		FROM cosmetics
		ORDER BY brand_name`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exportable cosmetics: %w", err)
	}
	defer rows.Close()

	var result []ExportCosmeticRow
	for rows.Next() {
		var r ExportCosmeticRow
		if err := rows.Scan(&r.BrandName, &r.IsVegan, &r.IsCrueltyFree); err != nil {
			return nil, fmt.Errorf("failed to scan exportable cosmetic: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exportable cosmetics iteration error: %w", err)
	}
	return result, nil
}
