// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_reports.go - Error Report CRUD Operations

Error reports are end-user flags that a catalog entry is wrong. They
reference products by EAN, not ID, so a report about a product the
catalog does not carry yet is still stored; the product reference
resolves to null in that case.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const errorReportSelectColumns = `error_reports.id, error_reports.created_at, error_reports.updated_at,
	error_reports.ean, error_reports.comment, error_reports.contact, error_reports.handled,
	error_reports.created_by, p.id, p.ean, p.name`

const errorReportProductJoin = `LEFT JOIN products p ON p.ean = error_reports.ean`

// scanErrorReport scans one report row with its product reference.
func scanErrorReport(rows *sql.Rows) (models.ErrorReport, error) {
	var r models.ErrorReport
	var contact sql.NullString
	var createdBy, productID sql.NullInt64
	var productEAN, productName sql.NullString

	if err := rows.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.EAN,
		&r.Comment,
		&contact,
		&r.Handled,
		&createdBy,
		&productID,
		&productEAN,
		&productName,
	); err != nil {
		return r, fmt.Errorf("failed to scan error report: %w", err)
	}

	if contact.Valid {
		r.Contact = &contact.String
	}
	if createdBy.Valid {
		r.CreatedBy = &createdBy.Int64
	}
	if productID.Valid {
		ref := &models.ProductRef{ID: productID.Int64, EAN: productEAN.String}
		if productName.Valid {
			ref.Name = &productName.String
		}
		r.Product = ref
	}
	return r, nil
}

// CountErrorReports returns the number of reports matching the filters.
func (db *DB) CountErrorReports(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, errorReportsTable, filters)
}

// GetErrorReport retrieves a single report by ID.
func (db *DB) GetErrorReport(ctx context.Context, id int64) (models.ErrorReport, error) {
	return getOneWhere(ctx, db, errorReportsTable, errorReportSelectColumns, errorReportProductJoin,
		map[string]any{"id": id}, scanErrorReport)
}

// ListErrorReports returns one page of reports plus the filtered total.
func (db *DB) ListErrorReports(ctx context.Context, p ListParams) ([]models.ErrorReport, int64, error) {
	return listAndCount(ctx, db, errorReportsTable, errorReportSelectColumns, errorReportProductJoin, p, scanErrorReport)
}

// GetAllErrorReports returns every report, oldest first.
func (db *DB) GetAllErrorReports(ctx context.Context) ([]models.ErrorReport, error) {
	return getAllRows(ctx, db, errorReportsTable, errorReportSelectColumns, errorReportProductJoin,
		"error_reports.id ASC", scanErrorReport)
}

// CreateErrorReport inserts a new report. The reporter, when known,
// must exist; anonymous reports carry no user.
func (db *DB) CreateErrorReport(ctx context.Context, req *models.CreateErrorReportRequest) (models.ErrorReport, error) {
	if req.CreatedBy != nil {
		if err := db.requireRef(ctx, "users", "User", *req.CreatedBy); err != nil {
			return models.ErrorReport{}, err
		}
	}

	handled := req.Handled != nil && *req.Handled

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO error_reports (created_at, updated_at, ean, comment, contact, handled, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.EAN, req.Comment, req.Contact, handled, req.CreatedBy,
	).Scan(&id)
	if err != nil {
		return models.ErrorReport{}, classifyError(err)
	}

	return db.GetErrorReport(ctx, id)
}

// UpdateErrorReport applies a partial update. The EAN never changes.
func (db *DB) UpdateErrorReport(ctx context.Context, id int64, req *models.UpdateErrorReportRequest) (models.ErrorReport, error) {
	p := &patchSet{}
	addSet(p, "comment", req.Comment)
	addSet(p, "contact", req.Contact)
	addSet(p, "handled", req.Handled)

	if err := db.applyPatch(ctx, "error_reports", id, p, time.Now().UTC()); err != nil {
		return models.ErrorReport{}, err
	}
	return db.GetErrorReport(ctx, id)
}

// DeleteErrorReport removes a report.
func (db *DB) DeleteErrorReport(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "error_reports", id)
}
