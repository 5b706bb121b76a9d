// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_partners.go - Partner and Partner Category CRUD Operations

Partners are affiliated vegan businesses promoted in the app, grouped
into flat categories. Public listings filter on is_active; the admin
surface sees everything.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const partnerSelectColumns = `partners.id, partners.created_at, partners.updated_at,
	partners.name, partners.url, partners.logo_path, partners.description,
	partners.discount_text, partners.discount_code, partners.is_affiliate,
	partners.show_code_in_website, partners.is_active, partners.category_id, pc.name`

const partnerCategoryJoin = `LEFT JOIN partner_categories pc ON pc.id = partners.category_id`

const partnerCategorySelectColumns = `partner_categories.id, partner_categories.created_at,
	partner_categories.updated_at, partner_categories.name`

// scanPartner scans one partner row with its category name.
func scanPartner(rows *sql.Rows) (models.Partner, error) {
	var p models.Partner
	var logoPath, description, discountText, discountCode, categoryName sql.NullString
	var categoryID sql.NullInt64

	if err := rows.Scan(
		&p.ID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Name,
		&p.URL,
		&logoPath,
		&description,
		&discountText,
		&discountCode,
		&p.IsAffiliate,
		&p.ShowCodeInWebsite,
		&p.IsActive,
		&categoryID,
		&categoryName,
	); err != nil {
		return p, fmt.Errorf("failed to scan partner: %w", err)
	}

	if logoPath.Valid {
		p.LogoPath = &logoPath.String
	}
	if description.Valid {
		p.Description = &description.String
	}
	if discountText.Valid {
		p.DiscountText = &discountText.String
	}
	if discountCode.Valid {
		p.DiscountCode = &discountCode.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	if categoryName.Valid {
		p.CategoryName = &categoryName.String
	}
	return p, nil
}

// scanPartnerCategory scans one partner category row.
func scanPartnerCategory(rows *sql.Rows) (models.PartnerCategory, error) {
	var c models.PartnerCategory
	if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name); err != nil {
		return c, fmt.Errorf("failed to scan partner category: %w", err)
	}
	return c, nil
}

// CountPartners returns the number of partners matching the filters.
func (db *DB) CountPartners(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, partnersTable, filters)
}

// GetPartner retrieves a single partner by ID.
func (db *DB) GetPartner(ctx context.Context, id int64) (models.Partner, error) {
	return getOneWhere(ctx, db, partnersTable, partnerSelectColumns, partnerCategoryJoin,
		map[string]any{"id": id}, scanPartner)
}

// ListPartners returns one page of partners plus the filtered total.
func (db *DB) ListPartners(ctx context.Context, p ListParams) ([]models.Partner, int64, error) {
	return listAndCount(ctx, db, partnersTable, partnerSelectColumns, partnerCategoryJoin, p, scanPartner)
}

// GetAllPartners returns every partner ordered by name.
func (db *DB) GetAllPartners(ctx context.Context) ([]models.Partner, error) {
	return getAllRows(ctx, db, partnersTable, partnerSelectColumns, partnerCategoryJoin,
		"partners.name ASC", scanPartner)
}

// CreatePartner inserts a new partner. IsActive defaults to true so a
// freshly added partner shows up immediately; the category, when given,
// must exist.
func (db *DB) CreatePartner(ctx context.Context, req *models.CreatePartnerRequest) (models.Partner, error) {
	if req.CategoryID != nil {
		if err := db.requireRef(ctx, "partner_categories", "Partner category", *req.CategoryID); err != nil {
			return models.Partner{}, err
		}
	}

	isAffiliate := req.IsAffiliate != nil && *req.IsAffiliate
	showCode := req.ShowCodeInWebsite != nil && *req.ShowCodeInWebsite
	isActive := req.IsActive == nil || *req.IsActive

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO partners (created_at, updated_at, name, url, logo_path, description,
			discount_text, discount_code, is_affiliate, show_code_in_website, is_active, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.Name, req.URL, req.LogoPath, req.Description,
		req.DiscountText, req.DiscountCode, isAffiliate, showCode, isActive, req.CategoryID,
	).Scan(&id)
	if err != nil {
		return models.Partner{}, classifyError(err)
	}

	return db.GetPartner(ctx, id)
}

// UpdatePartner applies a partial update.
func (db *DB) UpdatePartner(ctx context.Context, id int64, req *models.UpdatePartnerRequest) (models.Partner, error) {
	if req.CategoryID != nil {
		if err := db.requireRef(ctx, "partner_categories", "Partner category", *req.CategoryID); err != nil {
			return models.Partner{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "name", req.Name)
	addSet(p, "url", req.URL)
	addSet(p, "logo_path", req.LogoPath)
	addSet(p, "description", req.Description)
	addSet(p, "discount_text", req.DiscountText)
	addSet(p, "discount_code", req.DiscountCode)
	addSet(p, "is_affiliate", req.IsAffiliate)
	addSet(p, "show_code_in_website", req.ShowCodeInWebsite)
	addSet(p, "is_active", req.IsActive)
	addSet(p, "category_id", req.CategoryID)

	if err := db.applyPatch(ctx, "partners", id, p, time.Now().UTC()); err != nil {
		return models.Partner{}, err
	}
	return db.GetPartner(ctx, id)
}

// SetPartnerLogoPath stores the relative path of an uploaded partner logo.
func (db *DB) SetPartnerLogoPath(ctx context.Context, id int64, logoPath string) (models.Partner, error) {
	p := &patchSet{}
	p.set("logo_path", logoPath)

	if err := db.applyPatch(ctx, "partners", id, p, time.Now().UTC()); err != nil {
		return models.Partner{}, err
	}
	return db.GetPartner(ctx, id)
}

// DeletePartner removes a partner.
func (db *DB) DeletePartner(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "partners", id)
}

// CountPartnerCategories returns the number of partner categories
// matching the filters.
func (db *DB) CountPartnerCategories(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, partnerCategoriesTable, filters)
}

// GetPartnerCategory retrieves a single partner category by ID.
func (db *DB) GetPartnerCategory(ctx context.Context, id int64) (models.PartnerCategory, error) {
	return getOneWhere(ctx, db, partnerCategoriesTable, partnerCategorySelectColumns, "",
		map[string]any{"id": id}, scanPartnerCategory)
}

// ListPartnerCategories returns one page of partner categories plus the
// filtered total.
func (db *DB) ListPartnerCategories(ctx context.Context, p ListParams) ([]models.PartnerCategory, int64, error) {
	return listAndCount(ctx, db, partnerCategoriesTable, partnerCategorySelectColumns, "", p, scanPartnerCategory)
}

// GetAllPartnerCategories returns every partner category ordered by name.
func (db *DB) GetAllPartnerCategories(ctx context.Context) ([]models.PartnerCategory, error) {
	return getAllRows(ctx, db, partnerCategoriesTable, partnerCategorySelectColumns, "",
		"partner_categories.name ASC", scanPartnerCategory)
}

// CreatePartnerCategory inserts a new partner category.
func (db *DB) CreatePartnerCategory(ctx context.Context, req *models.CreatePartnerCategoryRequest) (models.PartnerCategory, error) {
	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO partner_categories (created_at, updated_at, name)
		 VALUES (?, ?, ?) RETURNING id`,
		now, now, req.Name,
	).Scan(&id)
	if err != nil {
		return models.PartnerCategory{}, classifyError(err)
	}

	return db.GetPartnerCategory(ctx, id)
}

// UpdatePartnerCategory applies a partial update.
func (db *DB) UpdatePartnerCategory(ctx context.Context, id int64, req *models.UpdatePartnerCategoryRequest) (models.PartnerCategory, error) {
	p := &patchSet{}
	addSet(p, "name", req.Name)

	if err := db.applyPatch(ctx, "partner_categories", id, p, time.Now().UTC()); err != nil {
		return models.PartnerCategory{}, err
	}
	return db.GetPartnerCategory(ctx, id)
}

// DeletePartnerCategory removes a partner category. Partners grouped
// under it are detached, not deleted.
func (db *DB) DeletePartnerCategory(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "partner_categories", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE partners SET category_id = NULL WHERE category_id = ?", id); err != nil {
			return fmt.Errorf("failed to detach partners from category: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM partner_categories WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "partner_categories")
	})
}
