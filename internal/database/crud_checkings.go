// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_checkings.go - Checking CRUD Operations

A checking is one contributor's request to a brand about a product's
vegan status, eventually closed with the brand's reply. Reads resolve
the owning user to a trimmed reference and the product to its full
payload, so the contributor dashboard renders from one response.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const checkingSelectColumns = `checkings.id, checkings.created_at, checkings.updated_at,
	checkings.requested_on, checkings.responded_on, checkings.status, checkings.response,
	checkings.user_id, checkings.product_id, u.id, u.nickname, u.avatar`

const checkingUserJoin = `LEFT JOIN users u ON u.id = checkings.user_id`

// scanChecking scans one checking row with its user reference. The
// product payload is attached in a separate batch.
func scanChecking(rows *sql.Rows) (models.Checking, error) {
	var c models.Checking
	var respondedOn sql.NullTime
	var response sql.NullString
	var refID sql.NullInt64
	var refNickname, refAvatar sql.NullString

	if err := rows.Scan(
		&c.ID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.RequestedOn,
		&respondedOn,
		&c.Status,
		&response,
		&c.UserID,
		&c.ProductID,
		&refID,
		&refNickname,
		&refAvatar,
	); err != nil {
		return c, fmt.Errorf("failed to scan checking: %w", err)
	}

	if respondedOn.Valid {
		c.RespondedOn = &respondedOn.Time
	}
	if response.Valid {
		c.Response = &response.String
	}
	if refID.Valid {
		c.User = &models.CheckingUserRef{ID: refID.Int64, Nickname: refNickname.String}
		if refAvatar.Valid {
			c.User.Avatar = &refAvatar.String
		}
	}
	return c, nil
}

// attachCheckingProducts loads the product payloads for a set of
// checkings in one batch.
func (db *DB) attachCheckingProducts(ctx context.Context, checkings []*models.Checking) error {
	if len(checkings) == 0 {
		return nil
	}

	seen := make(map[int64]bool, len(checkings))
	var placeholders []string
	var args []any
	for _, c := range checkings {
		if !seen[c.ProductID] {
			seen[c.ProductID] = true
			placeholders = append(placeholders, "?")
			args = append(args, c.ProductID)
		}
	}

	query := fmt.Sprintf("SELECT %s FROM products %s WHERE products.id IN (%s)",
		productSelectColumns, productBrandJoin, strings.Join(placeholders, ", "))
	products, err := queryAndScan(ctx, db.conn, query, args, scanProduct)
	if err != nil {
		return fmt.Errorf("failed to load checking products: %w", err)
	}

	refs := make([]*models.Product, len(products))
	byID := make(map[int64]*models.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
		byID[products[i].ID] = &products[i]
	}
	if err := db.attachProductCheckings(ctx, refs); err != nil {
		return err
	}

	for _, c := range checkings {
		if p, ok := byID[c.ProductID]; ok {
			product := *p
			c.Product = &product
		}
	}
	return nil
}

// CountCheckings returns the number of checkings matching the filters.
func (db *DB) CountCheckings(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, checkingsTable, filters)
}

// GetChecking retrieves a single checking with user and product
// resolved.
func (db *DB) GetChecking(ctx context.Context, id int64) (models.Checking, error) {
	c, err := getOneWhere(ctx, db, checkingsTable, checkingSelectColumns, checkingUserJoin,
		map[string]any{"id": id}, scanChecking)
	if err != nil {
		return c, err
	}
	if err := db.attachCheckingProducts(ctx, []*models.Checking{&c}); err != nil {
		return c, err
	}
	return c, nil
}

// ListCheckings returns one page of checkings plus the filtered total,
// users and products resolved.
func (db *DB) ListCheckings(ctx context.Context, p ListParams) ([]models.Checking, int64, error) {
	items, total, err := listAndCount(ctx, db, checkingsTable, checkingSelectColumns, checkingUserJoin, p, scanChecking)
	if err != nil {
		return nil, 0, err
	}

	refs := make([]*models.Checking, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := db.attachCheckingProducts(ctx, refs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetAllCheckings returns every checking, oldest first, products
// attached.
func (db *DB) GetAllCheckings(ctx context.Context) ([]models.Checking, error) {
	items, err := getAllRows(ctx, db, checkingsTable, checkingSelectColumns, checkingUserJoin,
		"checkings.id ASC", scanChecking)
	if err != nil {
		return nil, err
	}

	refs := make([]*models.Checking, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := db.attachCheckingProducts(ctx, refs); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateChecking opens a checking owned by userID. RequestedOn defaults
// to now and status to PENDING; the product must exist.
func (db *DB) CreateChecking(ctx context.Context, userID int64, req *models.CreateCheckingRequest) (models.Checking, error) {
	if err := db.requireRef(ctx, "users", "User", userID); err != nil {
		return models.Checking{}, err
	}
	if err := db.requireRef(ctx, "products", "Product", req.ProductID); err != nil {
		return models.Checking{}, err
	}

	now := time.Now().UTC()
	requestedOn := now
	if req.RequestedOn != nil {
		requestedOn = req.RequestedOn.UTC()
	}
	status := models.CheckingPending
	if req.Status != nil {
		status = *req.Status
	}

	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO checkings (created_at, updated_at, requested_on, responded_on, status, response, user_id, product_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, requestedOn, req.RespondedOn, status, req.Response, userID, req.ProductID,
	).Scan(&id)
	if err != nil {
		return models.Checking{}, classifyError(err)
	}

	return db.GetChecking(ctx, id)
}

// UpdateChecking applies a partial update. Ownership is enforced by the
// caller; the product, when changed, must exist.
func (db *DB) UpdateChecking(ctx context.Context, id int64, req *models.UpdateCheckingRequest) (models.Checking, error) {
	if req.ProductID != nil {
		if err := db.requireRef(ctx, "products", "Product", *req.ProductID); err != nil {
			return models.Checking{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "product_id", req.ProductID)
	addSet(p, "requested_on", req.RequestedOn)
	addSet(p, "responded_on", req.RespondedOn)
	addSet(p, "response", req.Response)
	addSet(p, "status", req.Status)

	if err := db.applyPatch(ctx, "checkings", id, p, time.Now().UTC()); err != nil {
		return models.Checking{}, err
	}
	return db.GetChecking(ctx, id)
}

// DeleteChecking removes a checking.
func (db *DB) DeleteChecking(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "checkings", id)
}
