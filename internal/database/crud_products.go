// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_products.go - Product CRUD Operations

Products are the core catalog entity, keyed by EAN barcode. Reads carry
two enrichments:
  - the brand reference, joined on the page query
  - the checking history (brand verification requests), fetched in one
    batch query per page and grouped in memory, newest first

LastRequestedOn/LastRequestedBy mirror the newest checking so list
clients can show "last asked on X by Y" without unpacking the history.
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

const productSelectColumns = `products.id, products.created_at, products.updated_at,
	products.ean, products.name, products.description, products.problem_description,
	products.brand_id, products.brand_name, products.status, products.biodynamic,
	products.state, products.created_from_off, b.id, b.name`

const productBrandJoin = `LEFT JOIN brands b ON b.id = products.brand_id`

// scanProduct scans one product row including the brand reference.
func scanProduct(rows *sql.Rows) (models.Product, error) {
	var p models.Product
	var name, description, problemDescription, brandName sql.NullString
	var brandID, refID sql.NullInt64
	var refName sql.NullString

	if err := rows.Scan(
		&p.ID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.EAN,
		&name,
		&description,
		&problemDescription,
		&brandID,
		&brandName,
		&p.Status,
		&p.Biodynamic,
		&p.State,
		&p.CreatedFromOff,
		&refID,
		&refName,
	); err != nil {
		return p, fmt.Errorf("failed to scan product: %w", err)
	}

	if name.Valid {
		p.Name = &name.String
	}
	if description.Valid {
		p.Description = &description.String
	}
	if problemDescription.Valid {
		p.ProblemDescription = &problemDescription.String
	}
	if brandID.Valid {
		p.BrandID = &brandID.Int64
	}
	if brandName.Valid {
		p.BrandName = &brandName.String
	}
	if refID.Valid {
		p.Brand = &models.BrandRef{ID: refID.Int64, Name: refName.String}
	}
	p.Checkings = []models.CheckingForProduct{}
	return p, nil
}

// CountProducts returns the number of products matching the filters.
func (db *DB) CountProducts(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, productsTable, filters)
}

// GetProduct retrieves a single product by ID with brand and checkings
// resolved.
func (db *DB) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	p, err := getOneWhere(ctx, db, productsTable, productSelectColumns, productBrandJoin,
		map[string]any{"id": id}, scanProduct)
	if err != nil {
		return p, err
	}
	if err := db.attachProductCheckings(ctx, []*models.Product{&p}); err != nil {
		return p, err
	}
	return p, nil
}

// GetProductByEAN retrieves a product by its barcode, the mobile
// client's lookup path.
func (db *DB) GetProductByEAN(ctx context.Context, ean string) (models.Product, error) {
	p, err := getOneWhere(ctx, db, productsTable, productSelectColumns, productBrandJoin,
		map[string]any{"ean": ean}, scanProduct)
	if err != nil {
		return p, err
	}
	if err := db.attachProductCheckings(ctx, []*models.Product{&p}); err != nil {
		return p, err
	}
	return p, nil
}

// ListProducts returns one page of products plus the filtered total,
// with brand references and checking histories resolved.
func (db *DB) ListProducts(ctx context.Context, p ListParams) ([]models.Product, int64, error) {
	items, total, err := listAndCount(ctx, db, productsTable, productSelectColumns, productBrandJoin, p, scanProduct)
	if err != nil {
		return nil, 0, err
	}

	refs := make([]*models.Product, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := db.attachProductCheckings(ctx, refs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetAllProducts returns the whole catalog, checking histories
// attached, for the unpaginated listing.
func (db *DB) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	items, err := getAllRows(ctx, db, productsTable, productSelectColumns, productBrandJoin,
		"products.id ASC", scanProduct)
	if err != nil {
		return nil, err
	}

	refs := make([]*models.Product, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := db.attachProductCheckings(ctx, refs); err != nil {
		return nil, err
	}
	return items, nil
}

// attachProductCheckings loads the checking histories for a set of
// products in one batch and distributes them, newest first. The newest
// entry also feeds LastRequestedOn/LastRequestedBy.
func (db *DB) attachProductCheckings(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Product, len(products))
	placeholders := make([]string, len(products))
	args := make([]any, len(products))
	for i, p := range products {
		byID[p.ID] = p
		placeholders[i] = "?"
		args[i] = p.ID
	}

	query := fmt.Sprintf(`SELECT c.id, c.requested_on, c.responded_on, c.response, c.status,
			c.product_id, u.id, u.nickname, u.avatar
		FROM checkings c
		JOIN users u ON u.id = c.user_id
		WHERE c.product_id IN (%s)
		ORDER BY c.requested_on DESC, c.id DESC`, strings.Join(placeholders, ", "))

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query product checkings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CheckingForProduct
		var respondedOn sql.NullTime
		var response, avatar sql.NullString
		var productID, userID int64
		var nickname string

		if err := rows.Scan(
			&c.ID,
			&c.RequestedOn,
			&respondedOn,
			&response,
			&c.Status,
			&productID,
			&userID,
			&nickname,
			&avatar,
		); err != nil {
			return fmt.Errorf("failed to scan product checking: %w", err)
		}

		if respondedOn.Valid {
			c.RespondedOn = &respondedOn.Time
		}
		if response.Valid {
			c.Response = &response.String
		}
		c.User = &models.CheckingUserRef{ID: userID, Nickname: nickname}
		if avatar.Valid {
			c.User.Avatar = &avatar.String
		}

		p, ok := byID[productID]
		if !ok {
			continue
		}
		if len(p.Checkings) == 0 {
			requestedOn := c.RequestedOn
			p.LastRequestedOn = &requestedOn
			p.LastRequestedBy = &c.User.Nickname
		}
		p.Checkings = append(p.Checkings, c)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("product checkings iteration error: %w", err)
	}
	return nil
}

// CreateProduct inserts a new product and returns it fully resolved.
// Status defaults to MAYBE_VEGAN and state to CREATED when omitted; the
// brand, when given, must exist.
func (db *DB) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (models.Product, error) {
	if req.BrandID != nil {
		if err := db.requireRef(ctx, "brands", "Brand", *req.BrandID); err != nil {
			return models.Product{}, err
		}
	}

	status := string(models.ProductStatusMaybeVegan)
	if req.Status != nil {
		status = *req.Status
	}
	state := string(models.ProductStateCreated)
	if req.State != nil {
		state = *req.State
	}
	biodynamic := false
	if req.Biodynamic != nil {
		biodynamic = *req.Biodynamic
	}

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO products (created_at, updated_at, ean, name, description,
			problem_description, brand_id, brand_name, status, biodynamic, state, created_from_off)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE) RETURNING id`,
		now, now, req.EAN, req.Name, req.Description, req.ProblemDescription,
		req.BrandID, req.BrandName, status, biodynamic, state,
	).Scan(&id)
	if err != nil {
		return models.Product{}, classifyError(err)
	}

	return db.GetProduct(ctx, id)
}

// UpdateProduct applies a partial update. Absent fields keep their
// values; the brand, when changed, must exist.
func (db *DB) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (models.Product, error) {
	if req.BrandID != nil {
		if err := db.requireRef(ctx, "brands", "Brand", *req.BrandID); err != nil {
			return models.Product{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "ean", req.EAN)
	addSet(p, "name", req.Name)
	addSet(p, "description", req.Description)
	addSet(p, "problem_description", req.ProblemDescription)
	addSet(p, "brand_id", req.BrandID)
	addSet(p, "brand_name", req.BrandName)
	addSet(p, "status", req.Status)
	addSet(p, "biodynamic", req.Biodynamic)
	addSet(p, "state", req.State)

	if err := db.applyPatch(ctx, "products", id, p, time.Now().UTC()); err != nil {
		return models.Product{}, err
	}
	return db.GetProduct(ctx, id)
}

// DeleteProduct removes a product and its checking history.
func (db *DB) DeleteProduct(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "products", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM checkings WHERE product_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete product checkings: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "products")
	})
}
