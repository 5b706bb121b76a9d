// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_catalog.go - Product Category and Interesting Product CRUD

Product categories form a tree through parent_category_id; reads carry
the full ancestry path (CategoryTree, root to leaf) so clients render
breadcrumbs without extra round trips. The category table is small and
curated, so the tree is computed from one full index load per read.

Interesting products are curated placements (popular or sponsored)
pinned to a category, referencing catalog products by EAN.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const productCategorySelectColumns = `product_categories.id, product_categories.created_at,
	product_categories.updated_at, product_categories.name, product_categories.parent_category_id,
	product_categories.image`

const interestingProductSelectColumns = `interesting_products.id, interesting_products.created_at,
	interesting_products.updated_at, interesting_products.ean, interesting_products.name,
	interesting_products.image, interesting_products.type, interesting_products.category_id,
	interesting_products.brand_id, pc.name, b.name`

const interestingProductJoins = `LEFT JOIN product_categories pc ON pc.id = interesting_products.category_id
	LEFT JOIN brands b ON b.id = interesting_products.brand_id`

// scanProductCategory scans one category row. Ancestry enrichment
// happens separately against the category index.
func scanProductCategory(rows *sql.Rows) (models.ProductCategory, error) {
	var c models.ProductCategory
	var parentID sql.NullInt64
	var image sql.NullString

	if err := rows.Scan(
		&c.ID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Name,
		&parentID,
		&image,
	); err != nil {
		return c, fmt.Errorf("failed to scan product category: %w", err)
	}

	if parentID.Valid {
		c.ParentCategoryID = &parentID.Int64
	}
	if image.Valid {
		c.Image = &image.String
	}
	return c, nil
}

// scanInterestingProduct scans one placement row with its category and
// brand names.
func scanInterestingProduct(rows *sql.Rows) (models.InterestingProduct, error) {
	var ip models.InterestingProduct
	var name, image, categoryName, brandName sql.NullString
	var brandID sql.NullInt64

	if err := rows.Scan(
		&ip.ID,
		&ip.CreatedAt,
		&ip.UpdatedAt,
		&ip.EAN,
		&name,
		&image,
		&ip.Type,
		&ip.CategoryID,
		&brandID,
		&categoryName,
		&brandName,
	); err != nil {
		return ip, fmt.Errorf("failed to scan interesting product: %w", err)
	}

	if name.Valid {
		ip.Name = &name.String
	}
	if image.Valid {
		ip.Image = &image.String
	}
	if brandID.Valid {
		ip.BrandID = &brandID.Int64
	}
	if categoryName.Valid {
		ip.CategoryName = &categoryName.String
	}
	if brandName.Valid {
		ip.BrandName = &brandName.String
	}
	return ip, nil
}

// categoryNode is one entry of the in-memory category index.
type categoryNode struct {
	name     string
	parentID *int64
}

// loadCategoryIndex loads every category's name and parent in one query.
func (db *DB) loadCategoryIndex(ctx context.Context) (map[int64]categoryNode, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, name, parent_category_id FROM product_categories")
	if err != nil {
		return nil, fmt.Errorf("failed to load category index: %w", err)
	}
	defer rows.Close()

	index := make(map[int64]categoryNode)
	for rows.Next() {
		var id int64
		var name string
		var parentID sql.NullInt64
		if err := rows.Scan(&id, &name, &parentID); err != nil {
			return nil, fmt.Errorf("failed to scan category index row: %w", err)
		}
		node := categoryNode{name: name}
		if parentID.Valid {
			node.parentID = &parentID.Int64
		}
		index[id] = node
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category index iteration error: %w", err)
	}
	return index, nil
}

// categoryTree walks the ancestry of id and returns names root to leaf,
// including id itself. A visited set caps the walk should bad data ever
// produce a cycle.
func categoryTree(index map[int64]categoryNode, id int64) []string {
	var reversed []string
	visited := make(map[int64]bool)

	current := &id
	for current != nil && !visited[*current] {
		visited[*current] = true
		node, ok := index[*current]
		if !ok {
			break
		}
		reversed = append(reversed, node.name)
		current = node.parentID
	}

	tree := make([]string, len(reversed))
	for i, name := range reversed {
		tree[len(reversed)-1-i] = name
	}
	return tree
}

// enrichCategories fills ParentCategoryName and CategoryTree from the
// index.
func enrichCategories(index map[int64]categoryNode, categories []*models.ProductCategory) {
	for _, c := range categories {
		c.CategoryTree = categoryTree(index, c.ID)
		if c.ParentCategoryID != nil {
			if parent, ok := index[*c.ParentCategoryID]; ok {
				name := parent.name
				c.ParentCategoryName = &name
			}
		}
	}
}

// CountProductCategories returns the number of categories matching the
// filters.
func (db *DB) CountProductCategories(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, productCategoriesTable, filters)
}

// GetProductCategory retrieves a single category with its ancestry.
func (db *DB) GetProductCategory(ctx context.Context, id int64) (models.ProductCategory, error) {
	c, err := getOneWhere(ctx, db, productCategoriesTable, productCategorySelectColumns, "",
		map[string]any{"id": id}, scanProductCategory)
	if err != nil {
		return c, err
	}

	index, err := db.loadCategoryIndex(ctx)
	if err != nil {
		return c, err
	}
	enrichCategories(index, []*models.ProductCategory{&c})
	return c, nil
}

// ListProductCategories returns one page of categories plus the
// filtered total, ancestry resolved.
func (db *DB) ListProductCategories(ctx context.Context, p ListParams) ([]models.ProductCategory, int64, error) {
	items, total, err := listAndCount(ctx, db, productCategoriesTable, productCategorySelectColumns, "", p, scanProductCategory)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, total, nil
	}

	index, err := db.loadCategoryIndex(ctx)
	if err != nil {
		return nil, 0, err
	}
	refs := make([]*models.ProductCategory, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	enrichCategories(index, refs)
	return items, total, nil
}

// GetAllProductCategories returns every category ordered by name, for
// selection lists, ancestry resolved.
func (db *DB) GetAllProductCategories(ctx context.Context) ([]models.ProductCategory, error) {
	items, err := getAllRows(ctx, db, productCategoriesTable, productCategorySelectColumns, "",
		"product_categories.name ASC", scanProductCategory)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	index, err := db.loadCategoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]*models.ProductCategory, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	enrichCategories(index, refs)
	return items, nil
}

// CreateProductCategory inserts a new category. The parent, when given,
// must exist.
func (db *DB) CreateProductCategory(ctx context.Context, req *models.CreateProductCategoryRequest) (models.ProductCategory, error) {
	if req.ParentCategoryID != nil {
		if err := db.requireRef(ctx, "product_categories", "Product category", *req.ParentCategoryID); err != nil {
			return models.ProductCategory{}, err
		}
	}

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO product_categories (created_at, updated_at, name, parent_category_id, image)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.Name, req.ParentCategoryID, req.Image,
	).Scan(&id)
	if err != nil {
		return models.ProductCategory{}, classifyError(err)
	}

	return db.GetProductCategory(ctx, id)
}

// UpdateProductCategory applies a partial update.
func (db *DB) UpdateProductCategory(ctx context.Context, id int64, req *models.UpdateProductCategoryRequest) (models.ProductCategory, error) {
	if req.ParentCategoryID != nil {
		if err := db.requireRef(ctx, "product_categories", "Product category", *req.ParentCategoryID); err != nil {
			return models.ProductCategory{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "name", req.Name)
	addSet(p, "parent_category_id", req.ParentCategoryID)
	addSet(p, "image", req.Image)

	if err := db.applyPatch(ctx, "product_categories", id, p, time.Now().UTC()); err != nil {
		return models.ProductCategory{}, err
	}
	return db.GetProductCategory(ctx, id)
}

// DeleteProductCategory removes a category. Child categories move to
// top level; placements pinned to it are dropped with it.
func (db *DB) DeleteProductCategory(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "product_categories", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		detach := []string{
			"UPDATE product_categories SET parent_category_id = NULL WHERE parent_category_id = ?",
			"DELETE FROM interesting_products WHERE category_id = ?",
		}
		for _, q := range detach {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("failed to detach category references: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM product_categories WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "product_categories")
	})
}

// CountInterestingProducts returns the number of placements matching
// the filters.
func (db *DB) CountInterestingProducts(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, interestingProductsTable, filters)
}

// GetInterestingProduct retrieves a single placement by ID.
func (db *DB) GetInterestingProduct(ctx context.Context, id int64) (models.InterestingProduct, error) {
	return getOneWhere(ctx, db, interestingProductsTable, interestingProductSelectColumns, interestingProductJoins,
		map[string]any{"id": id}, scanInterestingProduct)
}

// ListInterestingProducts returns one page of placements plus the
// filtered total.
func (db *DB) ListInterestingProducts(ctx context.Context, p ListParams) ([]models.InterestingProduct, int64, error) {
	return listAndCount(ctx, db, interestingProductsTable, interestingProductSelectColumns, interestingProductJoins, p, scanInterestingProduct)
}

// GetAllInterestingProducts returns every placement, oldest first.
func (db *DB) GetAllInterestingProducts(ctx context.Context) ([]models.InterestingProduct, error) {
	return getAllRows(ctx, db, interestingProductsTable, interestingProductSelectColumns, interestingProductJoins,
		"interesting_products.id ASC", scanInterestingProduct)
}

// CreateInterestingProduct inserts a new placement. Type defaults to
// popular; the category must exist, the brand too when given.
func (db *DB) CreateInterestingProduct(ctx context.Context, req *models.CreateInterestingProductRequest) (models.InterestingProduct, error) {
	if err := db.requireRef(ctx, "product_categories", "Product category", req.CategoryID); err != nil {
		return models.InterestingProduct{}, err
	}
	if req.BrandID != nil {
		if err := db.requireRef(ctx, "brands", "Brand", *req.BrandID); err != nil {
			return models.InterestingProduct{}, err
		}
	}

	placementType := string(models.InterestingProductPopular)
	if req.Type != nil {
		placementType = *req.Type
	}

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO interesting_products (created_at, updated_at, ean, name, image, type, category_id, brand_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.EAN, req.Name, req.Image, placementType, req.CategoryID, req.BrandID,
	).Scan(&id)
	if err != nil {
		return models.InterestingProduct{}, classifyError(err)
	}

	return db.GetInterestingProduct(ctx, id)
}

// UpdateInterestingProduct applies a partial update.
func (db *DB) UpdateInterestingProduct(ctx context.Context, id int64, req *models.UpdateInterestingProductRequest) (models.InterestingProduct, error) {
	if req.CategoryID != nil {
		if err := db.requireRef(ctx, "product_categories", "Product category", *req.CategoryID); err != nil {
			return models.InterestingProduct{}, err
		}
	}
	if req.BrandID != nil {
		if err := db.requireRef(ctx, "brands", "Brand", *req.BrandID); err != nil {
			return models.InterestingProduct{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "ean", req.EAN)
	addSet(p, "name", req.Name)
	addSet(p, "image", req.Image)
	addSet(p, "type", req.Type)
	addSet(p, "category_id", req.CategoryID)
	addSet(p, "brand_id", req.BrandID)

	if err := db.applyPatch(ctx, "interesting_products", id, p, time.Now().UTC()); err != nil {
		return models.InterestingProduct{}, err
	}
	return db.GetInterestingProduct(ctx, id)
}

// DeleteInterestingProduct removes a placement.
func (db *DB) DeleteInterestingProduct(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "interesting_products", id)
}
