// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// ProductCategory is a hierarchical grouping for curated products
// (e.g. "Pantry" > "Spreads"). CategoryTree lists names root to leaf,
// including this category.
type ProductCategory struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name             string  `json:"name"`
	ParentCategoryID *int64  `json:"parent_category_id"`
	Image            *string `json:"image"`

	// Computed on read.
	ParentCategoryName *string  `json:"parent_category_name"`
	CategoryTree       []string `json:"category_tree"`
}

// CreateProductCategoryRequest is the body of POST /product-categories.
type CreateProductCategoryRequest struct {
	Name             string  `json:"name" validate:"required,min=1"`
	ParentCategoryID *int64  `json:"parent_category_id,omitempty"`
	Image            *string `json:"image,omitempty"`
}

// UpdateProductCategoryRequest is the body of PUT /product-categories/{id}.
type UpdateProductCategoryRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1"`
	ParentCategoryID *int64  `json:"parent_category_id,omitempty"`
	Image            *string `json:"image,omitempty"`
}

// InterestingProductType distinguishes curated product placements.
type InterestingProductType string

const (
	InterestingProductPopular   InterestingProductType = "popular"
	InterestingProductSponsored InterestingProductType = "sponsored"
)

// Valid reports whether the type is one of the known values.
func (t InterestingProductType) Valid() bool {
	return t == InterestingProductPopular || t == InterestingProductSponsored
}

// InterestingProduct is a curated product placement shown to mobile
// clients, either organically popular or sponsored. It references
// products by EAN so placements survive catalog rewrites.
type InterestingProduct struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EAN        string                 `json:"ean"`
	Name       *string                `json:"name"`
	Image      *string                `json:"image"`
	Type       InterestingProductType `json:"type"`
	CategoryID int64                  `json:"category_id"`
	BrandID    *int64                 `json:"brand_id"`

	// Computed on read.
	CategoryName *string `json:"category_name"`
	BrandName    *string `json:"brand_name"`
}

// CreateInterestingProductRequest is the body of POST /interesting-products.
type CreateInterestingProductRequest struct {
	EAN        string  `json:"ean" validate:"required,min=1"`
	Name       *string `json:"name,omitempty"`
	Image      *string `json:"image,omitempty"`
	Type       *string `json:"type,omitempty"`
	CategoryID int64   `json:"category_id" validate:"required"`
	BrandID    *int64  `json:"brand_id,omitempty"`
}

// UpdateInterestingProductRequest is the body of PUT /interesting-products/{id}.
type UpdateInterestingProductRequest struct {
	EAN        *string `json:"ean,omitempty" validate:"omitempty,min=1"`
	Name       *string `json:"name,omitempty"`
	Image      *string `json:"image,omitempty"`
	Type       *string `json:"type,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
	BrandID    *int64  `json:"brand_id,omitempty"`
}
