// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// Brand represents a manufacturer brand. Brands form a hierarchy through
// ParentID (e.g. a local label owned by a multinational group); the
// ancestor chain feeds the scoring report so users see who ultimately
// owns a "vegan" brand.
type Brand struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string  `json:"name"`
	ParentID *int64  `json:"-"`
	LogoPath *string `json:"logo_path"`

	// Parent is resolved from ParentID for serialization.
	Parent *BrandRef `json:"parent"`
}

// BrandRef is the compact brand reference embedded in other payloads.
type BrandRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ref returns the compact reference for this brand.
func (b *Brand) Ref() BrandRef {
	return BrandRef{ID: b.ID, Name: b.Name}
}

// CreateBrandRequest is the body of POST /brands.
type CreateBrandRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateBrandRequest is the body of PUT /brands/{id}.
type UpdateBrandRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	ParentID *int64  `json:"parent_id,omitempty"`
}

// BrandLookalike is the result of GET /brands/lookalike: the catalog
// brand whose name is closest to the query string, with its similarity
// score.
// An empty match serializes as {} so clients can test for presence.
type BrandLookalike struct {
	ID         *int64   `json:"id,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
}
