// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// ProductStatus classifies a product's vegan verdict.
type ProductStatus string

const (
	ProductStatusVegan      ProductStatus = "VEGAN"
	ProductStatusNonVegan   ProductStatus = "NON_VEGAN"
	ProductStatusMaybeVegan ProductStatus = "MAYBE_VEGAN"
	ProductStatusNotFound   ProductStatus = "NOT_FOUND"
)

// Valid reports whether the status is one of the known values.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusVegan, ProductStatusNonVegan, ProductStatusMaybeVegan, ProductStatusNotFound:
		return true
	}
	return false
}

// ProductState tracks the editorial workflow of a catalog entry, from raw
// creation through brand contact to publication.
type ProductState string

const (
	ProductStateCreated        ProductState = "CREATED"
	ProductStateNeedContact    ProductState = "NEED_CONTACT"
	ProductStateWaitingReply   ProductState = "WAITING_BRAND_REPLY"
	ProductStateNotFound       ProductState = "NOT_FOUND"
	ProductStateWaitingPublish ProductState = "WAITING_PUBLISH"
	ProductStatePublished      ProductState = "PUBLISHED"
)

// Valid reports whether the state is one of the known values.
func (s ProductState) Valid() bool {
	switch s {
	case ProductStateCreated, ProductStateNeedContact, ProductStateWaitingReply,
		ProductStateNotFound, ProductStateWaitingPublish, ProductStatePublished:
		return true
	}
	return false
}

// Product represents a barcoded food product in the catalog.
//
// This is the core catalog entity. Products are created by staff, by the
// external intake endpoint, or opportunistically from Open Food Facts
// lookups (CreatedFromOff). The EAN barcode is the natural key.
//
// Key Fields:
//   - EAN: Unique barcode, required, the lookup key for mobile clients
//   - Status: Vegan verdict (VEGAN, NON_VEGAN, MAYBE_VEGAN, NOT_FOUND)
//   - State: Editorial workflow position (CREATED through PUBLISHED)
//   - BrandID/BrandName: Link to the brand table plus a denormalized name
//     used when the brand is not yet cataloged
//   - ProblemDescription: Free text naming the non-vegan ingredient(s)
//   - Biodynamic: Biodynamic certification flag
//
// Serialization resolves BrandID into the nested Brand reference; the raw
// foreign key and the denormalized name stay internal.
type Product struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EAN                string  `json:"ean"`
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	ProblemDescription *string `json:"problem_description"`

	BrandID   *int64    `json:"-"`
	BrandName *string   `json:"-"`
	Brand     *BrandRef `json:"brand"`

	Status         ProductStatus `json:"status"`
	Biodynamic     bool          `json:"biodynamic"`
	State          ProductState  `json:"state"`
	CreatedFromOff bool          `json:"created_from_off"`

	// Checking enrichment, resolved by the store on detail and list reads.
	Checkings       []CheckingForProduct `json:"checkings"`
	LastRequestedOn *time.Time           `json:"last_requested_on,omitempty"`
	LastRequestedBy *string              `json:"last_requested_by,omitempty"`
}

// ProductRef is the compact product reference embedded in other payloads.
type ProductRef struct {
	ID   int64   `json:"id"`
	EAN  string  `json:"ean"`
	Name *string `json:"name"`
}

// Ref returns the compact reference for this product.
func (p *Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, EAN: p.EAN, Name: p.Name}
}

// CreateProductRequest is the body of POST /products and the external
// intake endpoint. Unset enum fields fall back to their defaults
// (MAYBE_VEGAN, CREATED).
type CreateProductRequest struct {
	EAN                string  `json:"ean" validate:"required,min=1"`
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	ProblemDescription *string `json:"problem_description,omitempty"`
	BrandID            *int64  `json:"brand_id,omitempty"`
	BrandName          *string `json:"brand_name,omitempty"`
	Status             *string `json:"status,omitempty"`
	Biodynamic         *bool   `json:"biodynamic,omitempty"`
	State              *string `json:"state,omitempty"`
}

// UpdateProductRequest is the body of PUT /products/{id}. Only provided
// fields are changed.
type UpdateProductRequest struct {
	EAN                *string `json:"ean,omitempty" validate:"omitempty,min=1"`
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	ProblemDescription *string `json:"problem_description,omitempty"`
	BrandID            *int64  `json:"brand_id,omitempty"`
	BrandName          *string `json:"brand_name,omitempty"`
	Status             *string `json:"status,omitempty"`
	Biodynamic         *bool   `json:"biodynamic,omitempty"`
	State              *string `json:"state,omitempty"`
}
