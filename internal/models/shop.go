// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// Shop represents a physical store where products get scanned. Shops are
// created two ways: by staff, or automatically from OpenStreetMap when a
// geotagged scan arrives near no known shop. OSM-imported shops carry the
// OSM identifiers for deduplication.
type Shop struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Country   *string `json:"country"`

	// OpenStreetMap provenance, nil for staff-created shops.
	OSMID    *string `json:"osm_id"`
	OSMType  *string `json:"osm_type"`  // node, way, relation
	ShopType *string `json:"shop_type"` // supermarket, convenience, greengrocer, food
}

// CreateShopRequest is the body of POST /shops.
type CreateShopRequest struct {
	Name      string  `json:"name" validate:"required,min=1"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
	OSMID     *string `json:"osm_id,omitempty"`
	OSMType   *string `json:"osm_type,omitempty"`
	ShopType  *string `json:"shop_type,omitempty"`
}

// UpdateShopRequest is the body of PUT /shops/{id}.
type UpdateShopRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Address   *string  `json:"address,omitempty"`
	City      *string  `json:"city,omitempty"`
	Country   *string  `json:"country,omitempty"`
	OSMID     *string  `json:"osm_id,omitempty"`
	OSMType   *string  `json:"osm_type,omitempty"`
	ShopType  *string  `json:"shop_type,omitempty"`
}
