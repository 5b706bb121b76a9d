// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent records one barcode scan reported by a mobile client.
//
// Scans are the raw telemetry of the app: which products get looked up,
// where, and by whom (when the client is signed in). Geotagged scans are
// attached to a shop by the ingest pipeline, either an existing shop
// within the search radius or one imported from OpenStreetMap.
//
// The entity keeps the original wire naming: the timestamp column is
// date_created and there is no updated_at, scans are immutable facts.
type ScanEvent struct {
	ID          int64     `json:"id"`
	DateCreated time.Time `json:"date_created"`

	EAN       string   `json:"ean"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	ShopID *int64 `json:"-"`
	UserID *int64 `json:"user_id"`

	// LookupAPIResponse stores the raw product-lookup payload the client
	// saw at scan time, for later catalog reconciliation.
	LookupAPIResponse *string `json:"lookup_api_response"`

	// Resolved via joins on read.
	ShopName     *string `json:"shop_name"`
	UserNickname *string `json:"user_nickname,omitempty"`
}

// CreateScanRequest is the body of POST /scans. A client that already
// knows the shop may pin it with shop_id; otherwise the pipeline
// resolves one from the coordinates.
type CreateScanRequest struct {
	EAN               string   `json:"ean" validate:"required,min=1"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	ShopID            *int64   `json:"shop_id,omitempty"`
	ShopName          *string  `json:"shop_name,omitempty"`
	LookupAPIResponse *string  `json:"lookup_api_response,omitempty"`
	UserID            *int64   `json:"user_id,omitempty"`
}

// UpdateScanRequest is the body of PUT /scans/{id}.
type UpdateScanRequest struct {
	EAN               *string  `json:"ean,omitempty" validate:"omitempty,min=1"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	ShopID            *int64   `json:"shop_id,omitempty"`
	ShopName          *string  `json:"shop_name,omitempty"`
	LookupAPIResponse *string  `json:"lookup_api_response,omitempty"`
	UserID            *int64   `json:"user_id,omitempty"`
}

// ScanMessage is the wire payload published to the SCANS stream for each
// accepted scan. The UUID is assigned at publish time and used for
// idempotent persistence, the pipeline is at-least-once and consumers
// dedupe on it.
type ScanMessage struct {
	UUID              uuid.UUID `json:"uuid"`
	ReceivedAt        time.Time `json:"received_at"`
	EAN               string    `json:"ean"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	ShopID            *int64    `json:"shop_id,omitempty"`
	ShopName          *string   `json:"shop_name,omitempty"`
	LookupAPIResponse *string   `json:"lookup_api_response,omitempty"`
	UserID            *int64    `json:"user_id,omitempty"`
}

// NewScanMessage builds the stream payload for a create request.
func NewScanMessage(req CreateScanRequest) ScanMessage {
	return ScanMessage{
		UUID:              uuid.New(),
		ReceivedAt:        time.Now().UTC(),
		EAN:               req.EAN,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		ShopID:            req.ShopID,
		ShopName:          req.ShopName,
		LookupAPIResponse: req.LookupAPIResponse,
		UserID:            req.UserID,
	}
}
