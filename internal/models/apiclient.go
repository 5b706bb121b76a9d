// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// APIClient is a machine credential for key-gated endpoints such as
// the external product intake. Keys are generated server-side on
// create and only ever listed through the admin endpoints.
type APIClient struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `json:"name"`
	APIKey   string `json:"api_key"`
	IsActive bool   `json:"is_active"`
}

// CreateAPIClientRequest is the body of POST /apiclients (admin only).
type CreateAPIClientRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateAPIClientRequest is the body of PUT /apiclients/{id}. The key
// itself is immutable; revoke by flipping IsActive off.
type UpdateAPIClientRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}
