// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// AdditiveStatus classifies a food additive's vegan verdict. Unlike
// products there is no NOT_FOUND: an additive row only exists once the
// E-number has been researched.
type AdditiveStatus string

const (
	AdditiveStatusVegan      AdditiveStatus = "VEGAN"
	AdditiveStatusNonVegan   AdditiveStatus = "NON_VEGAN"
	AdditiveStatusMaybeVegan AdditiveStatus = "MAYBE_VEGAN"
)

// Valid reports whether the status is one of the known values.
func (s AdditiveStatus) Valid() bool {
	switch s {
	case AdditiveStatusVegan, AdditiveStatusNonVegan, AdditiveStatusMaybeVegan:
		return true
	}
	return false
}

// Additive represents an E-number food additive (e.g. E120 carmine).
type Additive struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ENumber     string         `json:"e_number"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      AdditiveStatus `json:"status"`
	Source      *string        `json:"source"`
}

// CreateAdditiveRequest is the body of POST /additives.
type CreateAdditiveRequest struct {
	ENumber     string  `json:"e_number" validate:"required,min=1"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Source      *string `json:"source,omitempty"`
}

// UpdateAdditiveRequest is the body of PUT /additives/{id}.
type UpdateAdditiveRequest struct {
	ENumber     *string `json:"e_number,omitempty" validate:"omitempty,min=1"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Source      *string `json:"source,omitempty"`
}
