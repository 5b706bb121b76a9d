// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// Cosmetic records a cosmetics brand's vegan and cruelty-free standing.
// Cosmetics are tracked per brand rather than per product: certification
// applies to the whole brand.
type Cosmetic struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BrandName     string  `json:"brand_name"`
	IsVegan       bool    `json:"is_vegan"`
	IsCrueltyFree bool    `json:"is_cruelty_free"`
	Description   *string `json:"description"`
}

// CreateCosmeticRequest is the body of POST /cosmetics.
type CreateCosmeticRequest struct {
	BrandName     string  `json:"brand_name" validate:"required,min=1"`
	IsVegan       *bool   `json:"is_vegan,omitempty"`
	IsCrueltyFree *bool   `json:"is_cruelty_free,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// UpdateCosmeticRequest is the body of PUT /cosmetics/{id}.
type UpdateCosmeticRequest struct {
	BrandName     *string `json:"brand_name,omitempty" validate:"omitempty,min=1"`
	IsVegan       *bool   `json:"is_vegan,omitempty"`
	IsCrueltyFree *bool   `json:"is_cruelty_free,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// HouseholdCleaner records a household cleaning brand's vegan and
// cruelty-free standing, same shape as Cosmetic plus a data source.
type HouseholdCleaner struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BrandName     string  `json:"brand_name"`
	IsVegan       bool    `json:"is_vegan"`
	IsCrueltyFree bool    `json:"is_cruelty_free"`
	Description   *string `json:"description"`
	Source        *string `json:"source"`
}

// CreateHouseholdCleanerRequest is the body of POST /household-cleaners.
type CreateHouseholdCleanerRequest struct {
	BrandName     string  `json:"brand_name" validate:"required,min=1"`
	IsVegan       *bool   `json:"is_vegan,omitempty"`
	IsCrueltyFree *bool   `json:"is_cruelty_free,omitempty"`
	Description   *string `json:"description,omitempty"`
	Source        *string `json:"source,omitempty"`
}

// UpdateHouseholdCleanerRequest is the body of PUT /household-cleaners/{id}.
type UpdateHouseholdCleanerRequest struct {
	BrandName     *string `json:"brand_name,omitempty" validate:"omitempty,min=1"`
	IsVegan       *bool   `json:"is_vegan,omitempty"`
	IsCrueltyFree *bool   `json:"is_cruelty_free,omitempty"`
	Description   *string `json:"description,omitempty"`
	Source        *string `json:"source,omitempty"`
}
