// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// Partner is an affiliated vegan business promoted in the app, optionally
// carrying a discount code for users.
type Partner struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name              string  `json:"name"`
	URL               string  `json:"url"`
	LogoPath          *string `json:"logo_path"`
	Description       *string `json:"description"`
	DiscountText      *string `json:"discount_text"`
	DiscountCode      *string `json:"discount_code"`
	IsAffiliate       bool    `json:"is_affiliate"`
	ShowCodeInWebsite bool    `json:"show_code_in_website"`
	IsActive          bool    `json:"is_active"`
	CategoryID        *int64  `json:"category_id"`

	// CategoryName is resolved from CategoryID on read.
	CategoryName *string `json:"category_name"`
}

// PartnerCategory groups partners (e.g. "Food", "Clothing").
type PartnerCategory struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `json:"name"`
}

// CreatePartnerRequest is the body of POST /partners.
type CreatePartnerRequest struct {
	Name              string  `json:"name" validate:"required,min=1"`
	URL               string  `json:"url" validate:"required,url"`
	LogoPath          *string `json:"logo_path,omitempty"`
	Description       *string `json:"description,omitempty"`
	DiscountText      *string `json:"discount_text,omitempty"`
	DiscountCode      *string `json:"discount_code,omitempty"`
	IsAffiliate       *bool   `json:"is_affiliate,omitempty"`
	ShowCodeInWebsite *bool   `json:"show_code_in_website,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
	CategoryID        *int64  `json:"category_id,omitempty"`
}

// UpdatePartnerRequest is the body of PUT /partners/{id}.
type UpdatePartnerRequest struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,min=1"`
	URL               *string `json:"url,omitempty" validate:"omitempty,url"`
	LogoPath          *string `json:"logo_path,omitempty"`
	Description       *string `json:"description,omitempty"`
	DiscountText      *string `json:"discount_text,omitempty"`
	DiscountCode      *string `json:"discount_code,omitempty"`
	IsAffiliate       *bool   `json:"is_affiliate,omitempty"`
	ShowCodeInWebsite *bool   `json:"show_code_in_website,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
	CategoryID        *int64  `json:"category_id,omitempty"`
}

// CreatePartnerCategoryRequest is the body of POST /partner-categories.
type CreatePartnerCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// UpdatePartnerCategoryRequest is the body of PUT /partner-categories/{id}.
type UpdatePartnerCategoryRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`
}
