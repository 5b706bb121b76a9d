// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// ErrorReport is an end-user report that some catalog entry is wrong
// (mislabeled status, missing product, bad brand link). Reports reference
// products by EAN rather than ID so they survive even when the product
// does not exist yet; Product is resolved by EAN join on read.
type ErrorReport struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EAN       string  `json:"ean"`
	Comment   string  `json:"comment"`
	Contact   *string `json:"contact"`
	Handled   bool    `json:"handled"`
	CreatedBy *int64  `json:"created_by"`

	Product *ProductRef `json:"product"`
}

// CreateErrorReportRequest is the body of POST /error-reports.
type CreateErrorReportRequest struct {
	EAN       string  `json:"ean" validate:"required,min=1"`
	Comment   string  `json:"comment" validate:"required,min=1"`
	Contact   *string `json:"contact,omitempty"`
	Handled   *bool   `json:"handled,omitempty"`
	CreatedBy *int64  `json:"created_by,omitempty"`
}

// UpdateErrorReportRequest is the body of PUT /error-reports/{id}.
// The EAN is immutable once reported.
type UpdateErrorReportRequest struct {
	Comment *string `json:"comment,omitempty" validate:"omitempty,min=1"`
	Contact *string `json:"contact,omitempty"`
	Handled *bool   `json:"handled,omitempty"`
}
