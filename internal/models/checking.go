// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// CheckingStatus is the outcome of a brand verification request.
type CheckingStatus string

const (
	CheckingPending  CheckingStatus = "PENDING"
	CheckingVegan    CheckingStatus = "VEGAN"
	CheckingNonVegan CheckingStatus = "NON_VEGAN"
)

// Valid reports whether s is a known checking status.
func (s CheckingStatus) Valid() bool {
	switch s {
	case CheckingPending, CheckingVegan, CheckingNonVegan:
		return true
	}
	return false
}

// CheckingUserRef is the trimmed user embedded in checking payloads.
type CheckingUserRef struct {
	ID       int64   `json:"id"`
	Nickname string  `json:"nickname"`
	Avatar   *string `json:"avatar"`
}

// Checking records one contributor's request to a brand about a
// product's vegan status and the eventual reply. A checking always
// belongs to the user who opened it; only that user or an admin may
// modify it.
type Checking struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RequestedOn time.Time      `json:"requested_on"`
	RespondedOn *time.Time     `json:"responded_on"`
	Response    *string        `json:"response"`
	Status      CheckingStatus `json:"status"`

	// Foreign keys, replaced by the resolved references below.
	UserID    int64 `json:"-"`
	ProductID int64 `json:"-"`

	User    *CheckingUserRef `json:"user"`
	Product *Product         `json:"product"`
}

// CheckingForProduct is the checking shape embedded in product
// payloads. It omits the product itself.
type CheckingForProduct struct {
	ID          int64            `json:"id"`
	RequestedOn time.Time        `json:"requested_on"`
	RespondedOn *time.Time       `json:"responded_on"`
	Response    *string          `json:"response"`
	Status      CheckingStatus   `json:"status"`
	User        *CheckingUserRef `json:"user"`
}

// ForProduct converts c to its product-embedded shape.
func (c *Checking) ForProduct() CheckingForProduct {
	return CheckingForProduct{
		ID:          c.ID,
		RequestedOn: c.RequestedOn,
		RespondedOn: c.RespondedOn,
		Response:    c.Response,
		Status:      c.Status,
		User:        c.User,
	}
}

// CreateCheckingRequest is the body of POST /checkings. The owner is
// always the authenticated caller; RequestedOn defaults to now and
// Status to PENDING when omitted.
type CreateCheckingRequest struct {
	ProductID   int64           `json:"product_id" validate:"required"`
	RequestedOn *time.Time      `json:"requested_on,omitempty"`
	RespondedOn *time.Time      `json:"responded_on,omitempty"`
	Response    *string         `json:"response,omitempty"`
	Status      *CheckingStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING VEGAN NON_VEGAN"`
}

// UpdateCheckingRequest is the body of PUT /checkings/{id}.
type UpdateCheckingRequest struct {
	ProductID   *int64          `json:"product_id,omitempty"`
	RequestedOn *time.Time      `json:"requested_on,omitempty"`
	RespondedOn *time.Time      `json:"responded_on,omitempty"`
	Response    *string         `json:"response,omitempty"`
	Status      *CheckingStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING VEGAN NON_VEGAN"`
}
