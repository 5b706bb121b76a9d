// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library behind a
// thread-safe singleton with error translation tuned for the API's
// error envelope. Handlers decode a request body, validate it here, and
// reply with the translated message in the "detail" field on failure.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Error messages that name fields by their json wire name
//   - Detail() conversion producing the body for {"detail": "..."} responses
//   - Built-in validator support (email, url, oneof, min/max, dive)
//
// # Quick Start
//
//	type CreateBrandRequest struct {
//	    Name    string  `json:"name" validate:"required,min=1,max=100"`
//	    Email   *string `json:"email,omitempty" validate:"omitempty,email"`
//	    Website *string `json:"website,omitempty" validate:"omitempty,url"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req CreateBrandRequest
//	    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        respondDetail(w, http.StatusBadRequest, verr.Detail())
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Error Types
//
// ValidationError represents a single field validation failure and
// exposes Field(), Tag(), Param(), Value() and Error(). Field names are
// the json names callers actually send ("ean", not "EAN").
//
// RequestValidationError aggregates the failures of one request body.
// Detail() renders a single failure as its translated message and
// multiple failures as "field: message; field: message".
//
// # Error Message Translation
//
//	required   -> "ean is required"
//	email      -> "email must be a valid email address"
//	url        -> "website must be a valid URL"
//	min=1      -> "name must be at least 1 characters"
//	max=100    -> "name must be at most 100 characters"
//	min=-90    -> "latitude must be at least -90"
//	oneof=a b  -> "role must be one of: a b"
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent
// use. The underlying library caches struct reflection information, so
// repeated validations of the same request type are cheap.
package validation
