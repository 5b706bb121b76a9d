// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
	"github.com/mverdier/leafbase/internal/validation"
)

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// respondDetail writes the {"detail": ...} error envelope.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, models.ErrorDetail{Detail: detail})
}

// respondNoContent writes an empty 204.
func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// storeError maps a store failure onto the wire contract. entity names
// the aggregate for the 404 message ("Product not found"); writes that
// reference a missing row answer 400 naming the referent.
func storeError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	var ref *database.RefViolation
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondDetail(w, http.StatusNotFound, entity+" not found")
	case errors.As(err, &ref):
		respondDetail(w, http.StatusBadRequest, ref.Error())
	case errors.Is(err, database.ErrForeignKeyViolation):
		respondDetail(w, http.StatusBadRequest, "Referenced record does not exist")
	case errors.Is(err, database.ErrUniqueViolation):
		respondDetail(w, http.StatusConflict, entity+" already exists")
	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("Store operation failed")
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody decodes a JSON request body into dst and validates it.
// On failure the error response has already been written and false is
// returned.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		respondDetail(w, http.StatusBadRequest, "Request body required")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		respondDetail(w, http.StatusUnprocessableEntity, verr.Detail())
		return false
	}
	return true
}
