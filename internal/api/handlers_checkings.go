// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"

	"github.com/mverdier/leafbase/internal/models"
)

// CheckingsList handles GET /api/v1/checkings.
func (h *Handler) CheckingsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Checking", h.db.GetAllCheckings)
}

// CheckingsSearch handles GET /api/v1/checkings/search (paginated).
func (h *Handler) CheckingsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Checking", h.db.ListCheckings)
}

// CheckingsCount handles GET /api/v1/checkings/count.
func (h *Handler) CheckingsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Checking", h.db.CountCheckings)
}

// CheckingsGet handles GET /api/v1/checkings/{id}.
func (h *Handler) CheckingsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Checking", h.db.GetChecking)
}

// CheckingsCreate handles POST /api/v1/checkings. The checking is
// always owned by the caller; there is no way to open one on someone
// else's behalf.
func (h *Handler) CheckingsCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := principalUser(w, r)
	if !ok {
		return
	}
	var req models.CreateCheckingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	checking, err := h.db.CreateChecking(r.Context(), user.ID, &req)
	if err != nil {
		storeError(w, r, err, "Checking")
		return
	}
	respondJSON(w, http.StatusCreated, checking)
}

// CheckingsUpdate handles PUT /api/v1/checkings/{id}. Only the owning
// user or an admin may record the brand's reply.
func (h *Handler) CheckingsUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := principalUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.db.GetChecking(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Checking")
		return
	}
	if existing.UserID != user.ID && !user.IsAdmin() {
		respondDetail(w, http.StatusForbidden, "The user does not have enough privileges")
		return
	}

	var req models.UpdateCheckingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	checking, err := h.db.UpdateChecking(r.Context(), id, &req)
	if err != nil {
		storeError(w, r, err, "Checking")
		return
	}
	respondJSON(w, http.StatusOK, checking)
}

// CheckingsDelete handles DELETE /api/v1/checkings/{id}.
func (h *Handler) CheckingsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Checking", h.db.DeleteChecking)
}
