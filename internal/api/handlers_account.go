// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/models"
)

// principalUser extracts the authenticated user from the request, or
// writes the 401 the auth middleware should have prevented.
func principalUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok || p.User == nil {
		respondDetail(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return p.User, true
}

// AccountGet handles GET /api/v1/account: the caller's own profile.
func (h *Handler) AccountGet(w http.ResponseWriter, r *http.Request) {
	user, ok := principalUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// AccountUpdate handles PUT /api/v1/account, the self-service profile
// update. A password change is re-hashed here; role and activation
// stay admin-only through /users.
func (h *Handler) AccountUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := principalUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var passwordHash *string
	if req.Password != nil {
		hashed, err := h.hasher.Hash(*req.Password)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid password: "+err.Error())
			return
		}
		passwordHash = &hashed
	}

	updated, err := h.db.UpdateUserAccount(r.Context(), user.ID, &req, passwordHash)
	if err != nil {
		storeError(w, r, err, "User")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
