// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

// APIClientsList handles GET /api/v1/apiclients (admin only). Keys are
// visible here; this is the surface admins hand credentials out from.
func (h *Handler) APIClientsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "API client", h.db.GetAllAPIClients)
}

// APIClientsSearch handles GET /api/v1/apiclients/search (admin only).
func (h *Handler) APIClientsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "API client", h.db.ListAPIClients)
}

// APIClientsCount handles GET /api/v1/apiclients/count.
func (h *Handler) APIClientsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "API client", h.db.CountAPIClients)
}

// APIClientsGet handles GET /api/v1/apiclients/{id}.
func (h *Handler) APIClientsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "API client", h.db.GetAPIClient)
}

// APIClientsCreate handles POST /api/v1/apiclients. The key is
// generated server-side and returned once in the create response (and
// again in admin reads; clients cannot read their own record).
func (h *Handler) APIClientsCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAPIClientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("API key generation failed")
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	client, err := h.db.CreateAPIClient(r.Context(), &req, key)
	if err != nil {
		storeError(w, r, err, "API client")
		return
	}
	respondJSON(w, http.StatusCreated, client)
}

// APIClientsUpdate handles PUT /api/v1/apiclients/{id}. Flipping
// is_active off revokes the key immediately; the key itself never
// changes.
func (h *Handler) APIClientsUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "API client", h.db.UpdateAPIClient)
}

// APIClientsDelete handles DELETE /api/v1/apiclients/{id}.
func (h *Handler) APIClientsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "API client", h.db.DeleteAPIClient)
}
