// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mverdier/leafbase/internal/models"
)

// UsersList handles GET /api/v1/users (admin only). The whole table as
// a bare array; /search is the paginated variant.
func (h *Handler) UsersList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "User", h.db.GetAllUsers)
}

// UsersSearch handles GET /api/v1/users/search (admin only).
func (h *Handler) UsersSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "User", h.db.ListUsers)
}

// UsersCount handles GET /api/v1/users/count.
func (h *Handler) UsersCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "User", h.db.CountUsers)
}

// UsersGet handles GET /api/v1/users/{id}.
func (h *Handler) UsersGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "User", h.db.GetUser)
}

// UsersGetByEmail handles GET /api/v1/users/email/{email}.
func (h *Handler) UsersGetByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.db.GetUserByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		storeError(w, r, err, "User")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UsersCreate handles POST /api/v1/users. Admins create active
// accounts directly; the scanner app registers accounts through its
// API key, and those start inactive unless the request says otherwise.
func (h *Handler) UsersCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid password: "+err.Error())
		return
	}

	user, err := h.db.CreateUser(r.Context(), &req, hashed)
	if err != nil {
		storeError(w, r, err, "User")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// UsersUpdate handles PUT /api/v1/users/{id}.
func (h *Handler) UsersUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "User", h.db.UpdateUser)
}

// UsersDelete handles DELETE /api/v1/users/{id}. The account's
// checkings are removed and its scans anonymized by the store cascade.
func (h *Handler) UsersDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "User", h.db.DeleteUser)
}
