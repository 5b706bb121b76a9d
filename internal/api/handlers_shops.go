// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"
)

// ShopsList handles GET /api/v1/shops.
func (h *Handler) ShopsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Shop", h.db.GetAllShops)
}

// ShopsSearch handles GET /api/v1/shops/search (paginated).
func (h *Handler) ShopsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Shop", h.db.ListShops)
}

// ShopsCount handles GET /api/v1/shops/count.
func (h *Handler) ShopsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Shop", h.db.CountShops)
}

// ShopsGet handles GET /api/v1/shops/{id}.
func (h *Handler) ShopsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Shop", h.db.GetShop)
}

// ShopsCreate handles POST /api/v1/shops (admin only; shops normally
// arrive through the scan pipeline's OpenStreetMap import).
func (h *Handler) ShopsCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Shop", h.db.CreateShop)
}

// ShopsUpdate handles PUT /api/v1/shops/{id}.
func (h *Handler) ShopsUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Shop", h.db.UpdateShop)
}

// ShopsDelete handles DELETE /api/v1/shops/{id}. Scans that pointed at
// the shop are detached, not deleted.
func (h *Handler) ShopsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Shop", h.db.DeleteShop)
}
