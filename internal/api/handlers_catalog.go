// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Handlers for the flat catalog entities: additives, cosmetics,
// household cleaners, product categories and interesting products.
// All of them are straight wirings of the generic CRUD helpers.

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// --- Additives ---

// AdditivesList handles GET /api/v1/additives. Bare array; clients
// cache the full additive table.
func (h *Handler) AdditivesList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Additive", h.db.GetAllAdditives)
}

// AdditivesSearch handles GET /api/v1/additives/search (paginated).
func (h *Handler) AdditivesSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Additive", h.db.ListAdditives)
}

// AdditivesCount handles GET /api/v1/additives/count.
func (h *Handler) AdditivesCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Additive", h.db.CountAdditives)
}

// AdditivesGet handles GET /api/v1/additives/{id}.
func (h *Handler) AdditivesGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Additive", h.db.GetAdditive)
}

// AdditivesGetByENumber handles GET /api/v1/additives/e-number/{eNumber}.
func (h *Handler) AdditivesGetByENumber(w http.ResponseWriter, r *http.Request) {
	eNumber := strings.TrimSpace(chi.URLParam(r, "eNumber"))
	if eNumber == "" {
		respondDetail(w, http.StatusBadRequest, "Invalid eNumber path parameter")
		return
	}
	additive, err := h.db.GetAdditiveByENumber(r.Context(), eNumber)
	if err != nil {
		storeError(w, r, err, "Additive")
		return
	}
	respondJSON(w, http.StatusOK, additive)
}

// AdditivesCreate handles POST /api/v1/additives.
func (h *Handler) AdditivesCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Additive", h.db.CreateAdditive)
}

// AdditivesUpdate handles PUT /api/v1/additives/{id}.
func (h *Handler) AdditivesUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Additive", h.db.UpdateAdditive)
}

// AdditivesDelete handles DELETE /api/v1/additives/{id}.
func (h *Handler) AdditivesDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Additive", h.db.DeleteAdditive)
}

// --- Cosmetics ---

// CosmeticsList handles GET /api/v1/cosmetics. Bare array.
func (h *Handler) CosmeticsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Cosmetic", h.db.GetAllCosmetics)
}

// CosmeticsSearch handles GET /api/v1/cosmetics/search (paginated).
func (h *Handler) CosmeticsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Cosmetic", h.db.ListCosmetics)
}

// CosmeticsCount handles GET /api/v1/cosmetics/count.
func (h *Handler) CosmeticsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Cosmetic", h.db.CountCosmetics)
}

// CosmeticsGet handles GET /api/v1/cosmetics/{id}.
func (h *Handler) CosmeticsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Cosmetic", h.db.GetCosmetic)
}

// CosmeticsCreate handles POST /api/v1/cosmetics.
func (h *Handler) CosmeticsCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Cosmetic", h.db.CreateCosmetic)
}

// CosmeticsUpdate handles PUT /api/v1/cosmetics/{id}.
func (h *Handler) CosmeticsUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Cosmetic", h.db.UpdateCosmetic)
}

// CosmeticsDelete handles DELETE /api/v1/cosmetics/{id}.
func (h *Handler) CosmeticsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Cosmetic", h.db.DeleteCosmetic)
}

// --- Household cleaners ---

// HouseholdCleanersList handles GET /api/v1/household-cleaners. Bare
// array.
func (h *Handler) HouseholdCleanersList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Household cleaner", h.db.GetAllHouseholdCleaners)
}

// HouseholdCleanersSearch handles GET /api/v1/household-cleaners/search
// (paginated).
func (h *Handler) HouseholdCleanersSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Household cleaner", h.db.ListHouseholdCleaners)
}

// HouseholdCleanersCount handles GET /api/v1/household-cleaners/count.
func (h *Handler) HouseholdCleanersCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Household cleaner", h.db.CountHouseholdCleaners)
}

// HouseholdCleanersGet handles GET /api/v1/household-cleaners/{id}.
func (h *Handler) HouseholdCleanersGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Household cleaner", h.db.GetHouseholdCleaner)
}

// HouseholdCleanersCreate handles POST /api/v1/household-cleaners.
func (h *Handler) HouseholdCleanersCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Household cleaner", h.db.CreateHouseholdCleaner)
}

// HouseholdCleanersUpdate handles PUT /api/v1/household-cleaners/{id}.
func (h *Handler) HouseholdCleanersUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Household cleaner", h.db.UpdateHouseholdCleaner)
}

// HouseholdCleanersDelete handles DELETE /api/v1/household-cleaners/{id}.
func (h *Handler) HouseholdCleanersDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Household cleaner", h.db.DeleteHouseholdCleaner)
}

// --- Product categories ---

// ProductCategoriesList handles GET /api/v1/product-categories: the
// category forest, children nested under their roots.
func (h *Handler) ProductCategoriesList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Product category", h.db.GetAllProductCategories)
}

// ProductCategoriesSearch handles GET /api/v1/product-categories/search:
// a flat paginated page, no nesting.
func (h *Handler) ProductCategoriesSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Product category", h.db.ListProductCategories)
}

// ProductCategoriesCount handles GET /api/v1/product-categories/count.
func (h *Handler) ProductCategoriesCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Product category", h.db.CountProductCategories)
}

// ProductCategoriesGet handles GET /api/v1/product-categories/{id}.
func (h *Handler) ProductCategoriesGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Product category", h.db.GetProductCategory)
}

// ProductCategoriesCreate handles POST /api/v1/product-categories.
func (h *Handler) ProductCategoriesCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Product category", h.db.CreateProductCategory)
}

// ProductCategoriesUpdate handles PUT /api/v1/product-categories/{id}.
func (h *Handler) ProductCategoriesUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Product category", h.db.UpdateProductCategory)
}

// ProductCategoriesDelete handles DELETE /api/v1/product-categories/{id}.
// Child categories are promoted to the root by the store cascade.
func (h *Handler) ProductCategoriesDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Product category", h.db.DeleteProductCategory)
}

// --- Interesting products ---

// InterestingProductsList handles GET /api/v1/interesting-products.
// Bare array, the shape the scanner app syncs.
func (h *Handler) InterestingProductsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Interesting product", h.db.GetAllInterestingProducts)
}

// InterestingProductsSearch handles GET
// /api/v1/interesting-products/search (paginated).
func (h *Handler) InterestingProductsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Interesting product", h.db.ListInterestingProducts)
}

// InterestingProductsCount handles GET /api/v1/interesting-products/count.
func (h *Handler) InterestingProductsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Interesting product", h.db.CountInterestingProducts)
}

// InterestingProductsGet handles GET /api/v1/interesting-products/{id}.
func (h *Handler) InterestingProductsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Interesting product", h.db.GetInterestingProduct)
}

// InterestingProductsCreate handles POST /api/v1/interesting-products.
func (h *Handler) InterestingProductsCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Interesting product", h.db.CreateInterestingProduct)
}

// InterestingProductsUpdate handles PUT /api/v1/interesting-products/{id}.
func (h *Handler) InterestingProductsUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Interesting product", h.db.UpdateInterestingProduct)
}

// InterestingProductsDelete handles DELETE /api/v1/interesting-products/{id}.
func (h *Handler) InterestingProductsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Interesting product", h.db.DeleteInterestingProduct)
}
