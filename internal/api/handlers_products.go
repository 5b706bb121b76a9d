// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/models"
	"github.com/mverdier/leafbase/internal/validation"
)

// ProductsList handles GET /api/v1/products: the whole catalog as a
// bare array, the shape mobile clients sync from.
//
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *Handler) ProductsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Product", h.db.GetAllProducts)
}

// ProductsSearch handles GET /api/v1/products/search: paginated and
// filterable, the shape the admin tables query.
//
// @Summary Search products
// @Tags products
// @Produce json
// @Param page query int false "1-based page"
// @Param page_size query int false "page size (1-100)"
// @Success 200 {object} models.Page[models.Product]
// @Router /products/search [get]
func (h *Handler) ProductsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Product", h.db.ListProducts)
}

// ProductsCount handles GET /api/v1/products/count.
func (h *Handler) ProductsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Product", h.db.CountProducts)
}

// ProductsGet handles GET /api/v1/products/{id}.
func (h *Handler) ProductsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Product", h.db.GetProduct)
}

// ProductsGetByEAN handles GET /api/v1/products/ean/{ean}.
func (h *Handler) ProductsGetByEAN(w http.ResponseWriter, r *http.Request) {
	ean := strings.TrimSpace(chi.URLParam(r, "ean"))
	if ean == "" {
		respondDetail(w, http.StatusBadRequest, "Invalid ean path parameter")
		return
	}
	product, err := h.db.GetProductByEAN(r.Context(), ean)
	if err != nil {
		storeError(w, r, err, "Product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// ProductsCreate handles POST /api/v1/products. JSON is the primary
// shape; multipart/form-data and urlencoded forms are accepted for the
// mobile clients, with the same field names as the JSON body.
func (h *Handler) ProductsCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.productCreateRequest(w, r)
	if !ok {
		return
	}
	product, err := h.db.CreateProduct(r.Context(), req)
	if err != nil {
		storeError(w, r, err, "Product")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// ExternalProductsCreate handles POST /api/v1/external/products, the
// API-key-gated intake used by the scanner backends. Unlike the main
// create endpoint it treats a duplicate EAN as a conflict the caller
// must handle (409), because external feeds retry blindly.
func (h *Handler) ExternalProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.db.GetProductByEAN(r.Context(), strings.TrimSpace(req.EAN)); err == nil {
		respondDetail(w, http.StatusConflict, "Product with this EAN already exists")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		storeError(w, r, err, "Product")
		return
	}

	product, err := h.db.CreateProduct(r.Context(), &req)
	if err != nil {
		storeError(w, r, err, "Product")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// ProductsUpdate handles PUT /api/v1/products/{id}.
func (h *Handler) ProductsUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Product", h.db.UpdateProduct)
}

// ProductsDelete handles DELETE /api/v1/products/{id}.
func (h *Handler) ProductsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Product", h.db.DeleteProduct)
}

// productCreateRequest decodes a product create body from JSON or form
// fields.
func (h *Handler) productCreateRequest(w http.ResponseWriter, r *http.Request) (*models.CreateProductRequest, bool) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") && !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		var req models.CreateProductRequest
		if !decodeBody(w, r, &req) {
			return nil, false
		}
		return &req, true
	}

	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.cfg.Uploads.MaxSize); err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid multipart body")
			return nil, false
		}
	} else if err := r.ParseForm(); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid form body")
		return nil, false
	}

	req := models.CreateProductRequest{
		EAN:                strings.TrimSpace(r.PostFormValue("ean")),
		Name:               formString(r, "name"),
		Description:        formString(r, "description"),
		ProblemDescription: formString(r, "problem_description"),
		BrandName:          formString(r, "brand_name"),
		Status:             formString(r, "status"),
		State:              formString(r, "state"),
	}
	if raw := r.PostFormValue("brand_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondDetail(w, http.StatusUnprocessableEntity, "Invalid brand_id form field")
			return nil, false
		}
		req.BrandID = &id
	}
	if raw := r.PostFormValue("biodynamic"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			respondDetail(w, http.StatusUnprocessableEntity, "Invalid biodynamic form field")
			return nil, false
		}
		req.Biodynamic = &b
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondDetail(w, http.StatusUnprocessableEntity, verr.Detail())
		return nil, false
	}
	return &req, true
}

// formString returns a pointer to a non-empty form value.
func formString(r *http.Request, key string) *string {
	if v := r.PostFormValue(key); v != "" {
		return &v
	}
	return nil
}
