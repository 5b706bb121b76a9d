// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mverdier/leafbase/internal/files"
	"github.com/mverdier/leafbase/internal/logging"
)

// BrandsList handles GET /api/v1/brands: every brand, name-ordered,
// as a bare array.
func (h *Handler) BrandsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Brand", h.db.GetAllBrands)
}

// BrandsSearch handles GET /api/v1/brands/search (paginated).
func (h *Handler) BrandsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Brand", h.db.ListBrands)
}

// BrandsCount handles GET /api/v1/brands/count.
func (h *Handler) BrandsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Brand", h.db.CountBrands)
}

// BrandsGet handles GET /api/v1/brands/{id}.
func (h *Handler) BrandsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Brand", h.db.GetBrand)
}

// BrandsLookalike handles GET /api/v1/brands/lookalike?name=. The
// response is the closest catalog brand above the similarity
// threshold, or an empty object when nothing comes close. The scanner
// app uses it to catch misspelled brand submissions.
func (h *Handler) BrandsLookalike(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondDetail(w, http.StatusBadRequest, "Query parameter name is required")
		return
	}
	match, err := h.db.GetBrandLookalike(r.Context(), name)
	if err != nil {
		storeError(w, r, err, "Brand")
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// BrandsCreate handles POST /api/v1/brands.
func (h *Handler) BrandsCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Brand", h.db.CreateBrand)
}

// BrandsUpdate handles PUT /api/v1/brands/{id}.
func (h *Handler) BrandsUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Brand", h.db.UpdateBrand)
}

// BrandsDelete handles DELETE /api/v1/brands/{id}. Child brands are
// reparented and products detached by the store cascade.
func (h *Handler) BrandsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Brand", h.db.DeleteBrand)
}

// BrandsUploadLogo handles POST /api/v1/brands/{id}/logo with a
// multipart "file" part. A new upload replaces any previous logo file
// for the brand.
func (h *Handler) BrandsUploadLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if h.uploads == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}

	// The brand must exist before anything lands on disk.
	if _, err := h.db.GetBrand(r.Context(), id); err != nil {
		storeError(w, r, err, "Brand")
		return
	}

	if err := r.ParseMultipartForm(h.cfg.Uploads.MaxSize); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Multipart field \"file\" is required")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logging.Ctx(r.Context()).Warn().Err(cerr).Msg("Failed to close upload stream")
		}
	}()

	relPath, err := h.uploads.SaveBrandLogo(id, file, header)
	if err != nil {
		uploadError(w, err)
		return
	}

	brand, err := h.db.SetBrandLogoPath(r.Context(), id, relPath)
	if err != nil {
		storeError(w, r, err, "Brand")
		return
	}
	respondJSON(w, http.StatusOK, brand)
}

// BrandsScoringReport handles GET /api/v1/brands/{id}/scoring, the
// aggregated scoring report (also reachable under /scorings/brands).
func (h *Handler) BrandsScoringReport(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Brand", h.db.GetBrandScoringReport)
}

// uploadError maps a files.Store failure onto the wire contract.
func uploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, files.ErrUnsupportedFormat):
		respondDetail(w, http.StatusBadRequest, "Unsupported image format; use jpeg, png or webp")
	case errors.Is(err, files.ErrTooLarge):
		respondDetail(w, http.StatusBadRequest, "File exceeds the upload size limit")
	default:
		logging.Error().Err(err).Msg("Upload failed")
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
