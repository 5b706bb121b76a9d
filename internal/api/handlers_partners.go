// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"

	"github.com/mverdier/leafbase/internal/logging"
)

// PartnersList handles GET /api/v1/partners.
func (h *Handler) PartnersList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Partner", h.db.GetAllPartners)
}

// PartnersSearch handles GET /api/v1/partners/search (paginated).
func (h *Handler) PartnersSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Partner", h.db.ListPartners)
}

// PartnersCount handles GET /api/v1/partners/count.
func (h *Handler) PartnersCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Partner", h.db.CountPartners)
}

// PartnersGet handles GET /api/v1/partners/{id}.
func (h *Handler) PartnersGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Partner", h.db.GetPartner)
}

// PartnersCreate handles POST /api/v1/partners.
func (h *Handler) PartnersCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Partner", h.db.CreatePartner)
}

// PartnersUpdate handles PUT /api/v1/partners/{id}.
func (h *Handler) PartnersUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Partner", h.db.UpdatePartner)
}

// PartnersDelete handles DELETE /api/v1/partners/{id}.
func (h *Handler) PartnersDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Partner", h.db.DeletePartner)
}

// PartnersUploadLogo handles POST /api/v1/partners/{id}/upload-logo.
func (h *Handler) PartnersUploadLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if h.uploads == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}

	if _, err := h.db.GetPartner(r.Context(), id); err != nil {
		storeError(w, r, err, "Partner")
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

	relPath, err := h.uploads.SavePartnerLogo(id, file, header)
	if err != nil {
		uploadError(w, err)
		return
	}

	partner, err := h.db.SetPartnerLogoPath(r.Context(), id, relPath)
	if err != nil {
		storeError(w, r, err, "Partner")
		return
	}
	respondJSON(w, http.StatusOK, partner)
}

// PartnersDeleteLogo handles DELETE /api/v1/partners/{id}/logo: the
// file is removed from disk and the stored path cleared.
func (h *Handler) PartnersDeleteLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	partner, err := h.db.GetPartner(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Partner")
		return
	}
	if partner.LogoPath == nil || *partner.LogoPath == "" {
		respondDetail(w, http.StatusNotFound, "Partner has no logo")
		return
	}

	if h.uploads != nil {
		if err := h.uploads.Delete(*partner.LogoPath); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).
				Int64("partner_id", id).
				Msg("Failed to remove partner logo file")
		}
	}

	updated, err := h.db.SetPartnerLogoPath(r.Context(), id, "")
	if err != nil {
		storeError(w, r, err, "Partner")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// --- Partner categories ---

// PartnerCategoriesList handles GET /api/v1/partner-categories.
func (h *Handler) PartnerCategoriesList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Partner category", h.db.GetAllPartnerCategories)
}

// PartnerCategoriesSearch handles GET /api/v1/partner-categories/search
// (paginated).
func (h *Handler) PartnerCategoriesSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Partner category", h.db.ListPartnerCategories)
}

// PartnerCategoriesCount handles GET /api/v1/partner-categories/count.
func (h *Handler) PartnerCategoriesCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Partner category", h.db.CountPartnerCategories)
}

// PartnerCategoriesGet handles GET /api/v1/partner-categories/{id}.
func (h *Handler) PartnerCategoriesGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Partner category", h.db.GetPartnerCategory)
}

// PartnerCategoriesCreate handles POST /api/v1/partner-categories.
func (h *Handler) PartnerCategoriesCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Partner category", h.db.CreatePartnerCategory)
}

// PartnerCategoriesUpdate handles PUT /api/v1/partner-categories/{id}.
func (h *Handler) PartnerCategoriesUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Partner category", h.db.UpdatePartnerCategory)
}

// PartnerCategoriesDelete handles DELETE /api/v1/partner-categories/{id}.
func (h *Handler) PartnerCategoriesDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Partner category", h.db.DeletePartnerCategory)
}
