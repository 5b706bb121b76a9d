// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Handlers for the brand scoring tooling: score categories, the
// criteria inside them, per-brand scores and the aggregated report.

package api

import (
	"net/http"

	"github.com/mverdier/leafbase/internal/models"
)

// ScoreCategoriesList handles GET /api/v1/scorings/categories. Each
// category carries its criteria.
func (h *Handler) ScoreCategoriesList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Score category", h.db.GetAllScoreCategories)
}

// ScoreCategoriesSearch handles GET /api/v1/scorings/categories/search
// (paginated).
func (h *Handler) ScoreCategoriesSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Score category", h.db.ListScoreCategories)
}

// ScoreCategoriesCount handles GET /api/v1/scorings/categories/count.
func (h *Handler) ScoreCategoriesCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Score category", h.db.CountScoreCategories)
}

// ScoreCategoriesGet handles GET /api/v1/scorings/categories/{id}.
func (h *Handler) ScoreCategoriesGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Score category", h.db.GetScoreCategory)
}

// ScoreCategoriesCreate handles POST /api/v1/scorings/categories.
func (h *Handler) ScoreCategoriesCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Score category", h.db.CreateScoreCategory)
}

// ScoreCategoriesUpdate handles PUT /api/v1/scorings/categories/{id}.
func (h *Handler) ScoreCategoriesUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Score category", h.db.UpdateScoreCategory)
}

// ScoreCategoriesDelete handles DELETE /api/v1/scorings/categories/{id}.
// Criteria in the category, and any brand scores against them, go too.
func (h *Handler) ScoreCategoriesDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Score category", h.db.DeleteScoreCategory)
}

// ScoreCriteriaList handles GET /api/v1/scorings/criteria.
func (h *Handler) ScoreCriteriaList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Score criterion", h.db.GetAllScoreCriteria)
}

// ScoreCriteriaSearch handles GET /api/v1/scorings/criteria/search
// (paginated).
func (h *Handler) ScoreCriteriaSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Score criterion", h.db.ListScoreCriteria)
}

// ScoreCriteriaCount handles GET /api/v1/scorings/criteria/count.
func (h *Handler) ScoreCriteriaCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Score criterion", h.db.CountScoreCriteria)
}

// ScoreCriteriaGet handles GET /api/v1/scorings/criteria/{id}.
func (h *Handler) ScoreCriteriaGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Score criterion", h.db.GetScoreCriterion)
}

// ScoreCriteriaCreate handles POST /api/v1/scorings/criteria.
func (h *Handler) ScoreCriteriaCreate(w http.ResponseWriter, r *http.Request) {
	createOne(w, r, "Score criterion", h.db.CreateScoreCriterion)
}

// ScoreCriteriaUpdate handles PUT /api/v1/scorings/criteria/{id}.
func (h *Handler) ScoreCriteriaUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Score criterion", h.db.UpdateScoreCriterion)
}

// ScoreCriteriaDelete handles DELETE /api/v1/scorings/criteria/{id}.
func (h *Handler) ScoreCriteriaDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Score criterion", h.db.DeleteScoreCriterion)
}

// BrandScoresUpsert handles PUT /api/v1/scorings/brands/{brandID}/scores.
// The (brand, criterion) pair is unique; posting a second score for the
// same criterion overwrites the first.
func (h *Handler) BrandScoresUpsert(w http.ResponseWriter, r *http.Request) {
	brandID, ok := pathID(w, r, "brandID")
	if !ok {
		return
	}
	var req models.UpsertBrandScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	score, err := h.db.UpsertBrandScore(r.Context(), brandID, &req)
	if err != nil {
		storeError(w, r, err, "Brand score")
		return
	}
	respondJSON(w, http.StatusOK, score)
}

// BrandScoresDelete handles
// DELETE /api/v1/scorings/brands/{brandID}/scores/{criterionID}.
func (h *Handler) BrandScoresDelete(w http.ResponseWriter, r *http.Request) {
	brandID, ok := pathID(w, r, "brandID")
	if !ok {
		return
	}
	criterionID, ok := pathID(w, r, "criterionID")
	if !ok {
		return
	}
	if err := h.db.DeleteBrandScore(r.Context(), brandID, criterionID); err != nil {
		storeError(w, r, err, "Brand score")
		return
	}
	respondNoContent(w)
}

// BrandReport handles GET /api/v1/scorings/brands/{brandID}/report.
func (h *Handler) BrandReport(w http.ResponseWriter, r *http.Request) {
	brandID, ok := pathID(w, r, "brandID")
	if !ok {
		return
	}
	report, err := h.db.GetBrandScoringReport(r.Context(), brandID)
	if err != nil {
		storeError(w, r, err, "Brand")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
