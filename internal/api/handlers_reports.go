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

// ErrorReportsList handles GET /api/v1/error-reports.
func (h *Handler) ErrorReportsList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Error report", h.db.GetAllErrorReports)
}

// ErrorReportsSearch handles GET /api/v1/error-reports/search
// (paginated).
func (h *Handler) ErrorReportsSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Error report", h.db.ListErrorReports)
}

// ErrorReportsCount handles GET /api/v1/error-reports/count.
func (h *Handler) ErrorReportsCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Error report", h.db.CountErrorReports)
}

// ErrorReportsGet handles GET /api/v1/error-reports/{id}.
func (h *Handler) ErrorReportsGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Error report", h.db.GetErrorReport)
}

// ErrorReportsCreate handles POST /api/v1/error-reports. When a signed
// in user files the report their account is recorded as the author;
// API clients file anonymously.
func (h *Handler) ErrorReportsCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateErrorReportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if p, ok := auth.PrincipalFrom(r.Context()); ok && p.User != nil {
		id := p.User.ID
		req.CreatedBy = &id
	}

	report, err := h.db.CreateErrorReport(r.Context(), &req)
	if err != nil {
		storeError(w, r, err, "Error report")
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

// ErrorReportsUpdate handles PUT /api/v1/error-reports/{id}. The EAN
// is immutable; curators update the description and handled flag.
func (h *Handler) ErrorReportsUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Error report", h.db.UpdateErrorReport)
}

// ErrorReportsDelete handles DELETE /api/v1/error-reports/{id}.
func (h *Handler) ErrorReportsDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Error report", h.db.DeleteErrorReport)
}
