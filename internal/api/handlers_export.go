// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"context"
	"net/http"
	"os"

	"github.com/mverdier/leafbase/internal/export"
	"github.com/mverdier/leafbase/internal/logging"
)

// ExportProductsSQLite handles GET /api/v1/export/products/sqlite:
// build the offline products artifact into a temp file and stream it.
func (h *Handler) ExportProductsSQLite(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, "products.sqlite", h.exporter.BuildProductsArtifact)
}

// ExportCosmeticsSQLite handles GET /api/v1/export/cosmetics/sqlite.
func (h *Handler) ExportCosmeticsSQLite(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, "cosmetics.sqlite", h.exporter.BuildCosmeticsArtifact)
}

// ExportProductsStats handles GET /api/v1/export/products/sqlite/stats,
// the would-be export numbers without building anything.
func (h *Handler) ExportProductsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.exporter.ProductStats(r.Context())
	if err != nil {
		storeError(w, r, err, "Export")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ExportCosmeticsStats handles GET /api/v1/export/cosmetics/sqlite/stats.
func (h *Handler) ExportCosmeticsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.exporter.CosmeticStats(r.Context())
	if err != nil {
		storeError(w, r, err, "Export")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// serveArtifact builds an artifact via build, streams it as a download
// and removes the temp file afterwards.
func (h *Handler) serveArtifact(w http.ResponseWriter, r *http.Request,
	filename string, build func(context.Context) (export.Result, error),
) {
	result, err := build(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("artifact", filename).Msg("Export build failed")
		respondDetail(w, http.StatusInternalServerError, "Export generation failed")
		return
	}
	defer func() {
		if rmErr := os.Remove(result.Path); rmErr != nil {
			logging.Warn().Err(rmErr).Str("path", result.Path).Msg("Failed to remove export temp file")
		}
	}()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, result.Path)
}
