// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/events"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

// ScansList handles GET /api/v1/scans: every event, newest first, as a
// bare array.
func (h *Handler) ScansList(w http.ResponseWriter, r *http.Request) {
	listAll(w, r, "Scan event", h.db.GetAllScanEvents)
}

// ScansSearch handles GET /api/v1/scans/search (paginated).
func (h *Handler) ScansSearch(w http.ResponseWriter, r *http.Request) {
	listPage(h, w, r, "Scan event", h.db.ListScanEvents)
}

// ScansCount handles GET /api/v1/scans/count.
func (h *Handler) ScansCount(w http.ResponseWriter, r *http.Request) {
	countTotal(h, w, r, "Scan event", h.db.CountScanEvents)
}

// ScansGet handles GET /api/v1/scans/{id}.
func (h *Handler) ScansGet(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "Scan event", h.db.GetScanEvent)
}

// ScansByEAN handles GET /api/v1/scans/by-ean/{ean}. The limit query
// param takes 1-1000 and defaults to 100; newest scans come first.
func (h *Handler) ScansByEAN(w http.ResponseWriter, r *http.Request) {
	ean := strings.TrimSpace(chi.URLParam(r, "ean"))
	if ean == "" {
		respondDetail(w, http.StatusBadRequest, "Invalid ean path parameter")
		return
	}
	limit := intParam(r.URL.Query(), "limit", 100)
	if limit < 1 || limit > 1000 {
		respondDetail(w, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}

	scans, err := h.db.GetScansByEAN(r.Context(), ean, limit)
	if err != nil {
		storeError(w, r, err, "Scan event")
		return
	}
	respondJSON(w, http.StatusOK, scans)
}

// ScansCreate handles POST /api/v1/scans. In async mode the scan is
// queued on the stream and the response is 202 with the queued
// message; with events disabled (or a failed publish) it is persisted
// synchronously and the response is 201 with the stored row. Signed-in
// users are recorded as the scanner; API-client scans may carry a
// user_id from the app.
func (h *Handler) ScansCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if p, ok := auth.PrincipalFrom(r.Context()); ok && p.User != nil {
		id := p.User.ID
		req.UserID = &id
	}

	result, err := h.pipeline.SubmitScan(r.Context(), req)
	if err != nil {
		storeError(w, r, err, "Scan event")
		return
	}
	if result.Accepted {
		respondJSON(w, http.StatusAccepted, result.Message)
		return
	}
	respondJSON(w, http.StatusCreated, result.Event)
}

// ScansUpdate handles PUT /api/v1/scans/{id} (admin only).
func (h *Handler) ScansUpdate(w http.ResponseWriter, r *http.Request) {
	updateByID(w, r, "Scan event", h.db.UpdateScanEvent)
}

// ScansDelete handles DELETE /api/v1/scans/{id} (admin only).
func (h *Handler) ScansDelete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "Scan event", h.db.DeleteScanEvent)
}

// ScansLive handles GET /api/v1/scans/live: upgrade to WebSocket and
// stream every persisted scan until the client goes away.
func (h *Handler) ScansLive(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondDetail(w, http.StatusServiceUnavailable, "Live feed is not available")
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkWebSocketOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the handshake error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	events.NewClient(h.hub, conn).Start()
}

// checkWebSocketOrigin accepts same-origin requests and the configured
// CORS origins. Non-browser clients without an Origin header (the
// scanner apps) are allowed.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
