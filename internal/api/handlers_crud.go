// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Generic CRUD plumbing shared by the per-entity handlers. Each entity
// file wires its store methods through these helpers so the envelope,
// validation and error mapping stay identical across the catalog.

package api

import (
	"context"
	"net/http"

	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/models"
)

// listAll serves a bare collection GET: every row as a plain JSON
// array, no envelope. Paginated, filterable access lives on the
// /search sibling.
func listAll[T any](w http.ResponseWriter, r *http.Request, entity string,
	all func(context.Context) ([]T, error),
) {
	items, err := all(r.Context())
	if err != nil {
		storeError(w, r, err, entity)
		return
	}
	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, items)
}

// listPage serves a paginated list endpoint: parse the query, run the
// store listing, wrap the result in the Page envelope.
func listPage[T any](h *Handler, w http.ResponseWriter, r *http.Request, entity string,
	list func(context.Context, database.ListParams) ([]T, int64, error),
) {
	q := parseListQuery(r, &h.cfg.API)
	items, total, err := list(r.Context(), q.Params)
	if err != nil {
		storeError(w, r, err, entity)
		return
	}
	respondJSON(w, http.StatusOK, models.NewPage(items, total, q.Page, q.Size))
}

// countTotal serves a /count endpoint with the active filter set.
func countTotal(h *Handler, w http.ResponseWriter, r *http.Request, entity string,
	count func(context.Context, map[string]any) (int64, error),
) {
	total, err := count(r.Context(), collectFilters(r.URL.Query()))
	if err != nil {
		storeError(w, r, err, entity)
		return
	}
	respondJSON(w, http.StatusOK, models.CountResult{Total: total})
}

// getByID serves a GET /{id} endpoint.
func getByID[T any](w http.ResponseWriter, r *http.Request, entity string,
	get func(context.Context, int64) (T, error),
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := get(r.Context(), id)
	if err != nil {
		storeError(w, r, err, entity)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// createOne serves a POST endpoint: decode, validate, create, 201.
func createOne[R any, T any](w http.ResponseWriter, r *http.Request, entity string,
	create func(context.Context, *R) (T, error),
) {
	var req R
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := create(r.Context(), &req)
	if err != nil {
		storeError(w, r, err, entity)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// updateByID serves a PUT /{id} endpoint with a partial-update body.
func updateByID[R any, T any](w http.ResponseWriter, r *http.Request, entity string,
	update func(context.Context, int64, *R) (T, error),
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req R
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := update(r.Context(), id, &req)
	if err != nil {
		storeError(w, r, err, entity)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// deleteByID serves a DELETE /{id} endpoint, answering 204.
func deleteByID(w http.ResponseWriter, r *http.Request, entity string,
	del func(context.Context, int64) error,
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		storeError(w, r, err, entity)
		return
	}
	respondNoContent(w)
}
