// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/database"
)

// reservedParams are the query keys consumed by pagination and sorting;
// everything else is treated as a filter key.
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"sortby":    true,
	"direction": true,
}

// listQuery is the parsed pagination/sorting/filter state of a list
// request.
type listQuery struct {
	Page   int
	Size   int
	Params database.ListParams
}

// parseListQuery reads page, page_size, sortby, direction and the
// remaining filter params from the request. Out-of-range values are
// clamped rather than rejected: page floors at 1, page_size is clamped
// to [1, max].
func parseListQuery(r *http.Request, cfg *config.APIConfig) listQuery {
	q := r.URL.Query()

	page := intParam(q, "page", 1)
	if page < 1 {
		page = 1
	}
	size := intParam(q, "page_size", cfg.DefaultPageSize)
	if size < 1 {
		size = 1
	}
	if size > cfg.MaxPageSize {
		size = cfg.MaxPageSize
	}

	return listQuery{
		Page: page,
		Size: size,
		Params: database.ListParams{
			Offset:     (page - 1) * size,
			Limit:      size,
			OrderBy:    q.Get("sortby"),
			Descending: strings.EqualFold(q.Get("direction"), "desc"),
			Filters:    collectFilters(q),
		},
	}
}

// collectFilters turns the non-reserved query params into the filter
// map the store layer consumes. Repeated params become a slice;
// a single comma-separated value on an __in/__notin key is split so
// both ?status__in=A,B and ?status__in=A&status__in=B work.
func collectFilters(q url.Values) map[string]any {
	filters := make(map[string]any)
	for key, values := range q {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		switch {
		case len(values) > 1:
			filters[key] = values
		case isListOperator(key) && strings.Contains(values[0], ","):
			filters[key] = strings.Split(values[0], ",")
		default:
			filters[key] = values[0]
		}
	}
	return filters
}

func isListOperator(key string) bool {
	return strings.HasSuffix(key, "__in") || strings.HasSuffix(key, "__notin") ||
		strings.HasSuffix(key, "__between")
}

// intParam reads an integer query param, falling back on absence or
// garbage.
func intParam(q url.Values, key string, def int) int {
	raw := q.Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// pathID parses the named chi URL parameter as an entity id. A zero
// return means the 400 response has been written.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondDetail(w, http.StatusBadRequest, "Invalid "+name+" path parameter")
		return 0, false
	}
	return id, true
}
