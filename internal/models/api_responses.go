// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

// Page is the envelope returned by every paginated list endpoint.
// Total is the pre-pagination row count for the active filter set,
// Pages is ceil(Total/Size).
//
// Example:
//
//	{
//	  "items": [{"id": 1, "ean": "3017620422003", ...}],
//	  "total": 42,
//	  "page": 1,
//	  "size": 5,
//	  "pages": 9
//	}
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// NewPage assembles a Page envelope, computing Pages from total and size.
// A nil items slice is normalized to an empty one so the JSON field is
// always an array.
func NewPage[T any](items []T, total int64, page, size int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: pages,
	}
}

// CountResult is the body of GET /<entity>/count endpoints.
type CountResult struct {
	Total int64 `json:"total"`
}

// ErrorDetail is the error body used by every non-2xx response.
//
// Example:
//
//	{"detail": "Product not found"}
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// ListQuery carries the pagination and sorting parameters shared by all
// list endpoints. Page is 1-based; Size is clamped to [1, max] by the
// handlers before reaching the stores.
type ListQuery struct {
	Page      int    `json:"page" validate:"omitempty,min=1"`
	Size      int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string `json:"sortby,omitempty"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=asc desc"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Version  string `json:"version,omitempty"`
}
