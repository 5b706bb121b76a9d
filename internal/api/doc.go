// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package api provides the HTTP surface of the catalog: the chi router,
// the request handlers for every entity, and the response envelope.
//
// Wire contract:
//
//   - Paginated lists respond with {items, total, page, size, pages}.
//   - Every non-2xx response carries {"detail": "..."} with a
//     human-readable message, matching what the mobile and admin
//     clients already parse.
//   - Pagination is driven by page (1-based) and page_size query
//     params; sorting by sortby and direction=asc|desc.
//   - Any other query parameter is forwarded to the filter builder as
//     a filter key (field, field__op, relation___field__op). Unknown
//     keys are silently ignored, so clients can probe without 400s.
//
// Authentication is a Bearer JWT for users or an X-Api-Key header for
// machine clients; role enforcement happens in the casbin middleware
// mounted per route group.
package api
