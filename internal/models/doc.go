// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package models defines data structures for the Leafbase application.

This package contains all data models used throughout the application:
database entities, API request/response structures, and internal data
transfer objects. It serves as the single source of truth for data
structure definitions.

Model Categories:

1. Catalog Entities:
  - Product: Barcoded food product with vegan status and editorial state
  - Brand: Manufacturer brand with a parent hierarchy and optional logo
  - Additive: E-number food additive with vegan status
  - Cosmetic / HouseholdCleaner: Per-brand vegan and cruelty-free flags
  - ProductCategory, InterestingProduct: Curated catalog groupings

2. Field Data:
  - ScanEvent: A barcode scan reported by a mobile client, optionally geotagged
  - Shop: Physical store, either user-created or imported from OpenStreetMap
  - ErrorReport: End-user report about incorrect catalog data

3. Scoring:
  - ScoreCategory, ScoreCriterion: The scoring grid
  - BrandScore: One brand's score against one criterion
  - BrandScoringReport: Aggregated per-category and global scores

4. Accounts:
  - User: Staff account with role-based permissions
  - APIClient: Machine client authenticated by API key
  - Checking: A brand-contact verification request owned by a user

5. API Envelope:
  - Page: Paginated list envelope (items, total, page, size, pages)
  - ErrorDetail: Error body ({"detail": "..."})

Serialization uses snake_case JSON tags throughout. Nullable database
columns map to pointer fields that serialize as explicit nulls; purely
internal columns (password hashes, reset tokens) carry `json:"-"`.

Enum types are typed strings with a Valid() method; persistence and
request validation both go through them.
*/
package models
