// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// @title Leafbase API
// @version 1.0
// @description Vegan product catalog and brand scoring API.
// @description
// @description ## Features
// @description
// @description - **Product catalog**: food, cosmetics and household cleaners with EAN barcode lookup
// @description - **Brand scoring**: weighted criteria grouped into score categories, with per-brand reports
// @description - **Scan ingest**: barcode scan events from the mobile apps, with shop attachment via OpenStreetMap
// @description - **Live feed**: WebSocket stream of incoming scans
// @description - **Mobile exports**: SQLite artifacts rebuilt on a schedule for offline use
// @description
// @description ## Authentication
// @description
// @description User endpoints require a Bearer JWT obtained via `/api/v1/auth/login`.
// @description Server-to-server clients authenticate with the `X-Api-Key` header instead.
// @description
// @description ## Errors
// @description
// @description All error responses carry a single `detail` field:
// @description ```json
// @description {"detail": "Product not found"}
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/mverdier/leafbase/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, sent as "Bearer {token}". Obtain via /api/v1/auth/login.
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key
// @description API key for server-to-server clients.
//
// @tag.name auth
// @tag.description Login, logout and password reset
//
// @tag.name products
// @tag.description Product catalog CRUD, search and EAN lookup
//
// @tag.name brands
// @tag.description Brand CRUD, lookalike matching, logos and scoring reports
//
// @tag.name scans
// @tag.description Scan event ingest, queries and the live WebSocket feed
//
// @tag.name scorings
// @tag.description Score categories, criteria and per-brand scores
//
// @tag.name export
// @tag.description SQLite artifacts for the mobile apps
//
// @tag.name health
// @tag.description Liveness and readiness probes
package main
