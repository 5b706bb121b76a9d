// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_apiclients.go - API Client CRUD Operations

API clients are machine credentials for the key-gated endpoints. The
key value is generated by the auth package at create time and immutable
afterwards; revocation flips is_active off.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const apiClientSelectColumns = `api_clients.id, api_clients.created_at, api_clients.updated_at,
	api_clients.name, api_clients.api_key, api_clients.is_active`

// scanAPIClient scans one API client row.
func scanAPIClient(rows *sql.Rows) (models.APIClient, error) {
	var c models.APIClient
	if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.APIKey, &c.IsActive); err != nil {
		return c, fmt.Errorf("failed to scan api client: %w", err)
	}
	return c, nil
}

// CountAPIClients returns the number of API clients matching the
// filters.
func (db *DB) CountAPIClients(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, apiClientsTable, filters)
}

// GetAPIClient retrieves a single API client by ID.
func (db *DB) GetAPIClient(ctx context.Context, id int64) (models.APIClient, error) {
	return getOneWhere(ctx, db, apiClientsTable, apiClientSelectColumns, "",
		map[string]any{"id": id}, scanAPIClient)
}

// GetActiveAPIClientByKey retrieves an API client by key, active ones
// only. Revoked keys look identical to unknown keys.
func (db *DB) GetActiveAPIClientByKey(ctx context.Context, apiKey string) (models.APIClient, error) {
	rows, err := db.conn.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM api_clients WHERE api_clients.api_key = ? AND api_clients.is_active LIMIT 1",
			apiClientSelectColumns),
		apiKey)
	if err != nil {
		return models.APIClient{}, fmt.Errorf("failed to query api client by key: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.APIClient{}, fmt.Errorf("api key lookup error: %w", err)
		}
		return models.APIClient{}, ErrNotFound
	}
	return scanAPIClient(rows)
}

// ListAPIClients returns one page of API clients plus the filtered
// total.
func (db *DB) ListAPIClients(ctx context.Context, p ListParams) ([]models.APIClient, int64, error) {
	return listAndCount(ctx, db, apiClientsTable, apiClientSelectColumns, "", p, scanAPIClient)
}

// GetAllAPIClients returns every client credential, oldest first.
func (db *DB) GetAllAPIClients(ctx context.Context) ([]models.APIClient, error) {
	return getAllRows(ctx, db, apiClientsTable, apiClientSelectColumns, "",
		"api_clients.id ASC", scanAPIClient)
}

// CreateAPIClient inserts a new client with a server-generated key.
// Clients start inactive unless the request says otherwise.
func (db *DB) CreateAPIClient(ctx context.Context, req *models.CreateAPIClientRequest, apiKey string) (models.APIClient, error) {
	isActive := req.IsActive != nil && *req.IsActive

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO api_clients (created_at, updated_at, name, api_key, is_active)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.Name, apiKey, isActive,
	).Scan(&id)
	if err != nil {
		return models.APIClient{}, classifyError(err)
	}

	return db.GetAPIClient(ctx, id)
}

// UpdateAPIClient applies a partial update. The key never changes.
func (db *DB) UpdateAPIClient(ctx context.Context, id int64, req *models.UpdateAPIClientRequest) (models.APIClient, error) {
	p := &patchSet{}
	addSet(p, "name", req.Name)
	addSet(p, "is_active", req.IsActive)

	if err := db.applyPatch(ctx, "api_clients", id, p, time.Now().UTC()); err != nil {
		return models.APIClient{}, err
	}
	return db.GetAPIClient(ctx, id)
}

// DeleteAPIClient removes a client credential.
func (db *DB) DeleteAPIClient(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "api_clients", id)
}
