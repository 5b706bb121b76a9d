// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_scans.go - Scan Event Persistence

Scan events are append-mostly telemetry written by the ingest consumer.
The pipeline is at-least-once, so every insert dedupes on the event
UUID with ON CONFLICT DO NOTHING; a redelivered message is a clean
no-op. Scans have no updated_at, date_created is the only timestamp.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mverdier/leafbase/internal/models"
)

const scanEventSelectColumns = `scan_events.id, scan_events.date_created, scan_events.ean,
	scan_events.latitude, scan_events.longitude, scan_events.shop_id, scan_events.user_id,
	scan_events.lookup_api_response, s.name, u.nickname`

const scanEventJoins = `LEFT JOIN shops s ON s.id = scan_events.shop_id
	LEFT JOIN users u ON u.id = scan_events.user_id`

// scanScanEvent scans one scan event row with shop and user names.
func scanScanEvent(rows *sql.Rows) (models.ScanEvent, error) {
	var e models.ScanEvent
	var latitude, longitude sql.NullFloat64
	var shopID, userID sql.NullInt64
	var lookupResponse, shopName, userNickname sql.NullString

	if err := rows.Scan(
		&e.ID,
		&e.DateCreated,
		&e.EAN,
		&latitude,
		&longitude,
		&shopID,
		&userID,
		&lookupResponse,
		&shopName,
		&userNickname,
	); err != nil {
		return e, fmt.Errorf("failed to scan scan event: %w", err)
	}

	if latitude.Valid {
		e.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		e.Longitude = &longitude.Float64
	}
	if shopID.Valid {
		e.ShopID = &shopID.Int64
	}
	if userID.Valid {
		e.UserID = &userID.Int64
	}
	if lookupResponse.Valid {
		e.LookupAPIResponse = &lookupResponse.String
	}
	if shopName.Valid {
		e.ShopName = &shopName.String
	}
	if userNickname.Valid {
		e.UserNickname = &userNickname.String
	}
	return e, nil
}

// CountScanEvents returns the number of scan events matching the
// filters.
func (db *DB) CountScanEvents(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, scanEventsTable, filters)
}

// GetScanEvent retrieves a single scan event by ID.
func (db *DB) GetScanEvent(ctx context.Context, id int64) (models.ScanEvent, error) {
	return getOneWhere(ctx, db, scanEventsTable, scanEventSelectColumns, scanEventJoins,
		map[string]any{"id": id}, scanScanEvent)
}

// GetScanEventByUUID retrieves a scan event by its stream UUID. The
// ingest pipeline uses it to return the stored row after an insert.
func (db *DB) GetScanEventByUUID(ctx context.Context, eventUUID string) (models.ScanEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM scan_events %s
		WHERE scan_events.event_uuid = ?
		LIMIT 1`, scanEventSelectColumns, scanEventJoins)
	items, err := queryAndScan(ctx, db.conn, query, []any{eventUUID}, scanScanEvent)
	if err != nil {
		return models.ScanEvent{}, fmt.Errorf("failed to query scan_events: %w", err)
	}
	if len(items) == 0 {
		return models.ScanEvent{}, ErrNotFound
	}
	return items[0], nil
}

// ListScanEvents returns one page of scan events plus the filtered
// total.
func (db *DB) ListScanEvents(ctx context.Context, p ListParams) ([]models.ScanEvent, int64, error) {
	return listAndCount(ctx, db, scanEventsTable, scanEventSelectColumns, scanEventJoins, p, scanScanEvent)
}

// GetAllScanEvents returns every scan event, newest first.
func (db *DB) GetAllScanEvents(ctx context.Context) ([]models.ScanEvent, error) {
	return getAllRows(ctx, db, scanEventsTable, scanEventSelectColumns, scanEventJoins,
		"scan_events.date_created DESC", scanScanEvent)
}

// GetScansByEAN returns the latest scans of one barcode, newest first.
// The limit is clamped to 1-1000 and defaults to 100.
func (db *DB) GetScansByEAN(ctx context.Context, ean string, limit int) ([]models.ScanEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := fmt.Sprintf(`SELECT %s FROM scan_events %s
		WHERE scan_events.ean = ?
		ORDER BY scan_events.date_created DESC
		LIMIT ?`, scanEventSelectColumns, scanEventJoins)
	return queryAndScan(ctx, db.conn, query, []any{ean, limit}, scanScanEvent)
}

// InsertScanFromMessage persists one stream message, returning whether
// a row was written. A duplicate event UUID reports false with no
// error, which makes redelivery harmless.
func (db *DB) InsertScanFromMessage(ctx context.Context, msg *models.ScanMessage, shopID *int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO scan_events (event_uuid, date_created, ean, latitude, longitude,
			shop_id, user_id, lookup_api_response)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (event_uuid) DO NOTHING`,
		msg.UUID.String(), msg.ReceivedAt.UTC(), msg.EAN, msg.Latitude, msg.Longitude,
		shopID, msg.UserID, msg.LookupAPIResponse,
	)
	if err != nil {
		return false, classifyError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for scan_events: %w", err)
	}
	return n > 0, nil
}

// UpdateScanEvent applies a partial update to a scan event. Scans carry
// no updated_at; only the payload columns change. The user and shop,
// when changed, must exist.
func (db *DB) UpdateScanEvent(ctx context.Context, id int64, req *models.UpdateScanRequest) (models.ScanEvent, error) {
	if req.UserID != nil {
		if err := db.requireRef(ctx, "users", "User", *req.UserID); err != nil {
			return models.ScanEvent{}, err
		}
	}
	if req.ShopID != nil {
		if err := db.requireRef(ctx, "shops", "Shop", *req.ShopID); err != nil {
			return models.ScanEvent{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "ean", req.EAN)
	addSet(p, "latitude", req.Latitude)
	addSet(p, "longitude", req.Longitude)
	addSet(p, "shop_id", req.ShopID)
	addSet(p, "lookup_api_response", req.LookupAPIResponse)
	addSet(p, "user_id", req.UserID)

	if p.empty() {
		if err := db.requireRow(ctx, "scan_events", id); err != nil {
			return models.ScanEvent{}, err
		}
		return db.GetScanEvent(ctx, id)
	}

	query := fmt.Sprintf("UPDATE scan_events SET %s WHERE id = ?", p.sql())
	args := append(p.args, id)
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return models.ScanEvent{}, classifyError(err)
	}
	if err := checkAffected(res, "scan_events"); err != nil {
		return models.ScanEvent{}, err
	}
	return db.GetScanEvent(ctx, id)
}

// DeleteScanEvent removes a scan event.
func (db *DB) DeleteScanEvent(ctx context.Context, id int64) error {
	return db.deleteByID(ctx, "scan_events", id)
}
