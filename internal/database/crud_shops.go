// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_shops.go - Shop CRUD and Proximity Search

Shops come from two sources: staff entry and OpenStreetMap import
during scan ingest. The proximity search backs shop attachment: a
bounding box narrows the candidates in SQL, then the exact Haversine
distance picks the nearest shop within the radius.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const shopSelectColumns = `shops.id, shops.created_at, shops.updated_at,
	shops.name, shops.latitude, shops.longitude, shops.address, shops.city,
	shops.country, shops.osm_id, shops.osm_type, shops.shop_type`

// earthRadiusMeters is the mean Earth radius used by the Haversine
// distance.
const earthRadiusMeters = 6371000.0

// metersPerDegreeLat approximates one degree of latitude.
const metersPerDegreeLat = 111320.0

// scanShop scans one shop row.
func scanShop(rows *sql.Rows) (models.Shop, error) {
	var s models.Shop
	var address, city, country, osmID, osmType, shopType sql.NullString

	if err := rows.Scan(
		&s.ID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Name,
		&s.Latitude,
		&s.Longitude,
		&address,
		&city,
		&country,
		&osmID,
		&osmType,
		&shopType,
	); err != nil {
		return s, fmt.Errorf("failed to scan shop: %w", err)
	}

	if address.Valid {
		s.Address = &address.String
	}
	if city.Valid {
		s.City = &city.String
	}
	if country.Valid {
		s.Country = &country.String
	}
	if osmID.Valid {
		s.OSMID = &osmID.String
	}
	if osmType.Valid {
		s.OSMType = &osmType.String
	}
	if shopType.Valid {
		s.ShopType = &shopType.String
	}
	return s, nil
}

// CountShops returns the number of shops matching the filters.
func (db *DB) CountShops(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, shopsTable, filters)
}

// GetShop retrieves a single shop by ID.
func (db *DB) GetShop(ctx context.Context, id int64) (models.Shop, error) {
	return getOneWhere(ctx, db, shopsTable, shopSelectColumns, "",
		map[string]any{"id": id}, scanShop)
}

// GetShopByOSMID retrieves a shop by its OpenStreetMap identifier, the
// import dedup key.
func (db *DB) GetShopByOSMID(ctx context.Context, osmID string) (models.Shop, error) {
	return getOneWhere(ctx, db, shopsTable, shopSelectColumns, "",
		map[string]any{"osm_id": osmID}, scanShop)
}

// ListShops returns one page of shops plus the filtered total.
func (db *DB) ListShops(ctx context.Context, p ListParams) ([]models.Shop, int64, error) {
	return listAndCount(ctx, db, shopsTable, shopSelectColumns, "", p, scanShop)
}

// GetAllShops returns every shop ordered by name.
func (db *DB) GetAllShops(ctx context.Context) ([]models.Shop, error) {
	return getAllRows(ctx, db, shopsTable, shopSelectColumns, "",
		"shops.name ASC", scanShop)
}

// CreateShop inserts a new shop.
func (db *DB) CreateShop(ctx context.Context, req *models.CreateShopRequest) (models.Shop, error) {
	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO shops (created_at, updated_at, name, latitude, longitude,
			address, city, country, osm_id, osm_type, shop_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.Name, req.Latitude, req.Longitude,
		req.Address, req.City, req.Country, req.OSMID, req.OSMType, req.ShopType,
	).Scan(&id)
	if err != nil {
		return models.Shop{}, classifyError(err)
	}

	return db.GetShop(ctx, id)
}

// UpdateShop applies a partial update.
func (db *DB) UpdateShop(ctx context.Context, id int64, req *models.UpdateShopRequest) (models.Shop, error) {
	p := &patchSet{}
	addSet(p, "name", req.Name)
	addSet(p, "latitude", req.Latitude)
	addSet(p, "longitude", req.Longitude)
	addSet(p, "address", req.Address)
	addSet(p, "city", req.City)
	addSet(p, "country", req.Country)
	addSet(p, "osm_id", req.OSMID)
	addSet(p, "osm_type", req.OSMType)
	addSet(p, "shop_type", req.ShopType)

	if err := db.applyPatch(ctx, "shops", id, p, time.Now().UTC()); err != nil {
		return models.Shop{}, err
	}
	return db.GetShop(ctx, id)
}

// DeleteShop removes a shop. Scan events recorded there are kept,
// detached.
func (db *DB) DeleteShop(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "shops", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE scan_events SET shop_id = NULL WHERE shop_id = ?", id); err != nil {
			return fmt.Errorf("failed to detach scan events from shop: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM shops WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "shops")
	})
}

// FindNearbyShop returns the nearest shop within radiusMeters of the
// point, or nil when none is close enough. A bounding box narrows the
// candidates in SQL before the exact distance check.
func (db *DB) FindNearbyShop(ctx context.Context, lat, lon, radiusMeters float64) (*models.Shop, error) {
	latRange := radiusMeters / metersPerDegreeLat
	cosLat := math.Cos(lat * math.Pi / 180)
	lonRange := 180.0
	if cosLat > 1e-6 {
		lonRange = radiusMeters / (metersPerDegreeLat * cosLat)
	}

	query := fmt.Sprintf(`SELECT %s FROM shops
		WHERE shops.latitude BETWEEN ? AND ?
		  AND shops.longitude BETWEEN ? AND ?`, shopSelectColumns)
	candidates, err := queryAndScan(ctx, db.conn, query,
		[]any{lat - latRange, lat + latRange, lon - lonRange, lon + lonRange}, scanShop)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby shops: %w", err)
	}

	var nearest *models.Shop
	nearestDistance := radiusMeters
	for i := range candidates {
		d := haversineMeters(lat, lon, candidates[i].Latitude, candidates[i].Longitude)
		if d <= nearestDistance {
			nearest = &candidates[i]
			nearestDistance = d
		}
	}
	return nearest, nil
}

// haversineMeters computes the great-circle distance between two
// points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
