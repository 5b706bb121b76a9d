// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/geo"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
	"github.com/mverdier/leafbase/internal/models"
)

// ShopStore is the shop persistence surface of the resolver.
// Satisfied by *database.DB.
type ShopStore interface {
	FindNearbyShop(ctx context.Context, lat, lon, radiusMeters float64) (*models.Shop, error)
	GetShopByOSMID(ctx context.Context, osmID string) (models.Shop, error)
	CreateShop(ctx context.Context, req *models.CreateShopRequest) (models.Shop, error)
}

// GeoLookup finds a shop near a coordinate in OpenStreetMap.
// Satisfied by *geo.Client.
type GeoLookup interface {
	FindNearbyShop(ctx context.Context, lat, lon float64) *geo.Shop
}

// ShopResolver attaches shops to geotagged scans: first the nearest
// known shop within the search radius, then an OpenStreetMap lookup
// deduplicated by OSM ID. Resolution is best effort, every failure
// path returns nil and the scan persists without a shop.
type ShopResolver struct {
	shops  ShopStore
	lookup GeoLookup
	radius float64
	log    zerolog.Logger
}

// NewShopResolver creates a resolver searching radiusMeters around the
// scan coordinate. A nil lookup disables the OpenStreetMap step.
func NewShopResolver(shops ShopStore, lookup GeoLookup, radiusMeters float64) *ShopResolver {
	if radiusMeters <= 0 {
		radiusMeters = 100
	}
	return &ShopResolver{
		shops:  shops,
		lookup: lookup,
		radius: radiusMeters,
		log:    logging.WithComponent("shop-resolver"),
	}
}

// Resolve returns the shop for a coordinate, or nil when none could be
// found or created.
func (r *ShopResolver) Resolve(ctx context.Context, lat, lon float64) *models.Shop {
	existing, err := r.shops.FindNearbyShop(ctx, lat, lon, r.radius)
	if err != nil {
		r.log.Error().Err(err).Msg("Nearby shop query failed")
		metrics.RecordShopResolution("failed")
		return nil
	}
	if existing != nil {
		metrics.RecordShopResolution("nearby")
		return existing
	}

	if r.lookup == nil {
		metrics.RecordShopResolution("none")
		return nil
	}
	found := r.lookup.FindNearbyShop(ctx, lat, lon)
	if found == nil {
		metrics.RecordShopResolution("none")
		return nil
	}

	// The shop may exist under its OSM ID even when the coordinate
	// check missed it, OSM centroids drift from our stored positions.
	known, err := r.shops.GetShopByOSMID(ctx, found.OSMID)
	if err == nil {
		metrics.RecordShopResolution("nearby")
		return &known
	}
	if !errors.Is(err, database.ErrNotFound) {
		r.log.Error().Err(err).Str("osm_id", found.OSMID).Msg("OSM shop lookup failed")
		metrics.RecordShopResolution("failed")
		return nil
	}

	created, err := r.shops.CreateShop(ctx, shopCreateFromOSM(found))
	if err != nil {
		r.log.Warn().Err(err).Str("osm_id", found.OSMID).Msg("Failed to create shop from OSM data")
		metrics.RecordShopResolution("failed")
		return nil
	}
	metrics.RecordShopResolution("imported")
	r.log.Info().
		Int64("shop_id", created.ID).
		Str("name", created.Name).
		Str("osm_id", found.OSMID).
		Msg("Shop imported from OpenStreetMap")
	return &created
}

func shopCreateFromOSM(shop *geo.Shop) *models.CreateShopRequest {
	return &models.CreateShopRequest{
		Name:      shop.Name,
		Latitude:  shop.Latitude,
		Longitude: shop.Longitude,
		Address:   shop.Address,
		City:      shop.City,
		Country:   shop.Country,
		OSMID:     &shop.OSMID,
		OSMType:   &shop.OSMType,
		ShopType:  &shop.ShopType,
	}
}
