// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package geo resolves nearby shops through the OpenStreetMap Overpass
// API. Lookups sit behind a circuit breaker so a degraded Overpass
// instance cannot stall scan ingestion, and successful results are
// memoized in a Badger cache keyed by rounded coordinates.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mverdier/leafbase/internal/cache"
	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
)

// shopFilter matches the OSM shop values we consider food retail.
const shopFilter = `"shop"~"^(supermarket|convenience|greengrocer|food)$"`

// Shop is a nearby shop resolved from OpenStreetMap. JSON tags double
// as the cache serialization format.
type Shop struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
	OSMID     string  `json:"osm_id"`
	OSMType   string  `json:"osm_type"`  // node, way, or relation
	ShopType  string  `json:"shop_type"` // OSM shop tag, defaults to supermarket
}

// Client queries the Overpass API for shops around a coordinate.
type Client struct {
	http      *http.Client
	url       string
	userAgent string
	radius    int
	breaker   *gobreaker.CircuitBreaker[*Shop]
	cache     *cache.Store
	cacheTTL  time.Duration
}

// NewClient builds an Overpass client from configuration. store may be
// nil, which disables result caching.
func NewClient(cfg *config.GeoConfig, store *cache.Store) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	radius := cfg.SearchRadiusM
	if radius <= 0 {
		radius = 100
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	resetTimeout := cfg.BreakerResetTimeout
	if resetTimeout <= 0 {
		resetTimeout = time.Minute
	}

	breaker := gobreaker.NewCircuitBreaker[*Shop](gobreaker.Settings{
		Name:    "overpass-api",
		Timeout: resetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, stateName(from), stateName(to))
			logging.Info().
				Str("breaker", name).
				Str("from", stateName(from)).
				Str("to", stateName(to)).
				Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		http:      &http.Client{Timeout: timeout},
		url:       cfg.OverpassURL,
		userAgent: cfg.UserAgent,
		radius:    radius,
		breaker:   breaker,
		cache:     store,
		cacheTTL:  cfg.CacheTTL,
	}
}

// FindNearbyShop returns the first food shop within the configured
// radius of the coordinate, or nil when there is none. Lookup failures
// (HTTP errors, open breaker, malformed responses) are logged and also
// reported as absence: a scan must never fail because OpenStreetMap is
// unreachable.
func (c *Client) FindNearbyShop(ctx context.Context, lat, lon float64) *Shop {
	key := cacheKey(lat, lon)
	if c.cache != nil {
		var cached Shop
		switch err := c.cache.Get(key, &cached); {
		case err == nil:
			metrics.RecordCacheHit("geocode")
			return &cached
		case errors.Is(err, cache.ErrMiss):
			metrics.RecordCacheMiss("geocode")
		default:
			logging.Warn().Err(err).Msg("Failed to read geocode cache")
		}
	}

	shop, err := c.breaker.Execute(func() (*Shop, error) {
		start := time.Now()
		shop, err := c.lookup(ctx, lat, lon)
		metrics.RecordOverpassLookup(time.Since(start), err)
		return shop, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRequest("overpass-api", "rejected")
			logging.Warn().Err(err).Msg("Shop lookup rejected, Overpass circuit open")
		} else {
			metrics.RecordBreakerRequest("overpass-api", "failure")
			logging.Error().
				Err(err).
				Float64("lat", lat).
				Float64("lon", lon).
				Msg("Overpass lookup failed")
		}
		return nil
	}
	metrics.RecordBreakerRequest("overpass-api", "success")
	if shop == nil {
		return nil
	}

	if c.cache != nil {
		if err := c.cache.Set(key, shop, c.cacheTTL); err != nil {
			logging.Warn().Err(err).Msg("Failed to cache geocode result")
		}
	}
	return shop
}

// overpassResponse is the part of the Overpass JSON envelope we read.
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// overpassElement is a single OSM node or way. Nodes carry lat/lon
// directly; ways carry a computed center. Pointers distinguish absent
// coordinates from a genuine 0,0.
type overpassElement struct {
	ID     int64             `json:"id"`
	Type   string            `json:"type"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// lookup performs one Overpass query. An empty result set is a
// successful lookup (nil, nil); only transport and decoding problems
// count as failures toward the breaker.
func (c *Client) lookup(ctx context.Context, lat, lon float64) (*Shop, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:3600];(node(around:%d,%f,%f)[%s];way(around:%d,%f,%f)[%s];);out center;`,
		c.radius, lat, lon, shopFilter,
		c.radius, lat, lon, shopFilter,
	)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Overpass: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var result overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Overpass response: %w", err)
	}

	if len(result.Elements) == 0 {
		return nil, nil
	}

	shop := parseElement(&result.Elements[0])
	if shop == nil {
		logging.Warn().
			Int64("osm_id", result.Elements[0].ID).
			Msg("Shop element has no coordinates, skipping")
	}
	return shop, nil
}

// parseElement converts an OSM element into a Shop, or nil when the
// element carries no usable coordinates.
func parseElement(el *overpassElement) *Shop {
	var lat, lon float64
	switch {
	case el.Lat != nil && el.Lon != nil:
		lat, lon = *el.Lat, *el.Lon
	case el.Center != nil:
		lat, lon = el.Center.Lat, el.Center.Lon
	default:
		return nil
	}

	name := el.Tags["name"]
	if name == "" {
		name = el.Tags["brand"]
	}
	if name == "" {
		name = "Unknown shop"
	}

	shopType := el.Tags["shop"]
	if shopType == "" {
		shopType = "supermarket"
	}

	shop := &Shop{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		OSMID:     strconv.FormatInt(el.ID, 10),
		OSMType:   el.Type,
		ShopType:  shopType,
	}

	var parts []string
	if v := el.Tags["addr:housenumber"]; v != "" {
		parts = append(parts, v)
	}
	if v := el.Tags["addr:street"]; v != "" {
		parts = append(parts, v)
	}
	if len(parts) > 0 {
		address := strings.Join(parts, " ")
		shop.Address = &address
	}
	if v := el.Tags["addr:city"]; v != "" {
		city := v
		shop.City = &city
	}
	if v := el.Tags["addr:country"]; v != "" {
		country := v
		shop.Country = &country
	}

	return shop
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("overpass:%.4f:%.4f", lat, lon)
}

func stateName(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
