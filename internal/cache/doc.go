// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package cache provides a persistent key-value cache with per-entry TTL,
backed by BadgerDB.

Values are serialized as JSON, so any marshalable type round-trips
through the store. The primary consumer is the geo package, which
memoizes Overpass API lookups keyed by rounded coordinates so that
repeated scans from the same block do not hammer a free public service.

# Usage

Open a store, cache a lookup, read it back:

	store, err := cache.Open(cfg.Geo.CacheDir)
	if err != nil {
	    return err
	}
	defer store.Close()

	key := fmt.Sprintf("overpass:%.4f:%.4f", lat, lon)
	if err := store.Set(key, shops, cfg.Geo.CacheTTL); err != nil {
	    return err
	}

	var cached []geo.Shop
	switch err := store.Get(key, &cached); {
	case err == nil:
	    return cached, nil
	case errors.Is(err, cache.ErrMiss):
	    // fall through to the live lookup
	default:
	    return nil, err
	}

Tests and disk-free deployments use OpenInMemory, which keeps the same
semantics without touching the filesystem.

# Expiry

TTL is enforced by Badger itself: expired entries are filtered out at
read time and Get reports them as ErrMiss, identical to a key that was
never set. Badger stores expiry timestamps with one-second granularity,
so sub-second TTLs are not meaningful.

Space held by expired entries is reclaimed by value-log garbage
collection. Long-running processes should call StartGC once; it runs
until its context is canceled and logs collection failures instead of
propagating them.

# Cache Key Conventions

Keys are plain strings with colon-separated prefixes:

	overpass:48.8485:2.3959    // geocode lookups, rounded coordinates

# See Also

  - internal/geo: Overpass client that reads through this cache
  - internal/config: GeoConfig.CacheDir and CacheTTL settings
*/
package cache
