// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package events implements the scan ingest pipeline.
//
// Accepted scans are published to a NATS JetStream stream (SCANS) and
// persisted by a durable consumer, which also attaches a shop to
// geotagged scans: the nearest known shop within the search radius, or
// one imported from OpenStreetMap. Persistence dedupes on the event
// UUID, so the at-least-once delivery of the stream never produces
// duplicate rows.
//
// The package also carries the live feed: a WebSocket hub that pushes
// each persisted scan to connected subscribers. Slow subscribers are
// dropped rather than allowed to stall the feed.
//
// When the pipeline is disabled by config, Pipeline.SubmitScan
// persists synchronously with identical semantics, including shop
// attachment and the live broadcast. The embedded NATS server makes
// single-binary deployments self-contained; pointing the pipeline at
// an external NATS cluster is a config change.
package events
