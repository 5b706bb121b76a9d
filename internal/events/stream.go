// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mverdier/leafbase/internal/config"
)

const (
	// StreamName is the JetStream stream holding scan messages.
	StreamName = "SCANS"

	// ScanSubject is the subject each accepted scan is published to.
	ScanSubject = "scans.created"

	defaultRetentionDays = 30

	// duplicateWindow is the server-side dedupe window on Nats-Msg-Id.
	// Persistence dedupes on the event UUID anyway, this only trims
	// obvious republishes before they reach the consumer.
	duplicateWindow = 10 * time.Minute
)

// StreamManager is the subset of jetstream.JetStream used to provision
// the scan stream.
type StreamManager interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// EnsureScanStream creates or updates the SCANS stream. The operation
// is idempotent, publishers and consumers expect the stream to exist
// before they start.
func EnsureScanStream(ctx context.Context, js StreamManager, cfg *config.EventsConfig) (jetstream.Stream, error) {
	retentionDays := cfg.StreamRetentionDays
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}

	streamCfg := jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{"scans.>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      time.Duration(retentionDays) * 24 * time.Hour,
		Duplicates:  duplicateWindow,
		Storage:     jetstream.FileStorage,
		Discard:     jetstream.DiscardOld,
		AllowDirect: true,
	}

	if _, err := js.Stream(ctx, StreamName); err == nil {
		stream, err := js.UpdateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("update stream %s: %w", StreamName, err)
		}
		return stream, nil
	} else if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return nil, fmt.Errorf("check stream %s: %w", StreamName, err)
	}

	stream, err := js.CreateStream(ctx, streamCfg)
	if err != nil {
		return nil, fmt.Errorf("create stream %s: %w", StreamName, err)
	}
	return stream, nil
}
