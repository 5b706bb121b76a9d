// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mverdier/leafbase/internal/config"
)

// fakeStream only needs to exist as a return value; none of its
// methods are called by EnsureScanStream besides what the embedded
// interface provides.
type fakeStream struct {
	jetstream.Stream
	cfg jetstream.StreamConfig
}

func (s *fakeStream) CachedInfo() *jetstream.StreamInfo {
	return &jetstream.StreamInfo{Config: s.cfg}
}

type fakeStreamManager struct {
	streams     map[string]jetstream.StreamConfig
	streamErr   error
	createErr   error
	updateErr   error
	createCalls int
	updateCalls int
	lastConfig  jetstream.StreamConfig
}

func newFakeStreamManager() *fakeStreamManager {
	return &fakeStreamManager{streams: make(map[string]jetstream.StreamConfig)}
}

func (m *fakeStreamManager) Stream(ctx context.Context, name string) (jetstream.Stream, error) {
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	if cfg, ok := m.streams[name]; ok {
		return &fakeStream{cfg: cfg}, nil
	}
	return nil, jetstream.ErrStreamNotFound
}

func (m *fakeStreamManager) CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	m.createCalls++
	m.lastConfig = cfg
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.streams[cfg.Name] = cfg
	return &fakeStream{cfg: cfg}, nil
}

func (m *fakeStreamManager) UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	m.updateCalls++
	m.lastConfig = cfg
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.streams[cfg.Name] = cfg
	return &fakeStream{cfg: cfg}, nil
}

func TestEnsureScanStreamCreatesNew(t *testing.T) {
	js := newFakeStreamManager()
	cfg := &config.EventsConfig{StreamRetentionDays: 7}

	stream, err := EnsureScanStream(context.Background(), js, cfg)
	if err != nil {
		t.Fatalf("EnsureScanStream() error = %v", err)
	}
	if stream == nil {
		t.Fatal("EnsureScanStream() returned nil stream")
	}
	if js.createCalls != 1 || js.updateCalls != 0 {
		t.Errorf("calls = %d create / %d update, want 1 / 0", js.createCalls, js.updateCalls)
	}

	got := js.lastConfig
	if got.Name != StreamName {
		t.Errorf("Name = %q, want %q", got.Name, StreamName)
	}
	if len(got.Subjects) != 1 || got.Subjects[0] != "scans.>" {
		t.Errorf("Subjects = %v, want [scans.>]", got.Subjects)
	}
	if got.MaxAge != 7*24*time.Hour {
		t.Errorf("MaxAge = %v, want %v", got.MaxAge, 7*24*time.Hour)
	}
	if got.Retention != jetstream.LimitsPolicy {
		t.Errorf("Retention = %v, want LimitsPolicy", got.Retention)
	}
	if got.Storage != jetstream.FileStorage {
		t.Errorf("Storage = %v, want FileStorage", got.Storage)
	}
	if got.Discard != jetstream.DiscardOld {
		t.Errorf("Discard = %v, want DiscardOld", got.Discard)
	}
	if !got.AllowDirect {
		t.Error("AllowDirect = false, want true")
	}
	if got.Duplicates != duplicateWindow {
		t.Errorf("Duplicates = %v, want %v", got.Duplicates, duplicateWindow)
	}
}

func TestEnsureScanStreamDefaultRetention(t *testing.T) {
	js := newFakeStreamManager()

	if _, err := EnsureScanStream(context.Background(), js, &config.EventsConfig{}); err != nil {
		t.Fatalf("EnsureScanStream() error = %v", err)
	}
	want := time.Duration(defaultRetentionDays) * 24 * time.Hour
	if js.lastConfig.MaxAge != want {
		t.Errorf("MaxAge = %v, want %v", js.lastConfig.MaxAge, want)
	}
}

func TestEnsureScanStreamUpdatesExisting(t *testing.T) {
	js := newFakeStreamManager()
	js.streams[StreamName] = jetstream.StreamConfig{Name: StreamName, Subjects: []string{"old.subject"}}

	if _, err := EnsureScanStream(context.Background(), js, &config.EventsConfig{StreamRetentionDays: 7}); err != nil {
		t.Fatalf("EnsureScanStream() error = %v", err)
	}
	if js.createCalls != 0 || js.updateCalls != 1 {
		t.Errorf("calls = %d create / %d update, want 0 / 1", js.createCalls, js.updateCalls)
	}
	if got := js.streams[StreamName].Subjects; len(got) != 1 || got[0] != "scans.>" {
		t.Errorf("Subjects after update = %v, want [scans.>]", got)
	}
}

func TestEnsureScanStreamIdempotent(t *testing.T) {
	js := newFakeStreamManager()
	cfg := &config.EventsConfig{StreamRetentionDays: 7}

	for i := 0; i < 3; i++ {
		if _, err := EnsureScanStream(context.Background(), js, cfg); err != nil {
			t.Fatalf("EnsureScanStream() call %d error = %v", i+1, err)
		}
	}
	if js.createCalls != 1 || js.updateCalls != 2 {
		t.Errorf("calls = %d create / %d update, want 1 / 2", js.createCalls, js.updateCalls)
	}
}

func TestEnsureScanStreamCreateError(t *testing.T) {
	js := newFakeStreamManager()
	js.createErr = errors.New("insufficient storage")

	_, err := EnsureScanStream(context.Background(), js, &config.EventsConfig{})
	if err == nil {
		t.Fatal("EnsureScanStream() should return error on create failure")
	}
	if !errors.Is(err, js.createErr) {
		t.Errorf("error should wrap create error, got %v", err)
	}
}

func TestEnsureScanStreamCheckError(t *testing.T) {
	js := newFakeStreamManager()
	js.streamErr = errors.New("connection lost")

	_, err := EnsureScanStream(context.Background(), js, &config.EventsConfig{})
	if err == nil {
		t.Fatal("EnsureScanStream() should return error when the stream check fails")
	}
	if !errors.Is(err, js.streamErr) {
		t.Errorf("error should wrap check error, got %v", err)
	}
	if js.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", js.createCalls)
	}
}
