// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package services

import (
	"context"

	"github.com/mverdier/leafbase/internal/events"
)

// HubService wraps the live scan WebSocket hub as a supervised service.
//
// The hub's RunWithContext already follows the blocking, context-aware
// pattern suture expects, so the wrapper only adds a stable name for
// supervisor logging.
type HubService struct {
	hub  *events.Hub
	name string
}

// NewHubService creates a supervised wrapper around the hub.
func NewHubService(hub *events.Hub) *HubService {
	return &HubService{
		hub:  hub,
		name: "scan-hub",
	}
}

// Serve implements suture.Service. It blocks until the context is
// canceled, at which point the hub closes all connected clients.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for logging.
func (s *HubService) String() string {
	return s.name
}
