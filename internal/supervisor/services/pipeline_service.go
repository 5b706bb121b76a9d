// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/events"
)

// PipelineService wraps the scan ingest pipeline as a supervised service.
//
// Pipeline.Start wires the JetStream components and returns, so the
// wrapper parks on the context and triggers Shutdown when it is
// canceled. A supervised restart rebuilds the NATS components from
// scratch, which is exactly what we want after a broker hiccup.
type PipelineService struct {
	pipeline        *events.Pipeline
	shutdownTimeout time.Duration
	name            string
}

// NewPipelineService creates a supervised wrapper around the pipeline.
func NewPipelineService(pipeline *events.Pipeline, shutdownTimeout time.Duration) *PipelineService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &PipelineService{
		pipeline:        pipeline,
		shutdownTimeout: shutdownTimeout,
		name:            "scan-pipeline",
	}
}

// Serve implements suture.Service.
func (s *PipelineService) Serve(ctx context.Context) error {
	if err := s.pipeline.Start(ctx); err != nil {
		return fmt.Errorf("scan pipeline start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.pipeline.Shutdown(shutdownCtx)

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *PipelineService) String() string {
	return s.name
}
