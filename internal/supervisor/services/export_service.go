// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package services

import (
	"context"
	"fmt"

	"github.com/mverdier/leafbase/internal/export"
)

// ExportSchedulerService wraps the SQLite export scheduler as a
// supervised service. Start spawns the rebuild loop, so the wrapper
// parks on the context and calls Stop on cancellation. Stop blocks
// until an in-flight rebuild finishes, keeping partially written
// artifacts out of the export directory.
type ExportSchedulerService struct {
	scheduler *export.Scheduler
	name      string
}

// NewExportSchedulerService creates a supervised wrapper around the scheduler.
func NewExportSchedulerService(scheduler *export.Scheduler) *ExportSchedulerService {
	return &ExportSchedulerService{
		scheduler: scheduler,
		name:      "export-scheduler",
	}
}

// Serve implements suture.Service.
func (s *ExportSchedulerService) Serve(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("export scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.scheduler.Stop(); err != nil {
		return fmt.Errorf("export scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *ExportSchedulerService) String() string {
	return s.name
}
