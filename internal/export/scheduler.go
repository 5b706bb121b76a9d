// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
)

// Scheduler rebuilds the export artifacts on an interval into a
// configured directory, so offline clients can fetch them from static
// hosting without hitting the build endpoints.
type Scheduler struct {
	exporter *Exporter
	cfg      config.ExportConfig
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates a Scheduler over the exporter. A non-positive
// interval falls back to 24 hours.
func NewScheduler(exporter *Exporter, cfg *config.ExportConfig) *Scheduler {
	c := *cfg
	if c.Interval <= 0 {
		c.Interval = 24 * time.Hour
	}
	return &Scheduler{
		exporter: exporter,
		cfg:      c,
		log:      logging.WithComponent("export-scheduler"),
	}
}

// Start begins the rebuild loop. When the scheduler is disabled by
// config the goroutine just parks until Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("export scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if !s.cfg.Enabled {
		s.log.Info().Msg("Export scheduler disabled")
		go func() {
			defer close(s.doneCh)
			<-s.stopCh
		}()
		return nil
	}

	s.log.Info().
		Dur("interval", s.cfg.Interval).
		Str("dir", s.cfg.Dir).
		Bool("on_startup", s.cfg.OnStartup).
		Msg("Starting export scheduler")

	go s.run(ctx)
	return nil
}

// Stop stops the rebuild loop and waits for it to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.log.Info().Msg("Export scheduler stopped")
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	if s.cfg.OnStartup {
		s.Rebuild(ctx)
	}

	for {
		select {
		case <-ticker.C:
			s.Rebuild(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Rebuild writes both artifacts into the export directory. Each
// artifact is built into a temp file and renamed over the previous one
// so readers never see a half-written database.
func (s *Scheduler) Rebuild(ctx context.Context) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		s.log.Error().Err(err).Str("dir", s.cfg.Dir).Msg("Failed to create export directory")
		return
	}

	builds := []struct {
		name  string
		label string
		write func(context.Context, string) (Result, error)
	}{
		{ProductsFilename, "products", s.exporter.WriteProducts},
		{CosmeticsFilename, "cosmetics", s.exporter.WriteCosmetics},
	}

	for _, build := range builds {
		start := time.Now()
		tmp := filepath.Join(s.cfg.Dir, build.name+".tmp")
		result, err := build.write(ctx, tmp)
		if err != nil {
			metrics.RecordExportBuild(build.label, time.Since(start), 0, 0, err)
			s.log.Error().Err(err).Str("artifact", build.name).Msg("Scheduled export failed")
			_ = os.Remove(tmp) //nolint:errcheck
			continue
		}
		final := filepath.Join(s.cfg.Dir, build.name)
		if err := os.Rename(tmp, final); err != nil {
			metrics.RecordExportBuild(build.label, time.Since(start), 0, 0, err)
			s.log.Error().Err(err).Str("artifact", build.name).Msg("Failed to publish export artifact")
			_ = os.Remove(tmp) //nolint:errcheck
			continue
		}
		metrics.RecordExportBuild(build.label, time.Since(start), result.Exported, result.Skipped, nil)
		s.log.Info().
			Str("artifact", final).
			Int("exported", result.Exported).
			Int("skipped", result.Skipped).
			Msg("Export artifact rebuilt")
	}
}
