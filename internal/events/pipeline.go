// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
	"github.com/mverdier/leafbase/internal/models"
)

// Store is the database surface the pipeline needs. Satisfied by
// *database.DB.
type Store interface {
	ScanStore
	ShopStore
	GetScanEventByUUID(ctx context.Context, eventUUID string) (models.ScanEvent, error)
}

// SubmitResult reports how a scan submission was handled. Accepted
// means the scan was queued on the stream and will be persisted by the
// consumer; otherwise Event holds the row persisted synchronously.
type SubmitResult struct {
	Accepted bool
	Message  models.ScanMessage
	Event    *models.ScanEvent
}

// Pipeline ties the scan event components together: the optional
// embedded NATS server, stream provisioning, the publisher, the
// durable consumer and the live feed hub. With events disabled it
// still accepts scans and persists them synchronously.
type Pipeline struct {
	cfg      *config.EventsConfig
	store    Store
	hub      *Hub
	resolver *ShopResolver
	log      zerolog.Logger

	server    *EmbeddedServer
	natsConn  *natsgo.Conn
	publisher *Publisher
	consumer  *Consumer

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPipeline creates the pipeline. NATS components are wired on
// Start so a supervised restart rebuilds them from scratch. The hub
// and lookup may be nil.
func NewPipeline(cfg *config.EventsConfig, store Store, hub *Hub, lookup GeoLookup, radiusMeters float64) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		hub:      hub,
		resolver: NewShopResolver(store, lookup, radiusMeters),
		log:      logging.WithComponent("scan-pipeline"),
	}
}

// Start wires the NATS components and launches the consumer. With
// events disabled it only marks the pipeline running.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("scan pipeline already started")
	}

	if !p.cfg.Enabled {
		p.running = true
		p.log.Info().Msg("Scan events disabled, scans persist synchronously")
		return nil
	}

	if err := p.wire(ctx); err != nil {
		p.teardown(context.Background())
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	consumer := p.consumer
	go func(done chan struct{}) {
		defer close(done)
		if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			p.log.Error().Err(err).Msg("Scan consumer stopped")
		}
	}(p.done)

	p.running = true
	p.log.Info().Msg("Scan pipeline started")
	return nil
}

// wire builds the NATS components in dependency order.
func (p *Pipeline) wire(ctx context.Context) error {
	url := p.cfg.URL
	if p.cfg.EmbeddedServer {
		server, err := NewEmbeddedServer(p.cfg)
		if err != nil {
			return err
		}
		p.server = server
		url = server.ClientURL()
		p.log.Info().Str("url", url).Msg("Embedded NATS server started")
	} else {
		p.log.Info().Str("url", url).Msg("Using external NATS server")
	}

	nc, err := natsgo.Connect(url,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	p.natsConn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	stream, err := EnsureScanStream(ctx, js, p.cfg)
	if err != nil {
		return fmt.Errorf("ensure scan stream: %w", err)
	}
	info := stream.CachedInfo()
	p.log.Info().
		Str("name", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Dur("max_age", info.Config.MaxAge).
		Msg("Scan stream ready")

	publisher, err := NewPublisher(url, nil)
	if err != nil {
		return err
	}
	p.publisher = publisher

	consumer, err := NewConsumer(url, p.cfg, p.store, p.resolver, p.hub, nil)
	if err != nil {
		return err
	}
	p.consumer = consumer
	return nil
}

// SubmitScan accepts a scan from the API layer. With the publisher up
// the scan is queued and persisted by the consumer; on publish failure
// or with events disabled it is persisted synchronously. UUID
// deduplication in the database makes the fallback safe even when a
// queued copy arrives later.
func (p *Pipeline) SubmitScan(ctx context.Context, req models.CreateScanRequest) (*SubmitResult, error) {
	msg := models.NewScanMessage(req)

	p.mu.Lock()
	publisher := p.publisher
	p.mu.Unlock()

	if publisher != nil {
		if err := publisher.PublishScan(ctx, &msg); err != nil {
			p.log.Warn().Err(err).Str("event_uuid", msg.UUID.String()).Msg("Publish failed, persisting scan synchronously")
		} else {
			return &SubmitResult{Accepted: true, Message: msg}, nil
		}
	}

	event, err := p.persistScan(ctx, &msg)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Message: msg, Event: event}, nil
}

// persistScan is the synchronous path: resolve the shop, insert,
// broadcast, then load the stored row.
func (p *Pipeline) persistScan(ctx context.Context, msg *models.ScanMessage) (*models.ScanEvent, error) {
	var shop *models.Shop
	shopID := msg.ShopID
	if shopID == nil && msg.Latitude != nil && msg.Longitude != nil {
		shop = p.resolver.Resolve(ctx, *msg.Latitude, *msg.Longitude)
		if shop != nil {
			shopID = &shop.ID
		}
	}

	inserted, err := p.store.InsertScanFromMessage(ctx, msg, shopID)
	if err != nil {
		return nil, fmt.Errorf("persist scan: %w", err)
	}
	if inserted {
		metrics.RecordScanPersisted("sync")
		if p.hub != nil {
			p.hub.BroadcastScan(liveScanFrom(msg, shop))
		}
	} else {
		metrics.RecordScanDeduplicated()
	}

	event, err := p.store.GetScanEventByUUID(ctx, msg.UUID.String())
	if err != nil {
		return nil, fmt.Errorf("load persisted scan: %w", err)
	}
	return &event, nil
}

// Shutdown stops the consumer and closes the NATS components in
// reverse dependency order.
func (p *Pipeline) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.done != nil {
		select {
		case <-p.done:
		case <-ctx.Done():
			p.log.Warn().Msg("Timed out waiting for scan consumer to stop")
		}
		p.done = nil
	}

	p.teardown(ctx)
	p.log.Info().Msg("Scan pipeline stopped")
}

func (p *Pipeline) teardown(ctx context.Context) {
	if p.consumer != nil {
		if err := p.consumer.Close(); err != nil {
			p.log.Error().Err(err).Msg("Error closing scan consumer")
		}
		p.consumer = nil
	}
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			p.log.Error().Err(err).Msg("Error closing scan publisher")
		}
		p.publisher = nil
	}
	if p.natsConn != nil {
		p.natsConn.Close()
		p.natsConn = nil
	}
	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			p.log.Error().Err(err).Msg("Error shutting down embedded NATS server")
		}
		p.server = nil
	}
}

// IsRunning reports whether the pipeline has been started.
func (p *Pipeline) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
