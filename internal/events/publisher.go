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

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
	"github.com/mverdier/leafbase/internal/models"
)

// Publisher sends scan messages to the SCANS stream. Publishes run
// behind a circuit breaker so a broker outage degrades to the caller's
// synchronous fallback instead of stalling every request on timeouts.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[any]

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a JetStream publisher connected to url. The
// stream must already exist, provisioning is EnsureScanStream's job.
func NewPublisher(url string, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = newWatermillLogger()
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			TrackMsgId:    true, // Nats-Msg-Id dedupe within the duplicate window
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "scan-publisher",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String())
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Scan publisher circuit state changed")
		},
	})

	return &Publisher{publisher: pub, breaker: breaker}, nil
}

// PublishScan serializes and publishes one scan message. The message
// UUID doubles as Nats-Msg-Id for stream-side deduplication.
func (p *Publisher) PublishScan(ctx context.Context, scan *models.ScanMessage) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.RUnlock()

	payload, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("serialize scan message: %w", err)
	}

	msg := message.NewMessage(scan.UUID.String(), payload)
	msg.Metadata.Set(natsgo.MsgIdHdr, scan.UUID.String())
	msg.Metadata.Set("ean", scan.EAN)

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(ScanSubject, msg)
	})
	switch {
	case err == nil:
		metrics.RecordBreakerRequest("scan-publisher", "success")
		metrics.RecordScanPublished()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordBreakerRequest("scan-publisher", "rejected")
		metrics.RecordScanPublishFailure()
	default:
		metrics.RecordBreakerRequest("scan-publisher", "failure")
		metrics.RecordScanPublishFailure()
	}
	return err
}

// Close shuts the publisher down. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
