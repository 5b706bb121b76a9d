// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
	"github.com/mverdier/leafbase/internal/models"
)

const (
	consumerAckWait       = 30 * time.Second
	consumerCloseTimeout  = 30 * time.Second
	consumerMaxDeliver    = 5
	consumerMaxAckPending = 256
)

// ScanStore persists scan messages. Satisfied by *database.DB.
type ScanStore interface {
	InsertScanFromMessage(ctx context.Context, msg *models.ScanMessage, shopID *int64) (bool, error)
}

// Consumer reads scan messages from the stream, attaches shops and
// persists them. Instances sharing a queue group split the work.
type Consumer struct {
	subscriber message.Subscriber
	store      ScanStore
	resolver   *ShopResolver
	hub        *Hub
	log        zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewConsumer creates a durable JetStream consumer bound to the scan
// stream.
func NewConsumer(url string, cfg *config.EventsConfig, store ScanStore, resolver *ShopResolver, hub *Hub, logger watermill.LoggerAdapter) (*Consumer, error) {
	if logger == nil {
		logger = newWatermillLogger()
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("Consumer disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Consumer reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.MaxDeliver(consumerMaxDeliver),
		natsgo.MaxAckPending(consumerMaxAckPending),
		natsgo.AckWait(consumerAckWait),
		// The durable consumer resumes from the last acknowledged scan.
		natsgo.DeliverAll(),
		natsgo.BindStream(StreamName),
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   consumerAckWait,
		CloseTimeout:     consumerCloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:         false,
			AutoProvision:    false,
			AckAsync:         false,
			SubscribeOptions: subOpts,
			DurablePrefix:    cfg.DurableName,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create scan subscriber: %w", err)
	}

	return &Consumer{
		subscriber: sub,
		store:      store,
		resolver:   resolver,
		hub:        hub,
		log:        logging.WithComponent("scan-consumer"),
	}, nil
}

// Run processes scan messages until the context ends or the subscriber
// is closed.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, ScanSubject)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", ScanSubject, err)
	}

	c.log.Info().Str("subject", ScanSubject).Msg("Scan consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.processScan(ctx, msg)
		}
	}
}

// processScan acks or nacks exactly once. Undecodable payloads are
// acked: a payload that cannot decode will never decode, drop it
// rather than redeliver.
func (c *Consumer) processScan(ctx context.Context, msg *message.Message) {
	start := time.Now()
	metrics.RecordScanConsumed()

	var scan models.ScanMessage
	if err := json.Unmarshal(msg.Payload, &scan); err != nil {
		c.log.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable scan message")
		metrics.RecordScanParseFailure()
		msg.Ack()
		return
	}

	var shop *models.Shop
	shopID := scan.ShopID
	if shopID == nil && c.resolver != nil && scan.Latitude != nil && scan.Longitude != nil {
		shop = c.resolver.Resolve(ctx, *scan.Latitude, *scan.Longitude)
		if shop != nil {
			shopID = &shop.ID
		}
	}

	inserted, err := c.store.InsertScanFromMessage(ctx, &scan, shopID)
	if err != nil {
		c.log.Error().Err(err).Str("event_uuid", scan.UUID.String()).Msg("Failed to persist scan")
		msg.Nack()
		return
	}

	if !inserted {
		c.log.Debug().Str("event_uuid", scan.UUID.String()).Msg("Duplicate scan skipped")
		metrics.RecordScanDeduplicated()
		msg.Ack()
		return
	}

	if c.hub != nil {
		c.hub.BroadcastScan(liveScanFrom(&scan, shop))
	}

	metrics.RecordScanPersisted("queued")
	metrics.RecordScanProcessingDuration(time.Since(start))
	c.log.Debug().
		Str("event_uuid", scan.UUID.String()).
		Str("ean", scan.EAN).
		Bool("shop_attached", shopID != nil).
		Msg("Scan persisted")
	msg.Ack()
}

// Close shuts down the subscriber. Safe to call more than once.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.subscriber.Close()
}
