// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package events

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
	"github.com/mverdier/leafbase/internal/models"
)

// WebSocket message types on the live feed.
const (
	MessageTypeScan = "scan"
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Message is one WebSocket frame payload.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// LiveScan is the payload pushed to live feed subscribers for each
// persisted scan.
type LiveScan struct {
	UUID        string    `json:"uuid"`
	DateCreated time.Time `json:"date_created"`
	EAN         string    `json:"ean"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	ShopID      *int64    `json:"shop_id,omitempty"`
	ShopName    *string   `json:"shop_name,omitempty"`
	UserID      *int64    `json:"user_id,omitempty"`
}

// liveScanFrom builds the live payload for a persisted message and the
// shop it was attached to, if any.
func liveScanFrom(msg *models.ScanMessage, shop *models.Shop) *LiveScan {
	scan := &LiveScan{
		UUID:        msg.UUID.String(),
		DateCreated: msg.ReceivedAt,
		EAN:         msg.EAN,
		Latitude:    msg.Latitude,
		Longitude:   msg.Longitude,
		UserID:      msg.UserID,
	}
	if shop != nil {
		scan.ShopID = &shop.ID
		scan.ShopName = &shop.Name
	} else {
		// No resolved shop, keep the name the scanner reported.
		scan.ShopName = msg.ShopName
	}
	return scan
}

// Hub maintains the set of live feed subscribers and fans persisted
// scans out to them. A subscriber whose send buffer is full is dropped,
// the feed never waits for a slow reader.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	log        zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        logging.WithComponent("live-feed"),
	}
}

// RunWithContext runs the hub loop until the context ends, then closes
// every subscriber. Designed for supervised operation.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			count := h.ClientCount()
			h.closeAllClients()
			h.log.Info().Int("clients", count).Msg("Live feed stopped")
			return ctx.Err()

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.LiveFeedClients.Set(float64(total))
			h.log.Debug().Int("clients", total).Msg("Live feed client connected")

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.LiveFeedClients.Set(float64(total))
			h.log.Debug().Int("clients", total).Msg("Live feed client disconnected")

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// BroadcastScan queues a live scan for delivery to all subscribers.
// When the hub's own queue is full the scan is dropped, the pipeline
// never blocks on the feed.
func (h *Hub) BroadcastScan(scan *LiveScan) {
	message := Message{Type: MessageTypeScan, Data: scan}

	select {
	case h.broadcast <- message:
	default:
		metrics.RecordLiveFeedDrop()
		h.log.Warn().Str("ean", scan.EAN).Msg("Live feed queue full, scan dropped")
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastToClients delivers one message, walking clients in
// connection order. Clients with a full send buffer are dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.RecordLiveFeedMessage()
		default:
			metrics.RecordLiveFeedDrop()
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.LiveFeedClients.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.LiveFeedClients.Set(0)
}
