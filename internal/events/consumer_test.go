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

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"

	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

type scanInsert struct {
	msg    models.ScanMessage
	shopID *int64
}

type fakeScanStore struct {
	inserted bool
	err      error
	inserts  []scanInsert
}

func (f *fakeScanStore) InsertScanFromMessage(ctx context.Context, msg *models.ScanMessage, shopID *int64) (bool, error) {
	f.inserts = append(f.inserts, scanInsert{msg: *msg, shopID: shopID})
	if f.err != nil {
		return false, f.err
	}
	return f.inserted, nil
}

// countingShopStore fails resolution while counting lookups.
type countingShopStore struct {
	nearbyCalls int
}

func (c *countingShopStore) FindNearbyShop(ctx context.Context, lat, lon, radiusMeters float64) (*models.Shop, error) {
	c.nearbyCalls++
	return nil, nil
}

func (c *countingShopStore) GetShopByOSMID(ctx context.Context, osmID string) (models.Shop, error) {
	return models.Shop{}, database.ErrNotFound
}

func (c *countingShopStore) CreateShop(ctx context.Context, req *models.CreateShopRequest) (models.Shop, error) {
	return models.Shop{}, errors.New("not implemented")
}

func newTestConsumer(store ScanStore, resolver *ShopResolver, hub *Hub) *Consumer {
	return &Consumer{store: store, resolver: resolver, hub: hub, log: logging.WithComponent("scan-consumer")}
}

func scanPayload(t *testing.T, scan *models.ScanMessage) []byte {
	t.Helper()
	payload, err := json.Marshal(scan)
	if err != nil {
		t.Fatalf("failed to marshal scan: %v", err)
	}
	return payload
}

func requireAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		t.Fatal("message nacked, want acked")
	case <-time.After(time.Second):
		t.Fatal("message neither acked nor nacked")
	}
}

func requireNacked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Nacked():
	case <-msg.Acked():
		t.Fatal("message acked, want nacked")
	case <-time.After(time.Second):
		t.Fatal("message neither acked nor nacked")
	}
}

func TestProcessScanPersistsAndAcks(t *testing.T) {
	store := &fakeScanStore{inserted: true}
	hub := NewHub()
	c := newTestConsumer(store, nil, hub)

	scan := testScanMessage("3017620422003")
	msg := message.NewMessage(scan.UUID.String(), scanPayload(t, scan))

	c.processScan(context.Background(), msg)

	requireAcked(t, msg)
	if len(store.inserts) != 1 {
		t.Fatalf("inserts = %d, want 1", len(store.inserts))
	}
	if store.inserts[0].msg.EAN != "3017620422003" {
		t.Errorf("EAN = %q, want 3017620422003", store.inserts[0].msg.EAN)
	}
	if store.inserts[0].msg.UUID != scan.UUID {
		t.Errorf("UUID = %v, want %v", store.inserts[0].msg.UUID, scan.UUID)
	}
	if store.inserts[0].shopID != nil {
		t.Errorf("shopID = %v, want nil without coordinates", store.inserts[0].shopID)
	}

	select {
	case got := <-hub.broadcast:
		if got.Type != MessageTypeScan {
			t.Errorf("broadcast Type = %q, want %q", got.Type, MessageTypeScan)
		}
	default:
		t.Error("no live feed broadcast for persisted scan")
	}
}

func TestProcessScanPoisonPayloadAcked(t *testing.T) {
	store := &fakeScanStore{inserted: true}
	c := newTestConsumer(store, nil, nil)

	msg := message.NewMessage("poison", []byte("{not json"))
	c.processScan(context.Background(), msg)

	requireAcked(t, msg)
	if len(store.inserts) != 0 {
		t.Errorf("inserts = %d, want 0 for undecodable payload", len(store.inserts))
	}
}

func TestProcessScanStoreErrorNacks(t *testing.T) {
	store := &fakeScanStore{err: errors.New("disk full")}
	hub := NewHub()
	c := newTestConsumer(store, nil, hub)

	scan := testScanMessage("5411188110835")
	msg := message.NewMessage(scan.UUID.String(), scanPayload(t, scan))
	c.processScan(context.Background(), msg)

	requireNacked(t, msg)
	select {
	case <-hub.broadcast:
		t.Error("broadcast sent for failed insert")
	default:
	}
}

func TestProcessScanDuplicateSkipsBroadcast(t *testing.T) {
	store := &fakeScanStore{inserted: false}
	hub := NewHub()
	c := newTestConsumer(store, nil, hub)

	scan := testScanMessage("3760020506612")
	msg := message.NewMessage(scan.UUID.String(), scanPayload(t, scan))
	c.processScan(context.Background(), msg)

	requireAcked(t, msg)
	select {
	case <-hub.broadcast:
		t.Error("broadcast sent for duplicate scan")
	default:
	}
}

func TestProcessScanSkipsResolverWithoutCoordinates(t *testing.T) {
	shops := &countingShopStore{}
	c := newTestConsumer(&fakeScanStore{inserted: true}, NewShopResolver(shops, nil, 100), nil)

	scan := testScanMessage("4000417025005")
	msg := message.NewMessage(scan.UUID.String(), scanPayload(t, scan))
	c.processScan(context.Background(), msg)

	requireAcked(t, msg)
	if shops.nearbyCalls != 0 {
		t.Errorf("nearby lookups = %d, want 0 without coordinates", shops.nearbyCalls)
	}
}

func TestProcessScanAttachesShop(t *testing.T) {
	db := newTestDB(t)
	shop := createShop(t, db, "Biocoop Bastille", 48.8532, 2.3692)
	hub := NewHub()
	c := newTestConsumer(db, NewShopResolver(db, nil, 100), hub)

	scan := testScanMessage("3017620422003")
	lat, lon := 48.8533, 2.3693
	scan.Latitude = &lat
	scan.Longitude = &lon

	msg := message.NewMessage(scan.UUID.String(), scanPayload(t, scan))
	c.processScan(context.Background(), msg)
	requireAcked(t, msg)

	stored, err := db.GetScanEventByUUID(context.Background(), scan.UUID.String())
	if err != nil {
		t.Fatalf("GetScanEventByUUID() error = %v", err)
	}
	if stored.ShopID == nil || *stored.ShopID != shop.ID {
		t.Errorf("ShopID = %v, want %d", stored.ShopID, shop.ID)
	}
	if stored.ShopName == nil || *stored.ShopName != "Biocoop Bastille" {
		t.Errorf("ShopName = %v, want Biocoop Bastille", stored.ShopName)
	}

	select {
	case got := <-hub.broadcast:
		live, ok := got.Data.(*LiveScan)
		if !ok {
			t.Fatalf("Data has type %T, want *LiveScan", got.Data)
		}
		if live.ShopID == nil || *live.ShopID != shop.ID {
			t.Errorf("live ShopID = %v, want %d", live.ShopID, shop.ID)
		}
	default:
		t.Error("no live feed broadcast")
	}
}

func TestProcessScanRedeliveryIsNoOp(t *testing.T) {
	db := newTestDB(t)
	hub := NewHub()
	c := newTestConsumer(db, NewShopResolver(db, nil, 100), hub)

	scan := testScanMessage("5411188110835")
	first := message.NewMessage(scan.UUID.String(), scanPayload(t, scan))
	c.processScan(context.Background(), first)
	requireAcked(t, first)

	second := message.NewMessage(scan.UUID.String(), scanPayload(t, scan))
	c.processScan(context.Background(), second)
	requireAcked(t, second)

	events, err := db.GetScansByEAN(context.Background(), "5411188110835", 10)
	if err != nil {
		t.Fatalf("GetScansByEAN() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("events = %d, want 1 after redelivery", len(events))
	}

	// Only the first delivery reaches the live feed.
	if got := len(hub.broadcast); got != 1 {
		t.Errorf("broadcasts = %d, want 1", got)
	}
}
