// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package events

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := &watermillLogger{log: zerolog.New(&buf)}

	l.Error("subscribe failed", errors.New("connection refused"), watermill.LogFields{"subject": ScanSubject})

	out := buf.String()
	if !strings.Contains(out, "subscribe failed") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"subject":"scans.created"`) {
		t.Errorf("output missing field: %s", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Errorf("output missing error: %s", out)
	}
}

func TestWatermillLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	base := &watermillLogger{log: zerolog.New(&buf)}
	l := base.With(watermill.LogFields{"consumer": "scan-processor"})

	l.Error("handler panic", errors.New("boom"), nil)

	out := buf.String()
	if !strings.Contains(out, `"consumer":"scan-processor"`) {
		t.Errorf("With() fields not carried: %s", out)
	}
}
