// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mverdier/leafbase/internal/logging"
)

// Sentinel errors returned by the crud layer. Handlers map these to HTTP
// statuses with errors.Is instead of matching driver message text.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUniqueViolation is returned when an insert or update would
	// violate a unique constraint (EAN, nickname, email, brand name, ...).
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrForeignKeyViolation is returned when a write references a row
	// that does not exist. The concrete error is usually a *RefViolation
	// carrying the client-facing message.
	ErrForeignKeyViolation = errors.New("referenced record does not exist")
)

// RefViolation reports a write referencing a missing row. The schema
// declares no FK constraints (DuckDB restrictions), so the crud layer
// raises this after an explicit existence check. Error text is
// client-facing and mirrors the entity naming of the API.
type RefViolation struct {
	Entity string // "User", "Shop", "Product", ...
	ID     int64
}

func (e *RefViolation) Error() string {
	return fmt.Sprintf("%s with id %d does not exist", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrForeignKeyViolation) match any RefViolation.
func (e *RefViolation) Is(target error) bool {
	return target == ErrForeignKeyViolation
}

// classifyError converts driver-level failures into package sentinels.
// DuckDB has no typed error values, so unique violations are recognized
// by message substring ("Duplicate key ... violates unique constraint").
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	msg := err.Error()
	if strings.Contains(msg, "Duplicate key") || strings.Contains(msg, "unique constraint") {
		return fmt.Errorf("%w: %s", ErrUniqueViolation, msg)
	}
	if strings.Contains(msg, "foreign key constraint") {
		return fmt.Errorf("%w: %s", ErrForeignKeyViolation, msg)
	}
	return err
}

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
