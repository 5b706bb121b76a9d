// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/metrics"
)

// ListParams carries the shared knobs of every paginated listing: window,
// ordering and the raw filter map handed to BuildFilters. Handlers
// translate page/page_size into Offset/Limit before calling the store.
type ListParams struct {
	Offset     int
	Limit      int
	OrderBy    string // filter field name; unknown names fall back to created_at
	Descending bool
	Filters    map[string]any
}

// orderColumn resolves the ORDER BY column against the table whitelist.
// Unknown names fall back to created_at, and to id for tables without a
// created_at column (scan_events orders by date_created).
func orderColumn(meta *TableMeta, orderBy string) string {
	if col, ok := meta.Columns[orderBy]; ok {
		return meta.Name + "." + col
	}
	if col, ok := meta.Columns["created_at"]; ok {
		return meta.Name + "." + col
	}
	return meta.Name + ".id"
}

// orderDirection renders the sort direction keyword.
func orderDirection(descending bool) string {
	if descending {
		return "DESC"
	}
	return "ASC"
}

// ensureContext creates a context with 30-second timeout if none provided
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}

	return ctx, func() {}
}

// scanFunc is a function that scans a single row into a result type
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows using the provided scan function
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []any, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// countWhere runs the COUNT matching a filtered listing. All relations
// join child to parent (N:1), but DISTINCT on the primary key keeps the
// count honest should a join ever fan out.
func (db *DB) countWhere(ctx context.Context, meta *TableMeta, filters map[string]any) (int64, error) {
	w := BuildFilters(meta, filters)
	countExpr := "COUNT(*)"
	if len(w.Joins) > 0 {
		countExpr = fmt.Sprintf("COUNT(DISTINCT %s.id)", meta.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s%s WHERE %s", countExpr, meta.Name, w.JoinSQL(), w.Where())

	start := time.Now()
	var total int64
	err := db.conn.QueryRowContext(ctx, query, w.Args...).Scan(&total)
	metrics.RecordDBQuery("COUNT", meta.Name, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", meta.Name, err)
	}
	return total, nil
}

// listAndCount runs the filtered page query plus the matching total in
// one call, the shape every GetMany shares. selectCols is the explicit
// column list the scan function expects; extraJoins carries joins the
// entity always needs for its output columns (e.g. scan events joining
// users for the nickname), applied before any filter joins.
func listAndCount[T any](ctx context.Context, db *DB, meta *TableMeta, selectCols, extraJoins string, p ListParams, scan scanFunc[T]) ([]T, int64, error) {
	total, err := db.countWhere(ctx, meta, p.Filters)
	if err != nil {
		return nil, 0, err
	}

	w := BuildFilters(meta, p.Filters)
	query := fmt.Sprintf("SELECT %s FROM %s%s%s WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?",
		selectCols, meta.Name, joinFragment(extraJoins), w.JoinSQL(), w.Where(),
		orderColumn(meta, p.OrderBy), orderDirection(p.Descending))
	args := append(w.Args, p.Limit, p.Offset)

	start := time.Now()
	items, err := queryAndScan(ctx, db.conn, query, args, scan)
	metrics.RecordDBQuery("SELECT", meta.Name, time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", meta.Name, err)
	}
	return items, total, nil
}

// getAllRows fetches every row of a table in a stable order, the shape
// the unpaginated listing endpoints share. orderBy is a trusted
// column expression, never client input.
func getAllRows[T any](ctx context.Context, db *DB, meta *TableMeta, selectCols, extraJoins, orderBy string, scan scanFunc[T]) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		selectCols, meta.Name, joinFragment(extraJoins), orderBy)

	start := time.Now()
	items, err := queryAndScan(ctx, db.conn, query, nil, scan)
	metrics.RecordDBQuery("SELECT", meta.Name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", meta.Name, err)
	}
	return items, nil
}

// getOneWhere fetches the first row matching a filter map, ErrNotFound
// when nothing matches.
func getOneWhere[T any](ctx context.Context, db *DB, meta *TableMeta, selectCols, extraJoins string, filters map[string]any, scan scanFunc[T]) (T, error) {
	var zero T
	w := BuildFilters(meta, filters)
	query := fmt.Sprintf("SELECT %s FROM %s%s%s WHERE %s LIMIT 1",
		selectCols, meta.Name, joinFragment(extraJoins), w.JoinSQL(), w.Where())

	start := time.Now()
	items, err := queryAndScan(ctx, db.conn, query, w.Args, scan)
	metrics.RecordDBQuery("SELECT", meta.Name, time.Since(start), err)
	if err != nil {
		return zero, fmt.Errorf("failed to query %s: %w", meta.Name, err)
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

func joinFragment(extraJoins string) string {
	if extraJoins == "" {
		return ""
	}
	return " " + extraJoins
}

// patchSet accumulates SET assignments for partial updates. Only fields
// the client actually sent are added, so untouched columns keep their
// values (patch semantics).
type patchSet struct {
	assignments []string
	args        []any
}

// set unconditionally adds an assignment.
func (p *patchSet) set(col string, v any) {
	p.assignments = append(p.assignments, col+" = ?")
	p.args = append(p.args, v)
}

// empty reports whether no field was provided.
func (p *patchSet) empty() bool {
	return len(p.assignments) == 0
}

// sql renders the SET fragment.
func (p *patchSet) sql() string {
	return strings.Join(p.assignments, ", ")
}

// addSet adds an assignment when the request pointer is non-nil.
func addSet[T any](p *patchSet, col string, v *T) {
	if v != nil {
		p.set(col, *v)
	}
}

// applyPatch runs the UPDATE for an accumulated patchSet, stamping
// updated_at, and reports ErrNotFound when the row does not exist. An
// empty patch is a no-op that still verifies existence.
func (db *DB) applyPatch(ctx context.Context, table string, id int64, p *patchSet, now any) error {
	if p.empty() {
		return db.requireRow(ctx, table, id)
	}
	p.set("updated_at", now)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, p.sql())
	args := append(p.args, id)

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery("UPDATE", table, time.Since(start), err)
	if err != nil {
		return classifyError(err)
	}
	return checkAffected(res, table)
}

// withTx runs fn inside a transaction. Cascading deletes use this so a
// parent row never disappears while its detach updates fail halfway.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error().
				Err(rbErr).
				AnErr("original_error", err).
				Msg("Transaction rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// deleteByID removes a row, ErrNotFound when absent.
func (db *DB) deleteByID(ctx context.Context, table string, id int64) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	metrics.RecordDBQuery("DELETE", table, time.Since(start), err)
	if err != nil {
		return classifyError(err)
	}
	return checkAffected(res, table)
}

// requireRow errors with ErrNotFound when the id is absent.
func (db *DB) requireRow(ctx context.Context, table string, id int64) error {
	var one int
	err := db.conn.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// requireRef verifies a referenced row exists before an insert or
// update, returning the client-facing RefViolation otherwise. This is
// the application-side stand-in for FK constraints.
func (db *DB) requireRef(ctx context.Context, table, entity string, id int64) error {
	err := db.requireRow(ctx, table, id)
	if errors.Is(err, ErrNotFound) {
		return &RefViolation{Entity: entity, ID: id}
	}
	return err
}

// checkAffected maps zero affected rows to ErrNotFound.
func checkAffected(res sql.Result, table string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
