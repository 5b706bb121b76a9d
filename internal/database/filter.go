// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TableMeta describes a filterable table: the filter field names clients
// may use mapped to real column names, plus the named relations reachable
// from it. Per-entity instances live in tables.go.
type TableMeta struct {
	Name      string               // table name, also the qualifier for base columns
	Columns   map[string]string    // filter field -> column name
	Relations map[string]*Relation // relation name -> joinable table
}

// Relation describes a joinable related table for rel___field filter
// keys. The join is ON alias.OwnKey = parent.ParentKey; nesting prefixes
// the alias with the parent's, so a chain of self-joins never collides.
type Relation struct {
	Meta      *TableMeta
	Alias     string // alias stem, distinct from the table name for self-joins
	OwnKey    string // join column on the related table, usually "id"
	ParentKey string // join column on the parent table, e.g. "brand_id"
}

// WhereClause is the bound output of BuildFilters: AND-combined
// conditions, their arguments in order, and the LEFT JOINs any relation
// filters require (one per alias, in first-use order).
type WhereClause struct {
	Conds []string
	Args  []any
	Joins []string
}

// Where returns the predicate for interpolation after WHERE, starting
// with 1=1 so callers can concatenate further conditions safely.
func (w *WhereClause) Where() string {
	if len(w.Conds) == 0 {
		return "1=1"
	}
	return "1=1 AND " + strings.Join(w.Conds, " AND ")
}

// JoinSQL returns the JOIN clauses joined for interpolation after the
// FROM table, or "" when no relation filters were used.
func (w *WhereClause) JoinSQL() string {
	if len(w.Joins) == 0 {
		return ""
	}
	return " " + strings.Join(w.Joins, " ")
}

// Filter key grammar:
//
//	field                  exact match
//	field__op              operator applied to a base column
//	rel___field__op        operator applied to a related table's column
//	rel___rel___field__op  nested relations
//
// The relation splitter is the FIRST "___", the operator splitter the
// LAST "__". Unknown fields, unknown relations and unknown operators are
// skipped silently: filtering never fails a request, stale clients just
// get an unfiltered dimension.
const (
	relationSplitter = "___"
	operatorSplitter = "__"
)

// comparators maps the scalar comparison operators to SQL.
var comparators = map[string]string{
	"exact": "=",
	"ne":    "!=",
	"gt":    ">",
	"ge":    ">=",
	"lt":    "<",
	"le":    "<=",
}

// dateParts whitelists the EXTRACT fields for year/month/day operators.
var dateParts = map[string]string{
	"year":  "YEAR",
	"month": "MONTH",
	"day":   "DAY",
}

// BuildFilters translates a filter map into a bound WHERE clause for the
// given table. Keys are processed in sorted order so identical filter
// maps always produce identical SQL, which keeps the prepared statement
// cache effective. All values become bound parameters, never interpolated
// text.
func BuildFilters(table *TableMeta, filters map[string]any) *WhereClause {
	w := &WhereClause{}
	if table == nil || len(filters) == 0 {
		return w
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenJoins := make(map[string]bool)
	for _, key := range keys {
		col, op, ok := resolveColumn(table, table.Name, key, w, seenJoins)
		if !ok {
			continue
		}
		cond, args, ok := applyOperator(col, op, filters[key])
		if !ok {
			continue
		}
		w.Conds = append(w.Conds, cond)
		w.Args = append(w.Args, args...)
	}
	return w
}

// resolveColumn walks the relation chain of a filter key and returns the
// qualified column plus the operator name. Relation joins are appended to
// the clause at most once per alias.
func resolveColumn(meta *TableMeta, qualifier, key string, w *WhereClause, seenJoins map[string]bool) (string, string, bool) {
	if idx := strings.Index(key, relationSplitter); idx >= 0 {
		relName, rest := key[:idx], key[idx+len(relationSplitter):]
		if relName == "" || rest == "" {
			return "", "", false
		}
		rel, ok := meta.Relations[relName]
		if !ok {
			return "", "", false
		}
		alias := rel.Alias
		if qualifier != meta.Name {
			alias = qualifier + "_" + rel.Alias
		}
		if !seenJoins[alias] {
			seenJoins[alias] = true
			w.Joins = append(w.Joins, fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s",
				rel.Meta.Name, alias, alias, rel.OwnKey, qualifier, rel.ParentKey))
		}
		return resolveColumn(rel.Meta, alias, rest, w, seenJoins)
	}

	field, op := key, "exact"
	if idx := strings.LastIndex(key, operatorSplitter); idx >= 0 {
		field, op = key[:idx], key[idx+len(operatorSplitter):]
	}
	col, ok := meta.Columns[field]
	if !ok {
		return "", "", false
	}
	return qualifier + "." + col, op, true
}

// applyOperator renders a single condition. The bool result is false for
// unknown operators and malformed values, both of which skip the
// condition without failing the query.
func applyOperator(col, op string, value any) (string, []any, bool) {
	if cmp, ok := comparators[op]; ok {
		return fmt.Sprintf("%s %s ?", col, cmp), []any{value}, true
	}

	switch op {
	case "isnull":
		truthy, ok := boolValue(value)
		if !ok {
			return "", nil, false
		}
		if truthy {
			return col + " IS NULL", nil, true
		}
		return col + " IS NOT NULL", nil, true

	case "in", "notin":
		values, ok := sliceValues(value)
		if !ok {
			return "", nil, false
		}
		if len(values) == 0 {
			// IN over an empty set matches nothing; NOT IN matches all,
			// so the condition is dropped.
			if op == "in" {
				return "1=0", nil, true
			}
			return "", nil, false
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		kw := "IN"
		if op == "notin" {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", col, kw, placeholders), values, true

	case "between":
		values, ok := sliceValues(value)
		if !ok || len(values) < 2 {
			return "", nil, false
		}
		return fmt.Sprintf("%s BETWEEN ? AND ?", col), values[:2], true

	case "like":
		return col + " LIKE ?", []any{stringValue(value)}, true
	case "ilike":
		return col + " ILIKE ?", []any{stringValue(value)}, true
	case "startswith":
		return col + " LIKE ?", []any{stringValue(value) + "%"}, true
	case "istartswith":
		return col + " ILIKE ?", []any{stringValue(value) + "%"}, true
	case "endswith":
		return col + " LIKE ?", []any{"%" + stringValue(value)}, true
	case "iendswith":
		return col + " ILIKE ?", []any{"%" + stringValue(value)}, true
	case "contains":
		return col + " ILIKE ?", []any{"%" + stringValue(value) + "%"}, true
	}

	// Date-part operators: year, year_ne, month_gt, day_le, ...
	part, cmp, ok := datePartOperator(op)
	if ok {
		return fmt.Sprintf("EXTRACT(%s FROM %s) %s ?", part, col, cmp), []any{value}, true
	}

	return "", nil, false
}

// datePartOperator parses year/month/day operators with an optional
// comparison suffix (year_ge, month_lt, ...). Bare part means equality.
func datePartOperator(op string) (part, cmp string, ok bool) {
	name, suffix, found := strings.Cut(op, "_")
	part, ok = dateParts[name]
	if !ok {
		return "", "", false
	}
	if !found {
		return part, "=", true
	}
	cmp, ok = comparators[suffix]
	if !ok {
		return "", "", false
	}
	return part, cmp, true
}

// boolValue interprets isnull arguments: native bools, the usual string
// spellings, and numeric 0/1 from JSON.
func boolValue(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	case int:
		return t != 0, true
	case int64:
		return t != 0, true
	case float64:
		return t != 0, true
	}
	return false, false
}

// sliceValues normalizes the slice shapes in/notin/between receive:
// []any from JSON, []string from query params, and the numeric slices
// handlers may build directly.
func sliceValues(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	case []int64:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}

// stringValue renders a pattern-operator argument as text.
func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
