// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package export builds the SQLite artifacts consumed by offline
// clients: a products database keyed by barcode and a cosmetics
// database keyed by brand name.
//
// Artifacts are plain SQLite files written with the pure-Go
// modernc.org/sqlite driver, so downloads work on any platform without
// cgo. Download handlers build into a temp file and remove it after
// streaming; the scheduler rebuilds into a configured directory.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver for artifact files

	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

// Download filenames offered to clients.
const (
	ProductsFilename  = "vegan_products.db"
	CosmeticsFilename = "vegan_cosmetics.db"
)

const createProductsTable = `CREATE TABLE IF NOT EXISTS products (
	code TEXT PRIMARY KEY,
	name TEXT,
	brand TEXT,
	status TEXT,
	biodynamie TEXT,
	problem TEXT
)`

const createCosmeticsTable = `CREATE TABLE IF NOT EXISTS cosmetics (
	brand TEXT PRIMARY KEY,
	vegan TEXT,
	cf TEXT
)`

// Store is the catalog surface the exporter reads from.
type Store interface {
	ListExportableProducts(ctx context.Context) ([]database.ExportProductRow, error)
	ListExportableCosmetics(ctx context.Context) ([]database.ExportCosmeticRow, error)
}

// Exporter builds SQLite artifacts from the catalog.
type Exporter struct {
	store Store
	log   zerolog.Logger
}

// NewExporter creates an Exporter reading from the given store.
func NewExporter(store Store) *Exporter {
	return &Exporter{
		store: store,
		log:   logging.WithComponent("export"),
	}
}

// Result summarizes one artifact build.
type Result struct {
	Path     string
	Exported int
	Skipped  int
}

// WriteProducts builds the products artifact at path. Products without
// an EAN are skipped and counted.
func (e *Exporter) WriteProducts(ctx context.Context, path string) (Result, error) {
	rows, err := e.store.ListExportableProducts(ctx)
	if err != nil {
		return Result{}, err
	}

	result, err := e.writeArtifact(ctx, path, createProductsTable, "products", func(stmt *sql.Stmt) (int, int, error) {
		exported, skipped := 0, 0
		for _, row := range rows {
			code := strings.TrimSpace(row.EAN)
			if code == "" {
				e.log.Warn().Msg("Skipping product without EAN code")
				skipped++
				continue
			}

			var name *string
			if row.Name != nil {
				trimmed := strings.TrimSpace(*row.Name)
				name = &trimmed
			}
			var problem *string
			if row.Status == models.ProductStatusNonVegan {
				problem = row.ProblemDescription
			}
			var biodynamie *string
			if row.Biodynamic {
				y := "Y"
				biodynamie = &y
			}

			if _, err := stmt.ExecContext(ctx, code, name, exportBrand(row), statusCode(row.Status), biodynamie, problem); err != nil {
				e.log.Error().Err(err).Str("code", code).Msg("Failed to insert product row")
				skipped++
				continue
			}
			exported++
		}
		return exported, skipped, nil
	}, `INSERT OR REPLACE INTO products (code, name, brand, status, biodynamie, problem) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Result{}, err
	}

	e.log.Info().Int("exported", result.Exported).Int("skipped", result.Skipped).Msg("Products export completed")
	return result, nil
}

// WriteCosmetics builds the cosmetics artifact at path.
func (e *Exporter) WriteCosmetics(ctx context.Context, path string) (Result, error) {
	rows, err := e.store.ListExportableCosmetics(ctx)
	if err != nil {
		return Result{}, err
	}

	result, err := e.writeArtifact(ctx, path, createCosmeticsTable, "cosmetics", func(stmt *sql.Stmt) (int, int, error) {
		exported, skipped := 0, 0
		for _, row := range rows {
			brand := strings.TrimSpace(row.BrandName)
			if brand == "" {
				e.log.Warn().Msg("Skipping cosmetic without brand name")
				skipped++
				continue
			}

			if _, err := stmt.ExecContext(ctx, brand, yesNo(row.IsVegan), yesNo(row.IsCrueltyFree)); err != nil {
				e.log.Error().Err(err).Str("brand", brand).Msg("Failed to insert cosmetic row")
				skipped++
				continue
			}
			exported++
		}
		return exported, skipped, nil
	}, `INSERT OR REPLACE INTO cosmetics (brand, vegan, cf) VALUES (?, ?, ?)`)
	if err != nil {
		return Result{}, err
	}

	e.log.Info().Int("exported", result.Exported).Int("skipped", result.Skipped).Msg("Cosmetics export completed")
	return result, nil
}

// BuildProductsArtifact builds the products artifact into a fresh temp
// file and returns its path. The caller removes the file after use.
func (e *Exporter) BuildProductsArtifact(ctx context.Context) (Result, error) {
	return e.buildTemp(ctx, "vegan_products_*.db", e.WriteProducts)
}

// BuildCosmeticsArtifact builds the cosmetics artifact into a fresh
// temp file and returns its path. The caller removes the file after use.
func (e *Exporter) BuildCosmeticsArtifact(ctx context.Context) (Result, error) {
	return e.buildTemp(ctx, "cosmetics_*.db", e.WriteCosmetics)
}

func (e *Exporter) buildTemp(ctx context.Context, pattern string, write func(context.Context, string) (Result, error)) (Result, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create temp artifact: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path) //nolint:errcheck
		return Result{}, fmt.Errorf("failed to close temp artifact: %w", err)
	}

	result, err := write(ctx, path)
	if err != nil {
		_ = os.Remove(path) //nolint:errcheck
		return Result{}, err
	}
	return result, nil
}

// writeArtifact opens the artifact file, prepares the schema, and runs
// the row loop inside one transaction.
func (e *Exporter) writeArtifact(ctx context.Context, path, schema, table string, fill func(*sql.Stmt) (int, int, error), insert string) (Result, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return Result{}, fmt.Errorf("failed to create %s table: %w", table, err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return Result{}, fmt.Errorf("failed to clear %s table: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin artifact transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		_ = tx.Rollback() //nolint:errcheck
		return Result{}, fmt.Errorf("failed to prepare artifact insert: %w", err)
	}

	exported, skipped, err := fill(stmt)
	if err != nil {
		_ = stmt.Close()  //nolint:errcheck
		_ = tx.Rollback() //nolint:errcheck
		return Result{}, err
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback() //nolint:errcheck
		return Result{}, fmt.Errorf("failed to close artifact insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("failed to commit artifact: %w", err)
	}

	return Result{Path: path, Exported: exported, Skipped: skipped}, nil
}

// statusCode maps a vegan verdict to its one-letter export code.
func statusCode(status models.ProductStatus) string {
	switch status {
	case models.ProductStatusVegan:
		return "V"
	case models.ProductStatusNonVegan:
		return "R"
	case models.ProductStatusMaybeVegan:
		return "M"
	case models.ProductStatusNotFound:
		return "N"
	default:
		return "N"
	}
}

// exportBrand resolves the exported brand text: the linked brand's
// name, else the trimmed product description, else null.
func exportBrand(row database.ExportProductRow) *string {
	if row.Brand != nil {
		return row.Brand
	}
	if row.Description != nil && *row.Description != "" {
		trimmed := strings.TrimSpace(*row.Description)
		return &trimmed
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// ProductStats describes what a products export would contain, without
// building the artifact.
type ProductStats struct {
	TotalProducts        int                `json:"total_products"`
	ExportableProducts   int                `json:"exportable_products"`
	SkippedProducts      int                `json:"skipped_products"`
	IncludedStates       []string           `json:"included_states"`
	StatusDistribution   StatusDistribution `json:"status_distribution"`
	BiodynamicProducts   int                `json:"biodynamic_products"`
	ProductsWithProblems int                `json:"products_with_problems"`
}

// StatusDistribution counts exportable products per verdict.
type StatusDistribution struct {
	Vegan      int `json:"vegan"`
	NotVegan   int `json:"not_vegan"`
	MaybeVegan int `json:"maybe_vegan"`
	NotFound   int `json:"not_found"`
}

// ProductStats computes the would-be products export counts.
func (e *Exporter) ProductStats(ctx context.Context) (ProductStats, error) {
	rows, err := e.store.ListExportableProducts(ctx)
	if err != nil {
		return ProductStats{}, err
	}

	states := make([]string, len(database.ExportStates))
	for i, state := range database.ExportStates {
		states[i] = string(state)
	}
	stats := ProductStats{TotalProducts: len(rows), IncludedStates: states}

	for _, row := range rows {
		if strings.TrimSpace(row.EAN) == "" {
			continue
		}
		stats.ExportableProducts++

		switch statusCode(row.Status) {
		case "V":
			stats.StatusDistribution.Vegan++
		case "R":
			stats.StatusDistribution.NotVegan++
		case "M":
			stats.StatusDistribution.MaybeVegan++
		case "N":
			stats.StatusDistribution.NotFound++
		}
		if row.Biodynamic {
			stats.BiodynamicProducts++
		}
		if row.Status == models.ProductStatusNonVegan && row.ProblemDescription != nil {
			stats.ProductsWithProblems++
		}
	}
	stats.SkippedProducts = stats.TotalProducts - stats.ExportableProducts
	return stats, nil
}

// CosmeticStats describes what a cosmetics export would contain.
// Vegan and cruelty-free counts exclude brands holding both flags,
// which are reported separately.
type CosmeticStats struct {
	TotalCosmetics          int                 `json:"total_cosmetics"`
	ExportableCosmetics     int                 `json:"exportable_cosmetics"`
	SkippedCosmetics        int                 `json:"skipped_cosmetics"`
	VeganCosmetics          int                 `json:"vegan_cosmetics"`
	CrueltyFreeCosmetics    int                 `json:"cruelty_free_cosmetics"`
	BothVeganAndCrueltyFree int                 `json:"both_vegan_and_cruelty_free"`
	Statistics              CosmeticPercentages `json:"statistics"`
}

// CosmeticPercentages carries the share of exportable brands per flag,
// rounded to two decimals.
type CosmeticPercentages struct {
	VeganPercentage       float64 `json:"vegan_percentage"`
	CrueltyFreePercentage float64 `json:"cruelty_free_percentage"`
}

// CosmeticStats computes the would-be cosmetics export counts.
func (e *Exporter) CosmeticStats(ctx context.Context) (CosmeticStats, error) {
	rows, err := e.store.ListExportableCosmetics(ctx)
	if err != nil {
		return CosmeticStats{}, err
	}

	stats := CosmeticStats{TotalCosmetics: len(rows)}
	for _, row := range rows {
		if strings.TrimSpace(row.BrandName) == "" {
			continue
		}
		stats.ExportableCosmetics++

		if row.IsVegan {
			stats.VeganCosmetics++
		}
		if row.IsCrueltyFree {
			stats.CrueltyFreeCosmetics++
		}
		if row.IsVegan && row.IsCrueltyFree {
			stats.BothVeganAndCrueltyFree++
			stats.VeganCosmetics--
			stats.CrueltyFreeCosmetics--
		}
	}
	stats.SkippedCosmetics = stats.TotalCosmetics - stats.ExportableCosmetics

	if stats.ExportableCosmetics > 0 {
		total := float64(stats.ExportableCosmetics)
		stats.Statistics.VeganPercentage = round2(float64(stats.VeganCosmetics) / total * 100)
		stats.Statistics.CrueltyFreePercentage = round2(float64(stats.CrueltyFreeCosmetics) / total * 100)
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
