// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_scoring.go - Brand Scoring Grid and Report

The scoring grid is two levels: categories (axes like "Animal welfare")
holding criteria (questions like "Animal testing policy"). Brands are
scored per criterion, one row per (brand, criterion) pair, written
through upsert.

The report aggregates a brand's scores:
  - per-category average over the criteria actually scored, rounded to
    2 decimals
  - global score as the mean of the unrounded category averages, so a
    category with one criterion weighs as much as one with ten
  - the ancestor brand chain, nearest parent first, for ownership
    display
*/

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const scoreCategorySelectColumns = `scoring_categories.id, scoring_categories.created_at,
	scoring_categories.updated_at, scoring_categories.name`

const scoreCriterionSelectColumns = `scoring_criteria.id, scoring_criteria.created_at,
	scoring_criteria.updated_at, scoring_criteria.name, scoring_criteria.category_id`

// scanScoreCategory scans one category row. Criteria are attached in a
// separate batch.
func scanScoreCategory(rows *sql.Rows) (models.ScoreCategory, error) {
	var c models.ScoreCategory
	if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name); err != nil {
		return c, fmt.Errorf("failed to scan scoring category: %w", err)
	}
	c.Criteria = []models.ScoreCriterion{}
	return c, nil
}

// scanScoreCriterion scans one criterion row.
func scanScoreCriterion(rows *sql.Rows) (models.ScoreCriterion, error) {
	var c models.ScoreCriterion
	if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.CategoryID); err != nil {
		return c, fmt.Errorf("failed to scan scoring criterion: %w", err)
	}
	return c, nil
}

// attachCriteria loads the criteria of a set of categories in one batch.
func (db *DB) attachCriteria(ctx context.Context, categories []*models.ScoreCategory) error {
	if len(categories) == 0 {
		return nil
	}

	byID := make(map[int64]*models.ScoreCategory, len(categories))
	placeholders := make([]string, len(categories))
	args := make([]any, len(categories))
	for i, c := range categories {
		byID[c.ID] = c
		placeholders[i] = "?"
		args[i] = c.ID
	}

	query := fmt.Sprintf(`SELECT %s FROM scoring_criteria
		WHERE scoring_criteria.category_id IN (%s)
		ORDER BY scoring_criteria.name ASC`,
		scoreCriterionSelectColumns, strings.Join(placeholders, ", "))

	criteria, err := queryAndScan(ctx, db.conn, query, args, scanScoreCriterion)
	if err != nil {
		return fmt.Errorf("failed to load scoring criteria: %w", err)
	}

	for _, cr := range criteria {
		if c, ok := byID[cr.CategoryID]; ok {
			c.Criteria = append(c.Criteria, cr)
		}
	}
	return nil
}

// CountScoreCategories returns the number of scoring categories
// matching the filters.
func (db *DB) CountScoreCategories(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, scoringCategoriesTable, filters)
}

// GetScoreCategory retrieves a single scoring category with its
// criteria.
func (db *DB) GetScoreCategory(ctx context.Context, id int64) (models.ScoreCategory, error) {
	c, err := getOneWhere(ctx, db, scoringCategoriesTable, scoreCategorySelectColumns, "",
		map[string]any{"id": id}, scanScoreCategory)
	if err != nil {
		return c, err
	}
	if err := db.attachCriteria(ctx, []*models.ScoreCategory{&c}); err != nil {
		return c, err
	}
	return c, nil
}

// ListScoreCategories returns one page of scoring categories plus the
// filtered total, criteria attached.
func (db *DB) ListScoreCategories(ctx context.Context, p ListParams) ([]models.ScoreCategory, int64, error) {
	items, total, err := listAndCount(ctx, db, scoringCategoriesTable, scoreCategorySelectColumns, "", p, scanScoreCategory)
	if err != nil {
		return nil, 0, err
	}

	refs := make([]*models.ScoreCategory, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := db.attachCriteria(ctx, refs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetAllScoreCategories returns every scoring category ordered by
// name, criteria attached.
func (db *DB) GetAllScoreCategories(ctx context.Context) ([]models.ScoreCategory, error) {
	items, err := getAllRows(ctx, db, scoringCategoriesTable, scoreCategorySelectColumns, "",
		"scoring_categories.name ASC", scanScoreCategory)
	if err != nil {
		return nil, err
	}

	refs := make([]*models.ScoreCategory, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := db.attachCriteria(ctx, refs); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateScoreCategory inserts a new scoring category.
func (db *DB) CreateScoreCategory(ctx context.Context, req *models.CreateScoreCategoryRequest) (models.ScoreCategory, error) {
	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO scoring_categories (created_at, updated_at, name)
		 VALUES (?, ?, ?) RETURNING id`,
		now, now, req.Name,
	).Scan(&id)
	if err != nil {
		return models.ScoreCategory{}, classifyError(err)
	}

	return db.GetScoreCategory(ctx, id)
}

// UpdateScoreCategory applies a partial update.
func (db *DB) UpdateScoreCategory(ctx context.Context, id int64, req *models.UpdateScoreCategoryRequest) (models.ScoreCategory, error) {
	p := &patchSet{}
	addSet(p, "name", req.Name)

	if err := db.applyPatch(ctx, "scoring_categories", id, p, time.Now().UTC()); err != nil {
		return models.ScoreCategory{}, err
	}
	return db.GetScoreCategory(ctx, id)
}

// DeleteScoreCategory removes a category along with its criteria and
// every score recorded against them.
func (db *DB) DeleteScoreCategory(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "scoring_categories", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM brand_scores WHERE criterion_id IN
				(SELECT id FROM scoring_criteria WHERE category_id = ?)`, id); err != nil {
			return fmt.Errorf("failed to delete category scores: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM scoring_criteria WHERE category_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete category criteria: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM scoring_categories WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "scoring_categories")
	})
}

// CountScoreCriteria returns the number of criteria matching the
// filters.
func (db *DB) CountScoreCriteria(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, scoringCriteriaTable, filters)
}

// GetScoreCriterion retrieves a single criterion with its category
// resolved.
func (db *DB) GetScoreCriterion(ctx context.Context, id int64) (models.ScoreCriterion, error) {
	c, err := getOneWhere(ctx, db, scoringCriteriaTable, scoreCriterionSelectColumns, "",
		map[string]any{"id": id}, scanScoreCriterion)
	if err != nil {
		return c, err
	}

	category, err := getOneWhere(ctx, db, scoringCategoriesTable, scoreCategorySelectColumns, "",
		map[string]any{"id": c.CategoryID}, scanScoreCategory)
	if err == nil {
		c.Category = &category
	} else if !errors.Is(err, ErrNotFound) {
		return c, err
	}
	return c, nil
}

// ListScoreCriteria returns one page of criteria plus the filtered
// total.
func (db *DB) ListScoreCriteria(ctx context.Context, p ListParams) ([]models.ScoreCriterion, int64, error) {
	return listAndCount(ctx, db, scoringCriteriaTable, scoreCriterionSelectColumns, "", p, scanScoreCriterion)
}

// GetAllScoreCriteria returns every criterion ordered by name.
func (db *DB) GetAllScoreCriteria(ctx context.Context) ([]models.ScoreCriterion, error) {
	return getAllRows(ctx, db, scoringCriteriaTable, scoreCriterionSelectColumns, "",
		"scoring_criteria.name ASC", scanScoreCriterion)
}

// CreateScoreCriterion inserts a new criterion. Its category must
// exist.
func (db *DB) CreateScoreCriterion(ctx context.Context, req *models.CreateScoreCriterionRequest) (models.ScoreCriterion, error) {
	if err := db.requireRef(ctx, "scoring_categories", "Scoring category", req.CategoryID); err != nil {
		return models.ScoreCriterion{}, err
	}

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO scoring_criteria (created_at, updated_at, name, category_id)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		now, now, req.Name, req.CategoryID,
	).Scan(&id)
	if err != nil {
		return models.ScoreCriterion{}, classifyError(err)
	}

	return db.GetScoreCriterion(ctx, id)
}

// UpdateScoreCriterion applies a partial update.
func (db *DB) UpdateScoreCriterion(ctx context.Context, id int64, req *models.UpdateScoreCriterionRequest) (models.ScoreCriterion, error) {
	if req.CategoryID != nil {
		if err := db.requireRef(ctx, "scoring_categories", "Scoring category", *req.CategoryID); err != nil {
			return models.ScoreCriterion{}, err
		}
	}

	p := &patchSet{}
	addSet(p, "name", req.Name)
	addSet(p, "category_id", req.CategoryID)

	if err := db.applyPatch(ctx, "scoring_criteria", id, p, time.Now().UTC()); err != nil {
		return models.ScoreCriterion{}, err
	}
	return db.GetScoreCriterion(ctx, id)
}

// DeleteScoreCriterion removes a criterion and every score recorded
// against it.
func (db *DB) DeleteScoreCriterion(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "scoring_criteria", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM brand_scores WHERE criterion_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete criterion scores: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM scoring_criteria WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "scoring_criteria")
	})
}

// UpsertBrandScore writes a brand's score for one criterion, replacing
// any previous value for the (brand, criterion) pair.
func (db *DB) UpsertBrandScore(ctx context.Context, brandID int64, req *models.UpsertBrandScoreRequest) (models.BrandScore, error) {
	if err := db.requireRef(ctx, "brands", "Brand", brandID); err != nil {
		return models.BrandScore{}, err
	}
	if err := db.requireRef(ctx, "scoring_criteria", "Scoring criterion", req.CriterionID); err != nil {
		return models.BrandScore{}, err
	}

	now := time.Now().UTC()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO brand_scores (created_at, updated_at, brand_id, criterion_id, score, description)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (brand_id, criterion_id) DO UPDATE SET
			score = excluded.score,
			description = excluded.description,
			updated_at = excluded.updated_at`,
		now, now, brandID, req.CriterionID, req.Score, req.Description,
	)
	if err != nil {
		return models.BrandScore{}, classifyError(err)
	}

	return db.getBrandScore(ctx, brandID, req.CriterionID)
}

// DeleteBrandScore removes a brand's score for one criterion.
func (db *DB) DeleteBrandScore(ctx context.Context, brandID, criterionID int64) error {
	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM brand_scores WHERE brand_id = ? AND criterion_id = ?",
		brandID, criterionID)
	if err != nil {
		return classifyError(err)
	}
	return checkAffected(res, "brand_scores")
}

// getBrandScore loads one score row with its criterion resolved.
func (db *DB) getBrandScore(ctx context.Context, brandID, criterionID int64) (models.BrandScore, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT bs.id, bs.created_at, bs.updated_at, bs.brand_id, bs.criterion_id,
			bs.score, bs.description,
			cr.id, cr.created_at, cr.updated_at, cr.name, cr.category_id
		 FROM brand_scores bs
		 JOIN scoring_criteria cr ON cr.id = bs.criterion_id
		 WHERE bs.brand_id = ? AND bs.criterion_id = ?`,
		brandID, criterionID)
	if err != nil {
		return models.BrandScore{}, fmt.Errorf("failed to query brand score: %w", err)
	}
	defer rows.Close()

	scores, err := scanBrandScores(rows)
	if err != nil {
		return models.BrandScore{}, err
	}
	if len(scores) == 0 {
		return models.BrandScore{}, ErrNotFound
	}
	return scores[0], nil
}

// scanBrandScores scans score rows joined with their criteria.
func scanBrandScores(rows *sql.Rows) ([]models.BrandScore, error) {
	var scores []models.BrandScore
	for rows.Next() {
		var s models.BrandScore
		var cr models.ScoreCriterion
		var description sql.NullString

		if err := rows.Scan(
			&s.ID,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.BrandID,
			&s.CriterionID,
			&s.Score,
			&description,
			&cr.ID,
			&cr.CreatedAt,
			&cr.UpdatedAt,
			&cr.Name,
			&cr.CategoryID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan brand score: %w", err)
		}

		if description.Valid {
			s.Description = &description.String
		}
		s.Criterion = &cr
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("brand scores iteration error: %w", err)
	}
	return scores, nil
}

// parentBrandChain walks up the brand hierarchy from brandID and
// returns ancestor names, nearest parent first. A visited set stops the
// walk if the hierarchy ever loops.
func (db *DB) parentBrandChain(ctx context.Context, parentID *int64) ([]string, error) {
	chain := []string{}
	visited := make(map[int64]bool)

	current := parentID
	for current != nil && !visited[*current] {
		visited[*current] = true

		var name string
		var next sql.NullInt64
		err := db.conn.QueryRowContext(ctx,
			"SELECT name, parent_id FROM brands WHERE id = ?", *current,
		).Scan(&name, &next)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to walk brand hierarchy: %w", err)
		}

		chain = append(chain, name)
		if next.Valid {
			current = &next.Int64
		} else {
			current = nil
		}
	}
	return chain, nil
}

// round2 rounds to 2 decimal places, the precision scores are shown at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetBrandScoringReport builds the full scoring report for one brand.
// Every category appears, scored or not; the global score averages the
// category averages rather than the raw scores.
func (db *DB) GetBrandScoringReport(ctx context.Context, brandID int64) (models.BrandScoringReport, error) {
	var report models.BrandScoringReport

	brand, err := db.GetBrand(ctx, brandID)
	if err != nil {
		return report, err
	}
	report.BrandID = brand.ID
	report.BrandName = brand.Name
	report.BrandLogoPath = brand.LogoPath

	parents, err := db.parentBrandChain(ctx, brand.ParentID)
	if err != nil {
		return report, err
	}
	report.ParentBrands = parents

	categories, err := queryAndScan(ctx, db.conn,
		fmt.Sprintf("SELECT %s FROM scoring_categories ORDER BY scoring_categories.name ASC",
			scoreCategorySelectColumns),
		nil, scanScoreCategory)
	if err != nil {
		return report, fmt.Errorf("failed to load scoring categories: %w", err)
	}

	if err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scoring_criteria").Scan(&report.TotalCriteriaCount); err != nil {
		return report, fmt.Errorf("failed to count scoring criteria: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT bs.id, bs.created_at, bs.updated_at, bs.brand_id, bs.criterion_id,
			bs.score, bs.description,
			cr.id, cr.created_at, cr.updated_at, cr.name, cr.category_id
		 FROM brand_scores bs
		 JOIN scoring_criteria cr ON cr.id = bs.criterion_id
		 WHERE bs.brand_id = ?
		 ORDER BY cr.name ASC`,
		brandID)
	if err != nil {
		return report, fmt.Errorf("failed to query brand scores: %w", err)
	}
	defer rows.Close()

	scores, err := scanBrandScores(rows)
	if err != nil {
		return report, err
	}
	report.TotalScoresCount = len(scores)

	byCategory := make(map[int64][]models.BrandScore)
	for _, s := range scores {
		byCategory[s.Criterion.CategoryID] = append(byCategory[s.Criterion.CategoryID], s)
	}

	report.CategoryScores = make([]models.CategoryScore, 0, len(categories))
	var averageSum float64
	var averagedCategories int
	for _, cat := range categories {
		cs := models.CategoryScore{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Scores:       []models.BrandScore{},
		}

		if catScores := byCategory[cat.ID]; len(catScores) > 0 {
			cs.Scores = catScores
			var sum float64
			for _, s := range catScores {
				sum += s.Score
			}
			avg := sum / float64(len(catScores))
			rounded := round2(avg)
			cs.AverageScore = &rounded

			averageSum += avg
			averagedCategories++
		}

		report.CategoryScores = append(report.CategoryScores, cs)
	}

	if averagedCategories > 0 {
		global := round2(averageSum / float64(averagedCategories))
		report.GlobalScore = &global
	}

	return report, nil
}
