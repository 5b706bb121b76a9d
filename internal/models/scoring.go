// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// ScoreCategory is a top-level axis of the brand scoring grid
// (e.g. "Animal welfare", "Environment", "Social").
type ScoreCategory struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `json:"name"`

	// Criteria is populated on list and detail reads.
	Criteria []ScoreCriterion `json:"criteria"`
}

// ScoreCriterion is one scorable question within a category
// (e.g. "Animal testing policy" under "Animal welfare").
type ScoreCriterion struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`

	// Category is resolved from CategoryID on read.
	Category *ScoreCategory `json:"category,omitempty"`
}

// BrandScore is one brand's score against one criterion. The
// (BrandID, CriterionID) pair is unique; writes go through upsert.
type BrandScore struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BrandID     int64   `json:"brand_id"`
	CriterionID int64   `json:"criterion_id"`
	Score       float64 `json:"score"`
	Description *string `json:"description"`

	// Criterion is resolved on read for report payloads.
	Criterion *ScoreCriterion `json:"criterion,omitempty"`
}

// CategoryScore is one category block of a brand scoring report.
// AverageScore is the mean of the brand's scores in this category,
// rounded to 2 decimals, null while the category has no scores.
type CategoryScore struct {
	CategoryID   int64        `json:"category_id"`
	CategoryName string       `json:"category_name"`
	AverageScore *float64     `json:"average_score"`
	Scores       []BrandScore `json:"scores"`
}

// BrandScoringReport aggregates everything a client needs to render a
// brand's score page.
//
//   - ParentBrands lists ancestor brand names nearest-first, excluding
//     the brand itself, so clients can show ultimate ownership.
//   - GlobalScore is the mean of the category averages (not of the raw
//     scores), rounded to 2 decimals, null when nothing is scored.
//   - Categories with criteria but no scores still appear, with a null
//     average.
type BrandScoringReport struct {
	BrandID            int64           `json:"brand_id"`
	BrandName          string          `json:"brand_name"`
	BrandLogoPath      *string         `json:"brand_logo_path"`
	ParentBrands       []string        `json:"parent_brands"`
	GlobalScore        *float64        `json:"global_score"`
	CategoryScores     []CategoryScore `json:"category_scores"`
	TotalScoresCount   int             `json:"total_scores_count"`
	TotalCriteriaCount int             `json:"total_criteria_count"`
}

// CreateScoreCategoryRequest is the body of POST /scorings/categories.
type CreateScoreCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateScoreCategoryRequest is the body of PUT /scorings/categories/{id}.
type UpdateScoreCategoryRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

// CreateScoreCriterionRequest is the body of POST /scorings/criteria.
type CreateScoreCriterionRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	CategoryID int64  `json:"category_id" validate:"required"`
}

// UpdateScoreCriterionRequest is the body of PUT /scorings/criteria/{id}.
type UpdateScoreCriterionRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	CategoryID *int64  `json:"category_id,omitempty"`
}

// UpsertBrandScoreRequest is the body of PUT /scorings/brands/{brandID}/scores.
type UpsertBrandScoreRequest struct {
	CriterionID int64   `json:"criterion_id" validate:"required"`
	Score       float64 `json:"score" validate:"min=0,max=5"`
	Description *string `json:"description,omitempty"`
}
