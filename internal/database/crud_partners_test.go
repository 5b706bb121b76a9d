// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/mverdier/leafbase/internal/models"
)

func TestCreatePartner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("minimal partner is active by default", func(t *testing.T) {
		partner, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
			Name: "Un Monde Vegan",
			URL:  "https://unmondevegan.example",
		})
		checkNoError(t, err)
		if partner.ID == 0 {
			t.Error("expected a generated id")
		}
		checkBoolEqual(t, "is_active", partner.IsActive, true)
		checkBoolEqual(t, "is_affiliate", partner.IsAffiliate, false)
		checkBoolEqual(t, "show_code_in_website", partner.ShowCodeInWebsite, false)
		if partner.CategoryID != nil {
			t.Errorf("expected no category, got %d", *partner.CategoryID)
		}
	})

	t.Run("category name is resolved", func(t *testing.T) {
		category, err := db.CreatePartnerCategory(ctx, &models.CreatePartnerCategoryRequest{Name: "Food"})
		checkNoError(t, err)

		partner, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
			Name:         "Vegan Place",
			URL:          "https://veganplace.example",
			CategoryID:   &category.ID,
			DiscountText: strPtr("10% off"),
			DiscountCode: strPtr("LEAF10"),
			IsAffiliate:  boolPtr(true),
		})
		checkNoError(t, err)
		if partner.CategoryName == nil || *partner.CategoryName != "Food" {
			t.Errorf("expected category name Food, got %v", partner.CategoryName)
		}
		checkBoolEqual(t, "is_affiliate", partner.IsAffiliate, true)
		if partner.DiscountCode == nil || *partner.DiscountCode != "LEAF10" {
			t.Errorf("expected discount code, got %v", partner.DiscountCode)
		}
	})

	t.Run("explicit inactive", func(t *testing.T) {
		partner, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
			Name:     "Dormant Shop",
			URL:      "https://dormant.example",
			IsActive: boolPtr(false),
		})
		checkNoError(t, err)
		checkBoolEqual(t, "is_active", partner.IsActive, false)
	})

	t.Run("missing category is rejected", func(t *testing.T) {
		missing := int64(99999)
		_, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
			Name:       "Orphan",
			URL:        "https://orphan.example",
			CategoryID: &missing,
		})
		checkErrorIs(t, err, ErrForeignKeyViolation)

		var ref *RefViolation
		if !errors.As(err, &ref) {
			t.Fatal("expected a RefViolation")
		}
		checkStringEqual(t, "entity", ref.Entity, "Partner category")
	})
}

func TestListPartners(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	food, err := db.CreatePartnerCategory(ctx, &models.CreatePartnerCategoryRequest{Name: "Food"})
	checkNoError(t, err)
	clothing, err := db.CreatePartnerCategory(ctx, &models.CreatePartnerCategoryRequest{Name: "Clothing"})
	checkNoError(t, err)

	seed := []models.CreatePartnerRequest{
		{Name: "Vegan Place", URL: "https://a.example", CategoryID: &food.ID},
		{Name: "Green Table", URL: "https://b.example", CategoryID: &food.ID},
		{Name: "Hemp Wear", URL: "https://c.example", CategoryID: &clothing.ID},
		{Name: "Dormant Shop", URL: "https://d.example", IsActive: boolPtr(false)},
	}
	for i := range seed {
		_, err := db.CreatePartner(ctx, &seed[i])
		checkNoError(t, err)
	}

	t.Run("active only", func(t *testing.T) {
		partners, total, err := db.ListPartners(ctx, ListParams{
			Filters: map[string]any{"is_active": true},
			OrderBy: "name",
		})
		checkNoError(t, err)
		checkInt64Equal(t, "total", total, 3)
		checkSliceLen(t, "partners", len(partners), 3)
		checkStringEqual(t, "first", partners[0].Name, "Green Table")
	})

	t.Run("filter through the category relation", func(t *testing.T) {
		partners, total, err := db.ListPartners(ctx, ListParams{
			Filters: map[string]any{"category___name": "Food"},
			OrderBy: "name",
		})
		checkNoError(t, err)
		checkInt64Equal(t, "total", total, 2)
		for _, p := range partners {
			if p.CategoryName == nil || *p.CategoryName != "Food" {
				t.Errorf("partner %s: expected category Food, got %v", p.Name, p.CategoryName)
			}
		}
	})

	t.Run("count", func(t *testing.T) {
		count, err := db.CountPartners(ctx, map[string]any{"is_active": false})
		checkNoError(t, err)
		checkInt64Equal(t, "count", count, 1)
	})
}

func TestUpdatePartner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	category, err := db.CreatePartnerCategory(ctx, &models.CreatePartnerCategoryRequest{Name: "Cosmetics"})
	checkNoError(t, err)

	partner, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
		Name: "Pure Skin",
		URL:  "https://pureskin.example",
	})
	checkNoError(t, err)

	t.Run("assign category and discount", func(t *testing.T) {
		updated, err := db.UpdatePartner(ctx, partner.ID, &models.UpdatePartnerRequest{
			CategoryID:        &category.ID,
			DiscountCode:      strPtr("PURE20"),
			ShowCodeInWebsite: boolPtr(true),
		})
		checkNoError(t, err)
		if updated.CategoryName == nil || *updated.CategoryName != "Cosmetics" {
			t.Errorf("expected category Cosmetics, got %v", updated.CategoryName)
		}
		checkBoolEqual(t, "show_code_in_website", updated.ShowCodeInWebsite, true)
		checkStringEqual(t, "name", updated.Name, "Pure Skin")
	})

	t.Run("deactivate", func(t *testing.T) {
		updated, err := db.UpdatePartner(ctx, partner.ID, &models.UpdatePartnerRequest{
			IsActive: boolPtr(false),
		})
		checkNoError(t, err)
		checkBoolEqual(t, "is_active", updated.IsActive, false)
	})

	t.Run("missing category is rejected", func(t *testing.T) {
		missing := int64(99999)
		_, err := db.UpdatePartner(ctx, partner.ID, &models.UpdatePartnerRequest{CategoryID: &missing})
		checkErrorIs(t, err, ErrForeignKeyViolation)
	})

	t.Run("missing partner", func(t *testing.T) {
		_, err := db.UpdatePartner(ctx, 99999, &models.UpdatePartnerRequest{Name: strPtr("x")})
		checkErrorIs(t, err, ErrNotFound)
	})
}

func TestSetPartnerLogoPath(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	partner, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
		Name: "Vegan Place",
		URL:  "https://veganplace.example",
	})
	checkNoError(t, err)
	if partner.LogoPath != nil {
		t.Fatalf("expected no logo yet, got %q", *partner.LogoPath)
	}

	updated, err := db.SetPartnerLogoPath(ctx, partner.ID, "partners/partner_1_abc123.png")
	checkNoError(t, err)
	if updated.LogoPath == nil || *updated.LogoPath != "partners/partner_1_abc123.png" {
		t.Errorf("expected logo path to be set, got %v", updated.LogoPath)
	}

	_, err = db.SetPartnerLogoPath(ctx, 99999, "partners/nope.png")
	checkErrorIs(t, err, ErrNotFound)
}

func TestPartnerCategoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	category, err := db.CreatePartnerCategory(ctx, &models.CreatePartnerCategoryRequest{Name: "Restaurants"})
	checkNoError(t, err)
	checkStringEqual(t, "name", category.Name, "Restaurants")

	t.Run("rename", func(t *testing.T) {
		updated, err := db.UpdatePartnerCategory(ctx, category.ID, &models.UpdatePartnerCategoryRequest{
			Name: strPtr("Restaurants & Cafes"),
		})
		checkNoError(t, err)
		checkStringEqual(t, "name", updated.Name, "Restaurants & Cafes")
	})

	t.Run("list", func(t *testing.T) {
		categories, total, err := db.ListPartnerCategories(ctx, ListParams{OrderBy: "name"})
		checkNoError(t, err)
		checkInt64Equal(t, "total", total, 1)
		checkSliceLen(t, "categories", len(categories), 1)
	})

	t.Run("delete detaches partners", func(t *testing.T) {
		partner, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
			Name:       "Loving Hut",
			URL:        "https://lovinghut.example",
			CategoryID: &category.ID,
		})
		checkNoError(t, err)

		checkNoError(t, db.DeletePartnerCategory(ctx, category.ID))

		survivor, err := db.GetPartner(ctx, partner.ID)
		checkNoError(t, err)
		if survivor.CategoryID != nil {
			t.Errorf("expected partner to be detached, still has category %d", *survivor.CategoryID)
		}
		if survivor.CategoryName != nil {
			t.Errorf("expected no category name, got %q", *survivor.CategoryName)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		checkErrorIs(t, db.DeletePartnerCategory(ctx, 99999), ErrNotFound)
	})
}
