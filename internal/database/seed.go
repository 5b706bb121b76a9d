// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

// EnsureAdminUser creates the bootstrap admin account when no account
// holds the configured email yet. The password arrives already hashed.
// Returns whether an account was created.
func (db *DB) EnsureAdminUser(ctx context.Context, nickname, email, passwordHash string) (bool, error) {
	_, err := db.GetUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	active := true
	_, err = db.CreateUser(ctx, &models.CreateUserRequest{
		Nickname: nickname,
		Email:    email,
		Role:     models.RoleAdmin,
		IsActive: &active,
	}, passwordHash)
	if err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	logging.Info().Str("email", email).Msg("Bootstrap admin account created")
	return true, nil
}

// SeedDemoData populates an empty catalog with a small demo dataset:
// a brand hierarchy, products across the status range, additives,
// cosmetics, a partner and a scored brand. Intended for local
// development and screenshots; a non-empty catalog is left untouched.
func (db *DB) SeedDemoData(ctx context.Context) error {
	count, err := db.CountProducts(ctx, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Debug().Msg("Catalog not empty, skipping demo data")
		return nil
	}

	logging.Info().Msg("Seeding demo catalog data...")

	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	// Brand hierarchy: a multinational group owning a vegan label.
	group, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Danove Group"})
	if err != nil {
		return fmt.Errorf("failed to seed brand group: %w", err)
	}
	label, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Verdura", ParentID: &group.ID})
	if err != nil {
		return fmt.Errorf("failed to seed brand label: %w", err)
	}
	indie, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Petit Pois"})
	if err != nil {
		return fmt.Errorf("failed to seed indie brand: %w", err)
	}

	products := []models.CreateProductRequest{
		{
			EAN:                "3017620422003",
			Name:               strPtr("Chocolate hazelnut spread"),
			Status:             strPtr(string(models.ProductStatusNonVegan)),
			State:              strPtr(string(models.ProductStatePublished)),
			ProblemDescription: strPtr("Contains milk powder"),
			BrandID:            &group.ID,
		},
		{
			EAN:     "5411188110835",
			Name:    strPtr("Soy dessert, chocolate"),
			Status:  strPtr(string(models.ProductStatusVegan)),
			State:   strPtr(string(models.ProductStatePublished)),
			BrandID: &label.ID,
		},
		{
			EAN:        "3760020506612",
			Name:       strPtr("Organic pea pâté"),
			Status:     strPtr(string(models.ProductStatusVegan)),
			State:      strPtr(string(models.ProductStateNeedContact)),
			Biodynamic: boolPtr(true),
			BrandID:    &indie.ID,
		},
		{
			EAN:       "4000417025005",
			Name:      strPtr("Hazelnut chocolate bar"),
			Status:    strPtr(string(models.ProductStatusMaybeVegan)),
			State:     strPtr(string(models.ProductStateCreated)),
			BrandName: strPtr("Rittersport"),
		},
	}
	for _, req := range products {
		if _, err := db.CreateProduct(ctx, &req); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", req.EAN, err)
		}
	}

	additives := []models.CreateAdditiveRequest{
		{ENumber: "E120", Name: strPtr("Carmine"), Status: strPtr(string(models.AdditiveStatusNonVegan)),
			Description: strPtr("Red dye extracted from cochineal insects")},
		{ENumber: "E160c", Name: strPtr("Paprika extract"), Status: strPtr(string(models.AdditiveStatusVegan))},
		{ENumber: "E471", Name: strPtr("Mono- and diglycerides"), Status: strPtr(string(models.AdditiveStatusMaybeVegan)),
			Description: strPtr("May be of animal or vegetable origin")},
	}
	for _, req := range additives {
		if _, err := db.CreateAdditive(ctx, &req); err != nil {
			return fmt.Errorf("failed to seed additive %s: %w", req.ENumber, err)
		}
	}

	cosmetics := []models.CreateCosmeticRequest{
		{BrandName: "Lavera", IsVegan: boolPtr(true), IsCrueltyFree: boolPtr(true)},
		{BrandName: "Glossline", IsVegan: boolPtr(false), IsCrueltyFree: boolPtr(false),
			Description: strPtr("Sells in markets requiring animal testing")},
	}
	for _, req := range cosmetics {
		if _, err := db.CreateCosmetic(ctx, &req); err != nil {
			return fmt.Errorf("failed to seed cosmetic %s: %w", req.BrandName, err)
		}
	}

	cleaners := []models.CreateHouseholdCleanerRequest{
		{BrandName: "Ecover", IsVegan: boolPtr(true), IsCrueltyFree: boolPtr(true), Source: strPtr("brand statement")},
	}
	for _, req := range cleaners {
		if _, err := db.CreateHouseholdCleaner(ctx, &req); err != nil {
			return fmt.Errorf("failed to seed household cleaner %s: %w", req.BrandName, err)
		}
	}

	partnerCategory, err := db.CreatePartnerCategory(ctx, &models.CreatePartnerCategoryRequest{Name: "Food"})
	if err != nil {
		return fmt.Errorf("failed to seed partner category: %w", err)
	}
	if _, err := db.CreatePartner(ctx, &models.CreatePartnerRequest{
		Name:         "Green Grocer Online",
		URL:          "https://greengrocer.example",
		DiscountText: strPtr("10% off first order"),
		DiscountCode: strPtr("LEAF10"),
		CategoryID:   &partnerCategory.ID,
	}); err != nil {
		return fmt.Errorf("failed to seed partner: %w", err)
	}

	pantry, err := db.CreateProductCategory(ctx, &models.CreateProductCategoryRequest{Name: "Pantry"})
	if err != nil {
		return fmt.Errorf("failed to seed product category: %w", err)
	}
	spreads, err := db.CreateProductCategory(ctx, &models.CreateProductCategoryRequest{
		Name: "Spreads", ParentCategoryID: &pantry.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to seed product subcategory: %w", err)
	}
	if _, err := db.CreateInterestingProduct(ctx, &models.CreateInterestingProductRequest{
		EAN:        "3760020506612",
		Name:       strPtr("Organic pea pâté"),
		CategoryID: spreads.ID,
		BrandID:    &indie.ID,
	}); err != nil {
		return fmt.Errorf("failed to seed interesting product: %w", err)
	}

	// Scoring grid with one scored brand so the report renders.
	welfare, err := db.CreateScoreCategory(ctx, &models.CreateScoreCategoryRequest{Name: "Animal welfare"})
	if err != nil {
		return fmt.Errorf("failed to seed scoring category: %w", err)
	}
	environment, err := db.CreateScoreCategory(ctx, &models.CreateScoreCategoryRequest{Name: "Environment"})
	if err != nil {
		return fmt.Errorf("failed to seed scoring category: %w", err)
	}
	testing, err := db.CreateScoreCriterion(ctx, &models.CreateScoreCriterionRequest{
		Name: "Animal testing policy", CategoryID: welfare.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to seed scoring criterion: %w", err)
	}
	packaging, err := db.CreateScoreCriterion(ctx, &models.CreateScoreCriterionRequest{
		Name: "Packaging footprint", CategoryID: environment.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to seed scoring criterion: %w", err)
	}
	scores := []models.UpsertBrandScoreRequest{
		{CriterionID: testing.ID, Score: 4.5, Description: strPtr("No animal testing, certified")},
		{CriterionID: packaging.ID, Score: 3.0},
	}
	for _, req := range scores {
		if _, err := db.UpsertBrandScore(ctx, label.ID, &req); err != nil {
			return fmt.Errorf("failed to seed brand score: %w", err)
		}
	}

	if _, err := db.CreateShop(ctx, &models.CreateShopRequest{
		Name:      "Biocoop Nation",
		Latitude:  48.8483,
		Longitude: 2.3962,
		City:      strPtr("Paris"),
		Country:   strPtr("France"),
	}); err != nil {
		return fmt.Errorf("failed to seed shop: %w", err)
	}

	logging.Info().
		Int("brands", 3).
		Int("products", len(products)).
		Int("additives", len(additives)).
		Msg("Demo catalog data seeded")

	return nil
}
