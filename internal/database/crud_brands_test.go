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

func TestCreateBrand(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("root brand", func(t *testing.T) {
		brand, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Danove Group"})
		checkNoError(t, err)
		if brand.ID == 0 {
			t.Error("expected a generated id")
		}
		checkStringEqual(t, "name", brand.Name, "Danove Group")
		if brand.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
		if brand.Parent != nil {
			t.Errorf("expected no parent, got %+v", brand.Parent)
		}
	})

	t.Run("child brand resolves its parent", func(t *testing.T) {
		parent, err := db.GetBrandByName(ctx, "Danove Group")
		checkNoError(t, err)

		child, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Verdura", ParentID: &parent.ID})
		checkNoError(t, err)
		if child.Parent == nil {
			t.Fatal("expected parent to be resolved")
		}
		checkInt64Equal(t, "parent id", child.Parent.ID, parent.ID)
		checkStringEqual(t, "parent name", child.Parent.Name, "Danove Group")
	})

	t.Run("missing parent is rejected", func(t *testing.T) {
		missing := int64(99999)
		_, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Orphan", ParentID: &missing})
		checkErrorIs(t, err, ErrForeignKeyViolation)

		var ref *RefViolation
		if !errors.As(err, &ref) {
			t.Fatal("expected a RefViolation")
		}
		checkStringEqual(t, "entity", ref.Entity, "Brand")
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Verdura"})
		checkErrorIs(t, err, ErrUniqueViolation)
	})
}

func TestGetBrand(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Petit Pois"})
	checkNoError(t, err)

	got, err := db.GetBrand(ctx, created.ID)
	checkNoError(t, err)
	checkStringEqual(t, "name", got.Name, "Petit Pois")

	byName, err := db.GetBrandByName(ctx, "Petit Pois")
	checkNoError(t, err)
	checkInt64Equal(t, "id", byName.ID, created.ID)

	_, err = db.GetBrand(ctx, 99999)
	checkErrorIs(t, err, ErrNotFound)

	_, err = db.GetBrandByName(ctx, "No Such Brand")
	checkErrorIs(t, err, ErrNotFound)
}

func TestListBrands(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Alpro", "Bjorg", "Céréal Bio"} {
		_, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: name})
		checkNoError(t, err)
	}

	t.Run("pagination", func(t *testing.T) {
		brands, total, err := db.ListBrands(ctx, ListParams{Limit: 2, OrderBy: "name"})
		checkNoError(t, err)
		checkInt64Equal(t, "total", total, 3)
		checkSliceLen(t, "brands", len(brands), 2)
		checkStringEqual(t, "first", brands[0].Name, "Alpro")

		brands, _, err = db.ListBrands(ctx, ListParams{Offset: 2, Limit: 2, OrderBy: "name"})
		checkNoError(t, err)
		checkSliceLen(t, "brands", len(brands), 1)
		checkStringEqual(t, "last", brands[0].Name, "Céréal Bio")
	})

	t.Run("descending order", func(t *testing.T) {
		brands, _, err := db.ListBrands(ctx, ListParams{Limit: 1, OrderBy: "name", Descending: true})
		checkNoError(t, err)
		checkStringEqual(t, "first", brands[0].Name, "Céréal Bio")
	})

	t.Run("name filter", func(t *testing.T) {
		brands, total, err := db.ListBrands(ctx, ListParams{
			Limit:   10,
			Filters: map[string]any{"name__contains": "bio"},
		})
		checkNoError(t, err)
		checkInt64Equal(t, "total", total, 1)
		checkStringEqual(t, "match", brands[0].Name, "Céréal Bio")
	})

	t.Run("count matches list total", func(t *testing.T) {
		count, err := db.CountBrands(ctx, nil)
		checkNoError(t, err)
		checkInt64Equal(t, "count", count, 3)
	})
}

func TestGetAllBrands(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Zwergenwiese", "Alpro", "Lima"} {
		_, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: name})
		checkNoError(t, err)
	}

	brands, err := db.GetAllBrands(ctx)
	checkNoError(t, err)
	checkSliceLen(t, "brands", len(brands), 3)
	checkStringEqual(t, "first", brands[0].Name, "Alpro")
	checkStringEqual(t, "last", brands[2].Name, "Zwergenwiese")
}

func TestUpdateBrand(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	parent, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Danove Group"})
	checkNoError(t, err)
	brand, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Verdura"})
	checkNoError(t, err)

	t.Run("rename", func(t *testing.T) {
		name := "Verdura Bio"
		updated, err := db.UpdateBrand(ctx, brand.ID, &models.UpdateBrandRequest{Name: &name})
		checkNoError(t, err)
		checkStringEqual(t, "name", updated.Name, "Verdura Bio")
	})

	t.Run("reparent", func(t *testing.T) {
		updated, err := db.UpdateBrand(ctx, brand.ID, &models.UpdateBrandRequest{ParentID: &parent.ID})
		checkNoError(t, err)
		if updated.Parent == nil {
			t.Fatal("expected parent to be resolved")
		}
		checkStringEqual(t, "parent name", updated.Parent.Name, "Danove Group")
	})

	t.Run("empty request leaves the row unchanged", func(t *testing.T) {
		updated, err := db.UpdateBrand(ctx, brand.ID, &models.UpdateBrandRequest{})
		checkNoError(t, err)
		checkStringEqual(t, "name", updated.Name, "Verdura Bio")
	})

	t.Run("missing brand", func(t *testing.T) {
		name := "Ghost"
		_, err := db.UpdateBrand(ctx, 99999, &models.UpdateBrandRequest{Name: &name})
		checkErrorIs(t, err, ErrNotFound)
	})
}

func TestSetBrandLogoPath(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	brand, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Verdura"})
	checkNoError(t, err)

	updated, err := db.SetBrandLogoPath(ctx, brand.ID, "uploads/brand_1_abc.png")
	checkNoError(t, err)
	if updated.LogoPath == nil {
		t.Fatal("expected logo path to be set")
	}
	checkStringEqual(t, "logo path", *updated.LogoPath, "uploads/brand_1_abc.png")

	_, err = db.SetBrandLogoPath(ctx, 99999, "uploads/nope.png")
	checkErrorIs(t, err, ErrNotFound)
}

func TestDeleteBrand(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("missing brand", func(t *testing.T) {
		checkErrorIs(t, db.DeleteBrand(ctx, 99999), ErrNotFound)
	})

	t.Run("detaches children products and scores", func(t *testing.T) {
		parent, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Danove Group"})
		checkNoError(t, err)
		child, err := db.CreateBrand(ctx, &models.CreateBrandRequest{Name: "Verdura", ParentID: &parent.ID})
		checkNoError(t, err)

		name := "Tofu nature"
		product, err := db.CreateProduct(ctx, &models.CreateProductRequest{
			EAN:     "2000000000017",
			Name:    &name,
			BrandID: &parent.ID,
		})
		checkNoError(t, err)

		category, err := db.CreateScoreCategory(ctx, &models.CreateScoreCategoryRequest{Name: "Environment"})
		checkNoError(t, err)
		criterion, err := db.CreateScoreCriterion(ctx, &models.CreateScoreCriterionRequest{
			Name:       "Packaging",
			CategoryID: category.ID,
		})
		checkNoError(t, err)
		_, err = db.UpsertBrandScore(ctx, parent.ID, &models.UpsertBrandScoreRequest{
			CriterionID: criterion.ID,
			Score:       4.5,
		})
		checkNoError(t, err)

		checkNoError(t, db.DeleteBrand(ctx, parent.ID))

		_, err = db.GetBrand(ctx, parent.ID)
		checkErrorIs(t, err, ErrNotFound)

		orphan, err := db.GetBrand(ctx, child.ID)
		checkNoError(t, err)
		if orphan.Parent != nil {
			t.Errorf("expected child parent to be cleared, got %+v", orphan.Parent)
		}

		kept, err := db.GetProduct(ctx, product.ID)
		checkNoError(t, err)
		if kept.Brand != nil {
			t.Errorf("expected product brand to be cleared, got %+v", kept.Brand)
		}

		var scores int
		checkNoError(t, db.Conn().QueryRowContext(ctx,
			"SELECT COUNT(*) FROM brand_scores WHERE brand_id = ?", parent.ID).Scan(&scores))
		checkIntEqual(t, "remaining scores", scores, 0)
	})
}
