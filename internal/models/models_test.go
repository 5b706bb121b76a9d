// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// testJSONRoundTrip is a generic helper that tests JSON marshal/unmarshal for any type.
// It marshals the input, unmarshals it back, and calls the verification function.
func testJSONRoundTrip[T any](t *testing.T, name string, input T, verify func(t *testing.T, decoded T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		data, err := json.Marshal(input)
		if err != nil {
			t.Fatalf("Failed to marshal %s: %v", name, err)
		}

		var decoded T
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Failed to unmarshal %s: %v", name, err)
		}

		if verify != nil {
			verify(t, decoded)
		}
	})
}

// Test fixtures - reusable test data
var (
	testTime        = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	testDescription = "Certified vegan since 2019"
	testAvatar      = "avatars/u42.png"
)

// =============================================================================
// CATALOG ENTITY TESTS
// =============================================================================

func TestProductJSON(t *testing.T) {
	t.Parallel()

	testJSONRoundTrip(t, "Product_Full", createTestProduct(), func(t *testing.T, decoded Product) {
		if decoded.EAN != "3560070976478" {
			t.Errorf("Expected EAN 3560070976478, got %s", decoded.EAN)
		}
		if decoded.Status != ProductStatusVegan {
			t.Errorf("Expected status VEGAN, got %s", decoded.Status)
		}
		if decoded.Brand == nil || decoded.Brand.Name != "Happy Oat Co" {
			t.Error("Brand reference not properly marshaled/unmarshaled")
		}
		if len(decoded.Checkings) != 1 {
			t.Fatalf("Expected 1 checking, got %d", len(decoded.Checkings))
		}
		if decoded.Checkings[0].Status != CheckingVegan {
			t.Errorf("Expected checking status VEGAN, got %s", decoded.Checkings[0].Status)
		}
	})

	// BrandID and BrandName are internal; only the nested ref goes out.
	data, err := json.Marshal(createTestProduct())
	if err != nil {
		t.Fatalf("Failed to marshal product: %v", err)
	}
	if strings.Contains(string(data), "brand_id") {
		t.Error("Expected brand_id to be hidden from product JSON")
	}
	if !strings.Contains(string(data), `"brand":{`) {
		t.Error("Expected nested brand reference in product JSON")
	}
}

func TestProduct_NilPointers(t *testing.T) {
	t.Parallel()

	product := Product{
		ID:        7,
		CreatedAt: testTime,
		UpdatedAt: testTime,
		EAN:       "4000417025005",
		Status:    ProductStatusNotFound,
		State:     ProductStateCreated,
	}

	testJSONRoundTrip(t, "NilPointers", product, func(t *testing.T, decoded Product) {
		if decoded.Name != nil {
			t.Error("Expected Name to be nil")
		}
		if decoded.Brand != nil {
			t.Error("Expected Brand to be nil")
		}
		if decoded.LastRequestedOn != nil {
			t.Error("Expected LastRequestedOn to be nil")
		}
	})

	// Nullable columns serialize as explicit null, not omitted keys.
	data, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("Failed to marshal product: %v", err)
	}
	if !strings.Contains(string(data), `"name":null`) {
		t.Error("Expected name to serialize as null")
	}
	if !strings.Contains(string(data), `"brand":null`) {
		t.Error("Expected brand to serialize as null")
	}
}

func TestBrandJSON(t *testing.T) {
	t.Parallel()

	parentID := int64(1)
	logoPath := "uploads/brands/brand_2_a1b2c3.png"
	brand := Brand{
		ID:        2,
		CreatedAt: testTime,
		UpdatedAt: testTime,
		Name:      "Happy Oat Co",
		ParentID:  &parentID,
		LogoPath:  &logoPath,
		Parent:    &BrandRef{ID: 1, Name: "MegaFoods Group"},
	}

	testJSONRoundTrip(t, "Brand_WithParent", brand, func(t *testing.T, decoded Brand) {
		if decoded.Parent == nil || decoded.Parent.Name != "MegaFoods Group" {
			t.Error("Parent reference not properly marshaled/unmarshaled")
		}
		if decoded.LogoPath == nil || *decoded.LogoPath != logoPath {
			t.Error("LogoPath not properly marshaled/unmarshaled")
		}
	})

	testJSONRoundTrip(t, "Brand_Root", Brand{ID: 1, Name: "MegaFoods Group"}, func(t *testing.T, decoded Brand) {
		if decoded.Parent != nil {
			t.Error("Expected Parent to be nil for a root brand")
		}
	})

	// The raw FK never leaks.
	data, err := json.Marshal(brand)
	if err != nil {
		t.Fatalf("Failed to marshal brand: %v", err)
	}
	if strings.Contains(string(data), "parent_id") {
		t.Error("Expected parent_id to be hidden from brand JSON")
	}
}

func TestBrandLookalikeJSON(t *testing.T) {
	t.Parallel()

	// No match serializes as an empty object.
	data, err := json.Marshal(BrandLookalike{})
	if err != nil {
		t.Fatalf("Failed to marshal empty lookalike: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty lookalike to marshal as {}, got %s", string(data))
	}

	id := int64(12)
	name := "Alpro"
	similarity := 0.91
	testJSONRoundTrip(t, "Lookalike_Match", BrandLookalike{
		ID:         &id,
		Name:       &name,
		Similarity: &similarity,
	}, func(t *testing.T, decoded BrandLookalike) {
		if decoded.Name == nil || *decoded.Name != "Alpro" {
			t.Error("Name not properly marshaled/unmarshaled")
		}
		if decoded.Similarity == nil || *decoded.Similarity != 0.91 {
			t.Error("Similarity not properly marshaled/unmarshaled")
		}
	})
}

func TestAdditiveJSON(t *testing.T) {
	t.Parallel()

	name := "Cochineal"
	source := "https://www.food-info.net/uk/e/e120.htm"
	testJSONRoundTrip(t, "Additive", Additive{
		ID:        5,
		CreatedAt: testTime,
		UpdatedAt: testTime,
		ENumber:   "E120",
		Name:      &name,
		Status:    AdditiveStatusNonVegan,
		Source:    &source,
	}, func(t *testing.T, decoded Additive) {
		if decoded.ENumber != "E120" {
			t.Errorf("Expected e_number E120, got %s", decoded.ENumber)
		}
		if decoded.Status != AdditiveStatusNonVegan {
			t.Errorf("Expected status NON_VEGAN, got %s", decoded.Status)
		}
	})

	data, err := json.Marshal(Additive{ENumber: "E322"})
	if err != nil {
		t.Fatalf("Failed to marshal additive: %v", err)
	}
	if !strings.Contains(string(data), `"e_number":"E322"`) {
		t.Errorf("Expected e_number key in additive JSON, got %s", string(data))
	}
}

func TestCosmeticJSON(t *testing.T) {
	t.Parallel()

	testJSONRoundTrip(t, "Cosmetic", Cosmetic{
		ID:            3,
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
		BrandName:     "Lush",
		IsVegan:       true,
		IsCrueltyFree: true,
		Description:   &testDescription,
	}, func(t *testing.T, decoded Cosmetic) {
		if !decoded.IsVegan || !decoded.IsCrueltyFree {
			t.Error("Expected vegan and cruelty-free flags to survive round-trip")
		}
	})

	source := "PETA list 2025"
	testJSONRoundTrip(t, "HouseholdCleaner", HouseholdCleaner{
		ID:            4,
		BrandName:     "Ecover",
		IsVegan:       true,
		IsCrueltyFree: false,
		Source:        &source,
	}, func(t *testing.T, decoded HouseholdCleaner) {
		if decoded.IsCrueltyFree {
			t.Error("Expected IsCrueltyFree to be false")
		}
		if decoded.Source == nil || *decoded.Source != source {
			t.Error("Source not properly marshaled/unmarshaled")
		}
	})
}

// =============================================================================
// SCAN AND SHOP TESTS
// =============================================================================

func TestScanEventJSON(t *testing.T) {
	t.Parallel()

	lat, lon := 48.8566, 2.3522
	shopID := int64(9)
	shopName := "Naturalia Bastille"
	userID := int64(42)
	nickname := "verdigris"
	event := ScanEvent{
		ID:           100,
		DateCreated:  testTime,
		EAN:          "3560070976478",
		Latitude:     &lat,
		Longitude:    &lon,
		ShopID:       &shopID,
		ShopName:     &shopName,
		UserID:       &userID,
		UserNickname: &nickname,
	}

	testJSONRoundTrip(t, "ScanEvent", event, func(t *testing.T, decoded ScanEvent) {
		if decoded.Latitude == nil || *decoded.Latitude != lat {
			t.Error("Latitude not properly marshaled/unmarshaled")
		}
		if decoded.ShopName == nil || *decoded.ShopName != shopName {
			t.Error("ShopName not properly marshaled/unmarshaled")
		}
	})

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal scan event: %v", err)
	}
	if !strings.Contains(string(data), `"date_created"`) {
		t.Error("Expected date_created key in scan event JSON")
	}
	if strings.Contains(string(data), "shop_id") {
		t.Error("Expected shop_id to be hidden from scan event JSON")
	}
}

func TestNewScanMessage(t *testing.T) {
	t.Parallel()

	lat, lon := 45.7640, 4.8357
	shopName := "Un Monde Vegan"
	userID := int64(7)
	req := CreateScanRequest{
		EAN:       "5411188110835",
		Latitude:  &lat,
		Longitude: &lon,
		ShopName:  &shopName,
		UserID:    &userID,
	}

	before := time.Now().UTC()
	msg := NewScanMessage(req)
	after := time.Now().UTC()

	if msg.UUID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected a non-zero UUID")
	}
	if msg.ReceivedAt.Before(before) || msg.ReceivedAt.After(after) {
		t.Errorf("Expected ReceivedAt within [%v, %v], got %v", before, after, msg.ReceivedAt)
	}
	if msg.EAN != req.EAN {
		t.Errorf("Expected EAN %s, got %s", req.EAN, msg.EAN)
	}
	if msg.ShopName == nil || *msg.ShopName != shopName {
		t.Error("Expected shop name to carry over")
	}
	if msg.UserID == nil || *msg.UserID != userID {
		t.Error("Expected user ID to carry over")
	}

	// Two messages from the same request must not collide.
	other := NewScanMessage(req)
	if other.UUID == msg.UUID {
		t.Error("Expected distinct UUIDs for distinct messages")
	}
}

func TestShopJSON(t *testing.T) {
	t.Parallel()

	osmID := "240109189"
	osmType := "node"
	testJSONRoundTrip(t, "Shop", Shop{
		ID:        9,
		CreatedAt: testTime,
		UpdatedAt: testTime,
		Name:      "Naturalia Bastille",
		Latitude:  48.8532,
		Longitude: 2.3692,
		OSMID:     &osmID,
		OSMType:   &osmType,
	}, func(t *testing.T, decoded Shop) {
		if decoded.OSMID == nil || *decoded.OSMID != osmID {
			t.Error("OSMID not properly marshaled/unmarshaled")
		}
		if decoded.Latitude != 48.8532 {
			t.Errorf("Expected latitude 48.8532, got %f", decoded.Latitude)
		}
	})
}

// =============================================================================
// SCORING TESTS
// =============================================================================

func TestScoringModels(t *testing.T) {
	t.Parallel()

	category := ScoreCategory{
		ID:        1,
		CreatedAt: testTime,
		UpdatedAt: testTime,
		Name:      "Animal welfare",
		Criteria: []ScoreCriterion{
			{ID: 10, Name: "Animal testing policy", CategoryID: 1},
		},
	}

	testJSONRoundTrip(t, "ScoreCategory", category, func(t *testing.T, decoded ScoreCategory) {
		if len(decoded.Criteria) != 1 {
			t.Fatalf("Expected 1 criterion, got %d", len(decoded.Criteria))
		}
		if decoded.Criteria[0].Name != "Animal testing policy" {
			t.Errorf("Unexpected criterion name %s", decoded.Criteria[0].Name)
		}
	})

	desc := "Public commitment, audited yearly"
	testJSONRoundTrip(t, "BrandScore", BrandScore{
		ID:          100,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
		BrandID:     2,
		CriterionID: 10,
		Score:       4.5,
		Description: &desc,
		Criterion: &ScoreCriterion{
			ID:         10,
			Name:       "Animal testing policy",
			CategoryID: 1,
			Category:   &ScoreCategory{ID: 1, Name: "Animal welfare"},
		},
	}, func(t *testing.T, decoded BrandScore) {
		if decoded.Score != 4.5 {
			t.Errorf("Expected score 4.5, got %f", decoded.Score)
		}
		if decoded.Criterion == nil || decoded.Criterion.Category == nil {
			t.Fatal("Expected nested criterion with category")
		}
		if decoded.Criterion.Category.Name != "Animal welfare" {
			t.Errorf("Unexpected category name %s", decoded.Criterion.Category.Name)
		}
	})
}

func TestBrandScoringReportJSON(t *testing.T) {
	t.Parallel()

	avg := 4.25
	global := 4.25
	report := BrandScoringReport{
		BrandID:      2,
		BrandName:    "Happy Oat Co",
		ParentBrands: []string{"MegaFoods Group"},
		GlobalScore:  &global,
		CategoryScores: []CategoryScore{
			{
				CategoryID:   1,
				CategoryName: "Animal welfare",
				AverageScore: &avg,
				Scores:       []BrandScore{{ID: 100, BrandID: 2, CriterionID: 10, Score: 4.25}},
			},
			{
				CategoryID:   2,
				CategoryName: "Environment",
				Scores:       []BrandScore{},
			},
		},
		TotalScoresCount:   1,
		TotalCriteriaCount: 3,
	}

	testJSONRoundTrip(t, "Report", report, func(t *testing.T, decoded BrandScoringReport) {
		if decoded.GlobalScore == nil || *decoded.GlobalScore != 4.25 {
			t.Error("GlobalScore not properly marshaled/unmarshaled")
		}
		if len(decoded.CategoryScores) != 2 {
			t.Fatalf("Expected 2 category blocks, got %d", len(decoded.CategoryScores))
		}
		if decoded.CategoryScores[1].AverageScore != nil {
			t.Error("Expected unscored category average to be nil")
		}
		if decoded.TotalCriteriaCount != 3 {
			t.Errorf("Expected 3 total criteria, got %d", decoded.TotalCriteriaCount)
		}
	})

	// An unscored category keeps a null average on the wire.
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Failed to marshal report: %v", err)
	}
	if !strings.Contains(string(data), `"average_score":null`) {
		t.Error("Expected null average_score for the unscored category")
	}
}

// =============================================================================
// CHECKING TESTS
// =============================================================================

func TestCheckingJSON(t *testing.T) {
	t.Parallel()

	response := "We do not use any animal-derived ingredients."
	respondedOn := testTime.Add(48 * time.Hour)
	checking := Checking{
		ID:          30,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
		RequestedOn: testTime,
		RespondedOn: &respondedOn,
		Response:    &response,
		Status:      CheckingVegan,
		UserID:      42,
		ProductID:   7,
		User:        &CheckingUserRef{ID: 42, Nickname: "verdigris", Avatar: &testAvatar},
		Product:     ptrProduct(createTestProduct()),
	}

	testJSONRoundTrip(t, "Checking", checking, func(t *testing.T, decoded Checking) {
		if decoded.User == nil || decoded.User.Nickname != "verdigris" {
			t.Error("User reference not properly marshaled/unmarshaled")
		}
		if decoded.Product == nil || decoded.Product.EAN != "3560070976478" {
			t.Error("Product not properly marshaled/unmarshaled")
		}
		if decoded.Status != CheckingVegan {
			t.Errorf("Expected status VEGAN, got %s", decoded.Status)
		}
	})

	// FKs stay internal; the nested refs are the contract.
	data, err := json.Marshal(checking)
	if err != nil {
		t.Fatalf("Failed to marshal checking: %v", err)
	}
	if strings.Contains(string(data), "user_id") || strings.Contains(string(data), "product_id") {
		t.Error("Expected raw FKs to be hidden from checking JSON")
	}
}

func TestCheckingForProduct(t *testing.T) {
	t.Parallel()

	response := "Pending legal review"
	checking := Checking{
		ID:          31,
		RequestedOn: testTime,
		Response:    &response,
		Status:      CheckingPending,
		User:        &CheckingUserRef{ID: 42, Nickname: "verdigris"},
		Product:     ptrProduct(createTestProduct()),
	}

	embedded := checking.ForProduct()
	if embedded.ID != 31 {
		t.Errorf("Expected ID 31, got %d", embedded.ID)
	}
	if embedded.User == nil || embedded.User.ID != 42 {
		t.Error("Expected user reference to carry over")
	}

	// The embedded shape must not contain the product again.
	data, err := json.Marshal(embedded)
	if err != nil {
		t.Fatalf("Failed to marshal embedded checking: %v", err)
	}
	if strings.Contains(string(data), `"product"`) {
		t.Error("Expected product to be absent from the embedded checking shape")
	}
}

// =============================================================================
// ENUM VALIDITY TESTS
// =============================================================================

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	t.Run("ProductStatus", func(t *testing.T) {
		valid := []ProductStatus{ProductStatusVegan, ProductStatusNonVegan, ProductStatusMaybeVegan, ProductStatusNotFound}
		for _, s := range valid {
			if !s.Valid() {
				t.Errorf("Expected %q to be valid", s)
			}
		}
		for _, s := range []ProductStatus{"", "vegan", "UNKNOWN"} {
			if s.Valid() {
				t.Errorf("Expected %q to be invalid", s)
			}
		}
	})

	t.Run("ProductState", func(t *testing.T) {
		valid := []ProductState{
			ProductStateCreated, ProductStateNeedContact, ProductStateWaitingReply,
			ProductStateNotFound, ProductStateWaitingPublish, ProductStatePublished,
		}
		for _, s := range valid {
			if !s.Valid() {
				t.Errorf("Expected %q to be valid", s)
			}
		}
		if ProductState("ARCHIVED").Valid() {
			t.Error("Expected ARCHIVED to be invalid")
		}
	})

	t.Run("AdditiveStatus", func(t *testing.T) {
		for _, s := range []AdditiveStatus{AdditiveStatusVegan, AdditiveStatusNonVegan, AdditiveStatusMaybeVegan} {
			if !s.Valid() {
				t.Errorf("Expected %q to be valid", s)
			}
		}
		if AdditiveStatus("NOT_FOUND").Valid() {
			t.Error("Expected NOT_FOUND to be invalid for additives")
		}
	})

	t.Run("CheckingStatus", func(t *testing.T) {
		for _, s := range []CheckingStatus{CheckingPending, CheckingVegan, CheckingNonVegan} {
			if !s.Valid() {
				t.Errorf("Expected %q to be valid", s)
			}
		}
		if CheckingStatus("MAYBE_VEGAN").Valid() {
			t.Error("Expected MAYBE_VEGAN to be invalid for checkings")
		}
	})

	t.Run("InterestingProductType", func(t *testing.T) {
		for _, s := range []InterestingProductType{InterestingProductPopular, InterestingProductSponsored} {
			if !s.Valid() {
				t.Errorf("Expected %q to be valid", s)
			}
		}
		if InterestingProductType("featured").Valid() {
			t.Error("Expected featured to be invalid")
		}
	})
}

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRoleAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role Role
		min  Role
		want bool
	}{
		{"AdminMeetsUser", RoleAdmin, RoleUser, true},
		{"AdminMeetsAdmin", RoleAdmin, RoleAdmin, true},
		{"ContributorMeetsUser", RoleContributor, RoleUser, true},
		{"ContributorFailsAdmin", RoleContributor, RoleAdmin, false},
		{"UserMeetsUser", RoleUser, RoleUser, true},
		{"UserFailsContributor", RoleUser, RoleContributor, false},
		{"UnknownFailsUser", Role("guest"), RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.AtLeast(tt.min); got != tt.want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.role, tt.min, got, tt.want)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	t.Parallel()

	for _, r := range []string{"user", "contributor", "admin"} {
		if !IsValidRole(Role(r)) {
			t.Errorf("Expected %q to be a valid role", r)
		}
	}
	for _, r := range []string{"", "Admin", "superuser"} {
		if IsValidRole(Role(r)) {
			t.Errorf("Expected %q to be rejected", r)
		}
	}
}

func TestUserHelpers(t *testing.T) {
	t.Parallel()

	user := User{
		ID:       42,
		Nickname: "verdigris",
		Email:    "v@example.org",
		Role:     RoleAdmin,
		Avatar:   &testAvatar,
		Password: "$2a$12$secret",
	}

	if !user.IsAdmin() {
		t.Error("Expected IsAdmin to be true for admin role")
	}
	user.Role = RoleContributor
	if user.IsAdmin() {
		t.Error("Expected IsAdmin to be false for contributor role")
	}

	ref := user.Ref()
	if ref.ID != 42 || ref.Nickname != "verdigris" {
		t.Errorf("Unexpected user ref %+v", ref)
	}

	// The hash must never serialize.
	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Failed to marshal user: %v", err)
	}
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "password") {
		t.Error("Expected password hash to be hidden from user JSON")
	}
	if strings.Contains(string(data), "reset_token") {
		t.Error("Expected reset token to be hidden from user JSON")
	}
}

// =============================================================================
// PAGINATION ENVELOPE TESTS
// =============================================================================

func TestNewPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     int
		total     int64
		page      int
		size      int
		wantPages int
	}{
		{"ExactFit", 5, 25, 1, 5, 5},
		{"Remainder", 5, 23, 1, 5, 5},
		{"SinglePartialPage", 3, 3, 1, 5, 1},
		{"Empty", 0, 0, 1, 5, 0},
		{"LastPage", 2, 12, 3, 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]Additive, tt.items)
			page := NewPage(items, tt.total, tt.page, tt.size)
			if page.Pages != tt.wantPages {
				t.Errorf("Expected %d pages, got %d", tt.wantPages, page.Pages)
			}
			if page.Total != tt.total {
				t.Errorf("Expected total %d, got %d", tt.total, page.Total)
			}
			if page.Page != tt.page || page.Size != tt.size {
				t.Errorf("Unexpected page/size %d/%d", page.Page, page.Size)
			}
		})
	}
}

func TestNewPage_NilItems(t *testing.T) {
	t.Parallel()

	page := NewPage[Brand](nil, 0, 1, 5)
	if page.Items == nil {
		t.Fatal("Expected Items to be an empty slice, not nil")
	}

	// items must marshal as [] not null.
	data, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("Failed to marshal page: %v", err)
	}
	if !strings.Contains(string(data), `"items":[]`) {
		t.Errorf("Expected items to marshal as [], got %s", string(data))
	}
}

func TestErrorDetailJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ErrorDetail{Detail: "Product with id 7 not found"})
	if err != nil {
		t.Fatalf("Failed to marshal error detail: %v", err)
	}
	if string(data) != `{"detail":"Product with id 7 not found"}` {
		t.Errorf("Unexpected error JSON %s", string(data))
	}
}

// Factory functions for creating test fixtures

func createTestProduct() Product {
	name := "Oat Drink Barista"
	brandID := int64(2)
	brandName := "Happy Oat Co"
	return Product{
		ID:             7,
		CreatedAt:      testTime,
		UpdatedAt:      testTime,
		EAN:            "3560070976478",
		Name:           &name,
		BrandID:        &brandID,
		BrandName:      &brandName,
		Brand:          &BrandRef{ID: 2, Name: "Happy Oat Co"},
		Status:         ProductStatusVegan,
		State:          ProductStatePublished,
		CreatedFromOff: true,
		Checkings: []CheckingForProduct{
			{
				ID:          30,
				RequestedOn: testTime,
				Status:      CheckingVegan,
				User:        &CheckingUserRef{ID: 42, Nickname: "verdigris"},
			},
		},
	}
}

func ptrProduct(p Product) *Product { return &p }
