// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package database

// Per-entity TableMeta instances for the filter builder. The Columns maps
// double as the whitelist of filterable fields: anything not listed here
// is silently dropped by BuildFilters, so password hashes and reset
// tokens stay unreachable even if a handler forwards raw query params.

var productsTable = &TableMeta{
	Name: "products",
	Columns: map[string]string{
		"id":                  "id",
		"ean":                 "ean",
		"name":                "name",
		"description":         "description",
		"problem_description": "problem_description",
		"brand_id":            "brand_id",
		"brand":               "brand_id", // bare "brand" filters by the foreign key
		"brand_name":          "brand_name",
		"status":              "status",
		"biodynamic":          "biodynamic",
		"state":               "state",
		"created_from_off":    "created_from_off",
		"created_at":          "created_at",
		"updated_at":          "updated_at",
	},
}

var brandsTable = &TableMeta{
	Name: "brands",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"parent_id":  "parent_id",
		"logo_path":  "logo_path",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

var additivesTable = &TableMeta{
	Name: "additives",
	Columns: map[string]string{
		"id":          "id",
		"e_number":    "e_number",
		"name":        "name",
		"description": "description",
		"status":      "status",
		"source":      "source",
		"created_at":  "created_at",
		"updated_at":  "updated_at",
	},
}

var cosmeticsTable = &TableMeta{
	Name: "cosmetics",
	Columns: map[string]string{
		"id":              "id",
		"brand_name":      "brand_name",
		"is_vegan":        "is_vegan",
		"is_cruelty_free": "is_cruelty_free",
		"description":     "description",
		"created_at":      "created_at",
		"updated_at":      "updated_at",
	},
}

var householdCleanersTable = &TableMeta{
	Name: "household_cleaners",
	Columns: map[string]string{
		"id":              "id",
		"brand_name":      "brand_name",
		"is_vegan":        "is_vegan",
		"is_cruelty_free": "is_cruelty_free",
		"description":     "description",
		"source":          "source",
		"created_at":      "created_at",
		"updated_at":      "updated_at",
	},
}

var productCategoriesTable = &TableMeta{
	Name: "product_categories",
	Columns: map[string]string{
		"id":                 "id",
		"name":               "name",
		"parent_category_id": "parent_category_id",
		"image":              "image",
		"created_at":         "created_at",
		"updated_at":         "updated_at",
	},
}

var interestingProductsTable = &TableMeta{
	Name: "interesting_products",
	Columns: map[string]string{
		"id":          "id",
		"ean":         "ean",
		"name":        "name",
		"type":        "type",
		"category_id": "category_id",
		"brand_id":    "brand_id",
		"created_at":  "created_at",
		"updated_at":  "updated_at",
	},
}

var partnersTable = &TableMeta{
	Name: "partners",
	Columns: map[string]string{
		"id":                   "id",
		"name":                 "name",
		"url":                  "url",
		"discount_text":        "discount_text",
		"discount_code":        "discount_code",
		"is_affiliate":         "is_affiliate",
		"show_code_in_website": "show_code_in_website",
		"is_active":            "is_active",
		"category_id":          "category_id",
		"created_at":           "created_at",
		"updated_at":           "updated_at",
	},
}

var partnerCategoriesTable = &TableMeta{
	Name: "partner_categories",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

var errorReportsTable = &TableMeta{
	Name: "error_reports",
	Columns: map[string]string{
		"id":         "id",
		"ean":        "ean",
		"comment":    "comment",
		"contact":    "contact",
		"handled":    "handled",
		"created_by": "created_by",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

var scoringCategoriesTable = &TableMeta{
	Name: "scoring_categories",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

var scoringCriteriaTable = &TableMeta{
	Name: "scoring_criteria",
	Columns: map[string]string{
		"id":          "id",
		"name":        "name",
		"category_id": "category_id",
		"created_at":  "created_at",
		"updated_at":  "updated_at",
	},
}

var brandScoresTable = &TableMeta{
	Name: "brand_scores",
	Columns: map[string]string{
		"id":           "id",
		"brand_id":     "brand_id",
		"criterion_id": "criterion_id",
		"score":        "score",
		"description":  "description",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
	},
}

var checkingsTable = &TableMeta{
	Name: "checkings",
	Columns: map[string]string{
		"id":           "id",
		"requested_on": "requested_on",
		"responded_on": "responded_on",
		"status":       "status",
		"response":     "response",
		"user_id":      "user_id",
		"product_id":   "product_id",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
	},
}

var usersTable = &TableMeta{
	Name: "users",
	Columns: map[string]string{
		"id":         "id",
		"nickname":   "nickname",
		"email":      "email",
		"role":       "role",
		"is_active":  "is_active",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

var apiClientsTable = &TableMeta{
	Name: "api_clients",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"api_key":    "api_key",
		"is_active":  "is_active",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

var shopsTable = &TableMeta{
	Name: "shops",
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"latitude":   "latitude",
		"longitude":  "longitude",
		"address":    "address",
		"city":       "city",
		"country":    "country",
		"osm_id":     "osm_id",
		"osm_type":   "osm_type",
		"shop_type":  "shop_type",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

var scanEventsTable = &TableMeta{
	Name: "scan_events",
	Columns: map[string]string{
		"id":           "id",
		"ean":          "ean",
		"date_created": "date_created",
		"latitude":     "latitude",
		"longitude":    "longitude",
		"shop_id":      "shop_id",
		"user_id":      "user_id",
	},
}

// Relations are wired in init: the self-referencing ones (brand parent,
// category parent) cannot be spelled inline without an initialization
// cycle, and keeping all of them here makes the join graph readable in
// one place.
func init() {
	productsTable.Relations = map[string]*Relation{
		"brand": {Meta: brandsTable, Alias: "rel_brand", OwnKey: "id", ParentKey: "brand_id"},
	}
	brandsTable.Relations = map[string]*Relation{
		"parent": {Meta: brandsTable, Alias: "rel_parent", OwnKey: "id", ParentKey: "parent_id"},
	}
	productCategoriesTable.Relations = map[string]*Relation{
		"parent": {Meta: productCategoriesTable, Alias: "rel_parent", OwnKey: "id", ParentKey: "parent_category_id"},
	}
	interestingProductsTable.Relations = map[string]*Relation{
		"category": {Meta: productCategoriesTable, Alias: "rel_category", OwnKey: "id", ParentKey: "category_id"},
		"brand":    {Meta: brandsTable, Alias: "rel_brand", OwnKey: "id", ParentKey: "brand_id"},
	}
	partnersTable.Relations = map[string]*Relation{
		"category": {Meta: partnerCategoriesTable, Alias: "rel_category", OwnKey: "id", ParentKey: "category_id"},
	}
	errorReportsTable.Relations = map[string]*Relation{
		// Reports reference products by EAN, not id, so the join follows suit.
		"product": {Meta: productsTable, Alias: "rel_product", OwnKey: "ean", ParentKey: "ean"},
	}
	scoringCriteriaTable.Relations = map[string]*Relation{
		"category": {Meta: scoringCategoriesTable, Alias: "rel_category", OwnKey: "id", ParentKey: "category_id"},
	}
	brandScoresTable.Relations = map[string]*Relation{
		"brand":     {Meta: brandsTable, Alias: "rel_brand", OwnKey: "id", ParentKey: "brand_id"},
		"criterion": {Meta: scoringCriteriaTable, Alias: "rel_criterion", OwnKey: "id", ParentKey: "criterion_id"},
	}
	checkingsTable.Relations = map[string]*Relation{
		"user":    {Meta: usersTable, Alias: "rel_user", OwnKey: "id", ParentKey: "user_id"},
		"product": {Meta: productsTable, Alias: "rel_product", OwnKey: "id", ParentKey: "product_id"},
	}
	scanEventsTable.Relations = map[string]*Relation{
		"user": {Meta: usersTable, Alias: "rel_user", OwnKey: "id", ParentKey: "user_id"},
		"shop": {Meta: shopsTable, Alias: "rel_shop", OwnKey: "id", ParentKey: "shop_id"},
	}
}
