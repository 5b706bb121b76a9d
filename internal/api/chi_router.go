// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/authz"
	"github.com/mverdier/leafbase/internal/middleware"
)

// Router assembles the chi handler tree from the handler set and the
// middleware stacks.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
	authzMW *authz.Middleware
	chiMW   *ChiMiddleware

	// uploadsRoot is the directory served under /uploads/; empty
	// disables static serving.
	uploadsRoot string
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, authMW *auth.Middleware, authzMW *authz.Middleware, uploadsRoot string) *Router {
	return &Router{
		handler:     handler,
		authMW:      authMW,
		authzMW:     authzMW,
		chiMW:       NewChiMiddleware(&handler.cfg.Security),
		uploadsRoot: uploadsRoot,
	}
}

// Setup builds the full route tree.
//
// Layering, outermost first: request ID, panic recovery, CORS,
// compression, security headers, access log, Prometheus. Entity groups
// then add authentication (JWT or API key) and casbin enforcement; the
// casbin policy is the single source of role gating, handlers never
// check roles except for ownership rules.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chiMW.CORS())
	r.Use(middleware.Compression)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)

	h := rt.handler

	// Health probes: public, separately rate limited.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rt.chiMW.RateLimitHealth())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Credential endpoints: public, tight rate limit.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(rt.chiMW.RateLimitAuth())
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.With(rt.authMW.RequireUser).Get("/logout", h.Logout)
	})

	// Everything else under /api/v1 requires a principal; the casbin
	// policy decides what each role and the apiclient subject may do.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMW.RateLimit)
		r.Use(rt.authMW.RequireUserOrClient)
		r.Use(rt.authzMW.Enforce)

		r.Get("/account", h.AccountGet)
		r.Put("/account", h.AccountUpdate)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.UsersList)
			r.Get("/search", h.UsersSearch)
			r.Get("/count", h.UsersCount)
			r.Get("/email/{email}", h.UsersGetByEmail)
			r.Post("/", h.UsersCreate)
			r.Get("/{id}", h.UsersGet)
			r.Put("/{id}", h.UsersUpdate)
			r.Patch("/{id}", h.UsersUpdate)
			r.Delete("/{id}", h.UsersDelete)
		})

		r.Route("/apiclients", func(r chi.Router) {
			r.Get("/", h.APIClientsList)
			r.Get("/search", h.APIClientsSearch)
			r.Get("/count", h.APIClientsCount)
			r.Post("/", h.APIClientsCreate)
			r.Get("/{id}", h.APIClientsGet)
			r.Put("/{id}", h.APIClientsUpdate)
			r.Delete("/{id}", h.APIClientsDelete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ProductsList)
			r.Get("/search", h.ProductsSearch)
			r.Get("/count", h.ProductsCount)
			r.Get("/ean/{ean}", h.ProductsGetByEAN)
			r.Post("/", h.ProductsCreate)
			r.Get("/{id}", h.ProductsGet)
			r.Put("/{id}", h.ProductsUpdate)
			r.Delete("/{id}", h.ProductsDelete)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", h.BrandsList)
			r.Get("/search", h.BrandsSearch)
			r.Get("/count", h.BrandsCount)
			r.Get("/lookalike", h.BrandsLookalike)
			r.Post("/", h.BrandsCreate)
			r.Get("/{id}", h.BrandsGet)
			r.Put("/{id}", h.BrandsUpdate)
			r.Delete("/{id}", h.BrandsDelete)
			r.Post("/{id}/logo", h.BrandsUploadLogo)
			r.Get("/{id}/scoring", h.BrandsScoringReport)
		})

		r.Route("/additives", func(r chi.Router) {
			r.Get("/", h.AdditivesList)
			r.Get("/search", h.AdditivesSearch)
			r.Get("/count", h.AdditivesCount)
			r.Get("/e-number/{eNumber}", h.AdditivesGetByENumber)
			r.Post("/", h.AdditivesCreate)
			r.Get("/{id}", h.AdditivesGet)
			r.Put("/{id}", h.AdditivesUpdate)
			r.Delete("/{id}", h.AdditivesDelete)
		})

		r.Route("/cosmetics", func(r chi.Router) {
			r.Get("/", h.CosmeticsList)
			r.Get("/search", h.CosmeticsSearch)
			r.Get("/count", h.CosmeticsCount)
			r.Post("/", h.CosmeticsCreate)
			r.Get("/{id}", h.CosmeticsGet)
			r.Put("/{id}", h.CosmeticsUpdate)
			r.Delete("/{id}", h.CosmeticsDelete)
		})

		r.Route("/household-cleaners", func(r chi.Router) {
			r.Get("/", h.HouseholdCleanersList)
			r.Get("/search", h.HouseholdCleanersSearch)
			r.Get("/count", h.HouseholdCleanersCount)
			r.Post("/", h.HouseholdCleanersCreate)
			r.Get("/{id}", h.HouseholdCleanersGet)
			r.Put("/{id}", h.HouseholdCleanersUpdate)
			r.Delete("/{id}", h.HouseholdCleanersDelete)
		})

		r.Route("/product-categories", func(r chi.Router) {
			r.Get("/", h.ProductCategoriesList)
			r.Get("/search", h.ProductCategoriesSearch)
			r.Get("/count", h.ProductCategoriesCount)
			r.Post("/", h.ProductCategoriesCreate)
			r.Get("/{id}", h.ProductCategoriesGet)
			r.Put("/{id}", h.ProductCategoriesUpdate)
			r.Delete("/{id}", h.ProductCategoriesDelete)
		})

		r.Route("/interesting-products", func(r chi.Router) {
			r.Get("/", h.InterestingProductsList)
			r.Get("/search", h.InterestingProductsSearch)
			r.Get("/count", h.InterestingProductsCount)
			r.Post("/", h.InterestingProductsCreate)
			r.Get("/{id}", h.InterestingProductsGet)
			r.Put("/{id}", h.InterestingProductsUpdate)
			r.Delete("/{id}", h.InterestingProductsDelete)
		})

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", h.PartnersList)
			r.Get("/search", h.PartnersSearch)
			r.Get("/count", h.PartnersCount)
			r.Post("/", h.PartnersCreate)
			r.Get("/{id}", h.PartnersGet)
			r.Put("/{id}", h.PartnersUpdate)
			r.Delete("/{id}", h.PartnersDelete)
			r.Post("/{id}/upload-logo", h.PartnersUploadLogo)
			r.Delete("/{id}/logo", h.PartnersDeleteLogo)
		})

		r.Route("/partner-categories", func(r chi.Router) {
			r.Get("/", h.PartnerCategoriesList)
			r.Get("/search", h.PartnerCategoriesSearch)
			r.Get("/count", h.PartnerCategoriesCount)
			r.Post("/", h.PartnerCategoriesCreate)
			r.Get("/{id}", h.PartnerCategoriesGet)
			r.Put("/{id}", h.PartnerCategoriesUpdate)
			r.Delete("/{id}", h.PartnerCategoriesDelete)
		})

		r.Route("/error-reports", func(r chi.Router) {
			r.Get("/", h.ErrorReportsList)
			r.Get("/search", h.ErrorReportsSearch)
			r.Get("/count", h.ErrorReportsCount)
			r.Post("/", h.ErrorReportsCreate)
			r.Get("/{id}", h.ErrorReportsGet)
			r.Put("/{id}", h.ErrorReportsUpdate)
			r.Delete("/{id}", h.ErrorReportsDelete)
		})

		r.Route("/checkings", func(r chi.Router) {
			r.Get("/", h.CheckingsList)
			r.Get("/search", h.CheckingsSearch)
			r.Get("/count", h.CheckingsCount)
			r.Post("/", h.CheckingsCreate)
			r.Get("/{id}", h.CheckingsGet)
			r.Put("/{id}", h.CheckingsUpdate)
			r.Delete("/{id}", h.CheckingsDelete)
		})

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", h.ShopsList)
			r.Get("/search", h.ShopsSearch)
			r.Get("/count", h.ShopsCount)
			r.Post("/", h.ShopsCreate)
			r.Get("/{id}", h.ShopsGet)
			r.Put("/{id}", h.ShopsUpdate)
			r.Delete("/{id}", h.ShopsDelete)
		})

		r.Route("/scorings", func(r chi.Router) {
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.ScoreCategoriesList)
				r.Get("/search", h.ScoreCategoriesSearch)
				r.Get("/count", h.ScoreCategoriesCount)
				r.Post("/", h.ScoreCategoriesCreate)
				r.Get("/{id}", h.ScoreCategoriesGet)
				r.Put("/{id}", h.ScoreCategoriesUpdate)
				r.Delete("/{id}", h.ScoreCategoriesDelete)
			})
			r.Route("/criteria", func(r chi.Router) {
				r.Get("/", h.ScoreCriteriaList)
				r.Get("/search", h.ScoreCriteriaSearch)
				r.Get("/count", h.ScoreCriteriaCount)
				r.Post("/", h.ScoreCriteriaCreate)
				r.Get("/{id}", h.ScoreCriteriaGet)
				r.Put("/{id}", h.ScoreCriteriaUpdate)
				r.Delete("/{id}", h.ScoreCriteriaDelete)
			})
			r.Route("/brands/{brandID}", func(r chi.Router) {
				r.Get("/report", h.BrandReport)
				r.Put("/scores", h.BrandScoresUpsert)
				r.Delete("/scores/{criterionID}", h.BrandScoresDelete)
			})
		})

		r.Route("/scans", func(r chi.Router) {
			r.Get("/", h.ScansList)
			r.Get("/search", h.ScansSearch)
			r.Get("/count", h.ScansCount)
			r.Get("/live", h.ScansLive)
			r.Get("/by-ean/{ean}", h.ScansByEAN)
			r.Post("/", h.ScansCreate)
			r.Get("/{id}", h.ScansGet)
			r.Put("/{id}", h.ScansUpdate)
			r.Delete("/{id}", h.ScansDelete)
		})

		r.Post("/external/products", h.ExternalProductsCreate)

		r.Route("/export", func(r chi.Router) {
			r.Get("/products/sqlite", h.ExportProductsSQLite)
			r.Get("/products/sqlite/stats", h.ExportProductsStats)
			r.Get("/cosmetics/sqlite", h.ExportCosmeticsSQLite)
			r.Get("/cosmetics/sqlite/stats", h.ExportCosmeticsStats)
		})
	})

	// Observability and docs.
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	// Uploaded logos, public, immutable names so long cache lifetimes
	// are safe.
	if rt.uploadsRoot != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.uploadsRoot)))
		r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=86400")
			fs.ServeHTTP(w, req)
		})
	}

	return r
}
