// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/events"
	"github.com/mverdier/leafbase/internal/export"
	"github.com/mverdier/leafbase/internal/files"
	"github.com/mverdier/leafbase/internal/logging"
)

// Handler holds the dependencies of every HTTP handler. All fields are
// set once at construction and safe for concurrent use.
type Handler struct {
	db       *database.DB
	cfg      *config.Config
	auth     *auth.Service
	hasher   *auth.Hasher
	pipeline *events.Pipeline
	hub      *events.Hub
	exporter *export.Exporter
	uploads  *files.Store
	seclog   *logging.SecurityLogger
	version  string
}

// HandlerDeps bundles the constructor arguments of Handler. Optional
// integrations (pipeline, hub, uploads) may be nil; the corresponding
// endpoints degrade as documented on each handler.
type HandlerDeps struct {
	DB       *database.DB
	Config   *config.Config
	Auth     *auth.Service
	Hasher   *auth.Hasher
	Pipeline *events.Pipeline
	Hub      *events.Hub
	Exporter *export.Exporter
	Uploads  *files.Store
	Version  string
}

// NewHandler creates the handler set.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		db:       deps.DB,
		cfg:      deps.Config,
		auth:     deps.Auth,
		hasher:   deps.Hasher,
		pipeline: deps.Pipeline,
		hub:      deps.Hub,
		exporter: deps.Exporter,
		uploads:  deps.Uploads,
		seclog:   logging.NewSecurityLogger(),
		version:  deps.Version,
	}
}
