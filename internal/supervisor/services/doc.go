// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package services provides suture.Service wrappers for Leafbase components.

This package adapts existing application components to the suture v4
supervision model, translating various lifecycle patterns (Start/Stop,
RunWithContext, ListenAndServe) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Wrapped components:

  - HTTPServerService: the chi-based REST API server
  - HubService: the live scan WebSocket hub
  - PipelineService: the NATS JetStream scan ingest pipeline
  - ExportSchedulerService: the periodic SQLite export rebuild loop

Wrappers hold no state beyond the wrapped component and a name for
supervisor logging, so a supervised restart always goes through the
component's own recovery path (the pipeline rewires its JetStream
components from scratch, the hub re-registers clients as they
reconnect).
*/
package services
