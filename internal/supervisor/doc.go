// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package supervisor provides process supervision for Leafbase using suture v4.

This package implements a hierarchical supervisor tree that manages the lifecycle
of all long-running services in the application. It provides Erlang/OTP-style
supervision with automatic restart, failure isolation, and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("leafbase")
	├── EventsSupervisor ("events-layer")
	│   ├── HubService (live scan WebSocket hub)
	│   └── PipelineService (if EVENTS_ENABLED)
	├── JobsSupervisor ("jobs-layer")
	│   └── ExportSchedulerService (if EXPORT_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A pipeline crash doesn't drop live WebSocket connections for long
  - Export job failures don't impact API availability
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Suture events flow through slog into the zerolog pipeline
  - Logs service starts, stops, failures, and restarts

# Usage Example

Basic setup in main.go:

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    log.Fatal(err)
	}

	tree.AddEventsService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    log.Fatal(err)
	}

Services implement suture.Service (a single blocking Serve(ctx) method).
Wrappers for the concrete Leafbase services live in the services subpackage.
*/
package supervisor
