// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package testinfra provides container infrastructure for integration
// tests, built on testcontainers-go.
//
// # Mailpit Container
//
// MailpitContainer runs a real SMTP server with a REST API for
// inspecting delivered mail:
//
//	func TestDelivery(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//
//	    ctx := context.Background()
//	    mailpit, err := testinfra.NewMailpitContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer mailpit.Terminate(ctx)
//
//	    // Point config.SMTPConfig at mailpit.SMTPHost/mailpit.SMTPPort,
//	    // send, then assert on mailpit.Messages(ctx).
//	}
//
// Testing against a real SMTP conversation catches what stubs cannot:
// greeting and AUTH negotiation, header formatting, and multipart
// body assembly as another implementation parses it.
//
// # CI Considerations
//
// These tests require Docker and are tagged `integration`. They skip
// gracefully when Docker is unavailable, and the first run downloads
// the container image.
package testinfra
