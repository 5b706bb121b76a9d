// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMailpitImage is the Mailpit SMTP testing server image.
	DefaultMailpitImage = "axllent/mailpit:latest"

	// mailpitSMTPPort is the SMTP listener inside the container.
	mailpitSMTPPort = "1025"

	// mailpitHTTPPort is the web UI and REST API port inside the container.
	mailpitHTTPPort = "8025"
)

// MailpitContainer is a running Mailpit instance for SMTP testing.
// Mail sent to SMTPHost:SMTPPort can be inspected through the REST API.
type MailpitContainer struct {
	testcontainers.Container
	SMTPHost string
	SMTPPort int
	APIURL   string
}

// MailpitAddress is a parsed mail address in API responses.
type MailpitAddress struct {
	Name    string `json:"Name"`
	Address string `json:"Address"`
}

// MailpitMessage is a message summary from the Mailpit listing API.
type MailpitMessage struct {
	ID      string           `json:"ID"`
	From    MailpitAddress   `json:"From"`
	To      []MailpitAddress `json:"To"`
	Subject string           `json:"Subject"`
	Snippet string           `json:"Snippet"`
}

// MailpitOption configures the Mailpit container.
type MailpitOption func(*mailpitConfig)

type mailpitConfig struct {
	image        string
	startTimeout time.Duration
}

// WithMailpitImage sets a custom Mailpit Docker image.
func WithMailpitImage(image string) MailpitOption {
	return func(c *mailpitConfig) {
		c.image = image
	}
}

// WithMailpitStartTimeout sets the container startup timeout.
func WithMailpitStartTimeout(timeout time.Duration) MailpitOption {
	return func(c *mailpitConfig) {
		c.startTimeout = timeout
	}
}

// NewMailpitContainer creates and starts a Mailpit container. The
// instance accepts any SMTP credentials over a plaintext connection,
// which matches how the mailer authenticates in tests.
//
// Example:
//
//	mailpit, err := NewMailpitContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer mailpit.Terminate(ctx)
//
//	// Point the SMTP config at mailpit.SMTPHost / mailpit.SMTPPort,
//	// then assert on mailpit.Messages(ctx).
func NewMailpitContainer(ctx context.Context, opts ...MailpitOption) (*MailpitContainer, error) {
	cfg := &mailpitConfig{
		image:        DefaultMailpitImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{mailpitSMTPPort + "/tcp", mailpitHTTPPort + "/tcp"},
		Env: map[string]string{
			"MP_SMTP_AUTH_ACCEPT_ANY":     "1",
			"MP_SMTP_AUTH_ALLOW_INSECURE": "1",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(mailpitSMTPPort+"/tcp"),
			wait.ForHTTP("/api/v1/info").WithPort(mailpitHTTPPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mailpit container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	smtpPort, err := container.MappedPort(ctx, mailpitSMTPPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped smtp port: %w", err)
	}

	httpPort, err := container.MappedPort(ctx, mailpitHTTPPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped http port: %w", err)
	}

	return &MailpitContainer{
		Container: container,
		SMTPHost:  host,
		SMTPPort:  smtpPort.Int(),
		APIURL:    fmt.Sprintf("http://%s:%s", host, httpPort.Port()),
	}, nil
}

// Messages lists the messages Mailpit has received, newest first.
func (c *MailpitContainer) Messages(ctx context.Context) ([]MailpitMessage, error) {
	var listing struct {
		Total    int              `json:"total"`
		Messages []MailpitMessage `json:"messages"`
	}
	if err := c.getJSON(ctx, "/api/v1/messages", &listing); err != nil {
		return nil, err
	}
	return listing.Messages, nil
}

// MessageText returns the plain-text body of a received message.
func (c *MailpitContainer) MessageText(ctx context.Context, id string) (string, error) {
	var detail struct {
		Text string `json:"Text"`
		HTML string `json:"HTML"`
	}
	if err := c.getJSON(ctx, "/api/v1/message/"+id, &detail); err != nil {
		return "", err
	}
	return detail.Text, nil
}

func (c *MailpitContainer) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create mailpit api request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("query mailpit api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailpit api returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode mailpit api response: %w", err)
	}
	return nil
}

// Terminate stops and removes the Mailpit container.
func (c *MailpitContainer) Terminate(ctx context.Context) error {
	return c.Container.Terminate(ctx)
}
