// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package mail sends transactional mail over SMTP. Delivery is
// optional: with no configured credentials the Mailer logs what it
// would have sent and reports success, so development setups work
// without a mail server.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/logging"
)

// Mailer delivers mail through the configured SMTP relay.
type Mailer struct {
	cfg         *config.SMTPConfig
	frontendURL string
	timeout     time.Duration
}

// NewMailer builds a Mailer. frontendURL is the public frontend base
// used in links embedded in messages.
func NewMailer(cfg *config.SMTPConfig, frontendURL string) *Mailer {
	return &Mailer{
		cfg:         cfg,
		frontendURL: frontendURL,
		timeout:     30 * time.Second,
	}
}

// Send delivers a message to a single recipient. Either body may be
// empty; with both present the message is sent as multipart/alternative.
// When SMTP is not configured the send is skipped and reported as
// success.
func (m *Mailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if !m.cfg.Configured() {
		logging.Warn().Msg("SMTP credentials not configured, mail not sent")
		logging.Info().Str("to", to).Str("subject", subject).Msg("Would have sent mail")
		return nil
	}

	msg := m.buildMessage(to, subject, textBody, htmlBody)
	if err := m.sendSMTP(ctx, to, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	logging.Info().Str("to", to).Str("subject", subject).Msg("Mail sent")
	return nil
}

// buildMessage constructs the raw RFC 5322 message with headers.
func (m *Mailer) buildMessage(to, subject, textBody, htmlBody string) string {
	var msg strings.Builder

	fromName := m.cfg.FromName
	if fromName == "" {
		fromName = "Leafbase"
	}

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", fromName, m.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	hasHTML := htmlBody != ""
	hasText := textBody != ""

	switch {
	case hasHTML && hasText:
		boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("Content-Transfer-Encoding: 8bit\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(textBody)
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("Content-Transfer-Encoding: 8bit\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(htmlBody)
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	case hasHTML:
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(htmlBody)
	default:
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(textBody)
	}

	return msg.String()
}

// sendSMTP performs the SMTP conversation. Port 465 means implicit
// TLS; on any other port STARTTLS is negotiated when the server
// offers it.
func (m *Mailer) sendSMTP(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	tlsConfig := &tls.Config{
		ServerName: m.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.Port == 465 {
		tlsDialer := &tls.Dialer{
			NetDialer: &net.Dialer{Timeout: m.timeout},
			Config:    tlsConfig,
		}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		dialer := &net.Dialer{Timeout: m.timeout}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }() //nolint:errcheck // Best effort cleanup

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }() //nolint:errcheck // Best effort cleanup

	if m.cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// Quit failures after an accepted DATA do not matter; the message
	// is already queued on the server.
	_ = client.Quit() //nolint:errcheck
	return nil
}
