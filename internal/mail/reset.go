// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package mail

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
)

const resetSubject = "Reset your Leafbase password"

const resetHTMLSource = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Password reset</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 10px;">
    <h1 style="color: #2c5530; text-align: center; margin-bottom: 30px;">Leafbase</h1>

    <h2 style="color: #333; margin-bottom: 20px;">Hello {{.Nickname}},</h2>

    <p style="margin-bottom: 20px;">
      We received a request to reset the password of your Leafbase account.
      If you did not make this request, you can safely ignore this email.
    </p>

    <p style="margin-bottom: 30px;">
      To choose a new password, click the button below:
    </p>

    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.ResetURL}}"
         style="background-color: #2c5530; color: white; padding: 15px 30px;
                text-decoration: none; border-radius: 5px; display: inline-block;
                font-weight: bold;">
        Reset my password
      </a>
    </div>

    <p style="margin-bottom: 20px; font-size: 14px; color: #666;">
      If the button does not work, copy and paste this link into your browser:
    </p>

    <p style="margin-bottom: 30px; word-break: break-all; font-size: 14px; color: #666;">
      {{.ResetURL}}
    </p>

    <p style="margin-bottom: 10px; font-size: 14px; color: #666;">
      For security reasons this link expires in 24 hours.
    </p>

    <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

    <p style="font-size: 12px; color: #999; text-align: center;">
      This email was sent by Leafbase. If you have any questions, feel free to contact us.
    </p>
  </div>
</body>
</html>
`

const resetTextSource = `Hello {{.Nickname}},

We received a request to reset the password of your Leafbase account.
If you did not make this request, you can safely ignore this email.

To choose a new password, visit the following link:
{{.ResetURL}}

For security reasons this link expires in 24 hours.

See you soon,
The Leafbase team
`

var (
	resetHTMLTemplate = htmltemplate.Must(htmltemplate.New("reset_html").Parse(resetHTMLSource))
	resetTextTemplate = texttemplate.Must(texttemplate.New("reset_text").Parse(resetTextSource))
)

type resetData struct {
	Nickname string
	ResetURL string
}

// SendPasswordReset mails a reset link for the given token. Satisfies
// the auth service's ResetMailer interface.
func (m *Mailer) SendPasswordReset(ctx context.Context, email, nickname, resetToken string) error {
	resetURL := m.resetURL(resetToken)

	textBody, htmlBody, err := resetBodies(nickname, resetURL)
	if err != nil {
		return err
	}
	return m.Send(ctx, email, resetSubject, textBody, htmlBody)
}

func (m *Mailer) resetURL(token string) string {
	base := strings.TrimSuffix(m.frontendURL, "/")
	return fmt.Sprintf("%s/reset-password?token=%s", base, url.QueryEscape(token))
}

func resetBodies(nickname, resetURL string) (textBody, htmlBody string, err error) {
	data := resetData{Nickname: nickname, ResetURL: resetURL}

	var text strings.Builder
	if err := resetTextTemplate.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("failed to render reset text body: %w", err)
	}

	var html strings.Builder
	if err := resetHTMLTemplate.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("failed to render reset html body: %w", err)
	}

	return text.String(), html.String(), nil
}
