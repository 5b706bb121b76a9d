// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package logging

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent represents a security-relevant event for audit logging.
type SecurityEvent struct {
	// Event is the type of event (e.g., "login_success", "logout", "password_reset").
	Event string
	// UserID is the user's identifier (0 if unknown).
	UserID int64
	// Nickname is the user's nickname (if known).
	Nickname string
	// Email is the user's email address (if known).
	Email string
	// Method is the authentication method (password, token, apikey).
	Method string
	// IPAddress is the client's IP address.
	IPAddress string
	// UserAgent is the client's user agent (truncated).
	UserAgent string
	// Success indicates if the operation was successful.
	Success bool
	// Error is the error message if the operation failed.
	Error string
	// Details contains additional sanitized details.
	Details map[string]string
}

// SecurityLogger provides secure logging for authentication events.
// It automatically sanitizes sensitive data before logging.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info().
		Str("event", event.Event)

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}

	if event.UserID != 0 {
		e = e.Int64("user_id", event.UserID)
	}

	if event.Nickname != "" {
		e = e.Str("nickname", SanitizeNickname(event.Nickname))
	}

	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}

	if event.Method != "" {
		e = e.Str("method", event.Method)
	}

	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}

	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}

	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}

	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// Debug logs a debug-level message.
func (l *SecurityLogger) Debug(msg string, fields ...interface{}) {
	e := l.logger.Debug()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// Info logs an info-level message.
func (l *SecurityLogger) Info(msg string, fields ...interface{}) {
	e := l.logger.Info()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// Warn logs a warning-level message.
func (l *SecurityLogger) Warn(msg string, fields ...interface{}) {
	e := l.logger.Warn()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// Error logs an error-level message.
func (l *SecurityLogger) Error(msg string, fields ...interface{}) {
	e := l.logger.Error()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// addFieldPairs adds key-value pairs to a zerolog event.
func addFieldPairs(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			e = e.Interface(key, fields[i+1])
		}
	}
	return e
}

// ============================================================
// Pre-defined Security Events
// ============================================================

// LogLoginSuccess logs a successful login event.
func (l *SecurityLogger) LogLoginSuccess(userID int64, nickname, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_success",
		UserID:    userID,
		Nickname:  nickname,
		Method:    "password",
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	})
}

// LogLoginFailure logs a failed login event.
func (l *SecurityLogger) LogLoginFailure(email, ip, userAgent, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_failed",
		Email:     email,
		Method:    "password",
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   false,
		Error:     reason,
	})
}

// LogLogout logs a logout event.
func (l *SecurityLogger) LogLogout(userID int64, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "logout",
		UserID:    userID,
		IPAddress: ip,
		Success:   true,
	})
}

// LogPasswordResetRequested logs a password reset request.
func (l *SecurityLogger) LogPasswordResetRequested(email, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "password_reset_requested",
		Email:     email,
		IPAddress: ip,
		Success:   true,
	})
}

// LogPasswordResetCompleted logs a completed password reset.
func (l *SecurityLogger) LogPasswordResetCompleted(userID int64, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "password_reset_completed",
		UserID:    userID,
		IPAddress: ip,
		Success:   true,
	})
}

// LogAPIKeyAccepted logs a successful API client authentication.
func (l *SecurityLogger) LogAPIKeyAccepted(clientName, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "apikey_accepted",
		Method:    "apikey",
		IPAddress: ip,
		Success:   true,
		Details: map[string]string{
			"client": clientName,
		},
	})
}

// LogAPIKeyRejected logs a rejected API client authentication.
func (l *SecurityLogger) LogAPIKeyRejected(ip, path, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "apikey_rejected",
		Method:    "apikey",
		IPAddress: ip,
		Success:   false,
		Error:     reason,
		Details: map[string]string{
			"path": path,
		},
	})
}

// LogPermissionDenied logs an authorization failure.
func (l *SecurityLogger) LogPermissionDenied(userID int64, role, path, method string) {
	l.LogEvent(&SecurityEvent{
		Event:   "permission_denied",
		UserID:  userID,
		Success: false,
		Details: map[string]string{
			"role":        role,
			"path":        path,
			"http_method": method,
		},
	})
}

// LogAccountUpdated logs a self-service account update.
func (l *SecurityLogger) LogAccountUpdated(userID int64, ip string, passwordChanged bool) {
	l.LogEvent(&SecurityEvent{
		Event:     "account_updated",
		UserID:    userID,
		IPAddress: ip,
		Success:   true,
		Details: map[string]string{
			"password_changed": strconv.FormatBool(passwordChanged),
		},
	})
}

// ============================================================
// Sanitization Functions
// ============================================================

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeNickname masks a nickname, keeping first 2 characters.
// Example: "greenpanda" -> "gr***"
func SanitizeNickname(nickname string) string {
	if nickname == "" {
		return ""
	}
	if len(nickname) <= 2 {
		return "***"
	}
	return nickname[:2] + "***"
}

// SanitizeEmail masks an email address.
// Example: "jane.doe@example.com" -> "ja***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "authentication error"
		}
	}

	return truncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := map[string]bool{
		"access_token":  true,
		"reset_token":   true,
		"token":         true,
		"password":      true,
		"secret":        true,
		"api_key":       true,
		"apikey":        true,
		"authorization": true,
		"bearer":        true,
		"cookie":        true,
	}

	if sensitiveKeys[lowerKey] {
		return SanitizeToken(value)
	}

	if strings.Contains(value, "@") && strings.Contains(value, ".") {
		return SanitizeEmail(value)
	}

	return value
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
