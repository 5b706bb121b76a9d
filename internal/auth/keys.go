// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

const (
	// apiKeyLength is the number of characters in a client API key.
	apiKeyLength = 32

	// apiKeyCharset restricts keys to alphanumerics so they survive
	// copy-paste, URLs and shell quoting unescaped.
	apiKeyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// resetTokenBytes is the entropy of a password reset token before
	// encoding.
	resetTokenBytes = 32
)

// GenerateAPIKey returns a new 32-character alphanumeric client key.
// Keys are stored as issued; revocation flips the client inactive
// rather than deleting the credential.
func GenerateAPIKey() (string, error) {
	return randomString(apiKeyLength, apiKeyCharset)
}

// GenerateResetToken returns a URL-safe token for password reset
// links. The expiry lives next to the token in the user row.
func GenerateResetToken() (string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// randomString draws each character independently with crypto/rand,
// avoiding the modulo bias of masking a byte stream.
func randomString(length int, charset string) (string, error) {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}
