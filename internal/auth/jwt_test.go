// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/models"
)

func TestNewJWTManager(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.SecurityConfig
		wantErr bool
	}{
		{
			name: "valid secret",
			cfg: &config.SecurityConfig{
				JWTSecret:   "this_is_a_very_long_secret_key_with_32_plus_characters",
				TokenExpiry: 24 * time.Hour,
			},
			wantErr: false,
		},
		{
			name: "empty secret",
			cfg: &config.SecurityConfig{
				JWTSecret:   "",
				TokenExpiry: 24 * time.Hour,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewJWTManager(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("NewJWTManager() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("NewJWTManager() unexpected error = %v", err)
				return
			}
			if manager == nil {
				t.Error("NewJWTManager() returned nil manager")
			}
		})
	}
}

func testJWTManager(t *testing.T, expiry time.Duration) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:   "this_is_a_very_long_secret_key_for_testing_purposes_12345",
		TokenExpiry: expiry,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return manager
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := testJWTManager(t, time.Hour)

	tests := []struct {
		name string
		user models.User
	}{
		{
			name: "admin account",
			user: models.User{ID: 1, Nickname: "vera", Role: models.RoleAdmin},
		},
		{
			name: "plain account",
			user: models.User{ID: 42, Nickname: "milo", Role: models.RoleUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := manager.GenerateToken(&tt.user)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			if token == "" {
				t.Fatal("GenerateToken() returned empty token")
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.Nickname != tt.user.Nickname {
				t.Errorf("nickname = %q, want %q", claims.Nickname, tt.user.Nickname)
			}
			if claims.Role != string(tt.user.Role) {
				t.Errorf("role = %q, want %q", claims.Role, tt.user.Role)
			}

			id, err := claims.UserID()
			if err != nil {
				t.Fatalf("UserID() error = %v", err)
			}
			if id != tt.user.ID {
				t.Errorf("user id = %d, want %d", id, tt.user.ID)
			}
		})
	}
}

func TestValidateToken_Invalid(t *testing.T) {
	manager := testJWTManager(t, time.Hour)

	user := models.User{ID: 7, Nickname: "vera", Role: models.RoleUser}
	valid, err := manager.GenerateToken(&user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"garbage", "not.a.token"},
		{"tampered payload", tamperToken(valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.ValidateToken(tt.token); err == nil {
				t.Error("ValidateToken() expected error, got nil")
			}
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := testJWTManager(t, time.Hour)
		other.secret = []byte("a_completely_different_secret_of_sufficient_length")
		if _, err := other.ValidateToken(valid); err == nil {
			t.Error("ValidateToken() accepted a token signed with another secret")
		}
	})
}

func TestValidateToken_Expired(t *testing.T) {
	manager := testJWTManager(t, -time.Minute)

	user := models.User{ID: 7, Nickname: "vera", Role: models.RoleUser}
	token, err := manager.GenerateToken(&user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted an expired token")
	}
}

func TestClaimsUserID_Malformed(t *testing.T) {
	c := &Claims{}
	c.Subject = "not-a-number"
	if _, err := c.UserID(); err == nil {
		t.Error("UserID() expected error for non-numeric subject")
	}
}

// tamperToken flips a character in the payload segment.
func tamperToken(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return token + "x"
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
