// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/database"
	"github.com/mverdier/leafbase/internal/logging"
	"github.com/mverdier/leafbase/internal/models"
)

// resetTokenTTL is how long a password reset link stays valid.
const resetTokenTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials covers unknown email and wrong password
	// alike, so login responses cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInactiveAccount rejects authentication for accounts that are
	// registered but not (or no longer) activated.
	ErrInactiveAccount = errors.New("account is not active")

	// ErrInvalidResetToken covers unknown, already used and expired
	// reset tokens identically.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// ResetMailer delivers password-reset messages. Satisfied by
// mail.Mailer; declared here so the flow tests run with a stub.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, nickname, resetToken string) error
}

// Service implements the credential flows against the catalog
// database: login, token resolution, API key resolution and the
// password reset pair.
type Service struct {
	db     *database.DB
	jwt    *JWTManager
	hasher *Hasher
	mailer ResetMailer
	audit  *logging.SecurityLogger
}

// NewService wires the auth flows. mailer may be nil; forgot-password
// then stores the token without sending (logged, used in dev).
func NewService(db *database.DB, jwtManager *JWTManager, hasher *Hasher, mailer ResetMailer) *Service {
	return &Service{
		db:     db,
		jwt:    jwtManager,
		hasher: hasher,
		mailer: mailer,
		audit:  logging.NewSecurityLogger(),
	}
}

// Login verifies the credentials and returns a signed access token
// with the authenticated account. The password check runs before the
// active check so timing stays uniform across unknown and inactive
// accounts.
func (s *Service) Login(ctx context.Context, email, password, ip, userAgent string) (string, models.User, error) {
	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.audit.LogLoginFailure(email, ip, userAgent, "unknown email")
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("failed to load account: %w", err)
	}

	if !s.hasher.Compare(user.Password, password) {
		s.audit.LogLoginFailure(email, ip, userAgent, "wrong password")
		return "", models.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.audit.LogLoginFailure(email, ip, userAgent, "inactive account")
		return "", models.User{}, ErrInactiveAccount
	}

	token, err := s.jwt.GenerateToken(&user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.audit.LogLoginSuccess(user.ID, user.Nickname, ip, userAgent)
	return token, user, nil
}

// UserFromToken resolves a bearer token to its account. Called by the
// auth middleware on every request: the account must still exist and
// be active, so deactivation wins over an unexpired token.
func (s *Service) UserFromToken(ctx context.Context, tokenString string) (models.User, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	id, err := claims.UserID()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	user, err := s.db.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("failed to load account: %w", err)
	}
	if !user.IsActive {
		return models.User{}, ErrInactiveAccount
	}
	return user, nil
}

// ClientFromKey resolves an X-Api-Key header value to its client.
// Revoked and unknown keys produce the same error.
func (s *Service) ClientFromKey(ctx context.Context, apiKey, ip, path string) (models.APIClient, error) {
	client, err := s.db.GetActiveAPIClientByKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.audit.LogAPIKeyRejected(ip, path, "unknown or revoked key")
			return models.APIClient{}, ErrInvalidCredentials
		}
		return models.APIClient{}, fmt.Errorf("failed to look up api key: %w", err)
	}

	s.audit.LogAPIKeyAccepted(client.Name, ip)
	return client, nil
}

// ForgotPassword stores and mails a reset token when the address has
// an account. It reports success either way; only the audit log tells
// the two cases apart.
func (s *Service) ForgotPassword(ctx context.Context, email, ip string) error {
	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.audit.LogPasswordResetRequested(email, ip)
			return nil
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	token, err := GenerateResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(resetTokenTTL)
	if err := s.db.SetUserResetToken(ctx, user.ID, token, expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Nickname, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	} else {
		logging.Warn().Str("email", email).Msg("No mailer configured, reset token stored but not sent")
	}

	s.audit.LogPasswordResetRequested(email, ip)
	return nil
}

// ResetPassword redeems a reset token and installs the new password.
// The token is cleared on success and cannot be replayed.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, ip string) error {
	user, err := s.db.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if user.ResetTokenExpires == nil || time.Now().UTC().After(*user.ResetTokenExpires) {
		return ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.ResetUserPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.audit.LogPasswordResetCompleted(user.ID, ip)
	return nil
}
