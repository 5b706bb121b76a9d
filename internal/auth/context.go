// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package auth

import (
	"context"

	"github.com/mverdier/leafbase/internal/models"
)

// SubjectAPIClient is the authorization subject used for requests
// authenticated with an X-Api-Key header instead of a user token.
const SubjectAPIClient = "apiclient"

// Principal is the authenticated caller attached to a request context.
// Exactly one of User or Client is set.
type Principal struct {
	User   *models.User
	Client *models.APIClient
}

// Subject returns the authorization subject: the account role for user
// principals, SubjectAPIClient for machine clients.
func (p *Principal) Subject() string {
	if p == nil {
		return ""
	}
	if p.Client != nil {
		return SubjectAPIClient
	}
	if p.User != nil {
		return string(p.User.Role)
	}
	return ""
}

// IsAdmin reports whether the principal is an admin user.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.User != nil && p.User.Role == models.RoleAdmin
}

// UserID returns the account id, or 0 for machine clients.
func (p *Principal) UserID() int64 {
	if p == nil || p.User == nil {
		return 0
	}
	return p.User.ID
}

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal attaches the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFrom extracts the authenticated principal from the context.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok && p != nil
}
