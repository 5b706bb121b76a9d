// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
Package auth provides credential handling and the login, password-reset
and API-key flows.

Key Components:

  - Hasher: bcrypt password hashing with configurable cost
  - JWTManager: access token generation and validation (HMAC-SHA256,
    user ID in the subject claim)
  - Service: login, forgot/reset password, token and API-key resolution
    against the catalog database
  - GenerateAPIKey / GenerateResetToken: crypto/rand credential material

Two kinds of principal authenticate against this package. Users log in
with email and password and carry a bearer token whose subject is their
account ID; the middleware resolves the token back to the account on
every request, so deactivating an account takes effect before the token
expires. API clients send an opaque 32-character key in the X-Api-Key
header; revoked keys are indistinguishable from unknown ones.

Password resets are token based: a URL-safe single-use token with a 24
hour expiry is mailed to the account holder and redeemed against
ResetPassword. The forgot-password entry point reports success whether
or not the address exists.

All flows emit audit events through logging.SecurityLogger.

See Also:

  - internal/middleware: request authentication built on Service
  - internal/authz: role policy applied after authentication
  - internal/api: the HTTP handlers for the /auth route group
*/
package auth
