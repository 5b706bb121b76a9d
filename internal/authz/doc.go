// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package authz enforces role-based access to API routes using Casbin.
//
// Authorization runs after authentication: the auth middleware resolves
// the caller to a principal (a user account or an API client), and the
// authz middleware checks that principal's subject against the route
// policy.
//
//	Request -> Auth Middleware -> Authz Middleware -> Handler
//	               |                    |
//	          Authenticate         Authorize (Casbin)
//	           (internal/auth)      (this package)
//
// # Subjects, Objects, Actions
//
// Subjects are the account roles "user", "contributor" and "admin",
// plus the synthetic subject "apiclient" for X-Api-Key callers.
// Objects are request paths; actions are derived from the HTTP method:
//
//   - GET, HEAD, OPTIONS -> "read"
//   - POST, PUT, PATCH -> "write"
//   - DELETE -> "delete"
//
// # Model
//
// The embedded model uses role inheritance, keyMatch2 path patterns and
// an admin bypass clause:
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act) || r.sub == "admin"
//
// Contributors inherit user grants through "g, contributor, user", and
// admins pass every check without a policy line. A route group with no
// grant in policy.csv (user and API-client administration, shop
// mutations, scan deletes) is therefore admin-only.
//
// # Policy
//
// The embedded policy.csv carries the full route policy. Deployments
// can override model and policy with CasbinConfig.ModelPath and
// CasbinConfig.PolicyPath; LoadPolicy re-reads an overridden policy
// file at runtime.
//
// # Usage
//
//	enforcer, err := authz.NewEnforcer(&cfg.Security.Casbin)
//	if err != nil {
//	    return err
//	}
//	defer enforcer.Close()
//
//	r.Use(authz.NewMiddleware(enforcer).Enforce)
//
// Decisions are cached per (subject, object, action) tuple with a
// short TTL; the subject space is small enough that the cache never
// needs size-based eviction.
//
// # See Also
//
//   - internal/auth: authentication and the request principal
//   - internal/api: route registration applying this middleware
//   - github.com/casbin/casbin/v2: underlying authorization library
package authz
