// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
rbac.go - Role-Based Access Control Models

Role Hierarchy:
  - user: Default role, read access to the public catalog
  - contributor: Can create and edit catalog entries (inherits user)
  - admin: Full access including account management and deletes (inherits contributor)

Usage:
  - Authorization enforcement in internal/authz (Casbin policy)
  - Role gates applied per route group in internal/api
*/

package models

// Role is a user permission level. Roles align with the Casbin policy
// definitions in internal/authz.
type Role string

const (
	// RoleUser is the default role with read access to the catalog.
	RoleUser Role = "user"

	// RoleContributor can create and edit catalog entries.
	RoleContributor Role = "contributor"

	// RoleAdmin has full access including account management and deletes.
	RoleAdmin Role = "admin"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []Role{RoleUser, RoleContributor, RoleAdmin}

// IsValidRole checks if a role name is valid.
func IsValidRole(role Role) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// AtLeast reports whether the role grants the permissions of min.
// The hierarchy is user < contributor < admin.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleContributor:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

func (r Role) String() string {
	return string(r)
}
