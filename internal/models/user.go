// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package models

import (
	"time"
)

// User is an account that can authenticate against the API. Password
// holds the bcrypt hash and never leaves the server; the same goes for
// the reset-token pair.
//
// Accounts start inactive (IsActive false) and must be enabled by an
// admin before they can log in.
type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nickname string  `json:"nickname"`
	Email    string  `json:"email"`
	Role     Role    `json:"role"`
	IsActive bool    `json:"is_active"`
	Avatar   *string `json:"avatar"`

	Password          string     `json:"-"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Ref returns the trimmed shape embedded in checking payloads.
func (u *User) Ref() CheckingUserRef {
	return CheckingUserRef{ID: u.ID, Nickname: u.Nickname, Avatar: u.Avatar}
}

// LoginRequest is the body of POST /auth/login. The endpoint accepts
// either a JSON body or an OAuth2-style form with username/password
// fields, where username carries the email.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// CreateUserRequest is the body of POST /users (admin only).
type CreateUserRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=user contributor admin"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateUserRequest is the body of PUT /users/{id} (admin only).
// Password changes go through the account or reset flows.
type UpdateUserRequest struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,min=2,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=user contributor admin"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// UpdateAccountRequest is the body of PUT /account, the self-service
// subset a user may change on their own profile.
type UpdateAccountRequest struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,min=2,max=50"`
	Avatar   *string `json:"avatar,omitempty"`
	Password *string `json:"password,omitempty"`
}
