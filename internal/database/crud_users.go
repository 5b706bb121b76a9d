// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

/*
crud_users.go - User Account CRUD Operations

Password and reset-token columns travel with the row for the auth
flows but never serialize. The store receives password material
already hashed; hashing policy lives in the auth package.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/leafbase/internal/models"
)

const userSelectColumns = `users.id, users.created_at, users.updated_at,
	users.nickname, users.email, users.password, users.role, users.is_active,
	users.avatar, users.reset_token, users.reset_token_expires`

// scanUser scans one user row including credential columns.
func scanUser(rows *sql.Rows) (models.User, error) {
	var u models.User
	var avatar, resetToken sql.NullString
	var resetTokenExpires sql.NullTime

	if err := rows.Scan(
		&u.ID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Nickname,
		&u.Email,
		&u.Password,
		&u.Role,
		&u.IsActive,
		&avatar,
		&resetToken,
		&resetTokenExpires,
	); err != nil {
		return u, fmt.Errorf("failed to scan user: %w", err)
	}

	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	if resetTokenExpires.Valid {
		u.ResetTokenExpires = &resetTokenExpires.Time
	}
	return u, nil
}

// CountUsers returns the number of users matching the filters.
func (db *DB) CountUsers(ctx context.Context, filters map[string]any) (int64, error) {
	return db.countWhere(ctx, usersTable, filters)
}

// GetUser retrieves a single user by ID.
func (db *DB) GetUser(ctx context.Context, id int64) (models.User, error) {
	return getOneWhere(ctx, db, usersTable, userSelectColumns, "",
		map[string]any{"id": id}, scanUser)
}

// GetUserByEmail retrieves a user by email, the login lookup.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return getOneWhere(ctx, db, usersTable, userSelectColumns, "",
		map[string]any{"email": email}, scanUser)
}

// GetUserByNickname retrieves a user by nickname.
func (db *DB) GetUserByNickname(ctx context.Context, nickname string) (models.User, error) {
	return getOneWhere(ctx, db, usersTable, userSelectColumns, "",
		map[string]any{"nickname": nickname}, scanUser)
}

// GetUserByResetToken retrieves the user holding a password reset
// token. Expiry is checked by the caller so it can report expired and
// unknown tokens identically.
func (db *DB) GetUserByResetToken(ctx context.Context, token string) (models.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE users.reset_token = ? LIMIT 1", userSelectColumns),
		token)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user by reset token: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.User{}, fmt.Errorf("reset token lookup error: %w", err)
		}
		return models.User{}, ErrNotFound
	}
	return scanUser(rows)
}

// ListUsers returns one page of users plus the filtered total.
func (db *DB) ListUsers(ctx context.Context, p ListParams) ([]models.User, int64, error) {
	return listAndCount(ctx, db, usersTable, userSelectColumns, "", p, scanUser)
}

// GetAllUsers returns every account, oldest first.
func (db *DB) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return getAllRows(ctx, db, usersTable, userSelectColumns, "",
		"users.id ASC", scanUser)
}

// CreateUser inserts a new account with an already-hashed password.
// Accounts start inactive unless the request says otherwise.
func (db *DB) CreateUser(ctx context.Context, req *models.CreateUserRequest, passwordHash string) (models.User, error) {
	isActive := req.IsActive != nil && *req.IsActive

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (created_at, updated_at, nickname, email, password, role, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		now, now, req.Nickname, req.Email, passwordHash, req.Role, isActive,
	).Scan(&id)
	if err != nil {
		return models.User{}, classifyError(err)
	}

	return db.GetUser(ctx, id)
}

// UpdateUser applies the admin-side partial update.
func (db *DB) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (models.User, error) {
	p := &patchSet{}
	addSet(p, "nickname", req.Nickname)
	addSet(p, "email", req.Email)
	addSet(p, "role", req.Role)
	addSet(p, "is_active", req.IsActive)

	if err := db.applyPatch(ctx, "users", id, p, time.Now().UTC()); err != nil {
		return models.User{}, err
	}
	return db.GetUser(ctx, id)
}

// UpdateUserAccount applies the self-service subset. passwordHash is
// the hash of the new password when one was submitted.
func (db *DB) UpdateUserAccount(ctx context.Context, id int64, req *models.UpdateAccountRequest, passwordHash *string) (models.User, error) {
	p := &patchSet{}
	addSet(p, "nickname", req.Nickname)
	addSet(p, "avatar", req.Avatar)
	addSet(p, "password", passwordHash)

	if err := db.applyPatch(ctx, "users", id, p, time.Now().UTC()); err != nil {
		return models.User{}, err
	}
	return db.GetUser(ctx, id)
}

// SetUserResetToken stores a password reset token and its expiry.
func (db *DB) SetUserResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	p := &patchSet{}
	p.set("reset_token", token)
	p.set("reset_token_expires", expires.UTC())
	return db.applyPatch(ctx, "users", id, p, time.Now().UTC())
}

// ResetUserPassword swaps in a new password hash and consumes the
// reset token.
func (db *DB) ResetUserPassword(ctx context.Context, id int64, passwordHash string) error {
	p := &patchSet{}
	p.set("password", passwordHash)
	p.set("reset_token", nil)
	p.set("reset_token_expires", nil)
	return db.applyPatch(ctx, "users", id, p, time.Now().UTC())
}

// DeleteUser removes an account. Its checkings go with it; scan events
// and error reports it produced are kept, anonymized.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	if err := db.requireRow(ctx, "users", id); err != nil {
		return err
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		detach := []string{
			"DELETE FROM checkings WHERE user_id = ?",
			"UPDATE scan_events SET user_id = NULL WHERE user_id = ?",
			"UPDATE error_reports SET created_by = NULL WHERE created_by = ?",
		}
		for _, q := range detach {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("failed to detach user references: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return classifyError(err)
		}
		return checkAffected(res, "users")
	})
}
