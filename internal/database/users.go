// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
	"github.com/tomtom215/storelens/internal/models"
)

var (
	// ErrUserExists is returned when the username is already taken.
	ErrUserExists = errors.New("username already exists")

	// ErrUserNotFound is returned when no user matches.
	ErrUserNotFound = errors.New("user not found")
)

const usersTable = "users"

const userColumns = `id, username, password_hash, customer, role, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u        models.User
		customer sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &customer, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Customer = customer.String
	return &u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// GetUserByUsername returns the user with the given username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", usersTable, time.Since(start), nil)
		return nil, ErrUserNotFound
	}
	metrics.RecordDBQuery("select", usersTable, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return u, nil
}

// ListUsers returns every user in id order.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		metrics.RecordDBQuery("select", usersTable, time.Since(start), err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", usersTable, time.Since(start), err)
	return users, err
}

// CreateUser inserts u and fills in its ID and CreatedAt. An empty Customer
// is stored as NULL.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	if !models.IsValidRole(u.Role) {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	u.CreatedAt = time.Now().UTC()
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, customer, role, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`,
		u.Username, u.PasswordHash, nullable(u.Customer), u.Role, u.CreatedAt,
	).Scan(&u.ID)
	metrics.RecordDBQuery("insert", usersTable, time.Since(start), err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// DeleteUser removes the user with the given id.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	metrics.RecordDBQuery("delete", usersTable, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SeedAdmin creates the default admin account when no user has username.
// It reports whether a user was created.
func (db *DB) SeedAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	_, err := db.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, ErrUserNotFound):
		return false, err
	}

	admin := &models.User{Username: username, PasswordHash: passwordHash, Role: models.RoleAdmin}
	if err := db.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, ErrUserExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	logging.Info().Str("username", username).Msg("Created default admin user")
	return true, nil
}
