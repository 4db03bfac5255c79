// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package models

import "time"

// Role constants. These align with the Casbin policy in internal/authz/policy.csv.
const (
	// RoleAdmin manages users and may view every customer.
	RoleAdmin = "admin"

	// RoleRegular is pinned to a single customer.
	RoleRegular = "comum"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []string{RoleAdmin, RoleRegular}

// IsValidRole checks if a role name is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a stored dashboard account. Customer is empty for admins that are
// not tied to a customer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Customer     string    `json:"customer,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
