// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package auth

import (
	"errors"
	"strings"
)

var (
	// ErrNoCustomer is returned for a regular account with no customer.
	ErrNoCustomer = errors.New("account is not linked to a customer")

	// ErrForbiddenScope is returned when a regular user asks for another
	// customer.
	ErrForbiddenScope = errors.New("customer not allowed for this account")
)

// ResolveScope returns the customer scope a request runs under. Regular
// users are pinned to their own customer; an empty request selects it, any
// other value is forbidden. Admins get what they ask for, and an empty
// scope means all customers.
func ResolveScope(session *Session, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if session.IsAdmin() {
		return requested, nil
	}
	if session.Customer == "" {
		return "", ErrNoCustomer
	}
	if requested != "" && requested != session.Customer {
		return "", ErrForbiddenScope
	}
	return session.Customer, nil
}
