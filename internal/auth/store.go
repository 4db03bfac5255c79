// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package auth

import (
	"fmt"
	"io"

	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/logging"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSessionStore builds the store selected by cfg.SessionStore. The closer
// releases the backing database.
func NewSessionStore(cfg *config.SecurityConfig) (SessionStore, io.Closer, error) {
	switch cfg.SessionStore {
	case "", "memory":
		logging.Info().Msg("Using in-memory session store (sessions are lost on restart)")
		return NewMemorySessionStore(), nopCloser{}, nil
	case "badger":
		if cfg.SessionStorePath == "" {
			return nil, nil, fmt.Errorf("session store path is required for badger")
		}
		store, db, err := OpenBadgerSessionStore(cfg.SessionStorePath)
		if err != nil {
			return nil, nil, err
		}
		logging.Info().Str("path", cfg.SessionStorePath).Msg("Using BadgerDB session store")
		return store, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
