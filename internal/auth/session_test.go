// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/storelens/internal/models"
)

func createTestBadgerDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open BadgerDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testSession(id string, userID int64, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		UserID:         userID,
		Username:       "ana",
		Role:           models.RoleRegular,
		Customer:       "loja_a",
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}
}

// storeFactories runs every test against both implementations.
func storeFactories(t *testing.T) map[string]func() SessionStore {
	t.Helper()
	return map[string]func() SessionStore{
		"memory": func() SessionStore { return NewMemorySessionStore() },
		"badger": func() SessionStore { return NewBadgerSessionStore(createTestBadgerDB(t)) },
	}
}

func TestSessionStoreCreateGet(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			ctx := context.Background()

			s := testSession("s1", 7, time.Hour)
			if err := store.Create(ctx, s); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			got, err := store.Get(ctx, "s1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.UserID != 7 || got.Username != "ana" || got.Customer != "loja_a" || got.Role != models.RoleRegular {
				t.Errorf("Get() = %+v", got)
			}

			if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrSessionNotFound", err)
			}
		})
	}
}

func TestSessionStoreExpired(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if err := store.Create(ctx, testSession("old", 1, -time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "old"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Get() error = %v, want ErrSessionExpired", err)
	}
	n, err := store.CleanupExpired(ctx)
	if err != nil || n != 1 {
		t.Errorf("CleanupExpired() = %d, %v; want 1", n, err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", store.Len())
	}
}

func TestSessionStoreDelete(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			ctx := context.Background()

			if err := store.Create(ctx, testSession("s1", 1, time.Hour)); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, "s1"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("session survived delete: %v", err)
			}
			if err := store.Delete(ctx, "s1"); err != nil {
				t.Errorf("deleting a missing session should not fail: %v", err)
			}
		})
	}
}

func TestSessionStoreDeleteByUserID(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			ctx := context.Background()

			for _, s := range []*Session{
				testSession("a1", 1, time.Hour),
				testSession("a2", 1, time.Hour),
				testSession("b1", 12, time.Hour),
			} {
				if err := store.Create(ctx, s); err != nil {
					t.Fatal(err)
				}
			}

			n, err := store.DeleteByUserID(ctx, 1)
			if err != nil || n != 2 {
				t.Fatalf("DeleteByUserID() = %d, %v; want 2", n, err)
			}
			if _, err := store.Get(ctx, "a1"); !errors.Is(err, ErrSessionNotFound) {
				t.Error("a1 should be gone")
			}
			// user 12 shares the "1" prefix digit and must be untouched
			if _, err := store.Get(ctx, "b1"); err != nil {
				t.Errorf("b1 removed: %v", err)
			}
		})
	}
}

func TestSessionStoreTouch(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			ctx := context.Background()

			s := testSession("s1", 1, time.Minute)
			s.LastAccessedAt = time.Now().Add(-time.Hour)
			if err := store.Create(ctx, s); err != nil {
				t.Fatal(err)
			}
			expiry := time.Now().Add(2 * time.Hour)
			if err := store.Touch(ctx, "s1", expiry); err != nil {
				t.Fatalf("Touch() error = %v", err)
			}
			got, err := store.Get(ctx, "s1")
			if err != nil {
				t.Fatal(err)
			}
			if got.ExpiresAt.Sub(expiry).Abs() > time.Millisecond {
				t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expiry)
			}
			if time.Since(got.LastAccessedAt) > time.Minute {
				t.Errorf("LastAccessedAt not updated: %v", got.LastAccessedAt)
			}
			if err := store.Touch(ctx, "missing", expiry); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Touch(missing) error = %v", err)
			}
		})
	}
}

func TestBadgerSessionStoreCleanupExpired(t *testing.T) {
	store := NewBadgerSessionStore(createTestBadgerDB(t))
	ctx := context.Background()

	// A badger TTL of at least a second keeps the entry readable here.
	expired := testSession("old", 1, -time.Second)
	if err := store.Create(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, testSession("live", 1, time.Hour)); err != nil {
		t.Fatal(err)
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n > 1 {
		t.Errorf("CleanupExpired() = %d, want at most 1", n)
	}
	if _, err := store.Get(ctx, "live"); err != nil {
		t.Errorf("live session removed: %v", err)
	}
}

func TestBadgerSessionStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, db, err := OpenBadgerSessionStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Create(context.Background(), testSession("s1", 1, time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	store, db, err = OpenBadgerSessionStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if _, err := store.Get(context.Background(), "s1"); err != nil {
		t.Errorf("session lost across reopen: %v", err)
	}
}

func TestNewSession(t *testing.T) {
	user := &models.User{ID: 3, Username: "root", Role: models.RoleAdmin}
	a, err := NewSession(user, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSession(user, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.ID) != 64 || a.ID == b.ID {
		t.Errorf("session IDs %q, %q should be unique 64-char hex", a.ID, b.ID)
	}
	if !a.IsAdmin() || a.IsExpired() {
		t.Errorf("session = %+v", a)
	}
	if d := a.ExpiresAt.Sub(a.CreatedAt); d != time.Hour {
		t.Errorf("lifetime = %v, want 1h", d)
	}
}
