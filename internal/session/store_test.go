package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"moneytrack/internal/log"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "session.db"), log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadEmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("Load() on an empty store reported a session")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := Session{
		Token:     "tok-123",
		UserID:    "u1",
		Name:      "Ada",
		Email:     "ada@example.com",
		Currency:  "EUR",
		ExpiresAt: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("Load() reported no session after Save")
	}
	if got.Token != saved.Token || got.UserID != saved.UserID || got.Email != saved.Email {
		t.Errorf("Load() = %+v, want %+v", got, saved)
	}
	if !got.ExpiresAt.Equal(saved.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, saved.ExpiresAt)
	}
	if got.SavedAt.IsZero() {
		t.Error("SavedAt not recorded")
	}
}

func TestSaveReplacesPreviousSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Session{Token: "old", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, Session{Token: "new", UserID: "u2"}); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if got.Token != "new" || got.UserID != "u2" {
		t.Errorf("Load() = %+v, want the replacement session", got)
	}
}

func TestSaveWithoutExpiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Session{Token: "tok", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if !got.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", got.ExpiresAt)
	}
	if got.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("session without expiry reported as expired")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Session{Token: "tok", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	_, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("session survived Clear")
	}

	// Clearing twice is fine.
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}
