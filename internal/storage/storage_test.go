// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func openTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	tick := 0
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), Options{
		MaxEntries: maxEntries,
		Logger:     zerolog.Nop(),
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// SCHEMA AND SESSIONS
// =============================================================================

func TestOpen_SchemaVersion(t *testing.T) {
	store := openTestStore(t, 0)

	v, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", v, SchemaVersion)
	}
	if store.maxEntries != DefaultMaxEntries {
		t.Errorf("maxEntries = %d, want %d", store.maxEntries, DefaultMaxEntries)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Record(ctx, "s1", "home", "help"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.Close()

	store, err = Open(path, Options{})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	_, total, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestSessions(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	id, err := store.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("session id %q is not a UUID: %v", id, err)
	}
	if err := store.EndSession(ctx, id); err != nil {
		t.Errorf("EndSession failed: %v", err)
	}
	if err := store.EndSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("EndSession(missing) = %v, want ErrNotFound", err)
	}
}

// =============================================================================
// HISTORY
// =============================================================================

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	for _, cmd := range []string{"call mom", "  ", "sms dad hi", "wifi off"} {
		if _, err := store.Record(ctx, "s1", "home", cmd); err != nil {
			t.Fatalf("Record(%q) failed: %v", cmd, err)
		}
	}

	entries, total, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3 (blank lines are skipped)", total)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Command != "wifi off" || entries[1].Command != "sms dad hi" {
		t.Errorf("entries not newest first: %+v", entries)
	}
	if !entries[0].CreatedAt.After(entries[1].CreatedAt) {
		t.Errorf("timestamps out of order: %v, %v", entries[0].CreatedAt, entries[1].CreatedAt)
	}
	if entries[0].SessionID != "s1" || entries[0].Mode != "home" {
		t.Errorf("unexpected entry fields: %+v", entries[0])
	}
}

func TestRecord_Retention(t *testing.T) {
	store := openTestStore(t, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if _, err := store.Record(ctx, "s1", "home", fmt.Sprintf("echo %d", i)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, total, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if entries[2].Command != "echo 3" {
		t.Errorf("oldest kept = %q, want %q", entries[2].Command, "echo 3")
	}
}

func TestClearHistory(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	store.Record(ctx, "s1", "home", "help")
	store.Record(ctx, "s1", "sms", "list")

	n, err := store.ClearHistory(ctx)
	if err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if _, total, _ := store.Recent(ctx, 5); total != 0 {
		t.Errorf("total after clear = %d, want 0", total)
	}
}

// =============================================================================
// ALIASES
// =============================================================================

func TestAliases(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	if err := store.SetAlias(ctx, "gm", "sms mom good morning"); err != nil {
		t.Fatalf("SetAlias failed: %v", err)
	}
	if err := store.SetAlias(ctx, "cd", "call dad"); err != nil {
		t.Fatalf("SetAlias failed: %v", err)
	}
	if err := store.SetAlias(ctx, "gm", "sms mom gm!"); err != nil {
		t.Fatalf("SetAlias overwrite failed: %v", err)
	}

	got, err := store.LookupAlias(ctx, "gm")
	if err != nil {
		t.Fatalf("LookupAlias failed: %v", err)
	}
	if got != "sms mom gm!" {
		t.Errorf("LookupAlias = %q, want overwritten command", got)
	}

	all, err := store.Aliases(ctx)
	if err != nil {
		t.Fatalf("Aliases failed: %v", err)
	}
	if len(all) != 2 || all[0].Name != "cd" || all[1].Name != "gm" {
		t.Errorf("Aliases not sorted by name: %+v", all)
	}

	if err := store.DeleteAlias(ctx, "cd"); err != nil {
		t.Errorf("DeleteAlias failed: %v", err)
	}
	if err := store.DeleteAlias(ctx, "cd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteAlias = %v, want ErrNotFound", err)
	}
	if _, err := store.LookupAlias(ctx, "cd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LookupAlias(deleted) = %v, want ErrNotFound", err)
	}
}

func TestSetAlias_Invalid(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	tests := []struct{ name, command string }{
		{"", "call mom"},
		{"gm", "  "},
		{"two words", "call mom"},
	}
	for _, tc := range tests {
		if err := store.SetAlias(ctx, tc.name, tc.command); !errors.Is(err, ErrInvalidAlias) {
			t.Errorf("SetAlias(%q, %q) = %v, want ErrInvalidAlias", tc.name, tc.command, err)
		}
	}
}
