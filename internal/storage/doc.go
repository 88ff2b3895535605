// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists command history and user aliases in SQLite.
//
// # Key Types
//
//   - Store: owns the database handle
//   - Entry: one recorded command line
//   - Alias: a user-defined shorthand expanded before dispatch
//
// # Usage
//
//	store, err := storage.Open(path, storage.Options{MaxEntries: 1000})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	sid, _ := store.StartSession(ctx)
//	store.Record(ctx, sid, "home", "call mom")
//	entries, total, _ := store.Recent(ctx, 10)
package storage
