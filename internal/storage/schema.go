// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// SchemaVersion tracks the database schema version for migrations.
const SchemaVersion = 1

// Schema creates every table used by the store.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,  -- Unix milliseconds
    ended_at INTEGER
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS command_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    mode TEXT NOT NULL,
    command TEXT NOT NULL,
    created_at INTEGER NOT NULL   -- Unix milliseconds
);

CREATE INDEX IF NOT EXISTS idx_history_session ON command_history(session_id);

CREATE TABLE IF NOT EXISTS user_aliases (
    alias TEXT PRIMARY KEY,
    command TEXT NOT NULL,
    created_at INTEGER NOT NULL
) WITHOUT ROWID;
`
