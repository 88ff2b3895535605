// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when an alias or session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAlias is returned for blank alias names or commands.
	ErrInvalidAlias = errors.New("alias needs a name and a command")
)

// DefaultMaxEntries is the history retention used when none is configured.
const DefaultMaxEntries = 1000

// =============================================================================
// STORE
// =============================================================================

// Options configures a Store.
type Options struct {
	// MaxEntries bounds command_history. 0 uses DefaultMaxEntries.
	MaxEntries int

	Logger zerolog.Logger

	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Store is the SQLite-backed history and alias store.
type Store struct {
	db         *sql.DB
	path       string
	maxEntries int
	now        func() time.Time
	log        zerolog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(path string, opts Options) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT INTO metadata(key, value) VALUES('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(SchemaVersion),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		db:         db,
		path:       path,
		maxEntries: opts.MaxEntries,
		now:        opts.Now,
		log:        opts.Logger.With().Str("component", "storage").Logger(),
	}
	s.log.Debug().Str("path", path).Msg("history database opened")
	return s, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the version recorded in the metadata table.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return strconv.Atoi(v)
}

func (s *Store) millis() int64 {
	return s.now().UnixMilli()
}
