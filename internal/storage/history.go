// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SESSIONS
// =============================================================================

// StartSession registers a new shell session and returns its id.
func (s *Store) StartSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, started_at) VALUES(?, ?)`, id, s.millis()); err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	return id, nil
}

// EndSession stamps the end time of a session.
func (s *Store) EndSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ?`, s.millis(), id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

// =============================================================================
// COMMAND HISTORY
// =============================================================================

// Entry is one recorded command line.
type Entry struct {
	ID        int64
	SessionID string
	Mode      string
	Command   string
	CreatedAt time.Time
}

// Record appends a command to history and trims the table to the
// retention limit.
func (s *Store) Record(ctx context.Context, sessionID, mode, command string) (int64, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO command_history(session_id, mode, command, created_at) VALUES(?, ?, ?, ?)`,
		sessionID, mode, command, s.millis())
	if err != nil {
		return 0, fmt.Errorf("failed to record command: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read history id: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM command_history WHERE id NOT IN (
		     SELECT id FROM command_history ORDER BY id DESC LIMIT ?)`, s.maxEntries); err != nil {
		s.log.Warn().Err(err).Msg("history retention failed")
	}
	return id, nil
}

// Recent returns up to limit entries, newest first, plus the total count.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM command_history`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}
	if limit <= 0 {
		return nil, total, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, mode, command, created_at
		   FROM command_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Mode, &e.Command, &created); err != nil {
			return nil, 0, fmt.Errorf("failed to scan history: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, total, nil
}

// ClearHistory deletes every history entry and returns how many went.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM command_history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// ALIASES
// =============================================================================

// Alias maps a single word to a command line.
type Alias struct {
	Name      string
	Command   string
	CreatedAt time.Time
}

// SetAlias creates or replaces an alias.
func (s *Store) SetAlias(ctx context.Context, name, command string) error {
	name, command = strings.TrimSpace(name), strings.TrimSpace(command)
	if name == "" || command == "" || strings.ContainsAny(name, " \t") {
		return ErrInvalidAlias
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO user_aliases(alias, command, created_at) VALUES(?, ?, ?)
		 ON CONFLICT(alias) DO UPDATE SET command = excluded.command`,
		name, command, s.millis()); err != nil {
		return fmt.Errorf("failed to save alias: %w", err)
	}
	return nil
}

// LookupAlias returns the command behind name.
func (s *Store) LookupAlias(ctx context.Context, name string) (string, error) {
	var command string
	err := s.db.QueryRowContext(ctx,
		`SELECT command FROM user_aliases WHERE alias = ?`, name).Scan(&command)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read alias: %w", err)
	}
	return command, nil
}

// Aliases lists every alias sorted by name.
func (s *Store) Aliases(ctx context.Context) ([]Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT alias, command, created_at FROM user_aliases ORDER BY alias`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer rows.Close()

	var out []Alias
	for rows.Next() {
		var a Alias
		var created int64
		if err := rows.Scan(&a.Name, &a.Command, &created); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		a.CreatedAt = time.UnixMilli(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAlias removes an alias.
func (s *Store) DeleteAlias(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_aliases WHERE alias = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete alias: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
