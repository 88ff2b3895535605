// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jeranaias/smartcli/internal/util"
)

const (
	// DefaultMaxAttempts is the number of failures allowed before lockout.
	DefaultMaxAttempts = 3

	// DefaultLockoutDuration is how long a lockout lasts.
	DefaultLockoutDuration = 15 * time.Minute
)

// =============================================================================
// ATTEMPT RECORD
// =============================================================================

// AttemptRecord tracks consecutive failed unlock attempts.
type AttemptRecord struct {
	// Count is the number of consecutive failed attempts.
	Count int `json:"count"`

	// LastAttempt is the timestamp of the last failure.
	LastAttempt time.Time `json:"last_attempt"`

	// LockedUntil is when the lockout expires. Zero means not locked.
	LockedUntil time.Time `json:"locked_until,omitempty"`

	// LockoutCount tracks the total number of lockouts.
	LockoutCount int `json:"lockout_count,omitempty"`
}

// =============================================================================
// LOCKOUT
// =============================================================================

// Lockout counts failures and enforces the lockout window. The state is
// optionally persisted so restarting the shell does not reset it.
type Lockout struct {
	mu          sync.Mutex
	record      AttemptRecord
	maxAttempts int
	duration    time.Duration
	persistPath string
	now         func() time.Time
}

// LockoutOption configures a Lockout.
type LockoutOption func(*Lockout)

// WithMaxAttempts sets the failure budget.
func WithMaxAttempts(n int) LockoutOption {
	return func(l *Lockout) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithLockoutDuration sets the lockout window.
func WithLockoutDuration(d time.Duration) LockoutOption {
	return func(l *Lockout) {
		if d > 0 {
			l.duration = d
		}
	}
}

// WithPersistPath stores the attempt record at path.
func WithPersistPath(path string) LockoutOption {
	return func(l *Lockout) {
		l.persistPath = path
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) LockoutOption {
	return func(l *Lockout) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLockout creates a Lockout and loads any persisted state.
func NewLockout(opts ...LockoutOption) *Lockout {
	l := &Lockout{
		maxAttempts: DefaultMaxAttempts,
		duration:    DefaultLockoutDuration,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	_ = l.load()
	return l
}

// Remaining returns how long the lockout still lasts, or 0.
func (l *Lockout) Remaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remainingLocked()
}

func (l *Lockout) remainingLocked() time.Duration {
	if l.record.LockedUntil.IsZero() {
		return 0
	}
	d := l.record.LockedUntil.Sub(l.now())
	if d <= 0 {
		// Window passed: start a fresh budget.
		l.record.LockedUntil = time.Time{}
		l.record.Count = 0
		return 0
	}
	return d
}

// AttemptsLeft returns the failures still allowed before lockout.
func (l *Lockout) AttemptsLeft() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remainingLocked() > 0 {
		return 0
	}
	return l.maxAttempts - l.record.Count
}

// RecordFailure counts a failed attempt and reports whether it triggered
// a lockout.
func (l *Lockout) RecordFailure() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.remainingLocked()
	l.record.Count++
	l.record.LastAttempt = l.now()

	locked := false
	if l.record.Count >= l.maxAttempts {
		l.record.LockedUntil = l.now().Add(l.duration)
		l.record.LockoutCount++
		locked = true
	}
	_ = l.saveLocked()
	return locked
}

// RecordSuccess clears the failure count.
func (l *Lockout) RecordSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record.Count = 0
	l.record.LockedUntil = time.Time{}
	_ = l.saveLocked()
}

// Record returns a copy of the attempt record.
func (l *Lockout) Record() AttemptRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.record
}

func (l *Lockout) load() error {
	if l.persistPath == "" {
		return nil
	}
	data, err := os.ReadFile(l.persistPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lockout state: %w", err)
	}
	var rec AttemptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("failed to parse lockout state: %w", err)
	}
	l.record = rec
	return nil
}

func (l *Lockout) saveLocked() error {
	if l.persistPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.record, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(l.persistPath, data, 0600)
}
