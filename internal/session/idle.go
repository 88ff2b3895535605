// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"
)

// IdleTimer tracks the time since the last accepted input.
// A zero timeout disables it.
type IdleTimer struct {
	mu           sync.RWMutex
	timeout      time.Duration
	lastActivity time.Time
	now          func() time.Time
}

// NewIdleTimer creates a timer that starts counting now.
func NewIdleTimer(timeout time.Duration, now func() time.Time) *IdleTimer {
	if now == nil {
		now = time.Now
	}
	return &IdleTimer{timeout: timeout, lastActivity: now(), now: now}
}

// Touch records activity.
func (t *IdleTimer) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastActivity = t.now()
}

// Timeout returns the configured timeout.
func (t *IdleTimer) Timeout() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.timeout
}

// SetTimeout changes the timeout; the config watcher calls this on reload.
func (t *IdleTimer) SetTimeout(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = d
}

// Expired reports whether the timeout elapsed since the last activity.
func (t *IdleTimer) Expired() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.timeout <= 0 {
		return false
	}
	return t.now().Sub(t.lastActivity) > t.timeout
}

// Remaining returns the time left before the timer expires, or zero when
// it is disabled or expired.
func (t *IdleTimer) Remaining() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.timeout <= 0 {
		return 0
	}
	left := t.timeout - t.now().Sub(t.lastActivity)
	if left < 0 {
		return 0
	}
	return left
}
