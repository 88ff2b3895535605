// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/smartcli/internal/modes"
)

// ErrInterrupt is returned by a LineReader when the user pressed Ctrl+C.
var ErrInterrupt = errors.New("interrupted")

// =============================================================================
// STATE
// =============================================================================

// State is the lock state of a session.
type State int

const (
	StateRunning State = iota
	StateLocked
	StateTerminated
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateLocked:
		return "locked"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is a snapshot used to render the status bar.
type Status struct {
	State     State
	Mode      modes.Mode
	Now       time.Time
	SessionID string
	IdleLeft  time.Duration
}

// FormatDuration formats a duration as "M:SS", or "H:MM:SS" past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
