// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/smartcli/internal/modes"
)

// Signal is a control request carried alongside handler output.
type Signal int

const (
	SignalNone Signal = iota
	SignalExit
	SignalLock
	SignalAuth
	SignalClear
	SignalExitApp
)

// Sentinel strings reserved for control signals.
const (
	SentinelExit    = "EXIT"
	SentinelLock    = "LOCK"
	SentinelAuth    = "AUTH"
	SentinelClear   = "CLEAR_SCREEN"
	SentinelExitApp = "EXIT_APP"
	modeSuffix      = "_MODE"
)

var sentinels = map[Signal]string{
	SignalExit:    SentinelExit,
	SignalLock:    SentinelLock,
	SignalAuth:    SentinelAuth,
	SignalClear:   SentinelClear,
	SignalExitApp: SentinelExitApp,
}

// String returns the sentinel word for s, or "" for SignalNone.
func (s Signal) String() string {
	return sentinels[s]
}

// ModeSentinel returns the <X>_MODE word for m.
func ModeSentinel(m modes.Mode) string {
	return strings.ToUpper(string(m)) + modeSuffix
}

// ParseSentinel interprets text as a control word. A mode sentinel yields
// SignalNone and the target mode.
func ParseSentinel(text string) (Signal, modes.Mode, bool) {
	for sig, word := range sentinels {
		if text == word {
			return sig, "", true
		}
	}
	if strings.HasSuffix(text, modeSuffix) {
		if m, ok := modes.Parse(strings.TrimSuffix(text, modeSuffix)); ok {
			return SignalNone, m, true
		}
	}
	return SignalNone, "", false
}

// IsReserved reports whether text is a control word. Any string ending
// in _MODE is reserved, known mode or not.
func IsReserved(text string) bool {
	text = strings.TrimSpace(text)
	if _, _, ok := ParseSentinel(text); ok {
		return true
	}
	return len(text) > len(modeSuffix) && strings.HasSuffix(text, modeSuffix)
}
