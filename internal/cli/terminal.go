// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY and color detection for the launcher shell.
//
// Interactive terminals get liner line editing and colors. Pipes get a
// plain line scanner and the ASCII profile, as does any run with NO_COLOR
// set (https://no-color.org/).

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DefaultTerminalWidth is the fallback width when detection fails.
const DefaultTerminalWidth = 80

// TerminalWidth returns the width of stdout, or DefaultTerminalWidth.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR PROFILE
// =============================================================================

// colorsEnabled decides whether to style output. NO_COLOR wins over
// FORCE_COLOR, which wins over TTY detection.
func colorsEnabled(getenv func(string) string, stdoutTTY bool) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("FORCE_COLOR") != "" {
		return true
	}
	return stdoutTTY
}

// ColorProfile returns the termenv profile for this process.
func ColorProfile() termenv.Profile {
	if !colorsEnabled(os.Getenv, IsStdoutTTY()) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
