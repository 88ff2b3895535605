// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"fmt"

	"github.com/jeranaias/smartcli/internal/commands"
	"github.com/jeranaias/smartcli/internal/modes"
)

// ============================================================================
// STEP TYPE
// ============================================================================

// Step records which rule of the transition table handled an input.
type Step int

const (
	// StepIgnored is a blank line.
	StepIgnored Step = iota
	// StepEscape is exit/home/lock typed inside a mode.
	StepEscape
	// StepMode forwarded the line to the active mode's system.
	StepMode
	// StepSwitch entered a mode.
	StepSwitch
	// StepGlobal ran a global command.
	StepGlobal
	// StepApp launched an application.
	StepApp
	// StepNotFound matched nothing.
	StepNotFound
	// StepPanic recovered from a handler panic.
	StepPanic
)

// String returns the name of the step.
func (s Step) String() string {
	switch s {
	case StepIgnored:
		return "ignored"
	case StepEscape:
		return "escape"
	case StepMode:
		return "mode"
	case StepSwitch:
		return "switch"
	case StepGlobal:
		return "global"
	case StepApp:
		return "app"
	case StepNotFound:
		return "not-found"
	case StepPanic:
		return "panic"
	default:
		return fmt.Sprintf("Step(%d)", s)
	}
}

// ============================================================================
// RESULT
// ============================================================================

// Result is the outcome of dispatching one line.
type Result struct {
	// Text is the display output. Never a reserved control word.
	Text string

	// Next is the mode after dispatch. Always a valid mode.
	Next modes.Mode

	// Switched is true when Next differs from the mode at dispatch time.
	Switched bool

	// Signal asks the session loop for a state transition.
	Signal commands.Signal

	// Step is the rule that handled the input.
	Step Step
}

// Sentinel returns the control word this result carries, or "".
func (r Result) Sentinel() string {
	if r.Signal != commands.SignalNone {
		return r.Signal.String()
	}
	if r.Switched {
		return commands.ModeSentinel(r.Next)
	}
	return ""
}
