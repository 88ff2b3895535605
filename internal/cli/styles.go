// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Prompt and status bar styling.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/smartcli/internal/modes"
	"github.com/jeranaias/smartcli/internal/session"
)

// StatusTimeLayout renders the clock in the status bar.
const StatusTimeLayout = "02-Jan-2006;15:04"

// Styles holds the lipgloss styles for one renderer. Build it with
// NewStyles so the color profile matches the output stream.
type Styles struct {
	Bar     lipgloss.Style
	Mode    lipgloss.Style
	Clock   lipgloss.Style
	Running lipgloss.Style
	Locked  lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style

	// Width caps the status bar in terminal cells. Zero means no cap.
	Width int
}

// NewStyles builds styles rendered with the given color profile.
func NewStyles(profile termenv.Profile) Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	return Styles{
		Bar: r.NewStyle().
			Foreground(lipgloss.Color("252")). // Off-white
			Background(lipgloss.Color("236")), // Charcoal
		Mode: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Cyan
		Clock: r.NewStyle().
			Foreground(lipgloss.Color("245")), // Light gray
		Running: r.NewStyle().
			Foreground(lipgloss.Color("42")), // Green
		Locked: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Error: r.NewStyle().
			Foreground(lipgloss.Color("196")),
		Dim: r.NewStyle().
			Foreground(lipgloss.Color("242")), // Dim gray
	}
}

// StatusLine renders "<icon> <MODE> | <dd-Mon-YYYY;HH:MM> | <state>".
// On a narrow terminal the idle countdown goes first, then the bar is cut
// at Width.
func (s Styles) StatusLine(st session.Status) string {
	state := s.Running.Render(st.State.String())
	if st.State != session.StateRunning {
		state = s.Locked.Render(st.State.String())
	}

	parts := []string{
		s.Mode.Render(fmt.Sprintf("%s %s", st.Mode.Icon(), strings.ToUpper(st.Mode.String()))),
		s.Clock.Render(st.Now.Format(StatusTimeLayout)),
		state,
	}
	line := strings.Join(parts, " | ")
	if st.IdleLeft > 0 {
		withIdle := line + " | " + s.Dim.Render("idle "+session.FormatDuration(st.IdleLeft))
		if s.Width <= 0 || lipgloss.Width(withIdle) <= s.Width {
			line = withIdle
		}
	}

	bar := s.Bar
	if s.Width > 0 {
		bar = bar.MaxWidth(s.Width)
	}
	return bar.Render(line)
}

// PromptFunc returns a prompt renderer that prefixes prompt with the mode
// name outside home.
//
// liner measures the prompt to place the cursor and cannot handle escape
// sequences, so the prompt itself is never colored.
func PromptFunc(prompt string) func(session.Status) string {
	return func(st session.Status) string {
		if st.Mode == modes.Home {
			return prompt
		}
		return st.Mode.String() + " " + prompt
	}
}
