// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modes

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/smartcli/internal/bridge"
	"github.com/jeranaias/smartcli/internal/util"
)

// maxCallLog bounds the in-memory call log.
const maxCallLog = 10

// CallSystem places calls and tracks call state.
type CallSystem struct {
	dev    bridge.Device
	active *bridge.Contact
	held   bool
	muted  bool
	log    []bridge.Contact // newest first
}

// NewCallSystem returns a call system backed by dev.
func NewCallSystem(dev bridge.Device) *CallSystem {
	return &CallSystem{dev: dev}
}

func (s *CallSystem) Mode() Mode { return Call }

func (s *CallSystem) Banner() string { return banner(Call, "Call") }

func (s *CallSystem) Vocabulary() []string {
	return []string{"call", "ans", "rej", "end", "hold", "unhold", "mute", "unmute", "merge", "status", "history", "help"}
}

func (s *CallSystem) Help() string {
	return strings.Join([]string{
		"📞 CALL COMMANDS:",
		"  call <name>       - Make call",
		"  <name>            - Quick call",
		"  ans/rej           - Answer/reject",
		"  end               - End call",
		"  hold/unhold       - Call control",
		"  mute/unmute       - Audio control",
		"  merge             - Conference calls",
		"  status            - Current call",
		"  history           - Call history",
		"  exit              - Back to home",
	}, "\n")
}

func (s *CallSystem) Process(ctx context.Context, name string, args []string) string {
	switch name {
	case "call":
		if len(args) == 0 {
			return s.Help()
		}
		return s.Process(ctx, args[0], args[1:])
	case "help":
		return s.Help()
	case "ans":
		return "✅ Answering call"
	case "rej":
		return "❌ Rejecting call"
	case "end":
		s.active, s.held, s.muted = nil, false, false
		return "📞 Call ended"
	case "hold":
		s.held = true
		return "⏸️  Call on hold"
	case "unhold":
		s.held = false
		return "▶️  Call resumed"
	case "mute":
		s.muted = true
		return "🔇 Call muted"
	case "unmute":
		s.muted = false
		return "🔊 Call unmuted"
	case "merge":
		return "🔀 Calls merged"
	case "status":
		return s.status()
	case "history":
		return s.history()
	}
	// Anything else is a quick call.
	return s.dial(ctx, joined(append([]string{name}, args...)))
}

func (s *CallSystem) dial(ctx context.Context, query string) string {
	c, ok := s.dev.Contacts().Resolve(query)
	if !ok {
		return contactNotFound(query)
	}
	return s.place(ctx, c)
}

func (s *CallSystem) place(ctx context.Context, c bridge.Contact) string {
	if res := s.dev.Call(ctx, c.Number); !res.OK {
		return failure("Call failed", res)
	}
	s.active = &c
	s.log = append([]bridge.Contact{c}, s.log...)
	if len(s.log) > maxCallLog {
		s.log = s.log[:maxCallLog]
	}
	return fmt.Sprintf("📞 Calling %s...", c.Name)
}

func (s *CallSystem) status() string {
	if s.active == nil {
		return "📞 No active call"
	}
	var flags []string
	if s.held {
		flags = append(flags, "on hold")
	}
	if s.muted {
		flags = append(flags, "muted")
	}
	line := fmt.Sprintf("📞 On call with %s (%s)", s.active.Name, s.active.Number)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ", ") + "]"
	}
	return line
}

func (s *CallSystem) history() string {
	lines := []string{"📞 CALL HISTORY", ""}
	if len(s.log) == 0 {
		lines = append(lines, "  No calls yet")
	}
	for i, c := range s.log {
		lines = append(lines, fmt.Sprintf("  %d. %s %s", i+1, util.PadRight(c.Name, 12), c.Number))
	}
	return strings.Join(lines, "\n")
}

// Active returns the contact on the current call, if any.
func (s *CallSystem) Active() (bridge.Contact, bool) {
	if s.active == nil {
		return bridge.Contact{}, false
	}
	return *s.active, true
}
