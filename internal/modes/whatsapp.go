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

// WhatsAppSystem sends WhatsApp messages and lists chats.
type WhatsAppSystem struct {
	dev bridge.Device
}

// NewWhatsAppSystem returns a WhatsApp system backed by dev.
func NewWhatsAppSystem(dev bridge.Device) *WhatsAppSystem {
	return &WhatsAppSystem{dev: dev}
}

func (s *WhatsAppSystem) Mode() Mode { return WhatsApp }

func (s *WhatsAppSystem) Banner() string { return banner(WhatsApp, "WhatsApp") }

func (s *WhatsAppSystem) Vocabulary() []string {
	return []string{"send", "list", "call", "help"}
}

func (s *WhatsAppSystem) Help() string {
	return strings.Join([]string{
		"💚 WHATSAPP COMMANDS:",
		"  send <name> <msg> - Send message",
		"  <name> [msg]      - Open chat or quick send",
		"  list              - Show chats",
		"  call <name>       - Voice/Video call",
		"  exit              - Back to home",
	}, "\n")
}

func (s *WhatsAppSystem) Process(ctx context.Context, name string, args []string) string {
	switch name {
	case "wh", "whatsapp":
		if len(args) == 0 {
			return s.Help()
		}
		return s.Process(ctx, args[0], args[1:])
	case "send":
		if len(args) < 2 {
			return s.Help()
		}
		c, ok := s.dev.Contacts().Resolve(args[0])
		if !ok {
			return contactNotFound(args[0])
		}
		return s.deliver(ctx, c, joined(args[1:]))
	case "list":
		return s.list()
	case "call":
		if len(args) == 0 {
			return s.Help()
		}
		c, ok := s.dev.Contacts().Resolve(joined(args))
		if !ok {
			return contactNotFound(joined(args))
		}
		return "📞 WhatsApp call to " + c.Name
	}

	if c, ok := s.dev.Contacts().Resolve(name); ok {
		if len(args) == 0 {
			return s.open(ctx, c)
		}
		return s.deliver(ctx, c, joined(args))
	}
	return s.Help()
}

func (s *WhatsAppSystem) open(ctx context.Context, c bridge.Contact) string {
	if res := s.dev.SendWhatsApp(ctx, c.Number, ""); !res.OK {
		return failure("WhatsApp failed", res)
	}
	return "💚 Opening chat with " + c.Name
}

func (s *WhatsAppSystem) deliver(ctx context.Context, c bridge.Contact, body string) string {
	if res := s.dev.SendWhatsApp(ctx, c.Number, body); !res.OK {
		return failure("WhatsApp failed", res)
	}
	return fmt.Sprintf("💚 WhatsApp to %s: %s", c.Name, body)
}

func (s *WhatsAppSystem) list() string {
	lines := []string{"💚 WHATSAPP CHATS:", ""}
	for _, c := range s.dev.Chats() {
		status := "⚪"
		if c.Unread > 0 {
			status = "🔵"
		}
		lines = append(lines, fmt.Sprintf("  %s - %s [%s] %s", util.PadRight(c.Name, 12), c.LastMessage, c.Time, status))
	}
	return strings.Join(lines, "\n")
}
