// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/smartcli/internal/bridge"
	"github.com/jeranaias/smartcli/internal/util"
)

// SMSSystem sends and lists text messages.
type SMSSystem struct {
	dev bridge.Device
}

// NewSMSSystem returns an SMS system backed by dev.
func NewSMSSystem(dev bridge.Device) *SMSSystem {
	return &SMSSystem{dev: dev}
}

func (s *SMSSystem) Mode() Mode { return SMS }

func (s *SMSSystem) Banner() string { return banner(SMS, "SMS") }

func (s *SMSSystem) Vocabulary() []string {
	return []string{"send", "list", "read", "delete", "thread", "help"}
}

func (s *SMSSystem) Help() string {
	return strings.Join([]string{
		"💬 SMS COMMANDS:",
		"  send <name> <msg> - Send SMS",
		"  <name> <msg>      - Quick send",
		"  list              - Show messages",
		"  read <id>         - Read message",
		"  delete <id>       - Delete message",
		"  thread <name>     - Conversation",
		"  exit              - Back to home",
	}, "\n")
}

func (s *SMSSystem) Process(ctx context.Context, name string, args []string) string {
	switch name {
	case "sms":
		if len(args) == 0 {
			return s.Help()
		}
		return s.Process(ctx, args[0], args[1:])
	case "send":
		if len(args) < 2 {
			return s.Help()
		}
		return s.send(ctx, args[0], joined(args[1:]))
	case "list":
		return s.list()
	case "read":
		if len(args) == 0 {
			return s.Help()
		}
		return s.read(args[0])
	case "delete":
		if len(args) == 0 {
			return s.Help()
		}
		return "🗑️  Deleting message " + args[0]
	case "thread":
		if len(args) == 0 {
			return s.Help()
		}
		return s.thread(joined(args))
	}

	if c, ok := s.dev.Contacts().Resolve(name); ok {
		if len(args) == 0 {
			return s.thread(c.Name)
		}
		return s.deliver(ctx, c, joined(args))
	}
	return s.Help()
}

func (s *SMSSystem) send(ctx context.Context, query, body string) string {
	c, ok := s.dev.Contacts().Resolve(query)
	if !ok {
		return contactNotFound(query)
	}
	return s.deliver(ctx, c, body)
}

func (s *SMSSystem) deliver(ctx context.Context, c bridge.Contact, body string) string {
	if res := s.dev.SendSMS(ctx, c.Number, body); !res.OK {
		return failure("SMS failed", res)
	}
	return fmt.Sprintf("✉️  SMS to %s: %s", c.Name, body)
}

func (s *SMSSystem) list() string {
	lines := []string{"💬 RECENT MESSAGES:"}
	for _, m := range s.dev.Messages() {
		lines = append(lines, fmt.Sprintf("  %d. %s - %s [%s]", m.ID, m.Sender, util.Truncate(m.Body, 24), m.Time))
	}
	lines = append(lines, "", "💡 Commands: read <id>, send <name> <msg>, delete <id>")
	return strings.Join(lines, "\n")
}

func (s *SMSSystem) read(id string) string {
	n, err := strconv.Atoi(id)
	if err != nil {
		return "❌ Invalid message id: " + id
	}
	for _, m := range s.dev.Messages() {
		if m.ID == n {
			return fmt.Sprintf("📩 Message %d from %s [%s]:\n%s", m.ID, m.Sender, m.Time, m.Body)
		}
	}
	return "❌ Message not found: " + id
}

func (s *SMSSystem) thread(query string) string {
	name := query
	if c, ok := s.dev.Contacts().Resolve(query); ok {
		name = c.Name
	}
	return "💬 Thread with " + name
}
