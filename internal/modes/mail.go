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

// MailSystem lists and composes email.
type MailSystem struct {
	dev bridge.Device
}

// NewMailSystem returns a mail system backed by dev.
func NewMailSystem(dev bridge.Device) *MailSystem {
	return &MailSystem{dev: dev}
}

func (s *MailSystem) Mode() Mode { return Mail }

func (s *MailSystem) Banner() string { return banner(Mail, "Mail") }

func (s *MailSystem) Vocabulary() []string {
	return []string{"list", "read", "compose", "reply", "help"}
}

func (s *MailSystem) Help() string {
	return strings.Join([]string{
		"📧 EMAIL COMMANDS:",
		"  list              - Show emails",
		"  read <id>         - Read email",
		"  compose <to> <subject> - New email",
		"  reply <id>        - Reply to email",
		"  exit              - Back to home",
	}, "\n")
}

func (s *MailSystem) Process(ctx context.Context, name string, args []string) string {
	switch name {
	case "mail":
		if len(args) == 0 {
			return s.Help()
		}
		return s.Process(ctx, args[0], args[1:])
	case "list":
		return s.list()
	case "read":
		if len(args) == 0 {
			return s.Help()
		}
		return s.read(args[0])
	case "compose":
		if len(args) < 2 {
			return s.Help()
		}
		return s.compose(ctx, args[0], joined(args[1:]))
	case "reply":
		if len(args) == 0 {
			return s.Help()
		}
		return "📧 Replying to email " + args[0]
	}
	return s.Help()
}

func (s *MailSystem) list() string {
	lines := []string{"📧 RECENT EMAILS:", ""}
	for _, e := range s.dev.Emails() {
		status := "⚪"
		if !e.Read {
			status = "🔵"
		}
		lines = append(lines, fmt.Sprintf("  %d. %s %s - %s [%s]", e.ID, status, util.PadRight(e.Sender, 12), e.Subject, e.Time))
	}
	return strings.Join(lines, "\n")
}

func (s *MailSystem) read(id string) string {
	n, err := strconv.Atoi(id)
	if err != nil {
		return "❌ Invalid email id: " + id
	}
	for _, e := range s.dev.Emails() {
		if e.ID == n {
			return fmt.Sprintf("📧 Email %d from %s: %s\n%s", e.ID, e.Sender, e.Subject, e.Preview)
		}
	}
	return "❌ Email not found: " + id
}

func (s *MailSystem) compose(ctx context.Context, to, subject string) string {
	if res := s.dev.SendEmail(ctx, to, subject, ""); !res.OK {
		return failure("Email failed", res)
	}
	return fmt.Sprintf("📧 Email to %s: %s", to, subject)
}
