// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/smartcli/internal/bridge"
	"github.com/jeranaias/smartcli/internal/util"
)

// ContactsSystem manages the contact book.
type ContactsSystem struct {
	dev bridge.Device
}

// NewContactsSystem returns a contacts system backed by dev.
func NewContactsSystem(dev bridge.Device) *ContactsSystem {
	return &ContactsSystem{dev: dev}
}

func (s *ContactsSystem) Mode() Mode { return Contacts }

func (s *ContactsSystem) Banner() string { return banner(Contacts, "Contacts") }

func (s *ContactsSystem) Vocabulary() []string {
	return []string{"list", "add", "delete", "search", "help"}
}

func (s *ContactsSystem) Help() string {
	return strings.Join([]string{
		"👥 CONTACTS COMMANDS:",
		"  list              - Show all contacts",
		"  add <name> <num>  - Add contact",
		"  delete <name>     - Delete contact",
		"  search <name>     - Find contact",
		"  <name>            - Quick search",
		"  exit              - Back to home",
	}, "\n")
}

func (s *ContactsSystem) Process(ctx context.Context, name string, args []string) string {
	book := s.dev.Contacts()

	switch name {
	case "contact":
		if len(args) == 0 {
			return s.Help()
		}
		return s.Process(ctx, args[0], args[1:])
	case "help":
		return s.Help()
	case "list":
		return s.list()
	case "add":
		if len(args) < 2 {
			return s.Help()
		}
		number := joined(args[1:])
		if err := book.Add(args[0], number); err != nil {
			if errors.Is(err, bridge.ErrContactExists) {
				return "❌ Contact already exists: " + args[0]
			}
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("✅ Contact added: %s - %s", args[0], number)
	case "delete":
		if len(args) == 0 {
			return s.Help()
		}
		c, ok := book.Remove(joined(args))
		if !ok {
			return contactNotFound(joined(args))
		}
		return "🗑️  Deleted contact " + c.Name
	case "search":
		if len(args) == 0 {
			return s.Help()
		}
		return s.search(joined(args))
	}
	return s.search(joined(append([]string{name}, args...)))
}

func (s *ContactsSystem) list() string {
	contacts := s.dev.Contacts().All()
	if len(contacts) == 0 {
		return "👥 No contacts"
	}
	lines := []string{"👥 CONTACTS:", ""}
	for i, c := range contacts {
		lines = append(lines, fmt.Sprintf("  [%d] %s - %s", i+1, util.PadRight(c.Name, 12), c.Number))
	}
	return strings.Join(lines, "\n")
}

func (s *ContactsSystem) search(query string) string {
	c, ok := s.dev.Contacts().Resolve(query)
	if !ok {
		return contactNotFound(query)
	}
	return fmt.Sprintf("🔍 Found: %s - %s", c.Name, c.Number)
}
