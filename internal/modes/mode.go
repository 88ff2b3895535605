// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/smartcli/internal/bridge"
)

// =============================================================================
// MODE
// =============================================================================

// Mode identifies the active conversational context.
type Mode string

const (
	Home     Mode = "home"
	Call     Mode = "call"
	SMS      Mode = "sms"
	Mail     Mode = "mail"
	WhatsApp Mode = "whatsapp"
	Maps     Mode = "maps"
	Contacts Mode = "contacts"
)

// All lists every mode in display order.
var All = []Mode{Home, Call, SMS, Mail, WhatsApp, Maps, Contacts}

// Parse returns the mode named by s, ignoring case and surrounding space.
func Parse(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Icon returns the glyph shown next to the mode name.
func (m Mode) Icon() string {
	switch m {
	case Call:
		return "📞"
	case SMS:
		return "💬"
	case Mail:
		return "📧"
	case WhatsApp:
		return "💚"
	case Maps:
		return "🗺️"
	case Contacts:
		return "👥"
	default:
		return "🏠"
	}
}

func (m Mode) String() string { return string(m) }

// =============================================================================
// SYSTEM
// =============================================================================

// System interprets commands while its mode is active.
type System interface {
	// Mode returns the mode this system owns.
	Mode() Mode

	// Banner is shown when the mode is entered without arguments.
	Banner() string

	// Help lists the mode's sub-commands.
	Help() string

	// Process handles one command and returns display text.
	Process(ctx context.Context, name string, args []string) string
}

// Invoke calls sys.Process, converting a panic into a failure line.
func Invoke(ctx context.Context, sys System, name string, args []string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("❌ %s failed: %v", sys.Mode(), r)
		}
	}()
	return sys.Process(ctx, name, args)
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps modes to their systems and mode-switch words to modes.
type Registry struct {
	systems  map[Mode]System
	switches map[string]Mode
}

// NewRegistry builds every mode system against dev.
func NewRegistry(dev bridge.Device) *Registry {
	r := &Registry{
		systems:  make(map[Mode]System),
		switches: make(map[string]Mode),
	}
	r.register(NewCallSystem(dev), "call")
	r.register(NewSMSSystem(dev), "sms")
	r.register(NewMailSystem(dev), "mail")
	r.register(NewWhatsAppSystem(dev), "wh", "whatsapp")
	r.register(NewMapsSystem(dev), "map")
	r.register(NewContactsSystem(dev), "contact")
	return r
}

func (r *Registry) register(sys System, words ...string) {
	r.systems[sys.Mode()] = sys
	for _, w := range words {
		r.switches[w] = sys.Mode()
	}
}

// System returns the system owning m. Home has none.
func (r *Registry) System(m Mode) (System, bool) {
	sys, ok := r.systems[m]
	return sys, ok
}

// SwitchTarget returns the mode entered by word.
func (r *Registry) SwitchTarget(word string) (Mode, bool) {
	m, ok := r.switches[word]
	return m, ok
}

// SwitchWords returns the mode-switch words, sorted.
func (r *Registry) SwitchWords() []string {
	words := make([]string, 0, len(r.switches))
	for w := range r.switches {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Vocabulary returns the sub-commands understood in m, for completion.
func (r *Registry) Vocabulary(m Mode) []string {
	sys, ok := r.systems[m]
	if !ok {
		return nil
	}
	if v, ok := sys.(interface{ Vocabulary() []string }); ok {
		return v.Vocabulary()
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// banner renders the standard mode-entry line.
func banner(m Mode, title string) string {
	return fmt.Sprintf("%s %s mode. Type 'help' for commands.", m.Icon(), title)
}

// failure renders a failed device result.
func failure(action string, res bridge.Result) string {
	return fmt.Sprintf("❌ %s: %s", action, res.Reason)
}

func contactNotFound(query string) string {
	return "❌ Contact not found: " + query
}

// joined returns args as one space-separated string.
func joined(args []string) string {
	return strings.Join(args, " ")
}
