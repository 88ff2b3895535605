// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	"github.com/jeranaias/smartcli/internal/modes"
)

// EscapeWords are handled by the dispatcher in every mode.
var EscapeWords = []string{"exit", "home", "lock"}

// =============================================================================
// COMPLETER
// =============================================================================

// Completer handles tab completion for commands and arguments.
type Completer struct {
	registry *Registry
	modes    *modes.Registry

	// Callbacks for dynamic completion
	ModeFn     func() modes.Mode // Returns the active mode
	AppsFn     func() []string   // Returns launchable apps
	ContactsFn func() []string   // Returns contact names
	AliasesFn  func() []string   // Returns user alias names
}

// NewCompleter creates a completer over the global and mode registries.
func NewCompleter(registry *Registry, modeRegistry *modes.Registry) *Completer {
	return &Completer{registry: registry, modes: modeRegistry}
}

// Complete returns full-line candidates for line, in the form the line
// editor expects: the untouched head of the line plus each completion.
func (c *Completer) Complete(line string) []string {
	mode := modes.Home
	if c.ModeFn != nil {
		mode = c.ModeFn()
	}

	head, partial := splitPartial(line)
	words := strings.Fields(head)

	var candidates []string
	if len(words) == 0 {
		candidates = c.commandWords(mode)
	} else {
		candidates = c.argWords(mode, strings.ToLower(words[0]))
	}

	return withPrefix(head, filterPrefix(candidates, partial))
}

// splitPartial separates the token under the cursor from the rest.
func splitPartial(line string) (head, partial string) {
	idx := strings.LastIndexAny(line, " \t")
	if idx < 0 {
		return "", line
	}
	return line[:idx+1], line[idx+1:]
}

// =============================================================================
// CANDIDATES
// =============================================================================

func (c *Completer) commandWords(mode modes.Mode) []string {
	if mode != modes.Home {
		words := append([]string{}, c.modes.Vocabulary(mode)...)
		words = append(words, EscapeWords...)
		return append(words, c.contacts()...)
	}

	var words []string
	for _, cmd := range c.registry.All() {
		if !cmd.Hidden {
			words = append(words, cmd.Name)
		}
	}
	words = append(words, c.modes.SwitchWords()...)
	if c.AppsFn != nil {
		words = append(words, c.AppsFn()...)
	}
	if c.AliasesFn != nil {
		words = append(words, c.AliasesFn()...)
	}
	return words
}

func (c *Completer) argWords(mode modes.Mode, first string) []string {
	if mode != modes.Home {
		return c.contacts()
	}
	if target, ok := c.modes.SwitchTarget(first); ok {
		return append(append([]string{}, c.modes.Vocabulary(target)...), c.contacts()...)
	}
	if first == "help" {
		return append(c.registry.Names(), c.modes.SwitchWords()...)
	}
	if cmd := c.registry.Get(first); cmd != nil {
		return cmd.Values
	}
	return nil
}

func (c *Completer) contacts() []string {
	if c.ContactsFn == nil {
		return nil
	}
	names := c.ContactsFn()
	out := make([]string, 0, len(names))
	for _, n := range names {
		// Only single-word names can be completed as a token.
		if !strings.ContainsAny(n, " \t") {
			out = append(out, strings.ToLower(n))
		}
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

// filterPrefix keeps unique candidates starting with partial, sorted.
func filterPrefix(candidates []string, partial string) []string {
	partial = strings.ToLower(partial)
	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, cand := range candidates {
		if seen[cand] || !strings.HasPrefix(strings.ToLower(cand), partial) {
			continue
		}
		seen[cand] = true
		out = append(out, cand)
	}
	sort.Strings(out)
	return out
}

func withPrefix(head string, words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = head + w
	}
	return out
}
