// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"time"

	"github.com/jeranaias/smartcli/internal/bridge"
	"github.com/jeranaias/smartcli/internal/modes"
	"github.com/jeranaias/smartcli/internal/storage"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is a global command available from home.
type Command struct {
	// Name is the primary command name (e.g., "wifi")
	Name string

	// Aliases are alternative names (e.g., "quit" for "exit-app")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "wifi [on|off]")
	Usage string

	// Values lists the accepted first arguments, for completion
	Values []string

	// Handler executes the command
	Handler Handler

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// Handler executes a global command.
type Handler func(ctx context.Context, env *Env, args []string) Output

// Output is what a handler produces: display text, an optional control
// signal, and an optional mode to switch to.
type Output struct {
	Text   string
	Signal Signal
	Next   modes.Mode
}

// Text is shorthand for a plain text Output.
func Text(s string) Output { return Output{Text: s} }

// =============================================================================
// HANDLER ENVIRONMENT
// =============================================================================

// HistoryReader lists recorded commands.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]storage.Entry, int, error)
}

// AliasStore manages user aliases.
type AliasStore interface {
	SetAlias(ctx context.Context, name, command string) error
	LookupAlias(ctx context.Context, name string) (string, error)
	Aliases(ctx context.Context) ([]storage.Alias, error)
	DeleteAlias(ctx context.Context, name string) error
}

// Env is everything a handler may touch. History and Aliases may be nil
// when history is disabled.
type Env struct {
	Mode     modes.Mode
	Device   bridge.Device
	Modes    *modes.Registry
	Commands *Registry
	History  HistoryReader
	Aliases  AliasStore
	Apps     []string
	Alarms   *Alarms
	Now      func() time.Time
}

// IsApp reports whether name is a launchable application.
func (e *Env) IsApp(name string) bool {
	for _, a := range e.Apps {
		if a == name {
			return true
		}
	}
	return false
}

// IsBuiltin reports whether word already means something to the
// dispatcher, so it cannot be shadowed by an alias.
func (e *Env) IsBuiltin(word string) bool {
	if e.Commands != nil && e.Commands.Get(word) != nil {
		return true
	}
	if e.Modes != nil {
		if _, ok := e.Modes.SwitchTarget(word); ok {
			return true
		}
	}
	return e.IsApp(word)
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered global commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd)
	}
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns every name and alias.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands)+len(r.aliases))
	for _, cmd := range r.order {
		names = append(names, cmd.Name)
		names = append(names, cmd.Aliases...)
	}
	return names
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.order {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = CategorySystem
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

// Help categories in display order.
const (
	CategoryAuth      = "Authentication"
	CategorySystem    = "System"
	CategoryHardware  = "Hardware"
	CategoryUtilities = "Utilities"
)

var categoryOrder = []string{CategoryAuth, CategorySystem, CategoryHardware, CategoryUtilities}

var categoryIcons = map[string]string{
	CategoryAuth:      "🔐",
	CategorySystem:    "🏠",
	CategoryHardware:  "⚙️ ",
	CategoryUtilities: "👥",
}

func (r *Registry) registerBuiltins() {
	// Authentication
	r.Register(&Command{Name: "auth", Description: "Re-authenticate", Category: CategoryAuth, Handler: signalHandler(SignalAuth)})
	r.Register(&Command{Name: "lock", Description: "Lock the launcher", Category: CategoryAuth, Handler: signalHandler(SignalLock)})

	// System
	r.Register(&Command{
		Name:        "help",
		Aliases:     []string{"?"},
		Description: "Show available commands",
		Usage:       "help [command]",
		Category:    CategorySystem,
		Handler:     handleHelp,
	})
	r.Register(&Command{Name: "clear", Description: "Clear the screen", Category: CategorySystem, Handler: signalHandler(SignalClear)})
	r.Register(&Command{Name: "exit", Description: "Leave the current mode, or lock from home", Category: CategorySystem, Handler: signalHandler(SignalExit)})
	r.Register(&Command{Name: "home", Description: "Return to home", Category: CategorySystem, Handler: handleHome})
	r.Register(&Command{Name: "quit", Description: "Close the launcher", Category: CategorySystem, Hidden: true, Handler: signalHandler(SignalExitApp)})
	r.Register(&Command{Name: "ps", Description: "List processes", Category: CategorySystem, Handler: handlePs})
	r.Register(&Command{Name: "apps", Description: "List installed apps", Category: CategorySystem, Handler: handleApps})
	r.Register(&Command{Name: "pwd", Description: "Print working directory", Category: CategorySystem, Handler: handlePwd})
	r.Register(&Command{Name: "whoami", Description: "Print user name", Category: CategorySystem, Handler: handleWhoami})
	r.Register(&Command{Name: "date", Description: "Print date and time", Category: CategorySystem, Handler: handleDate})
	r.Register(&Command{Name: "echo", Description: "Print arguments", Usage: "echo <text>", Category: CategorySystem, Handler: handleEcho})
	r.Register(&Command{Name: "ls", Description: "List files", Usage: "ls [args]", Category: CategorySystem, Handler: handleLs})

	// Hardware
	for _, hw := range hardwareControls {
		r.Register(&Command{
			Name:        string(hw.hw),
			Description: hw.label + " control",
			Usage:       string(hw.hw) + " [on|off]",
			Values:      []string{"on", "off", "toggle"},
			Category:    CategoryHardware,
			Handler:     hardwareHandler(hw),
		})
	}

	// Utilities
	r.Register(&Command{
		Name:        "alarm",
		Description: "Manage alarms",
		Usage:       "alarm [list|set <HH:MM>|delete <HH:MM>]",
		Values:      []string{"list", "set", "delete"},
		Category:    CategoryUtilities,
		Handler:     handleAlarm,
	})
	r.Register(&Command{Name: "time", Description: "Print the time", Category: CategoryUtilities, Handler: handleTime})
	r.Register(&Command{
		Name:        "history",
		Description: "Show recent commands",
		Usage:       "history [n]",
		Category:    CategoryUtilities,
		Handler:     handleHistory,
	})
	r.Register(&Command{
		Name:        "alias",
		Description: "Define or list aliases",
		Usage:       "alias [name [command...]]",
		Category:    CategoryUtilities,
		Handler:     handleAlias,
	})
	r.Register(&Command{Name: "unalias", Description: "Remove an alias", Usage: "unalias <name>", Category: CategoryUtilities, Handler: handleUnalias})
}
