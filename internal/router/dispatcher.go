// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/smartcli/internal/bridge"
	"github.com/jeranaias/smartcli/internal/commands"
	"github.com/jeranaias/smartcli/internal/modes"
)

// DefaultApps is the launchable application list used when none is given.
var DefaultApps = []string{"firefox", "calculator", "maps", "contacts", "messages", "camera", "settings", "phone"}

// Options configures a Dispatcher.
type Options struct {
	Device  bridge.Device
	History commands.HistoryReader
	Aliases commands.AliasStore
	Apps    []string
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Dispatcher routes input lines. It is not safe for concurrent use; the
// session loop dispatches one line at a time.
type Dispatcher struct {
	modes    *modes.Registry
	commands *commands.Registry
	env      commands.Env
	log      zerolog.Logger
}

// New builds a Dispatcher and every mode system it routes to.
func New(opts Options) *Dispatcher {
	if opts.Apps == nil {
		opts.Apps = DefaultApps
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Dispatcher{
		modes:    modes.NewRegistry(opts.Device),
		commands: commands.NewRegistry(),
		log:      opts.Logger.With().Str("component", "router").Logger(),
	}
	d.env = commands.Env{
		Device:   opts.Device,
		Modes:    d.modes,
		Commands: d.commands,
		History:  opts.History,
		Aliases:  opts.Aliases,
		Apps:     opts.Apps,
		Alarms:   commands.NewAlarms(),
		Now:      opts.Now,
	}
	return d
}

// Modes returns the mode registry.
func (d *Dispatcher) Modes() *modes.Registry { return d.modes }

// Commands returns the global command registry.
func (d *Dispatcher) Commands() *commands.Registry { return d.commands }

// Apps returns the launchable applications.
func (d *Dispatcher) Apps() []string { return d.env.Apps }

// IsBuiltin reports whether word is a command, switch word or app.
func (d *Dispatcher) IsBuiltin(word string) bool {
	return d.env.IsBuiltin(word)
}

// DispatchLine tokenizes line and dispatches it.
func (d *Dispatcher) DispatchLine(ctx context.Context, mode modes.Mode, line string) Result {
	return d.Dispatch(ctx, mode, commands.Tokenize(line))
}

// Dispatch runs the transition table for one tokenized input.
func (d *Dispatcher) Dispatch(ctx context.Context, mode modes.Mode, in commands.Input) (res Result) {
	if _, ok := d.modes.System(mode); !ok && mode != modes.Home {
		d.log.Warn().Str("mode", string(mode)).Msg("unknown mode, falling back to home")
		mode = modes.Home
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("cmd", in.Name).Msg("handler panicked")
			res = Result{Text: fmt.Sprintf("❌ Internal error: %v", r), Next: mode, Step: StepPanic}
		}
		res.Switched = res.Next != mode
		d.log.Debug().
			Str("cmd", in.Name).
			Str("mode", string(mode)).
			Str("next", string(res.Next)).
			Stringer("step", res.Step).
			Str("signal", res.Sentinel()).
			Msg("dispatched")
	}()

	if in.Empty() {
		return Result{Next: mode, Step: StepIgnored}
	}

	// Escape words reach the global handlers from inside any mode.
	if mode != modes.Home && isEscape(in.Name) {
		res = d.global(ctx, mode, in)
		res.Step = StepEscape
		return res
	}

	if sys, ok := d.modes.System(mode); ok {
		return Result{
			Text: guard(modes.Invoke(ctx, sys, in.Name, in.Args)),
			Next: mode,
			Step: StepMode,
		}
	}

	if target, ok := d.modes.SwitchTarget(in.Name); ok {
		sys, _ := d.modes.System(target)
		text := sys.Banner()
		if len(in.Args) > 0 {
			text = guard(modes.Invoke(ctx, sys, in.Name, in.Args))
		}
		return Result{Text: text, Next: target, Step: StepSwitch}
	}

	if d.commands.Get(in.Name) != nil {
		return d.global(ctx, mode, in)
	}

	if d.env.IsApp(in.Name) {
		return Result{Text: d.launch(ctx, in.Name), Next: mode, Step: StepApp}
	}

	return Result{Text: "❌ Command not found: " + in.Raw, Next: mode, Step: StepNotFound}
}

func (d *Dispatcher) global(ctx context.Context, mode modes.Mode, in commands.Input) Result {
	cmd := d.commands.Get(in.Name)
	env := d.env
	env.Mode = mode

	out := cmd.Handler(ctx, &env, in.Args)

	next := mode
	if out.Next != "" {
		next = out.Next
	}
	return Result{Text: guard(out.Text), Next: next, Signal: out.Signal, Step: StepGlobal}
}

func (d *Dispatcher) launch(ctx context.Context, app string) string {
	if res := d.env.Device.LaunchApp(ctx, app); !res.OK {
		return fmt.Sprintf("❌ Failed to launch %s: %s", app, res.Reason)
	}
	return fmt.Sprintf("🚀 Launching %s...", app)
}

func isEscape(name string) bool {
	for _, w := range commands.EscapeWords {
		if name == w {
			return true
		}
	}
	return false
}

// guard keeps handler text from impersonating a control word.
func guard(text string) string {
	if commands.IsReserved(text) {
		return "❌ Reserved word: " + strings.TrimSpace(text)
	}
	return text
}
