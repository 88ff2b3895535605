// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/smartcli/internal/modes"
	"github.com/jeranaias/smartcli/internal/storage"
)

// DefaultHistoryLimit is how many entries `history` shows without an argument.
const DefaultHistoryLimit = 10

// DateLayout is the launcher's date format (dd-Mon-YYYY;HH:MM).
const DateLayout = "02-Jan-2006;15:04"

func signalHandler(sig Signal) Handler {
	return func(context.Context, *Env, []string) Output {
		return Output{Signal: sig}
	}
}

// =============================================================================
// SYSTEM
// =============================================================================

func handleHelp(_ context.Context, env *Env, args []string) Output {
	if len(args) == 0 {
		return Text(GenerateHelpText(env))
	}

	name := strings.ToLower(args[0])
	if cmd := env.Commands.Get(name); cmd != nil {
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		return Text(fmt.Sprintf("%s - %s", usage, cmd.Description))
	}
	if m, ok := env.Modes.SwitchTarget(name); ok {
		if sys, ok := env.Modes.System(m); ok {
			return Text(sys.Help())
		}
	}
	return Text("❌ No help for: " + args[0])
}

// GenerateHelpText renders the global command reference.
func GenerateHelpText(env *Env) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 50)

	sb.WriteString("🤖 SMARTCLI - COMMAND REFERENCE\n")
	sb.WriteString(rule + "\n")

	byCat := env.Commands.ByCategory()
	for _, cat := range categoryOrder {
		cmds := byCat[cat]
		if len(cmds) == 0 {
			continue
		}
		names := make([]string, len(cmds))
		for i, c := range cmds {
			names[i] = c.Name
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", categoryIcons[cat], strings.ToUpper(cat), strings.Join(names, ", "))
	}
	if env.Modes != nil {
		fmt.Fprintf(&sb, "💬 MODES: %s\n", strings.Join(env.Modes.SwitchWords(), ", "))
	}
	if len(env.Apps) > 0 {
		fmt.Fprintf(&sb, "📱 APPS: %s\n", strings.Join(env.Apps, ", "))
	}
	sb.WriteString(rule + "\n")
	sb.WriteString("💡 help <command> for details. exit leaves a mode.")
	return sb.String()
}

func handleHome(_ context.Context, env *Env, _ []string) Output {
	if env.Mode == modes.Home {
		return Text("🏠 Already home")
	}
	return Output{Next: modes.Home}
}

func handlePs(context.Context, *Env, []string) Output {
	return Text("🖥️  Processes: SmartCLI, System UI")
}

func handleApps(_ context.Context, env *Env, _ []string) Output {
	return Text("📱 Apps: " + strings.Join(env.Apps, ", "))
}

func handlePwd(context.Context, *Env, []string) Output {
	return Text("/home/mobile-user")
}

func handleWhoami(context.Context, *Env, []string) Output {
	return Text("mobile-user")
}

func handleDate(_ context.Context, env *Env, _ []string) Output {
	return Text(env.now().Format(DateLayout))
}

func handleTime(_ context.Context, env *Env, _ []string) Output {
	return Text(env.now().Format("🕐 15:04:05"))
}

func handleEcho(_ context.Context, _ *Env, args []string) Output {
	return Text(strings.Join(args, " "))
}

func handleLs(ctx context.Context, env *Env, args []string) Output {
	out, res := env.Device.Shell(ctx, "ls", args)
	if !res.OK {
		return Text("❌ ls failed: " + res.Reason)
	}
	return Text(strings.TrimRight(out, "\n"))
}

// =============================================================================
// HISTORY AND ALIASES
// =============================================================================

func handleHistory(ctx context.Context, env *Env, args []string) Output {
	if env.History == nil {
		return Text("❌ History is disabled")
	}

	limit := DefaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return Text("❌ Usage: history [n]")
		}
		limit = n
	}

	entries, total, err := env.History.Recent(ctx, limit)
	if err != nil {
		return Text("❌ " + err.Error())
	}
	if total == 0 {
		return Text("📜 No commands in history")
	}
	return Text(FormatHistory(entries, total))
}

// FormatHistory renders entries as `[id] HH:MM:SS > command` lines
// followed by a count footer.
func FormatHistory(entries []storage.Entry, total int) string {
	lines := make([]string, 0, len(entries)+2)
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%d] %s > %s", e.ID, e.CreatedAt.Format("15:04:05"), e.Command))
	}
	lines = append(lines, "", fmt.Sprintf("Showing %d of %d commands", len(entries), total))
	return strings.Join(lines, "\n")
}

func handleAlias(ctx context.Context, env *Env, args []string) Output {
	if env.Aliases == nil {
		return Text("❌ Aliases need history storage enabled")
	}

	switch len(args) {
	case 0:
		all, err := env.Aliases.Aliases(ctx)
		if err != nil {
			return Text("❌ " + err.Error())
		}
		if len(all) == 0 {
			return Text("🔗 No aliases defined")
		}
		lines := []string{"🔗 ALIASES:"}
		for _, a := range all {
			lines = append(lines, fmt.Sprintf("  %s = %s", a.Name, a.Command))
		}
		return Text(strings.Join(lines, "\n"))
	case 1:
		command, err := env.Aliases.LookupAlias(ctx, strings.ToLower(args[0]))
		if errors.Is(err, storage.ErrNotFound) {
			return Text("❌ No such alias: " + args[0])
		}
		if err != nil {
			return Text("❌ " + err.Error())
		}
		return Text(fmt.Sprintf("🔗 %s = %s", strings.ToLower(args[0]), command))
	}

	name := strings.ToLower(args[0])
	if env.IsBuiltin(name) {
		return Text("❌ Cannot alias built-in command: " + name)
	}
	command := strings.Join(args[1:], " ")
	if err := env.Aliases.SetAlias(ctx, name, command); err != nil {
		return Text("❌ " + err.Error())
	}
	return Text(fmt.Sprintf("🔗 Alias set: %s = %s", name, command))
}

func handleUnalias(ctx context.Context, env *Env, args []string) Output {
	if env.Aliases == nil {
		return Text("❌ Aliases need history storage enabled")
	}
	if len(args) == 0 {
		return Text("❌ Usage: unalias <name>")
	}

	name := strings.ToLower(args[0])
	err := env.Aliases.DeleteAlias(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return Text("❌ No such alias: " + name)
	}
	if err != nil {
		return Text("❌ " + err.Error())
	}
	return Text("🔗 Alias removed: " + name)
}
