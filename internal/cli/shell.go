// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// shell.go - The interactive launcher shell (the root command).

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/smartcli/internal/commands"
	"github.com/jeranaias/smartcli/internal/config"
	"github.com/jeranaias/smartcli/internal/modes"
	"github.com/jeranaias/smartcli/internal/session"
)

// historySeed is how many stored commands are loaded into the line
// editor's arrow-key history.
const historySeed = 200

func runShell(ctx context.Context, flags *rootFlags, streams IO) error {
	if ctx == nil {
		ctx = context.Background()
	}

	app, cleanup, err := setup(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	authn, err := app.Authenticator(flags.noAuth)
	if err != nil {
		return err
	}

	// The session is created after the reader, but the completer needs
	// its mode; sess is filled in before the first prompt.
	var sess *session.Session
	reader := newReader(ctx, app, streams, func() *session.Session { return sess })
	defer reader.Close()

	opts := session.Options{
		Dispatcher:  app.Dispatcher,
		Reader:      reader,
		Prompter:    reader,
		Auth:        authn,
		Out:         streams.Out,
		Prompt:      PromptFunc(app.Config.Session.Prompt),
		IdleTimeout: time.Duration(app.Config.Session.IdleTimeoutMinutes) * time.Minute,
		LockOnStart: app.Config.Auth.LockOnStart && authn != nil,
		Logger:      app.Log,
	}
	if app.Store != nil {
		opts.History = app.Store
		opts.Aliases = app.Store
	}
	if streams.Interactive && app.Config.Session.StatusBar {
		styles := NewStyles(ColorProfile())
		styles.Width = TerminalWidth()
		opts.StatusLine = styles.StatusLine
	}
	if app.Store != nil {
		id, err := app.Store.StartSession(ctx)
		if err != nil {
			return err
		}
		opts.SessionID = id
		defer func() {
			if err := app.Store.EndSession(context.Background(), id); err != nil {
				app.Log.Warn().Err(err).Msg("failed to close session record")
			}
		}()
	}
	sess = session.New(opts)

	if w := watchConfig(app, sess); w != nil {
		defer w.Close()
	}

	app.Log.Info().Str("session_id", sess.ID()).Bool("interactive", streams.Interactive).Msg("shell started")
	if streams.Interactive {
		fmt.Fprintln(streams.Out, "🤖 SmartCLI ready. Type 'help' for commands.")
	}
	return sess.Run(ctx)
}

// newReader picks liner for terminals and a scanner for everything else.
func newReader(ctx context.Context, app *App, streams IO, current func() *session.Session) Reader {
	if !streams.Interactive {
		return NewScanReader(streams.In, streams.Out, false)
	}

	completer := commands.NewCompleter(app.Dispatcher.Commands(), app.Dispatcher.Modes())
	completer.ModeFn = func() modes.Mode {
		if s := current(); s != nil {
			return s.Mode()
		}
		return modes.Home
	}
	completer.AppsFn = app.Dispatcher.Apps
	completer.ContactsFn = func() []string {
		all := app.Contacts.All()
		names := make([]string, len(all))
		for i, c := range all {
			names[i] = c.Name
		}
		return names
	}
	completer.AliasesFn = func() []string { return app.AliasNames(ctx) }

	r := NewLinerReader(completer.Complete)
	r.Seed(app.RecentCommands(ctx, historySeed))
	return r
}

// watchConfig reloads contacts and the idle timeout when the config file
// changes. A watcher that cannot start only costs live reload.
func watchConfig(app *App, sess *session.Session) *config.Watcher {
	if app.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(app.ConfigPath); err != nil {
		return nil
	}
	w, err := config.NewWatcher(app.ConfigPath, app.Log, func(cfg *config.Config) {
		app.ApplyConfig(cfg, sess)
	})
	if err != nil {
		app.Log.Warn().Err(err).Msg("config watcher disabled")
		return nil
	}
	return w
}
