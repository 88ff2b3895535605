// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring of config, storage, device bridge and router.

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/smartcli/internal/auth"
	"github.com/jeranaias/smartcli/internal/bridge"
	"github.com/jeranaias/smartcli/internal/config"
	"github.com/jeranaias/smartcli/internal/router"
	"github.com/jeranaias/smartcli/internal/session"
	"github.com/jeranaias/smartcli/internal/storage"
)

// App holds the long-lived components of one launcher process.
type App struct {
	Config     *config.Config
	ConfigPath string
	Log        zerolog.Logger

	// Store is nil when history is disabled.
	Store *storage.Store

	Contacts   *bridge.ContactBook
	Device     *bridge.Android
	Dispatcher *router.Dispatcher
}

// NewApp builds the components described by cfg.
func NewApp(cfg *config.Config, configPath string, log zerolog.Logger) (*App, error) {
	app := &App{
		Config:     cfg,
		ConfigPath: configPath,
		Log:        log,
		Contacts:   bridge.NewContactBook(contactsFromConfig(cfg.Contacts)),
	}

	if cfg.History.Enabled {
		dbPath, err := cfg.HistoryDBPath()
		if err != nil {
			return nil, err
		}
		store, err := storage.Open(dbPath, storage.Options{
			MaxEntries: cfg.History.MaxEntries,
			Logger:     log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		app.Store = store
	}

	app.Device = bridge.NewAndroid(app.Contacts, bridge.Options{
		Timeout:          time.Duration(cfg.Bridge.TimeoutSeconds) * time.Second,
		Connected:        cfg.Bridge.ForceAndroid,
		IntentsPerSecond: cfg.Bridge.IntentsPerSecond,
		Logger:           log,
	})

	opts := router.Options{
		Device: app.Device,
		Apps:   cfg.Apps,
		Logger: log,
	}
	// A nil *storage.Store must not become a non-nil interface.
	if app.Store != nil {
		opts.History = app.Store
		opts.Aliases = app.Store
	}
	app.Dispatcher = router.New(opts)

	return app, nil
}

// Close releases the history database.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Authenticator returns the unlock challenge, or nil when authentication
// is disabled by config or by the caller.
func (a *App) Authenticator(disabled bool) (session.Authenticator, error) {
	if disabled || a.Config.Auth.Method == string(auth.MethodNone) {
		return nil, nil
	}

	persist := ""
	if a.ConfigPath != "" {
		persist = filepath.Join(filepath.Dir(a.ConfigPath), "lockout.json")
	}

	authn, err := auth.New(auth.Options{
		Method:          a.Config.Auth.Method,
		PINHash:         a.Config.Auth.PINHash,
		TOTPSecret:      a.Config.Auth.TOTPSecret,
		MaxAttempts:     a.Config.Auth.MaxAttempts,
		LockoutDuration: time.Duration(a.Config.Auth.LockoutMinutes) * time.Minute,
		PersistPath:     persist,
		Logger:          a.Log,
	})
	if err != nil {
		return nil, err
	}
	return authn, nil
}

// ApplyConfig pushes the reloadable parts of cfg into the running app.
func (a *App) ApplyConfig(cfg *config.Config, s *session.Session) {
	a.Contacts.Replace(contactsFromConfig(cfg.Contacts))
	if s != nil {
		s.Idle().SetTimeout(time.Duration(cfg.Session.IdleTimeoutMinutes) * time.Minute)
	}
	a.Log.Info().Int("contacts", len(cfg.Contacts)).Msg("configuration reloaded")
}

// RecentCommands returns up to limit stored commands, oldest first.
func (a *App) RecentCommands(ctx context.Context, limit int) []string {
	if a.Store == nil {
		return nil
	}
	entries, _, err := a.Store.Recent(ctx, limit)
	if err != nil {
		a.Log.Warn().Err(err).Msg("failed to load history")
		return nil
	}
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].Command)
	}
	return out
}

// AliasNames lists defined alias names for completion.
func (a *App) AliasNames(ctx context.Context) []string {
	if a.Store == nil {
		return nil
	}
	aliases, err := a.Store.Aliases(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, len(aliases))
	for i, al := range aliases {
		names[i] = al.Name
	}
	return names
}

func contactsFromConfig(entries []config.Contact) []bridge.Contact {
	out := make([]bridge.Contact, len(entries))
	for i, c := range entries {
		out[i] = bridge.Contact{Name: c.Name, Number: c.Number}
	}
	return out
}
