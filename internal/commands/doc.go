// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the launcher's global command vocabulary.
//
// This package tokenizes input lines, holds the registry of global
// commands (help, exit, wifi, alarm, history, ...) and offers tab
// completion over commands, mode-switch words, apps and contacts.
//
// # Key Types
//
//   - Input: a tokenized line (lowercase name plus arguments)
//   - Registry: global command table
//   - Output: handler text plus an optional control Signal
//   - Completer: line completion for the interactive prompt
//
// # Sentinels
//
// The strings EXIT, LOCK, AUTH, CLEAR_SCREEN, EXIT_APP and any <X>_MODE
// are control words. Handlers express them as a Signal; they never appear
// as ordinary output.
//
// # Usage
//
//	in := commands.Tokenize("wifi off")
//	if cmd := registry.Get(in.Name); cmd != nil {
//	    out := cmd.Handler(ctx, env, in.Args)
//	}
package commands
