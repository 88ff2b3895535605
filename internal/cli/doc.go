// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the smartcli command tree and the interactive shell.
//
// The root command wires config, logging, history storage, the device
// bridge and the router into a session and runs it against the terminal.
// Subcommands manage history and unlock credentials without starting the
// shell.
//
// # Key Types
//
//   - App: the long-lived components of one process
//   - IO: process streams, swappable in tests
//   - LinerReader / ScanReader: terminal and piped input
//   - Styles: lipgloss styles for the status bar
//
// # Usage
//
//	if err := cli.Execute(); err != nil {
//		os.Exit(1)
//	}
package cli
