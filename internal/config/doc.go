// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for smartcli.
//
// Configuration is TOML, with built-in defaults, environment variable
// overrides and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SMARTCLI_*)
//   - ~/.smartcli/config.toml (or the path given with --config)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// Watch the file and push contact edits into a running shell:
//
//	w, err := config.NewWatcher(path, logger, func(c *config.Config) {
//	    applyContacts(c.Contacts)
//	})
//	defer w.Close()
package config
