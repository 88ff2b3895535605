// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package modes holds the launcher's conversational contexts.
//
// A Mode names the active vocabulary. Every mode other than Home is owned
// by a System that interprets the commands typed while it is active. The
// set of modes is closed and the Registry is built once at startup.
//
// # Contract
//
// Process never panics past its boundary (Invoke recovers and renders a
// failure line) and answers unknown sub-commands with the mode's help.
// Device failures come back from the bridge as data and are rendered with
// the failure glyph:
//
//	reg := modes.NewRegistry(device)
//	sys, _ := reg.System(modes.Call)
//	fmt.Println(modes.Invoke(ctx, sys, "call", []string{"mom"}))
//	// 📞 Calling Mom...
package modes
