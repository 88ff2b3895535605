// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router dispatches tokenized input to the right handler.
//
// Dispatch is a transition table evaluated in priority order:
//
//  1. Escape words (exit, home, lock) run as global commands in any mode.
//  2. An active mode forwards everything else to its system.
//  3. A mode-switch word enters the mode, forwarding arguments if given
//     or printing the mode banner if not.
//  4. A global command runs against the current mode.
//  5. An application name is launched.
//  6. Anything else is reported as not found.
//
// Forwarding inside a mode always wins over mode switching, so typing
// `call` while in call mode reaches the call system.
package router
