// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth unlocks the launcher.
//
// A PIN (stored as a bcrypt hash) or a TOTP code is required to leave the
// locked state. Consecutive failures are counted; once the attempt budget
// is spent the authenticator refuses all input until the lockout window
// has passed.
//
// # Defaults
//
//   - Method: pin, factory PIN 1234 when no hash is configured
//   - Attempt budget: 3
//   - Lockout window: 15 minutes
package auth
