// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bridge is the boundary between the launcher and the phone.
//
// Every outbound operation returns a Result instead of panicking or
// swallowing errors, so callers render failures as data. When the process
// is not running on Android (no ANDROID_ROOT) intents are skipped and the
// operation reports success, which keeps the shell usable on a desktop.
//
// # Key Types
//
//   - Device: the capability set the mode systems consume
//   - Android: Device implementation sending `am start` intents
//   - ContactBook: case-insensitive, substring-tolerant contact lookup
//   - Runner: executes device commands; swapped for a fake in tests
//
// # Timeouts
//
// Each command runs under its own deadline (5 seconds by default). A
// timeout is reported as a failed Result, never as a crash.
package bridge
