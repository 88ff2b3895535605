// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the launcher packages.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - PadRight / Truncate: display-width aware column helpers used by the
//     list renderers (contact names, chat titles) where emoji occupy two
//     terminal cells
package util
