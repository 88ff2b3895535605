// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders stored command history as JSON or Markdown.
//
// # Usage
//
//	exp, err := export.ForFormat("markdown", nil)
//	if err != nil {
//	    return err
//	}
//	data, err := exp.Export(entries, total)
package export
