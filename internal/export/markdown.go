// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/smartcli/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders history as a Markdown table.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export renders entries oldest first.
func (e *MarkdownExporter) Export(entries []storage.Entry, total int) ([]byte, error) {
	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("exported: %s\n", e.options.now().Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("commands: %d\n", len(entries)))
		sb.WriteString(fmt.Sprintf("total: %d\n", total))
		sb.WriteString("generator: smartcli\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# Command History\n\n")
	if len(entries) == 0 {
		sb.WriteString("*No commands recorded.*\n")
		return []byte(sb.String()), nil
	}

	sb.WriteString("| # | Time | Mode | Command |\n")
	sb.WriteString("|---|------|------|---------|\n")
	for _, en := range chronological(entries) {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
			en.ID,
			en.CreatedAt.Format("2006-01-02 15:04:05"),
			en.Mode,
			escapeCell(en.Command)))
	}
	sb.WriteString(fmt.Sprintf("\nShowing %d of %d commands\n", len(entries), total))

	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// escapeCell keeps a command from breaking the table or its formatting.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
