// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/smartcli/internal/storage"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders history as an indented JSON document.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonDocument struct {
	ExportedAt *time.Time    `json:"exported_at,omitempty"`
	Total      int           `json:"total"`
	Commands   []jsonCommand `json:"commands"`
}

type jsonCommand struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Mode      string    `json:"mode"`
	Command   string    `json:"command"`
	Time      time.Time `json:"time"`
}

// Export renders entries oldest first.
func (e *JSONExporter) Export(entries []storage.Entry, total int) ([]byte, error) {
	doc := jsonDocument{Total: total, Commands: make([]jsonCommand, 0, len(entries))}
	if e.options.IncludeMetadata {
		now := e.options.now().UTC()
		doc.ExportedAt = &now
	}
	for _, en := range chronological(entries) {
		doc.Commands = append(doc.Commands, jsonCommand{
			ID:        en.ID,
			SessionID: en.SessionID,
			Mode:      en.Mode,
			Command:   en.Command,
			Time:      en.CreatedAt.UTC(),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
