// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/smartcli/internal/storage"
	"github.com/jeranaias/smartcli/internal/util"
)

// ErrUnknownFormat is returned by ForFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders history entries in one format.
type Exporter interface {
	// Export renders entries (newest first, as storage returns them).
	// total is the number of rows stored, which may exceed len(entries).
	Export(entries []storage.Entry, total int) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string
}

// Options configures exporters.
type Options struct {
	// IncludeMetadata adds an export header (time, counts).
	IncludeMetadata bool

	// Now stamps the export. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{IncludeMetadata: true, Now: time.Now}
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

var formats = map[string]func(*Options) Exporter{
	"json":     func(o *Options) Exporter { return NewJSONExporter(o) },
	"markdown": func(o *Options) Exporter { return NewMarkdownExporter(o) },
	"md":       func(o *Options) Exporter { return NewMarkdownExporter(o) },
}

// Formats lists the accepted format names.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForFormat returns the exporter for name (case-insensitive).
func ForFormat(name string, opts *Options) (Exporter, error) {
	build, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return build(opts), nil
}

// WriteFile exports entries to path with 0600 permissions. A path without
// an extension gets the exporter's.
func WriteFile(path string, exp Exporter, entries []storage.Entry, total int) (string, error) {
	data, err := exp.Export(entries, total)
	if err != nil {
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += exp.FileExtension()
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// chronological returns a copy of entries ordered oldest first.
func chronological(entries []storage.Entry) []storage.Entry {
	out := make([]storage.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
