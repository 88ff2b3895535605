// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.toml")

	require.NoError(t, AtomicWriteFile(path, []byte("theme = \"dark\"\n"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "theme = \"dark\"\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")

	require.NoError(t, AtomicWriteFile(path, []byte("first version, longer"), 0600))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

// =============================================================================
// TEXT TESTS
// =============================================================================

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Mom", 6, "Mom   "},
		{"Office", 6, "Office"},
		{"Conference", 4, "Conference"},
		{"", 3, "   "},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, PadRight(tc.in, tc.width), "PadRight(%q, %d)", tc.in, tc.width)
	}
}

func TestPadRight_WideRunes(t *testing.T) {
	// Each CJK ideograph takes two cells.
	got := PadRight("日本", 6)
	assert.Equal(t, 6, Width(got))
	assert.Equal(t, "日本  ", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Call me when free", Truncate("Call me when free", 40))
	assert.Equal(t, "Call me...", Truncate("Call me when free", 10))
	assert.Equal(t, "Ca", Truncate("Call", 2))
	assert.Equal(t, "", Truncate("Call", 0))
}
