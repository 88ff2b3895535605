// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// INPUT
// =============================================================================

// Input is a tokenized command line.
type Input struct {
	// Name is the first token, lowercased. Empty for blank input.
	Name string

	// Args are the remaining tokens with their case preserved.
	Args []string

	// Raw is the trimmed original line.
	Raw string
}

// Empty reports whether the line held no tokens.
func (in Input) Empty() bool { return in.Name == "" }

// RawArgs returns the arguments re-joined with single spaces.
func (in Input) RawArgs() string { return strings.Join(in.Args, " ") }

// =============================================================================
// TOKENIZER
// =============================================================================

// Tokenize splits line on runs of whitespace. There is no quoting: callers
// that need a multi-word argument re-join the trailing arguments.
func Tokenize(line string) Input {
	line = norm.NFC.String(strings.TrimSpace(line))
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Input{Raw: line}
	}

	in := Input{
		Name: cases.Lower(language.Und).String(fields[0]),
		Raw:  line,
	}
	if len(fields) > 1 {
		in.Args = fields[1:]
	}
	return in
}

// FirstWord returns the first token of line and the untouched remainder.
func FirstWord(line string) (word, rest string) {
	line = strings.TrimLeft(line, " \t")
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx:]
}
