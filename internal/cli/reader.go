// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// reader.go - Line input for the shell.
//
// LinerReader gives interactive terminals history navigation, tab
// completion and a masked PIN prompt. ScanReader serves pipes and tests.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/smartcli/internal/session"
)

// Reader is what the shell needs from an input source.
type Reader interface {
	ReadLine(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
	Close() error
}

// =============================================================================
// LINER
// =============================================================================

// LinerReader reads from a terminal through liner.
type LinerReader struct {
	line *liner.State
}

// NewLinerReader puts the terminal in raw mode. Close must be called to
// restore it. complete may be nil.
func NewLinerReader(complete func(string) []string) *LinerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	if complete != nil {
		line.SetCompleter(complete)
	}
	return &LinerReader{line: line}
}

// Seed loads past commands, oldest first, into the arrow-key history.
func (r *LinerReader) Seed(commands []string) {
	for _, c := range commands {
		r.line.AppendHistory(c)
	}
}

// ReadLine prompts for one line. Ctrl+C maps to session.ErrInterrupt.
func (r *LinerReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", mapLinerErr(err)
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// PasswordPrompt reads a secret without echo.
func (r *LinerReader) PasswordPrompt(prompt string) (string, error) {
	secret, err := r.line.PasswordPrompt(prompt)
	if err != nil {
		return "", mapLinerErr(err)
	}
	return secret, nil
}

// Close restores the terminal.
func (r *LinerReader) Close() error {
	return r.line.Close()
}

func mapLinerErr(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) {
		return session.ErrInterrupt
	}
	return err
}

// =============================================================================
// SCANNER
// =============================================================================

// ScanReader reads newline-delimited input from any reader. Prompts are
// written to out only when echo is set, so piped scripts produce clean
// output.
type ScanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	echo    bool
}

// NewScanReader wraps in. out may be nil.
func NewScanReader(in io.Reader, out io.Writer, echo bool) *ScanReader {
	if out == nil {
		out = io.Discard
	}
	return &ScanReader{scanner: bufio.NewScanner(in), out: out, echo: echo}
}

// ReadLine returns the next line, or io.EOF at end of input.
func (r *ScanReader) ReadLine(prompt string) (string, error) {
	if r.echo && prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(r.scanner.Text(), "\r"), nil
}

// PasswordPrompt reads the next line. Piped input has nothing to mask.
func (r *ScanReader) PasswordPrompt(prompt string) (string, error) {
	return r.ReadLine(prompt)
}

// Close is a no-op.
func (r *ScanReader) Close() error { return nil }
