// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/smartcli/internal/auth"
	"github.com/jeranaias/smartcli/internal/config"
	"github.com/jeranaias/smartcli/internal/modes"
	"github.com/jeranaias/smartcli/internal/session"
)

// =============================================================================
// HELPERS
// =============================================================================

// writeTestConfig writes a config that keeps every file inside dir.
func writeTestConfig(t *testing.T, dir, authMethod string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`
[auth]
method = %q

[history]
enabled = true
db_path = %q

[log]
level = "disabled"
file = %q
`, authMethod, filepath.Join(dir, "history.db"), filepath.Join(dir, "smartcli.log"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(IO{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// =============================================================================
// STYLES
// =============================================================================

func TestStatusLine_ASCII(t *testing.T) {
	styles := NewStyles(termenv.Ascii)
	now := time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)

	got := styles.StatusLine(session.Status{State: session.StateRunning, Mode: modes.SMS, Now: now})
	assert.Equal(t, modes.SMS.Icon()+" SMS | 07-Mar-2025;09:05 | running", got)

	got = styles.StatusLine(session.Status{State: session.StateLocked, Mode: modes.Home, Now: now, IdleLeft: 90 * time.Second})
	assert.Equal(t, modes.Home.Icon()+" HOME | 07-Mar-2025;09:05 | locked | idle 1:30", got)
}

func TestStatusLine_NarrowTerminal(t *testing.T) {
	styles := NewStyles(termenv.Ascii)
	now := time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)
	st := session.Status{State: session.StateLocked, Mode: modes.Home, Now: now, IdleLeft: 90 * time.Second}

	styles.Width = 40
	assert.Equal(t, modes.Home.Icon()+" HOME | 07-Mar-2025;09:05 | locked", styles.StatusLine(st),
		"idle countdown is dropped before anything is cut")

	styles.Width = 20
	got := styles.StatusLine(st)
	assert.LessOrEqual(t, lipgloss.Width(got), 20)
	assert.True(t, strings.HasPrefix(got, modes.Home.Icon()+" HOME"), got)

	styles.Width = 0
	assert.Contains(t, styles.StatusLine(st), "idle 1:30")
}

func TestPromptFunc(t *testing.T) {
	prompt := PromptFunc("$ ")
	assert.Equal(t, "$ ", prompt(session.Status{Mode: modes.Home}))
	assert.Equal(t, "sms $ ", prompt(session.Status{Mode: modes.SMS}))
	assert.Equal(t, "whatsapp $ ", prompt(session.Status{Mode: modes.WhatsApp}))
}

func TestColorsEnabled(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name string
		vars map[string]string
		tty  bool
		want bool
	}{
		{"tty", nil, true, true},
		{"pipe", nil, false, false},
		{"no color on tty", map[string]string{"NO_COLOR": "1"}, true, false},
		{"force color on pipe", map[string]string{"FORCE_COLOR": "1"}, false, true},
		{"no color beats force", map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, colorsEnabled(env(tt.vars), tt.tty))
		})
	}
}

// =============================================================================
// READERS
// =============================================================================

func TestScanReader(t *testing.T) {
	var out bytes.Buffer
	r := NewScanReader(strings.NewReader("one\r\ntwo\n\nthree"), &out, false)

	for _, want := range []string{"one", "two", "", "three"} {
		got, err := r.ReadLine("$ ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := r.ReadLine("$ ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, out.String(), "prompts must not be echoed")
	assert.NoError(t, r.Close())
}

func TestScanReader_Echo(t *testing.T) {
	var out bytes.Buffer
	r := NewScanReader(strings.NewReader("1234\n"), &out, true)

	got, err := r.PasswordPrompt("PIN: ")
	require.NoError(t, err)
	assert.Equal(t, "1234", got)
	assert.Equal(t, "PIN: ", out.String())
}

func TestMapLinerErr(t *testing.T) {
	assert.ErrorIs(t, mapLinerErr(liner.ErrPromptAborted), session.ErrInterrupt)
	assert.ErrorIs(t, mapLinerErr(io.EOF), io.EOF)

	other := errors.New("other")
	assert.Equal(t, other, mapLinerErr(other))
}

// =============================================================================
// APP
// =============================================================================

func TestNewApp_HistoryDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = false

	app, err := NewApp(cfg, "", zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Store)
	assert.Nil(t, app.RecentCommands(t.Context(), 10))
	assert.Nil(t, app.AliasNames(t.Context()))

	res := app.Dispatcher.DispatchLine(t.Context(), modes.Home, "history")
	assert.Equal(t, "❌ History is disabled", res.Text)
}

func TestApp_Authenticator(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = false
	app, err := NewApp(cfg, filepath.Join(t.TempDir(), "config.toml"), zerolog.Nop())
	require.NoError(t, err)

	authn, err := app.Authenticator(true)
	require.NoError(t, err)
	assert.Nil(t, authn, "--no-auth disables the challenge")

	authn, err = app.Authenticator(false)
	require.NoError(t, err)
	assert.NotNil(t, authn)

	cfg.Auth.Method = "none"
	authn, err = app.Authenticator(false)
	require.NoError(t, err)
	assert.Nil(t, authn)
}

func TestApp_ApplyConfigReplacesContacts(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = false
	app, err := NewApp(cfg, "", zerolog.Nop())
	require.NoError(t, err)

	updated := config.Default()
	updated.Contacts = []config.Contact{{Name: "Zoe", Number: "+15550000"}}
	updated.Session.IdleTimeoutMinutes = 7

	sess := session.New(session.Options{Dispatcher: app.Dispatcher})
	app.ApplyConfig(updated, sess)

	assert.Equal(t, 1, app.Contacts.Len())
	c, ok := app.Contacts.Resolve("zoe")
	require.True(t, ok)
	assert.Equal(t, "+15550000", c.Number)
	assert.Equal(t, 7*time.Minute, sess.Idle().Timeout())

	res := app.Dispatcher.DispatchLine(t.Context(), modes.Home, "call zoe")
	assert.Equal(t, "📞 Calling Zoe...", res.Text)
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestShell_PipedInput(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "none")

	out, err := runCLI(t, "echo hi\nsms\nsend mom yo\nexit\n", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "hi\n")
	assert.Contains(t, out, "SMS mode. Type 'help' for commands.")
	assert.Contains(t, out, "SMS to Mom: yo")

	out, err = runCLI(t, "", "--config", path, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "> echo hi")
	assert.Contains(t, out, "> send mom yo")
	assert.Contains(t, out, "Showing 4 of 4 commands")

	out, err = runCLI(t, "", "--config", path, "history", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "> exit")
	assert.Contains(t, out, "Showing 1 of 4 commands")
}

func TestShell_PINChallengeFromPipe(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "pin")

	// The factory PIN unlocks the session locked on start.
	out, err := runCLI(t, "1234\necho unlocked\n", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "🔒 SmartCLI locked")
	assert.Contains(t, out, "🔓 Unlocked")
	assert.Contains(t, out, "unlocked\n")
}

func TestShell_NoAuthFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "pin")

	out, err := runCLI(t, "echo straight in\n", "--config", path, "--no-auth")
	require.NoError(t, err)
	assert.NotContains(t, out, "🔒")
	assert.Contains(t, out, "straight in\n")
}

func TestHistoryCommand_ClearAndErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "none")

	_, err := runCLI(t, "echo a\necho b\n", "--config", path)
	require.NoError(t, err)

	out, err := runCLI(t, "", "--config", path, "history", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 commands")

	out, err = runCLI(t, "", "--config", path, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "📜 No commands in history")

	_, err = runCLI(t, "", "--config", path, "history", "zero")
	assert.Error(t, err)
}

func TestHistoryCommand_Export(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "none")

	_, err := runCLI(t, "echo a\ncall mom\n", "--config", path)
	require.NoError(t, err)

	out, err := runCLI(t, "", "--config", path, "history", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"command": "echo a"`)
	assert.Contains(t, out, `"command": "call mom"`)

	target := filepath.Join(dir, "hist")
	out, err = runCLI(t, "", "--config", path, "history", "--format", "markdown", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 commands to "+target+".md")
	data, err := os.ReadFile(target + ".md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "| call mom |")

	_, err = runCLI(t, "", "--config", path, "history", "--format", "html")
	assert.Error(t, err)
	_, err = runCLI(t, "", "--config", path, "history", "-o", target)
	assert.Error(t, err)
}

func TestPINSet(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "none")

	out, err := runCLI(t, "5678\n5678\n", "--config", path, "pin", "set")
	require.NoError(t, err)
	assert.Contains(t, out, "PIN updated")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pin", cfg.Auth.Method)
	require.NotEmpty(t, cfg.Auth.PINHash)

	authn, err := auth.New(auth.Options{Method: cfg.Auth.Method, PINHash: cfg.Auth.PINHash})
	require.NoError(t, err)
	assert.NoError(t, authn.Verify("5678"))
}

func TestPINSet_Mismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "none")

	_, err := runCLI(t, "5678\n8765\n", "--config", path, "pin", "set")
	assert.ErrorIs(t, err, ErrPINMismatch)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.PINHash)
}

func TestPINSet_Weak(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "none")

	_, err := runCLI(t, "12\n12\n", "--config", path, "pin", "set")
	assert.ErrorIs(t, err, auth.ErrWeakPIN)
}

func TestTOTPEnroll_BadCodeNotSaved(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir, "none")

	out, err := runCLI(t, "000000x\n", "--config", path, "totp", "enroll")
	assert.Error(t, err)
	assert.Contains(t, out, "Secret: ")
	assert.Contains(t, out, "otpauth://totp/")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Auth.Method)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "smartcli version "+Version)
}
