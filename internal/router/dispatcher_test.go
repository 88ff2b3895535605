// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/smartcli/internal/bridge"
	"github.com/jeranaias/smartcli/internal/commands"
	"github.com/jeranaias/smartcli/internal/modes"
	"github.com/jeranaias/smartcli/internal/storage"
)

type nopRunner struct{ err error }

func (n nopRunner) Run(context.Context, string, ...string) ([]byte, error) { return nil, n.err }

func newDispatcher(t *testing.T, runErr error) *Dispatcher {
	t.Helper()
	book := bridge.NewContactBook([]bridge.Contact{
		{Name: "Mom", Number: "+1234567890"},
		{Name: "Dad", Number: "+1234567891"},
	})
	dev := bridge.NewAndroid(book, bridge.Options{Runner: nopRunner{err: runErr}, Connected: true, Logger: zerolog.Nop()})
	return New(Options{Device: dev, Logger: zerolog.Nop()})
}

func dispatch(d *Dispatcher, mode modes.Mode, line string) Result {
	return d.DispatchLine(context.Background(), mode, line)
}

// ============================================================================
// TRANSITION TABLE
// ============================================================================

func TestDispatch_EmptyInputIsNoOp(t *testing.T) {
	d := newDispatcher(t, nil)
	for _, mode := range modes.All {
		for _, line := range []string{"", "   ", "\t"} {
			res := dispatch(d, mode, line)
			assert.Empty(t, res.Text)
			assert.Equal(t, mode, res.Next)
			assert.False(t, res.Switched)
			assert.Equal(t, StepIgnored, res.Step)
		}
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	d := newDispatcher(t, nil)
	for _, line := range []string{"frobnicate", "xyz 1 2", "Telnet host"} {
		res := dispatch(d, modes.Home, line)
		assert.Equal(t, "❌ Command not found: "+line, res.Text)
		assert.Equal(t, modes.Home, res.Next)
		assert.Equal(t, StepNotFound, res.Step)
	}
}

func TestDispatch_SwitchWithoutArgsShowsBanner(t *testing.T) {
	d := newDispatcher(t, nil)
	sys, _ := d.Modes().System(modes.SMS)

	res := dispatch(d, modes.Home, "sms")
	assert.Equal(t, sys.Banner(), res.Text)
	assert.Equal(t, "💬 SMS mode. Type 'help' for commands.", res.Text)
	assert.Equal(t, modes.SMS, res.Next)
	assert.True(t, res.Switched)
	assert.Equal(t, "SMS_MODE", res.Sentinel())
}

func TestDispatch_SwitchWordsMapToModes(t *testing.T) {
	d := newDispatcher(t, nil)
	tests := map[string]modes.Mode{
		"call":    modes.Call,
		"sms":     modes.SMS,
		"mail":    modes.Mail,
		"wh":      modes.WhatsApp,
		"map":     modes.Maps,
		"contact": modes.Contacts,
	}
	for word, want := range tests {
		assert.Equal(t, want, dispatch(d, modes.Home, word).Next, word)
	}
}

func TestDispatch_CallMomFromHome(t *testing.T) {
	d := newDispatcher(t, nil)

	res := dispatch(d, modes.Home, "call mom")
	assert.Equal(t, "📞 Calling Mom...", res.Text)
	assert.Equal(t, modes.Call, res.Next)
	assert.Equal(t, StepSwitch, res.Step)
}

func TestDispatch_OneStepEqualsTwoSteps(t *testing.T) {
	args := map[string]string{
		"call":     "mom",
		"sms":      "mom hello",
		"mail":     "read 1",
		"wh":       "dad hi",
		"whatsapp": "mom",
		"map":      "cafe",
		"contact":  "mom",
	}

	for _, word := range newDispatcher(t, nil).Modes().SwitchWords() {
		t.Run(word, func(t *testing.T) {
			arg, ok := args[word]
			require.True(t, ok, "no sample arguments for switch word %q", word)

			oneStep := dispatch(newDispatcher(t, nil), modes.Home, word+" "+arg)

			d := newDispatcher(t, nil)
			enter := dispatch(d, modes.Home, word)
			require.True(t, enter.Switched)
			twoStep := dispatch(d, enter.Next, arg)

			assert.Equal(t, oneStep.Text, twoStep.Text)
			assert.Equal(t, oneStep.Next, twoStep.Next)

			sys, _ := d.Modes().System(enter.Next)
			assert.NotEqual(t, sys.Help(), twoStep.Text, "arguments should do something")
		})
	}
}

func TestDispatch_OneStepSamples(t *testing.T) {
	tests := map[string]string{
		"sms mom hello": "✉️  SMS to Mom: hello",
		"contact mom":   "🔍 Found: Mom - +1234567890",
		"call dad":      "📞 Calling Dad...",
	}
	for line, want := range tests {
		assert.Equal(t, want, dispatch(newDispatcher(t, nil), modes.Home, line).Text, line)
	}
	assert.Contains(t, dispatch(newDispatcher(t, nil), modes.Home, "map cafe").Text, "🗺️  SEARCH: cafe")
}

func TestDispatch_ModeShadowsSwitchWords(t *testing.T) {
	d := newDispatcher(t, nil)

	res := dispatch(d, modes.Call, "call")
	sys, _ := d.Modes().System(modes.Call)
	assert.Equal(t, sys.Help(), res.Text, "bare call in call mode reaches the call system")
	assert.NotEqual(t, sys.Banner(), res.Text)
	assert.Equal(t, StepMode, res.Step)

	res = dispatch(d, modes.Call, "sms mom")
	assert.Equal(t, modes.Call, res.Next, "switch words do not leave an active mode")
	assert.Equal(t, StepMode, res.Step)

	res = dispatch(d, modes.SMS, "wifi off")
	assert.Equal(t, modes.SMS, res.Next)
	assert.Equal(t, StepMode, res.Step, "globals are shadowed too")
}

func TestDispatch_EscapeWordsInsideMode(t *testing.T) {
	d := newDispatcher(t, nil)

	res := dispatch(d, modes.SMS, "exit")
	assert.Equal(t, commands.SignalExit, res.Signal)
	assert.Equal(t, modes.SMS, res.Next, "session loop applies the exit")
	assert.Equal(t, StepEscape, res.Step)

	res = dispatch(d, modes.Maps, "home")
	assert.Equal(t, modes.Home, res.Next)
	assert.True(t, res.Switched)
	assert.Equal(t, "HOME_MODE", res.Sentinel())

	res = dispatch(d, modes.Mail, "lock")
	assert.Equal(t, commands.SignalLock, res.Signal)
	assert.Equal(t, "LOCK", res.Sentinel())
}

func TestDispatch_GlobalCommands(t *testing.T) {
	d := newDispatcher(t, nil)

	tests := []struct {
		line   string
		signal commands.Signal
		text   string
	}{
		{"exit", commands.SignalExit, ""},
		{"lock", commands.SignalLock, ""},
		{"auth", commands.SignalAuth, ""},
		{"clear", commands.SignalClear, ""},
		{"quit", commands.SignalExitApp, ""},
		{"whoami", commands.SignalNone, "mobile-user"},
		{"WIFI off", commands.SignalNone, "📶 WiFi: OFF"},
	}
	for _, tt := range tests {
		res := dispatch(d, modes.Home, tt.line)
		assert.Equal(t, tt.signal, res.Signal, tt.line)
		assert.Equal(t, tt.text, res.Text, tt.line)
		assert.Equal(t, modes.Home, res.Next, tt.line)
		assert.Equal(t, StepGlobal, res.Step, tt.line)
	}
}

func TestDispatch_Apps(t *testing.T) {
	d := newDispatcher(t, nil)

	res := dispatch(d, modes.Home, "firefox")
	assert.Equal(t, "🚀 Launching firefox...", res.Text)
	assert.Equal(t, StepApp, res.Step)

	res = dispatch(d, modes.Home, "camera")
	assert.Equal(t, StepGlobal, res.Step, "camera the hardware toggle wins over camera the app")

	failing := newDispatcher(t, errors.New("activity not found"))
	res = dispatch(failing, modes.Home, "settings")
	assert.True(t, strings.HasPrefix(res.Text, "❌ Failed to launch settings:"), res.Text)
}

func TestDispatch_ReservedOutputIsRewritten(t *testing.T) {
	d := newDispatcher(t, nil)

	for _, word := range []string{"EXIT", "LOCK", "AUTH", "CLEAR_SCREEN", "EXIT_APP", "CALL_MODE", "FOO_MODE"} {
		res := dispatch(d, modes.Home, "echo "+word)
		assert.Equal(t, "❌ Reserved word: "+word, res.Text)
		assert.Equal(t, commands.SignalNone, res.Signal)
	}
	assert.Equal(t, "EXIT now", dispatch(d, modes.Home, "echo EXIT now").Text)
}

// ============================================================================
// ROBUSTNESS
// ============================================================================

type panickingHistory struct{}

func (panickingHistory) Recent(context.Context, int) ([]storage.Entry, int, error) {
	panic("database gone")
}

func TestDispatch_RecoversPanics(t *testing.T) {
	d := newDispatcher(t, nil)
	d.env.History = panickingHistory{}

	res := dispatch(d, modes.Home, "history")
	assert.Equal(t, "❌ Internal error: database gone", res.Text)
	assert.Equal(t, modes.Home, res.Next)
	assert.Equal(t, StepPanic, res.Step)
}

func TestDispatch_UnknownModeFallsBackHome(t *testing.T) {
	d := newDispatcher(t, nil)

	res := dispatch(d, modes.Mode("bogus"), "whoami")
	assert.Equal(t, "mobile-user", res.Text)
	assert.Equal(t, modes.Home, res.Next)
}

func TestDispatch_DeviceFailureInsideMode(t *testing.T) {
	d := newDispatcher(t, errors.New("dialer crashed"))

	res := dispatch(d, modes.Home, "call mom")
	assert.Equal(t, "❌ Call failed: dialer crashed", res.Text)
	assert.Equal(t, modes.Call, res.Next)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "switch", StepSwitch.String())
	assert.Equal(t, "not-found", StepNotFound.String())
	assert.Equal(t, "Step(42)", Step(42).String())
}
