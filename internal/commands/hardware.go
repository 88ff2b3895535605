// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/smartcli/internal/bridge"
)

type hardwareControl struct {
	hw    bridge.Hardware
	label string
	icon  string
}

var hardwareControls = []hardwareControl{
	{bridge.WiFi, "WiFi", "📶"},
	{bridge.Bluetooth, "Bluetooth", "🔵"},
	{bridge.Flashlight, "Flashlight", "💡"},
	{bridge.Hotspot, "Hotspot", "📡"},
	{bridge.Location, "Location", "📍"},
	{bridge.Mic, "Microphone", "🎤"},
	{bridge.Camera, "Camera", "📷"},
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// hardwareHandler builds the on|off|toggle handler for one switch.
func hardwareHandler(c hardwareControl) Handler {
	return func(ctx context.Context, env *Env, args []string) Output {
		var want *bool
		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "on":
				v := true
				want = &v
			case "off":
				v := false
				want = &v
			case "toggle":
			default:
				return Text(fmt.Sprintf("❌ Usage: %s [on|off]", c.hw))
			}
		}

		state, res := env.Device.Toggle(ctx, c.hw, want)
		if !res.OK {
			return Text(fmt.Sprintf("❌ %s failed: %s", c.label, res.Reason))
		}
		if want == nil {
			return Text(fmt.Sprintf("%s %s toggled (%s)", c.icon, c.label, onOff(state)))
		}
		return Text(fmt.Sprintf("%s %s: %s", c.icon, c.label, onOff(state)))
	}
}
