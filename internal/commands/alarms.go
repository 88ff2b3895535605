// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Alarm is a daily alarm.
type Alarm struct {
	Time  string // HH:MM
	Label string
}

func (a Alarm) String() string {
	if a.Label == "" {
		return a.Time
	}
	return a.Time + " (" + a.Label + ")"
}

// Alarms is the in-memory alarm list.
type Alarms struct {
	mu     sync.Mutex
	alarms []Alarm
}

// NewAlarms returns the alarm list with the factory weekday alarm.
func NewAlarms() *Alarms {
	return &Alarms{alarms: []Alarm{{Time: "07:30", Label: "Weekdays"}}}
}

// normalizeTime parses HH:MM (or H:MM) and returns it zero-padded.
func normalizeTime(s string) (string, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}

// Set adds an alarm at hhmm. It reports false if one already exists.
func (a *Alarms) Set(hhmm string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, al := range a.alarms {
		if al.Time == hhmm {
			return false
		}
	}
	a.alarms = append(a.alarms, Alarm{Time: hhmm})
	sort.Slice(a.alarms, func(i, j int) bool { return a.alarms[i].Time < a.alarms[j].Time })
	return true
}

// Delete removes the alarm at hhmm.
func (a *Alarms) Delete(hhmm string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, al := range a.alarms {
		if al.Time == hhmm {
			a.alarms = append(a.alarms[:i], a.alarms[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a snapshot of the alarms, earliest first.
func (a *Alarms) List() []Alarm {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Alarm, len(a.alarms))
	copy(out, a.alarms)
	return out
}

const alarmHelp = `⏰ ALARMS COMMANDS:
  alarm list        - Show alarms
  alarm set <HH:MM> - Set alarm
  alarm delete <HH:MM> - Delete alarm`

func handleAlarm(_ context.Context, env *Env, args []string) Output {
	if env.Alarms == nil {
		env.Alarms = NewAlarms()
	}
	sub := "list"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	switch sub {
	case "list":
		list := env.Alarms.List()
		if len(list) == 0 {
			return Text("⏰ No alarms set")
		}
		parts := make([]string, len(list))
		for i, al := range list {
			parts[i] = al.String()
		}
		return Text("⏰ Alarms: " + strings.Join(parts, ", "))
	case "set", "delete":
		if len(args) < 2 {
			return Text(alarmHelp)
		}
		hhmm, ok := normalizeTime(args[1])
		if !ok {
			return Text("❌ Invalid time: " + args[1] + " (use HH:MM)")
		}
		if sub == "set" {
			if !env.Alarms.Set(hhmm) {
				return Text("⏰ Alarm already set: " + hhmm)
			}
			return Text("⏰ Alarm set: " + hhmm)
		}
		if !env.Alarms.Delete(hhmm) {
			return Text("❌ No alarm at " + hhmm)
		}
		return Text("🗑️  Alarm deleted: " + hhmm)
	}
	return Text(alarmHelp)
}
