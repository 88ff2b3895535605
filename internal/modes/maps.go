// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modes

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/smartcli/internal/bridge"
)

// MapsSystem searches places and starts navigation.
type MapsSystem struct {
	dev   bridge.Device
	saved []string
}

// NewMapsSystem returns a maps system backed by dev.
func NewMapsSystem(dev bridge.Device) *MapsSystem {
	return &MapsSystem{dev: dev}
}

func (s *MapsSystem) Mode() Mode { return Maps }

func (s *MapsSystem) Banner() string { return banner(Maps, "Maps") }

func (s *MapsSystem) Vocabulary() []string {
	return []string{"search", "nav", "route", "eta", "traffic", "save", "saved", "help"}
}

func (s *MapsSystem) Help() string {
	return strings.Join([]string{
		"🗺️  MAPS COMMANDS:",
		"  search <query>    - Find locations",
		"  <query>           - Quick search",
		"  nav <destination> - Start navigation",
		"  route <dest>      - Show route",
		"  eta               - Show ETA",
		"  traffic           - Traffic conditions",
		"  save <place>      - Save a place",
		"  saved             - Saved places",
		"  exit              - Back to home",
	}, "\n")
}

func (s *MapsSystem) Process(ctx context.Context, name string, args []string) string {
	switch name {
	case "map":
		if len(args) == 0 {
			return s.Help()
		}
		return s.Process(ctx, args[0], args[1:])
	case "help":
		return s.Help()
	case "search":
		if len(args) == 0 {
			return s.Help()
		}
		return s.search(joined(args))
	case "nav":
		if len(args) == 0 {
			return s.Help()
		}
		dest := joined(args)
		if res := s.dev.Navigate(ctx, dest); !res.OK {
			return failure("Navigation failed", res)
		}
		return "🚗 Navigating to: " + dest
	case "route":
		if len(args) == 0 {
			return s.Help()
		}
		return fmt.Sprintf("🛣️  Route to %s: 8.5 km, 15 min", joined(args))
	case "eta":
		return "⏱️  ETA: 15 minutes"
	case "traffic":
		return "🚦 Traffic: Moderate"
	case "save":
		if len(args) == 0 {
			return s.Help()
		}
		place := joined(args)
		s.saved = append(s.saved, place)
		return "📍 Saved: " + place
	case "saved":
		return s.listSaved()
	}
	// Anything else is a quick search.
	return s.search(joined(append([]string{name}, args...)))
}

func (s *MapsSystem) search(query string) string {
	lines := []string{"🗺️  SEARCH: " + query, ""}
	for i, p := range s.dev.SearchPlaces(query) {
		lines = append(lines, fmt.Sprintf("  [%d] %s - %s (%s)", i+1, p.Name, p.Distance, p.Address))
	}
	return strings.Join(lines, "\n")
}

func (s *MapsSystem) listSaved() string {
	if len(s.saved) == 0 {
		return "📍 No saved places"
	}
	lines := []string{"📍 SAVED PLACES:"}
	for i, p := range s.saved {
		lines = append(lines, fmt.Sprintf("  [%d] %s", i+1, p))
	}
	return strings.Join(lines, "\n")
}
