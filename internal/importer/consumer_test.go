package importer

import (
	"testing"

	"github.com/rfontanella/playbet-platform/pkg/contracts/events"
)

func TestInferSelector(t *testing.T) {
	cases := []struct {
		name string
		line events.OddsUpsert
		want string
	}{
		{"feed selector wins", events.OddsUpsert{Name: "Palmeiras", Selector: "home"}, "home"},
		{"feed selector away", events.OddsUpsert{Name: "whatever", Selector: "away"}, "away"},
		{"feed selector draw", events.OddsUpsert{Name: "X", Selector: "draw"}, "draw"},
		{"invalid feed selector falls back to name", events.OddsUpsert{Name: "Flamengo", Selector: "1"}, "home"},
		{"home by name", events.OddsUpsert{Name: "Flamengo"}, "home"},
		{"away by name", events.OddsUpsert{Name: "Palmeiras"}, "away"},
		{"draw literal", events.OddsUpsert{Name: "Draw"}, "draw"},
		{"case insensitive", events.OddsUpsert{Name: "FLAMENGO"}, "home"},
		{"whitespace trimmed", events.OddsUpsert{Name: " Flamengo "}, "home"},
		{"non 1x2 line unmarked", events.OddsUpsert{Name: "Over 2.5"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inferSelector(tc.line, "Flamengo", "Palmeiras")
			if got != tc.want {
				t.Errorf("inferSelector(%q, selector=%q) = %q, want %q", tc.line.Name, tc.line.Selector, got, tc.want)
			}
		})
	}
}
