package settlement

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		name      string
		winner    string
		selection string
		selector  string
		lineName  string
		want      bool
	}{
		{"selection wins", "home", "home", "", "", true},
		{"selection loses", "away", "home", "", "", false},
		{"selection beats selector", "home", "home", "away", "Palmeiras", true},
		{"selector wins", "away", "", "away", "Palmeiras", true},
		{"selector loses", "home", "", "away", "Palmeiras", false},
		{"selector draw", "draw", "", "draw", "Empate", true},
		{"selector beats name match", "home", "", "away", "Flamengo", false},
		{"name fallback home", "home", "", "", "Flamengo", true},
		{"name fallback away", "away", "", "", "Palmeiras", true},
		{"name fallback draw literal", "draw", "", "", "Draw", true},
		{"name fallback case insensitive", "home", "", "", "FLAMENGO", true},
		{"name fallback trims spaces", "home", "", "", "  Flamengo ", true},
		{"name fallback mismatch", "home", "", "", "Palmeiras", false},
		{"unresolvable line loses", "home", "", "", "Over 2.5", false},
		{"unresolvable on draw loses", "draw", "", "", "Over 2.5", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolve(tc.winner, tc.selection, tc.selector, tc.lineName, "Flamengo", "Palmeiras")
			if got != tc.want {
				t.Errorf("resolve(%q, %q, %q, %q) = %v, want %v",
					tc.winner, tc.selection, tc.selector, tc.lineName, got, tc.want)
			}
		})
	}
}

func TestValidWinner(t *testing.T) {
	for _, w := range []string{WinnerHome, WinnerAway, WinnerDraw} {
		if !validWinner(w) {
			t.Errorf("validWinner(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"", "HOME", "tie", "void"} {
		if validWinner(w) {
			t.Errorf("validWinner(%q) = true, want false", w)
		}
	}
}
