package repo

import (
	"testing"
	"time"
)

func TestEventCanBet(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		status   string
		startsAt time.Time
		want     bool
	}{
		{"upcoming in the future", EventUpcoming, now.Add(time.Hour), true},
		{"upcoming at kickoff", EventUpcoming, now, false},
		{"upcoming started", EventUpcoming, now.Add(-time.Minute), false},
		{"live", EventLive, now.Add(time.Hour), false},
		{"completed", EventCompleted, now.Add(time.Hour), false},
		{"cancelled", EventCancelled, now.Add(time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Event{Status: tc.status, StartsAt: tc.startsAt}
			if got := e.CanBet(now); got != tc.want {
				t.Errorf("CanBet = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEventHasStarted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e := Event{StartsAt: now}
	if !e.HasStarted(now) {
		t.Error("event starting exactly now should count as started")
	}
	e.StartsAt = now.Add(time.Second)
	if e.HasStarted(now) {
		t.Error("future event should not count as started")
	}
}
