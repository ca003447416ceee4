package service

import (
	"testing"
	"time"
)

func TestClaimReady_Boundary(t *testing.T) {
	end := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second early", end.Add(-time.Second), false},
		{"exactly at countdown end", end, true},
		{"after countdown end", end.Add(time.Minute), true},
	}

	for _, tc := range cases {
		if got := claimReady(tc.now, end); got != tc.want {
			t.Fatalf("%s: claimReady = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestRemainingSeconds(t *testing.T) {
	end := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"ready", end, 0},
		{"past", end.Add(time.Hour), 0},
		{"whole seconds", end.Add(-90 * time.Second), 90},
		// partial seconds round up so clients never retry early
		{"partial second", end.Add(-1500 * time.Millisecond), 2},
		{"full cooldown", end.Add(-24 * time.Hour), 86400},
	}

	for _, tc := range cases {
		if got := remainingSeconds(tc.now, end); got != tc.want {
			t.Fatalf("%s: remainingSeconds = %d; want %d", tc.name, got, tc.want)
		}
	}
}

func TestNotReadyError_RemainingSeconds(t *testing.T) {
	e := &NotReadyError{Remaining: 1500 * time.Millisecond}
	if got := e.RemainingSeconds(); got != 2 {
		t.Fatalf("RemainingSeconds = %d; want 2", got)
	}

	e = &NotReadyError{Remaining: 3 * time.Second}
	if got := e.RemainingSeconds(); got != 3 {
		t.Fatalf("RemainingSeconds = %d; want 3", got)
	}
}
