package clock

import (
	"testing"
	"time"
)

func TestSystem_Now(t *testing.T) {
	before := time.Now()
	got := System().Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("System().Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestManual(t *testing.T) {
	start := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	clk := NewManual(start)

	if !clk.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", clk.Now(), start)
	}

	clk.Advance(time.Minute)
	if !clk.Now().Equal(start.Add(time.Minute)) {
		t.Errorf("after Advance: Now() = %v, want %v", clk.Now(), start.Add(time.Minute))
	}

	other := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	clk.Set(other)
	if !clk.Now().Equal(other) {
		t.Errorf("after Set: Now() = %v, want %v", clk.Now(), other)
	}
}
