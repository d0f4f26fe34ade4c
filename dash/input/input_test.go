package input

import (
	"testing"
	"time"
)

func TestEdgeSequence(t *testing.T) {
	levels := []bool{true, true, false, true}
	want := []bool{true, false, false, true}

	var e Edge
	for i, level := range levels {
		if got := e.Update(level); got != want[i] {
			t.Fatalf("step %d: Update(%v) = %v, want %v", i, level, got, want[i])
		}
		if e.Pressed() != want[i] {
			t.Fatalf("step %d: Pressed() = %v, want %v", i, e.Pressed(), want[i])
		}
		if e.Level() != level {
			t.Fatalf("step %d: Level() = %v, want %v", i, e.Level(), level)
		}
	}
}

func TestHoldLongPressFiresOnce(t *testing.T) {
	var h Hold
	h.Reset(false)

	ms := time.Millisecond
	steps := []struct {
		level bool
		at    time.Duration
		want  HoldEvent
	}{
		{true, 0, HoldNone},
		{true, 400 * ms, HoldNone},
		{true, 1000 * ms, HoldFired},
		{true, 1200 * ms, HoldNone},
		{true, 3000 * ms, HoldNone},
		{false, 3100 * ms, HoldNone},
	}
	for i, s := range steps {
		if got := h.Update(s.level, s.at); got != s.want {
			t.Fatalf("step %d: Update(%v, %v) = %v, want %v", i, s.level, s.at, got, s.want)
		}
	}
	if h.Pending() {
		t.Fatal("Pending() after release")
	}
}

func TestHoldShortPressTaps(t *testing.T) {
	var h Hold
	h.Reset(false)

	if got := h.Update(true, 10*time.Millisecond); got != HoldNone {
		t.Fatalf("press = %v", got)
	}
	if !h.Pending() {
		t.Fatal("Pending() = false during press")
	}
	if got := h.Remaining(510 * time.Millisecond); got != 500*time.Millisecond {
		t.Fatalf("Remaining() = %v, want 500ms", got)
	}
	if got := h.Update(false, 900*time.Millisecond); got != HoldTap {
		t.Fatalf("release = %v, want tap", got)
	}
	if got := h.Update(false, 950*time.Millisecond); got != HoldNone {
		t.Fatalf("idle = %v, want none", got)
	}
}

func TestHoldIgnoresButtonAlreadyDown(t *testing.T) {
	var h Hold
	h.Reset(true)

	if got := h.Update(true, 2*time.Second); got != HoldNone {
		t.Fatalf("held from before reset = %v, want none", got)
	}
	if got := h.Update(false, 3*time.Second); got != HoldNone {
		t.Fatalf("release of untracked press = %v, want none", got)
	}
	if got := h.Update(true, 4*time.Second); got != HoldNone {
		t.Fatalf("new press = %v", got)
	}
	if got := h.Update(false, 4*time.Second+100*time.Millisecond); got != HoldTap {
		t.Fatalf("new release = %v, want tap", got)
	}
}

func TestHoldCustomThreshold(t *testing.T) {
	h := Hold{Threshold: 200 * time.Millisecond}
	h.Update(true, 0)
	if got := h.Update(true, 250*time.Millisecond); got != HoldFired {
		t.Fatalf("Update = %v, want hold", got)
	}
}
