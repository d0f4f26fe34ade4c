package input

import "time"

// HoldEvent is the outcome of one Hold update.
type HoldEvent uint8

const (
	HoldNone HoldEvent = iota
	// HoldFired is reported once when the button has been held for the
	// threshold.
	HoldFired
	// HoldTap is reported on release of a press shorter than the threshold.
	HoldTap
)

func (e HoldEvent) String() string {
	switch e {
	case HoldFired:
		return "hold"
	case HoldTap:
		return "tap"
	default:
		return "none"
	}
}

// DefaultHoldThreshold is the press duration that counts as a hold.
const DefaultHoldThreshold = time.Second

// Hold distinguishes a tap from a press-and-hold on one button.
//
// Tracking starts on a false->true transition, so a button that is already
// down when tracking is reset produces nothing until it is pressed again.
type Hold struct {
	Threshold time.Duration

	last    bool
	active  bool
	fired   bool
	started time.Duration
}

// Reset forgets any press in progress and takes level as the current state.
func (h *Hold) Reset(level bool) {
	h.last = level
	h.active = false
	h.fired = false
	h.started = 0
}

func (h *Hold) threshold() time.Duration {
	if h.Threshold <= 0 {
		return DefaultHoldThreshold
	}
	return h.Threshold
}

// Update feeds the current level sampled at now.
func (h *Hold) Update(level bool, now time.Duration) HoldEvent {
	rising := level && !h.last
	h.last = level

	if level {
		if rising {
			h.active = true
			h.fired = false
			h.started = now
		}
		if h.active && !h.fired && now-h.started >= h.threshold() {
			h.fired = true
			return HoldFired
		}
		return HoldNone
	}

	if !h.active {
		return HoldNone
	}
	fired := h.fired
	h.active = false
	h.fired = false
	if fired {
		return HoldNone
	}
	return HoldTap
}

// Pending reports whether a press is in progress that has not fired yet.
// While pending, the caller must keep calling Update on a short timer so the
// threshold is noticed without new input.
func (h *Hold) Pending() bool { return h.active && !h.fired }

// Remaining is the time left until the hold fires, or 0 if nothing is
// pending.
func (h *Hold) Remaining(now time.Duration) time.Duration {
	if !h.Pending() {
		return 0
	}
	left := h.threshold() - (now - h.started)
	if left < 0 {
		return 0
	}
	return left
}
