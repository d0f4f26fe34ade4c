package sensors

import (
	"time"

	"inkdash/dash/client/logger"
	"inkdash/dash/store"
	"inkdash/hal"
)

const (
	ButtonPollInterval = 100 * time.Millisecond
	ButtonDebounce     = 50 * time.Millisecond
)

// Buttons samples two active-low buttons. A level change is published only
// when the same levels are read again one debounce interval after they were
// first seen.
type Buttons struct {
	A, B hal.GPIOPin
	Env  Env
	Log  *logger.Logger

	started   bool
	pending   bool
	candidate [2]bool
	last      [2]bool
}

// Configure sets both pins to input with pull-up where supported.
func (b *Buttons) Configure() error {
	for _, p := range []hal.GPIOPin{b.A, b.B} {
		if p == nil {
			continue
		}
		pull := hal.GPIOPullNone
		if p.Caps()&hal.GPIOCapPullUp != 0 {
			pull = hal.GPIOPullUp
		}
		if err := p.Configure(hal.GPIOModeInput, pull); err != nil {
			return err
		}
	}
	return nil
}

func pressed(p hal.GPIOPin) (bool, error) {
	if p == nil {
		return false, nil
	}
	level, err := p.Read()
	if err != nil {
		return false, err
	}
	return !level, nil
}

func (b *Buttons) sample() ([2]bool, bool) {
	a, err := pressed(b.A)
	if err != nil {
		b.Log.Warnf("button A: %v", err)
		return [2]bool{}, false
	}
	bb, err := pressed(b.B)
	if err != nil {
		b.Log.Warnf("button B: %v", err)
		return [2]bool{}, false
	}
	return [2]bool{a, bb}, true
}

func (b *Buttons) Step() time.Duration {
	cur, ok := b.sample()
	if !ok {
		return ButtonPollInterval
	}
	if !b.started {
		b.started = true
		b.last = cur
		b.Env.SetButton(store.ButtonA, cur[0])
		b.Env.SetButton(store.ButtonB, cur[1])
		return ButtonPollInterval
	}
	if cur == b.last {
		b.pending = false
		return ButtonPollInterval
	}
	if !b.pending || cur != b.candidate {
		b.pending = true
		b.candidate = cur
		return ButtonDebounce
	}
	b.pending = false

	for i, btn := range []store.Button{store.ButtonA, store.ButtonB} {
		if cur[i] == b.last[i] {
			continue
		}
		state := "released"
		if cur[i] {
			state = "pressed"
		}
		b.Log.Infof("button %s: %s", btn, state)
		b.Env.SetButton(btn, cur[i])
	}
	b.last = cur
	return ButtonPollInterval
}
