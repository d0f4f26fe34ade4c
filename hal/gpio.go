package hal

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps is a bit set of what a pin can do.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is one digital pin. Levels are electrical: true is high.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

var errInputOnly = errors.New("input only")

// checkInput validates an input configuration against caps.
func checkInput(name string, caps GPIOCaps, mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput || caps&GPIOCapInput == 0 {
		return fmt.Errorf("gpio %s: %w", name, errInputOnly)
	}
	switch {
	case pull == GPIOPullUp && caps&GPIOCapPullUp == 0,
		pull == GPIOPullDown && caps&GPIOCapPullDown == 0:
		return fmt.Errorf("gpio %s: pull %d: %w", name, pull, ErrNotImplemented)
	case pull > GPIOPullDown:
		return fmt.Errorf("gpio %s: invalid pull %d", name, pull)
	}
	return nil
}

// buttonPin is a simulated push button wired to ground. Until something
// presses it, it reads whatever its pull resistor gives.
type buttonPin struct {
	name string
	caps GPIOCaps

	mu         sync.Mutex
	configured bool
	pull       GPIOPull
	pressed    bool
}

func newButtonPin(name string, caps GPIOCaps) *buttonPin {
	return &buttonPin{name: name, caps: caps}
}

func (p *buttonPin) Name() string   { return p.name }
func (p *buttonPin) Caps() GPIOCaps { return p.caps }

func (p *buttonPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkInput(p.name, p.caps, mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	p.configured, p.pull = true, pull
	p.mu.Unlock()
	return nil
}

// press shorts the pin to ground; the host window calls it while a key is
// held.
func (p *buttonPin) press(down bool) {
	p.mu.Lock()
	p.pressed = down
	p.mu.Unlock()
}

func (p *buttonPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return false, fmt.Errorf("gpio %s: not configured", p.name)
	}
	if p.pressed {
		return false, nil
	}
	return p.pull == GPIOPullUp, nil
}

func (p *buttonPin) Write(bool) error {
	return fmt.Errorf("gpio %s: %w", p.name, errInputOnly)
}

// pulsePin is a button pressed on a schedule: it reads low for the first
// low of every period, starting one period after it was created. Headless
// demo runs use it in place of a finger.
type pulsePin struct {
	name   string
	now    func() time.Time
	start  time.Time
	period time.Duration
	low    time.Duration

	mu         sync.Mutex
	configured bool
}

func newPulsePin(name string, period, low time.Duration) GPIOPin {
	return newPulsePinWithClock(name, period, low, time.Now)
}

func newPulsePinWithClock(name string, period, low time.Duration, now func() time.Time) *pulsePin {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = time.Second
	}
	low = min(max(low, 0), period)
	return &pulsePin{name: name, now: now, start: now(), period: period, low: low}
}

func (p *pulsePin) Name() string   { return p.name }
func (p *pulsePin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *pulsePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkInput(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	p.configured = true
	p.mu.Unlock()
	return nil
}

func (p *pulsePin) Read() (bool, error) {
	p.mu.Lock()
	configured := p.configured
	p.mu.Unlock()
	if !configured {
		return false, fmt.Errorf("gpio %s: not configured", p.name)
	}

	since := p.now().Sub(p.start)
	if since < p.period {
		return true, nil
	}
	return since%p.period >= p.low, nil
}

func (p *pulsePin) Write(bool) error {
	return fmt.Errorf("gpio %s: %w", p.name, errInputOnly)
}
