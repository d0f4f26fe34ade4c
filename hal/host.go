//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"inkdash/internal/config"
)

// demoPressLength is how long a scripted headless press holds the button.
const demoPressLength = 300 * time.Millisecond

// Host is the desktop HAL. The "sim" backend models every peripheral; the
// "periph" backend talks to real hardware on a Linux board.
type Host struct {
	logger  *hostLogger
	panel   Panel
	sim     *simPanel
	sensors *simSensors
	keyA    *buttonPin
	keyB    *buttonPin
	buttons hostButtons
	co2     CO2Sensor
	baro    PressureSensor
	battery Battery
	storage Storage
	net     Network
	clock   hostClock
	resets  atomic.Uint32
	closers []func() error
}

var _ HAL = (*Host)(nil)

// NewHost builds the HAL selected by cfg.Backend.
func NewHost(cfg config.Config) (*Host, error) {
	storage, err := newDirStorage(cfg.StorageDir)
	if err != nil {
		return nil, err
	}
	h := &Host{
		logger:  &hostLogger{w: os.Stdout},
		storage: storage,
		clock:   hostClock{loc: cfg.Location()},
	}
	switch cfg.Backend {
	case "", "sim":
		h.initSim(cfg)
	case "periph":
		if err := h.initPeriph(cfg.Periph); err != nil {
			h.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("hal: unknown backend %q", cfg.Backend)
	}
	return h, nil
}

func (h *Host) initSim(cfg config.Config) {
	h.sim = newSimPanel(PanelWidth, PanelHeight, cfg.Panel.FullRefresh, cfg.Panel.PartialRefresh)
	h.panel = h.sim
	h.sensors = newSimSensors(cfg.Sim)
	h.co2 = h.sensors
	h.baro = h.sensors.Pressure()
	h.battery = h.sensors.Battery()
	h.net = h.sensors.Network()

	caps := GPIOCapInput | GPIOCapPullUp
	h.keyA = newButtonPin("BTN_A", caps)
	h.keyB = newButtonPin("BTN_B", caps)
	h.buttons = hostButtons{a: h.keyA, b: h.keyB}
	if cfg.Headless && cfg.Sim.DemoPress > 0 {
		h.buttons.b = newPulsePin("BTN_B", cfg.Sim.DemoPress, demoPressLength)
	}
}

// Reconfigure applies the hot-reloadable parts of cfg to the simulator.
func (h *Host) Reconfigure(cfg config.Config) {
	if h.sensors != nil {
		h.sensors.SetParams(cfg.Sim)
	}
	if h.sim != nil {
		h.sim.SetTiming(cfg.Panel.FullRefresh, cfg.Panel.PartialRefresh)
	}
}

// Close releases periph buses. The simulator has nothing to release.
func (h *Host) Close() error {
	var first error
	for _, c := range h.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	h.closers = nil
	return first
}

func (h *Host) Logger() Logger { return h.logger }
func (h *Host) Panel() Panel   { return h.panel }
func (h *Host) Clock() Clock   { return h.clock }

func (h *Host) Buttons() Buttons {
	if h.buttons.a == nil && h.buttons.b == nil {
		return nil
	}
	return h.buttons
}

func (h *Host) CO2() CO2Sensor           { return h.co2 }
func (h *Host) Pressure() PressureSensor { return h.baro }
func (h *Host) Battery() Battery         { return h.battery }
func (h *Host) Storage() Storage         { return h.storage }
func (h *Host) Network() Network         { return h.net }

// Reset only counts and logs; the host entrypoint restarts the app itself.
func (h *Host) Reset() {
	n := h.resets.Add(1)
	h.logger.WriteLineString(fmt.Sprintf("hal: reset requested (%d)", n))
}

// Resets returns how many times Reset was called.
func (h *Host) Resets() uint32 { return h.resets.Load() }

type hostButtons struct {
	a, b GPIOPin
}

func (b hostButtons) A() GPIOPin { return b.a }
func (b hostButtons) B() GPIOPin { return b.b }

type hostClock struct {
	loc *time.Location
}

func (c hostClock) Now() time.Time {
	if c.loc == nil {
		return time.Now()
	}
	return time.Now().In(c.loc)
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
