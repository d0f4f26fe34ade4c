// Package store holds the dashboard's shared device status.
//
// Producers write named field subsets; the single UI consumer reads whole
// snapshots. Every read returns an owned copy taken under the same lock as
// the writes, so cross-field invariants (altitude and its offset) are never
// observed half-updated.
package store

import (
	"sync"
	"time"
)

// Button names one of the two logical inputs.
type Button uint8

const (
	// ButtonA cycles and cancels.
	ButtonA Button = iota
	// ButtonB confirms.
	ButtonB
)

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	default:
		return "?"
	}
}

// Snapshot is a value copy of the device status.
type Snapshot struct {
	CO2            int
	Temperature    float32
	Humidity       float32
	Pressure       float32
	Altitude       float32
	AltitudeOffset float32
	BatteryVoltage float32

	// PressureTemperature is the barometer's own temperature reading.
	PressureTemperature float32

	WifiConnected bool
	Measuring     bool

	ButtonA bool
	ButtonB bool

	// LastEnvUpdate is the monotonic time of the last environmental or
	// pressure reading.
	LastEnvUpdate time.Duration
}

// Button returns the level of b.
func (s Snapshot) Button(b Button) bool {
	if b == ButtonB {
		return s.ButtonB
	}
	return s.ButtonA
}

// Defaults are shown until the first readings arrive.
func Defaults() Snapshot {
	return Snapshot{
		CO2:            1372,
		Temperature:    12.34,
		Humidity:       34.87,
		Altitude:       23.18,
		BatteryVoltage: 3.7,
	}
}

// Consumer is the wake-up target of a store. kernel.Notifier satisfies it.
type Consumer interface {
	Notify()
}

// Clock supplies the monotonic timestamps stored in LastEnvUpdate.
type Clock interface {
	Now() time.Duration
}

// Store is the mutex-guarded device status plus CO2 and altitude histories.
type Store struct {
	clock Clock

	mu       sync.Mutex
	snap     Snapshot
	co2      *History[int]
	altitude *History[float32]
	consumer Consumer
}

// New returns a store seeded with Defaults.
func New(clock Clock) *Store {
	return &Store{
		clock:    clock,
		snap:     Defaults(),
		co2:      NewHistory[int](HistoryCap),
		altitude: NewHistory[float32](HistoryCap),
	}
}

// RegisterConsumer sets the task woken after every write. A later call
// replaces the earlier consumer.
func (s *Store) RegisterConsumer(c Consumer) {
	s.mu.Lock()
	s.consumer = c
	s.mu.Unlock()
}

// update applies fn under the lock and wakes the consumer afterwards.
func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	c := s.consumer
	s.mu.Unlock()
	if c != nil {
		c.Notify()
	}
}

// SetEnvironmental stores a CO2/temperature/humidity reading. Positive CO2
// values are appended to the CO2 history.
func (s *Store) SetEnvironmental(co2 int, temperature, humidity float32) {
	now := s.clock.Now()
	s.update(func(st *Snapshot) {
		st.CO2 = co2
		st.Temperature = temperature
		st.Humidity = humidity
		st.Measuring = false
		st.LastEnvUpdate = now
		if co2 > 0 {
			s.co2.Append(co2)
		}
	})
}

// SetPressureReading stores a barometer reading. raw is the altitude
// derived from pressure alone; the stored altitude adds the current offset.
func (s *Store) SetPressureReading(pressure, temperature, raw float32) {
	now := s.clock.Now()
	s.update(func(st *Snapshot) {
		st.Pressure = pressure
		st.PressureTemperature = temperature
		st.Altitude = raw + st.AltitudeOffset
		st.LastEnvUpdate = now
		s.altitude.Append(st.Altitude)
	})
}

func (s *Store) SetAltitudeOffset(offset float32) {
	s.update(func(st *Snapshot) { st.AltitudeOffset = offset })
}

func (s *Store) SetBatteryVoltage(volts float32) {
	s.update(func(st *Snapshot) { st.BatteryVoltage = volts })
}

func (s *Store) SetWifiConnected(connected bool) {
	s.update(func(st *Snapshot) { st.WifiConnected = connected })
}

// SetMeasuring marks a CO2 measurement as pending.
func (s *Store) SetMeasuring(measuring bool) {
	s.update(func(st *Snapshot) { st.Measuring = measuring })
}

func (s *Store) SetButton(b Button, level bool) {
	s.update(func(st *Snapshot) {
		switch b {
		case ButtonA:
			st.ButtonA = level
		case ButtonB:
			st.ButtonB = level
		}
	})
}

// SetSnapshot replaces the whole status. Histories are left untouched.
func (s *Store) SetSnapshot(snap Snapshot) {
	s.update(func(st *Snapshot) { *st = snap })
}

// Snapshot returns a copy of the current status.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// CO2History returns the CO2 samples, oldest first.
func (s *Store) CO2History() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.co2.Slice()
}

// AltitudeHistory returns the altitude samples, oldest first.
func (s *Store) AltitudeHistory() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.altitude.Slice()
}

func (s *Store) ClearAltitudeHistory() {
	s.update(func(*Snapshot) { s.altitude.Clear() })
}
