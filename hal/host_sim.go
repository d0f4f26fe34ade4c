//go:build !tinygo

package hal

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"inkdash/internal/config"
)

// simMeasurePeriod matches the periodic mode of a real SCD4x.
const simMeasurePeriod = 5 * time.Second

var errSimNotStarted = errors.New("sim: periodic measurement not started")

// simSensors is a random-walk model of the room. Each value drifts towards
// its base with some noise; the battery drains a little per reading.
type simSensors struct {
	mu  sync.Mutex
	cfg config.SimConfig
	rnd *rand.Rand
	now func() time.Time

	co2, temp, hum, pressure, battery float64

	started  bool
	lastRead time.Time
	asc      bool
	calib    float64
}

func newSimSensors(cfg config.SimConfig) *simSensors {
	return &simSensors{
		cfg:      cfg,
		rnd:      rand.New(rand.NewSource(cfg.Seed)),
		now:      time.Now,
		co2:      cfg.CO2Base,
		temp:     cfg.TempBase,
		hum:      cfg.HumBase,
		pressure: cfg.Pressure,
		battery:  cfg.Battery,
		asc:      true,
	}
}

// SetParams swaps in new drift parameters; the current values keep walking
// from where they are.
func (s *simSensors) SetParams(cfg config.SimConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// walk moves v a tenth of the way to base plus gaussian noise of size drift.
func (s *simSensors) walk(v, base, drift float64) float64 {
	return v + (base-v)*0.1 + s.rnd.NormFloat64()*drift
}

func (s *simSensors) StartPeriodic() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.lastRead = s.now()
	return nil
}

func (s *simSensors) DataReady() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return false, errSimNotStarted
	}
	return s.now().Sub(s.lastRead) >= simMeasurePeriod, nil
}

func (s *simSensors) Read() (CO2Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return CO2Reading{}, errSimNotStarted
	}
	s.lastRead = s.now()
	s.co2 = math.Max(400, s.walk(s.co2, s.cfg.CO2Base, s.cfg.CO2Drift))
	s.temp = s.walk(s.temp, s.cfg.TempBase, s.cfg.TempDrift)
	s.hum = math.Min(100, math.Max(0, s.walk(s.hum, s.cfg.HumBase, s.cfg.HumDrift)))
	return CO2Reading{
		CO2:         int(math.Round(s.co2 + s.calib)),
		Temperature: float32(s.temp),
		Humidity:    float32(s.hum),
	}, nil
}

func (s *simSensors) ASCEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asc
}

func (s *simSensors) SetASC(enabled bool) error {
	s.mu.Lock()
	s.asc = enabled
	s.mu.Unlock()
	return nil
}

// ForceRecalibration shifts the readings so the current concentration
// reads as ppm.
func (s *simSensors) ForceRecalibration(ppm uint16) error {
	s.mu.Lock()
	s.calib = float64(ppm) - s.co2
	s.mu.Unlock()
	return nil
}

func (s *simSensors) FactoryReset() error {
	s.mu.Lock()
	s.calib = 0
	s.asc = true
	s.mu.Unlock()
	return nil
}

// Pressure returns the barometer view of the model.
func (s *simSensors) Pressure() PressureSensor { return simBaro{s} }

// Battery returns the battery view of the model.
func (s *simSensors) Battery() Battery { return simBattery{s} }

func (s *simSensors) Network() Network { return simNetwork{s} }

type simBaro struct{ s *simSensors }

func (b simBaro) Read() (PressureReading, error) {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressure = s.walk(s.pressure, s.cfg.Pressure, s.cfg.PressDrift)
	return PressureReading{Pressure: float32(s.pressure), Temperature: float32(s.temp + 0.4)}, nil
}

type simBattery struct{ s *simSensors }

func (b simBattery) Voltage() (float32, error) {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battery = math.Max(0, s.battery-s.cfg.BatteryDrain)
	return float32(s.battery), nil
}

type simNetwork struct{ s *simSensors }

func (n simNetwork) Connected() bool {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	return n.s.cfg.Network
}
