package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrNoPanel        = errors.New("no display panel")
	ErrNotFound       = errors.New("file not found")
)

// Native panel resolution of the 2.9" module.
const (
	PanelWidth  = 128
	PanelHeight = 296
)

// RefreshMode selects the panel waveform.
type RefreshMode uint8

const (
	// RefreshFull redraws every pixel and clears ghosting. Slow.
	RefreshFull RefreshMode = iota
	// RefreshPartial only drives pixels that differ from the previous plane.
	RefreshPartial
)

func (m RefreshMode) String() string {
	if m == RefreshPartial {
		return "partial"
	}
	return "full"
}

// Plane selects the panel's internal RAM planes.
type Plane uint8

const (
	// PlaneCurrent holds the image to show.
	PlaneCurrent Plane = 1 << iota
	// PlanePrevious holds the image currently on glass; partial refresh
	// diffs against it.
	PlanePrevious

	PlaneBoth = PlaneCurrent | PlanePrevious
)

// Panel is a bistable display with two RAM planes.
//
// Buffers are 1 bit per pixel in native orientation, most significant bit
// first, 0 = black.
type Panel interface {
	// Size returns the native resolution.
	Size() (w, h int)
	WritePlanes(planes Plane, buf []byte) error
	// Refresh starts a refresh cycle and returns without waiting for it.
	// done is called exactly once when the panel is idle again, possibly
	// from another goroutine.
	Refresh(mode RefreshMode, done func()) error
}

// Buttons exposes the two front buttons as raw pins. Levels are electrical:
// the buttons pull to ground, so false means pressed.
type Buttons interface {
	A() GPIOPin
	B() GPIOPin
}

// CO2Reading is one sample of the CO2 sensor.
type CO2Reading struct {
	CO2         int
	Temperature float32
	Humidity    float32
}

// CO2Sensor is a photoacoustic CO2 sensor with self-calibration controls.
type CO2Sensor interface {
	StartPeriodic() error
	DataReady() (bool, error)
	Read() (CO2Reading, error)

	// ASCEnabled returns the cached automatic self-calibration state.
	ASCEnabled() bool
	SetASC(enabled bool) error
	// ForceRecalibration tells the sensor the current concentration is ppm.
	ForceRecalibration(ppm uint16) error
	FactoryReset() error
}

// PressureReading is one barometer sample.
type PressureReading struct {
	Pressure    float32 // Pa
	Temperature float32 // °C
}

type PressureSensor interface {
	Read() (PressureReading, error)
}

type Battery interface {
	Voltage() (float32, error)
}

// Storage is a flat file store rooted at the data partition.
type Storage interface {
	// ReadFile returns ErrNotFound (possibly wrapped) for missing files.
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// Network reports the uplink state (optional).
type Network interface {
	Connected() bool
}

// Clock is the wall clock shown on screen.
type Clock interface {
	Now() time.Time
}

// HAL provides the only contact point between the dashboard and the outside
// world. Accessors return nil for hardware that is absent or failed to come
// up, except Logger and Clock which always work.
type HAL interface {
	Logger() Logger
	Panel() Panel
	Buttons() Buttons
	CO2() CO2Sensor
	Pressure() PressureSensor
	Battery() Battery
	Storage() Storage
	Network() Network
	Clock() Clock
	// Reset restarts the device. On hosts it returns and the caller decides
	// how to restart.
	Reset()
}
