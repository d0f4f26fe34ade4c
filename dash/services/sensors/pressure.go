package sensors

import (
	"math"
	"time"

	"inkdash/dash/client/logger"
	"inkdash/hal"
)

const PressureInterval = time.Second

// SeaLevelPressure is the reference for the barometric formula, in Pa.
const SeaLevelPressure = 101325

// Altitude converts a pressure in Pa to metres with the international
// barometric formula.
func Altitude(pa float32) float32 {
	return float32(44330 * (1 - math.Pow(float64(pa)/SeaLevelPressure, 0.1903)))
}

// Pressure samples the barometer. The first good reading after start sets the
// altitude offset so that the displayed altitude starts at zero.
type Pressure struct {
	Sensor hal.PressureSensor
	Env    Env
	Log    *logger.Logger
	// NoTare skips the boot tare.
	NoTare bool

	tared bool
}

func (p *Pressure) Step() time.Duration {
	r, err := p.Sensor.Read()
	if err != nil {
		p.Log.Warnf("read: %v", err)
		return PressureInterval
	}
	raw := Altitude(r.Pressure)
	if !p.tared && !p.NoTare {
		p.Env.SetAltitudeOffset(-raw)
		p.Log.Infof("boot tare: raw alt %.2f, offset %.2f", raw, -raw)
	}
	p.tared = true
	p.Log.Debugf("pressure: %.1f Pa, temp: %.2f C, alt: %.2f m", r.Pressure, r.Temperature, raw)
	p.Env.SetPressureReading(r.Pressure, r.Temperature, raw)
	return PressureInterval
}
