package sensors

import (
	"fmt"
	"time"

	"inkdash/dash/client/logger"
	"inkdash/hal"
)

const (
	CO2PollInterval   = 100 * time.Millisecond
	CO2SampleInterval = 4900 * time.Millisecond
)

// CO2 polls a periodic-measurement CO2 sensor.
type CO2 struct {
	Sensor hal.CO2Sensor
	Env    Env
	Log    *logger.Logger

	measuring bool
}

// Start puts the sensor into periodic measurement.
func (c *CO2) Start() error {
	if err := c.Sensor.StartPeriodic(); err != nil {
		return fmt.Errorf("co2: start periodic measurement: %w", err)
	}
	c.Log.Infof("periodic measurements started")
	return nil
}

func (c *CO2) Step() time.Duration {
	ready, err := c.Sensor.DataReady()
	if err != nil {
		c.Log.Debugf("data ready: %v", err)
		return CO2PollInterval
	}
	if !ready {
		if !c.measuring {
			c.measuring = true
			c.Env.SetMeasuring(true)
		}
		return CO2PollInterval
	}

	r, err := c.Sensor.Read()
	if err != nil {
		c.Log.Warnf("read measurement: %v", err)
		return CO2PollInterval
	}
	if r.CO2 == 0 {
		c.Log.Warnf("invalid sample, skipping")
		return CO2PollInterval
	}
	c.Log.Infof("CO2: %d ppm, temp: %.2f C, hum: %.2f %%", r.CO2, r.Temperature, r.Humidity)
	c.Env.SetEnvironmental(r.CO2, r.Temperature, r.Humidity)
	c.measuring = false
	return CO2SampleInterval
}
