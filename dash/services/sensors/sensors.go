// Package sensors holds the producer tasks that feed hardware readings into
// the status store.
//
// Every sampler is a Stepper: Step does one round of I/O and returns how long
// to wait before the next one. Run drives a Stepper until its context ends.
package sensors

import (
	"context"
	"time"

	"inkdash/dash/store"
)

// Env is the store surface written by the samplers. *store.Store satisfies
// it.
type Env interface {
	SetEnvironmental(co2 int, temperature, humidity float32)
	SetMeasuring(measuring bool)
	SetPressureReading(pressure, temperature, raw float32)
	SetAltitudeOffset(offset float32)
	SetBatteryVoltage(volts float32)
	SetButton(b store.Button, level bool)
	SetWifiConnected(connected bool)
}

type Stepper interface {
	Step() time.Duration
}

// Run calls s.Step until ctx is done.
func Run(ctx context.Context, s Stepper) {
	t := time.NewTimer(0)
	defer t.Stop()
	<-t.C
	for {
		d := s.Step()
		if d <= 0 {
			d = time.Millisecond
		}
		t.Reset(d)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
