//go:build !tinygo

package hal

import (
	"testing"
	"time"

	"inkdash/internal/config"
)

func newTestSim(cfg config.SimConfig) (*simSensors, *time.Time) {
	s := newSimSensors(cfg)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSimCO2Period(t *testing.T) {
	s, now := newTestSim(config.Default().Sim)
	if _, err := s.DataReady(); err == nil {
		t.Fatalf("DataReady before start should fail")
	}
	if err := s.StartPeriodic(); err != nil {
		t.Fatal(err)
	}
	if ready, _ := s.DataReady(); ready {
		t.Fatalf("ready right after start")
	}
	*now = now.Add(simMeasurePeriod)
	if ready, _ := s.DataReady(); !ready {
		t.Fatalf("not ready after one period")
	}
	r, err := s.Read()
	if err != nil || r.CO2 < 400 {
		t.Fatalf("Read()=%+v,%v", r, err)
	}
	if ready, _ := s.DataReady(); ready {
		t.Fatalf("still ready after Read")
	}
}

func TestSimCalibration(t *testing.T) {
	cfg := config.Default().Sim
	cfg.CO2Drift, cfg.TempDrift, cfg.HumDrift = 0, 0, 0
	cfg.CO2Base = 800
	s, _ := newTestSim(cfg)
	_ = s.StartPeriodic()

	if err := s.ForceRecalibration(430); err != nil {
		t.Fatal(err)
	}
	r, _ := s.Read()
	if r.CO2 != 430 {
		t.Fatalf("CO2 after FRC=%d, want 430", r.CO2)
	}

	_ = s.SetASC(false)
	if s.ASCEnabled() {
		t.Fatalf("ASC still on")
	}
	_ = s.FactoryReset()
	r, _ = s.Read()
	if r.CO2 != 800 || !s.ASCEnabled() {
		t.Fatalf("after reset CO2=%d asc=%v, want 800 true", r.CO2, s.ASCEnabled())
	}
}

func TestSimBatteryDrains(t *testing.T) {
	cfg := config.Default().Sim
	cfg.Battery, cfg.BatteryDrain = 4.0, 0.1
	s, _ := newTestSim(cfg)
	b := s.Battery()
	v1, _ := b.Voltage()
	v2, _ := b.Voltage()
	if !(v2 < v1) {
		t.Fatalf("battery %v then %v, want decreasing", v1, v2)
	}
}
