package ui

import "inkdash/dash/store"

// MenuItem is one menu row. LabelFunc, when set, replaces Label on screen.
type MenuItem struct {
	Label     string
	LabelFunc func(m *Machine) string
	Action    func(m *Machine, snap store.Snapshot)
}

func (it MenuItem) label(m *Machine) string {
	if it.LabelFunc != nil {
		return it.LabelFunc(m)
	}
	return it.Label
}

func ascLabel(m *Machine) string {
	if m.cfg.Calibrator == nil {
		return "ASC: N/A"
	}
	if m.ascEnabled {
		return "ASC: ON"
	}
	return "ASC: OFF"
}

// DefaultMenu is the menu in display order.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Label: "Back", Action: func(m *Machine, _ store.Snapshot) { m.goHome() }},
		{Label: "Refresh", Action: func(m *Machine, _ store.Snapshot) {
			m.forceFull = true
			m.goHome()
		}},
		{Label: "SCD41 Toggle ASC", LabelFunc: ascLabel, Action: func(m *Machine, _ store.Snapshot) {
			m.calibrate("toggle ASC", func(c Calibrator) error { return c.SetASC(!c.ASCEnabled()) })
			m.goHome()
		}},
		{Label: "SCD41 FRC 430ppm", Action: func(m *Machine, _ store.Snapshot) {
			m.calibrate("forced recalibration", func(c Calibrator) error { return c.ForceRecalibration(FRCReference) })
			m.goHome()
		}},
		{Label: "Reboot", Action: func(m *Machine, _ store.Snapshot) {
			m.reboot = true
			if m.cfg.Reboot != nil {
				m.cfg.Reboot()
			}
		}},
		{Label: "Reader", Action: func(m *Machine, _ store.Snapshot) { m.enterReader() }},
		{Label: "Factory Reset", Action: func(m *Machine, _ store.Snapshot) {
			m.calibrate("factory reset", func(c Calibrator) error { return c.FactoryReset() })
			m.goHome()
		}},
		{Label: "Zero Altitude", Action: func(m *Machine, snap store.Snapshot) {
			m.zeroOffset = snap.AltitudeOffset
			m.screen = ScreenConfirmZeroAltitude
			m.needRedraw = true
		}},
	}
}

func (m *Machine) calibrate(what string, fn func(c Calibrator) error) {
	if m.cfg.Calibrator == nil {
		m.log.Warnf("%s: no CO2 sensor", what)
		return
	}
	if err := fn(m.cfg.Calibrator); err != nil {
		m.log.Errorf("%s: %v", what, err)
		return
	}
	m.log.Infof("%s done", what)
}
