// Package ui is the dashboard's screen state machine and the task that runs
// it.
//
// A Machine is owned by exactly one goroutine. Each Tick takes one store
// snapshot, derives button edges from it, applies at most one transition per
// button and reports whether the panel has to be redrawn.
package ui

import (
	"errors"
	"time"

	"inkdash/dash/client/logger"
	"inkdash/dash/input"
	"inkdash/dash/pager"
	"inkdash/dash/render"
	"inkdash/dash/store"
	"inkdash/hal"
)

// ErrReboot is returned by Task.Run after the Reboot menu entry.
var ErrReboot = errors.New("ui: reboot requested")

type Screen uint8

const (
	ScreenHome Screen = iota
	ScreenMenu
	ScreenReader
	ScreenConfirmZeroAltitude
)

func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "home"
	case ScreenMenu:
		return "menu"
	case ScreenReader:
		return "reader"
	case ScreenConfirmZeroAltitude:
		return "confirm-zero"
	default:
		return "?"
	}
}

// Status is the part of the store the UI reads and writes.
type Status interface {
	Snapshot() store.Snapshot
	CO2History() []int
	AltitudeHistory() []float32
	SetAltitudeOffset(offset float32)
	ClearAltitudeHistory()
	SetPressureReading(pressure, temperature, raw float32)
}

// Calibrator drives the CO2 sensor's calibration. hal.CO2Sensor satisfies it.
type Calibrator interface {
	ASCEnabled() bool
	SetASC(enabled bool) error
	ForceRecalibration(ppm uint16) error
	FactoryReset() error
}

// PageStore persists the reader position. *nvs.PageIndex satisfies it.
type PageStore interface {
	Load() (int, error)
	Save(idx int) error
}

// TextSource supplies the reader text. *content.Source satisfies it.
type TextSource interface {
	Text() (string, error)
}

// Config wires a Machine. Only Status is required.
type Config struct {
	Status     Status
	Calibrator Calibrator
	Pages      PageStore
	Content    TextSource
	Metrics    pager.Metrics
	Layout     pager.Layout
	// Reboot is called by the Reboot menu entry. It may not return.
	Reboot        func()
	HoldThreshold time.Duration
	Log           *logger.Logger
}

// Frame is the redraw decision of one tick.
type Frame struct {
	Redraw  bool
	Partial bool
}

// FRCReference is the concentration used by the forced recalibration entry.
const FRCReference = 430

type Machine struct {
	cfg  Config
	log  *logger.Logger
	menu []MenuItem

	screen   Screen
	selected int
	graph    render.GraphMode

	a, b input.Edge
	hold input.Hold

	pages     []string
	page      int
	readerMsg string

	ascEnabled bool
	zeroOffset float32

	renderedEnv time.Duration
	needRedraw  bool
	forceFull   bool
	first       bool
	reboot      bool
}

func NewMachine(cfg Config) *Machine {
	if cfg.Layout.MaxLines == 0 {
		cfg.Layout = pager.DefaultLayout
	}
	m := &Machine{
		cfg:   cfg,
		log:   cfg.Log,
		first: true,
	}
	m.hold.Threshold = cfg.HoldThreshold
	m.menu = DefaultMenu()
	return m
}

func (m *Machine) Screen() Screen          { return m.screen }
func (m *Machine) Selected() int           { return m.selected }
func (m *Machine) Graph() render.GraphMode { return m.graph }
func (m *Machine) Page() int               { return m.page }
func (m *Machine) Pages() []string         { return m.pages }
func (m *Machine) ReaderMessage() string   { return m.readerMsg }
func (m *Machine) Menu() []MenuItem        { return m.menu }
func (m *Machine) RebootRequested() bool   { return m.reboot }

// HoldPending reports whether the reader is timing a press of B.
func (m *Machine) HoldPending() bool {
	return m.screen == ScreenReader && m.hold.Pending()
}

// MenuLabels returns the labels as currently displayed.
func (m *Machine) MenuLabels() []string {
	out := make([]string, len(m.menu))
	for i, it := range m.menu {
		out[i] = it.label(m)
	}
	return out
}

// Tick evaluates one snapshot taken at now.
func (m *Machine) Tick(snap store.Snapshot, now time.Duration) Frame {
	pressA := m.a.Update(snap.ButtonA)
	pressB := m.b.Update(snap.ButtonB)

	switch m.screen {
	case ScreenHome:
		if pressB {
			m.enterMenu()
		}
		if pressA {
			m.graph = m.graph.Toggle()
			m.needRedraw = true
		}
		if snap.LastEnvUpdate > m.renderedEnv {
			m.needRedraw = true
		}

	case ScreenMenu:
		if pressA {
			m.selected = (m.selected + 1) % len(m.menu)
			m.needRedraw = true
		}
		if pressB {
			it := m.menu[m.selected]
			m.log.Infof("menu: %s", it.Label)
			it.Action(m, snap)
		}

	case ScreenConfirmZeroAltitude:
		if pressA {
			m.goHome()
		}
		if pressB {
			m.confirmZero(snap)
		}

	case ScreenReader:
		switch m.hold.Update(snap.ButtonB, now) {
		case input.HoldFired:
			m.log.Infof("hold: leaving reader")
			m.savePage()
			m.screen = ScreenMenu
			m.forceFull = true
			m.needRedraw = true
		case input.HoldTap:
			if m.page > 0 {
				m.page--
				m.savePage()
				m.forceFull = true
				m.needRedraw = true
			}
		}
		if pressA && m.page < len(m.pages)-1 {
			m.page++
			m.savePage()
			m.forceFull = true
			m.needRedraw = true
		}
	}

	if !m.needRedraw && !m.first {
		return Frame{}
	}
	f := Frame{Redraw: true, Partial: !(m.first || m.forceFull)}
	m.first = false
	m.forceFull = false
	m.needRedraw = false
	m.renderedEnv = snap.LastEnvUpdate
	return f
}

func (m *Machine) goHome() {
	m.screen = ScreenHome
	m.needRedraw = true
}

func (m *Machine) enterMenu() {
	m.screen = ScreenMenu
	m.selected = 0
	if m.cfg.Calibrator != nil {
		m.ascEnabled = m.cfg.Calibrator.ASCEnabled()
	}
	m.needRedraw = true
}

func (m *Machine) enterReader() {
	m.screen = ScreenReader
	m.hold.Reset(m.b.Level())
	m.forceFull = true
	m.needRedraw = true

	if m.cfg.Pages != nil {
		idx, err := m.cfg.Pages.Load()
		if err != nil {
			m.log.Warnf("load page index: %v", err)
		} else {
			m.page = idx
		}
	}
	if len(m.pages) == 0 {
		m.loadPages()
	}
	m.page = pager.ClampIndex(m.page, len(m.pages))
}

func (m *Machine) loadPages() {
	m.readerMsg = ""
	if m.cfg.Content == nil {
		m.readerMsg = render.ReaderStorageError
		return
	}
	text, err := m.cfg.Content.Text()
	if err != nil {
		m.log.Warnf("reader content: %v", err)
		m.readerMsg = render.ReaderEmpty
		if errors.Is(err, hal.ErrNotImplemented) {
			m.readerMsg = render.ReaderStorageError
		}
		return
	}
	if m.cfg.Metrics == nil {
		m.readerMsg = render.ReaderEmpty
		return
	}
	m.pages = m.cfg.Layout.Paginate(text, m.cfg.Metrics)
	m.log.Infof("reader: %d pages", len(m.pages))
	if len(m.pages) == 0 {
		m.readerMsg = render.ReaderEmpty
	}
}

func (m *Machine) savePage() {
	if m.cfg.Pages == nil {
		return
	}
	if err := m.cfg.Pages.Save(m.page); err != nil {
		m.log.Warnf("save page index: %v", err)
	}
}

func (m *Machine) confirmZero(snap store.Snapshot) {
	old := m.zeroOffset
	st := m.cfg.Status
	st.SetAltitudeOffset(old - snap.Altitude)
	st.ClearAltitudeHistory()
	st.SetPressureReading(snap.Pressure, snap.PressureTemperature, snap.Altitude-old)
	m.log.Infof("altitude zeroed, offset %.2f", old-snap.Altitude)
	m.goHome()
}

// Draw renders the current screen. wall is the time shown on the home
// screen.
func (m *Machine) Draw(r *render.Renderer, snap store.Snapshot, wall time.Time) {
	switch m.screen {
	case ScreenHome:
		r.Home(render.Home{
			Status:   snap,
			Time:     wall,
			Graph:    m.graph,
			CO2:      m.cfg.Status.CO2History(),
			Altitude: m.cfg.Status.AltitudeHistory(),
		})
	case ScreenMenu:
		r.Menu(m.MenuLabels(), m.selected)
	case ScreenConfirmZeroAltitude:
		r.ConfirmZeroAltitude()
	case ScreenReader:
		if len(m.pages) == 0 && m.readerMsg != "" {
			r.ReaderMessage(m.readerMsg)
			return
		}
		r.Reader(m.pages, m.page)
	}
}
