package ui

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"inkdash/dash/content"
	"inkdash/dash/gfx"
	"inkdash/dash/pager"
	"inkdash/dash/render"
	"inkdash/dash/store"
	"inkdash/kernel"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *manualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

type fixedMetrics int

func (m fixedMetrics) Advance(rune) int { return int(m) }

type memPages struct {
	idx   int
	saves []int
}

func (p *memPages) Load() (int, error) { return p.idx, nil }

func (p *memPages) Save(idx int) error {
	p.idx = idx
	p.saves = append(p.saves, idx)
	return nil
}

type textSource string

func (s textSource) Text() (string, error) {
	if s == "" {
		return "", errors.New("missing")
	}
	return string(s), nil
}

type fakeCalibrator struct {
	asc     bool
	frc     []uint16
	resets  int
	failASC error
}

func (c *fakeCalibrator) ASCEnabled() bool { return c.asc }

func (c *fakeCalibrator) SetASC(enabled bool) error {
	if c.failASC != nil {
		return c.failASC
	}
	c.asc = enabled
	return nil
}

func (c *fakeCalibrator) ForceRecalibration(ppm uint16) error {
	c.frc = append(c.frc, ppm)
	return nil
}

func (c *fakeCalibrator) FactoryReset() error {
	c.resets++
	return nil
}

type harness struct {
	t     *testing.T
	clk   *manualClock
	st    *store.Store
	m     *Machine
	pages *memPages
	cal   *fakeCalibrator
}

const threePages = "aaaa bbbb cccc"

func newHarness(t *testing.T, text string) *harness {
	return newHarnessWith(t, textSource(text))
}

func newHarnessWith(t *testing.T, src TextSource) *harness {
	h := &harness{
		t:     t,
		clk:   &manualClock{},
		pages: &memPages{},
		cal:   &fakeCalibrator{},
	}
	h.st = store.New(h.clk)
	h.m = NewMachine(Config{
		Status:     h.st,
		Calibrator: h.cal,
		Pages:      h.pages,
		Content:    src,
		Metrics:    fixedMetrics(10),
		Layout:     pager.Layout{MaxLines: 1, MaxWidth: 50},
	})
	// Consume the initial full redraw.
	if f := h.tick(); !f.Redraw || f.Partial {
		t.Fatalf("first frame=%+v, want full redraw", f)
	}
	return h
}

func (h *harness) tick() Frame { return h.m.Tick(h.st.Snapshot(), h.clk.Now()) }

func (h *harness) set(b store.Button, level bool) Frame {
	h.st.SetButton(b, level)
	return h.tick()
}

func (h *harness) press(b store.Button) Frame {
	f := h.set(b, true)
	h.set(b, false)
	return f
}

func (h *harness) openMenuItem(i int) {
	h.press(store.ButtonB)
	for k := 0; k < i; k++ {
		h.press(store.ButtonA)
	}
	h.press(store.ButtonB)
}

func TestMenuCycles(t *testing.T) {
	for k := 0; k < 20; k++ {
		h := newHarness(t, "")
		h.press(store.ButtonB)
		if h.m.Screen() != ScreenMenu || h.m.Selected() != 0 {
			t.Fatalf("after B: screen=%s selected=%d", h.m.Screen(), h.m.Selected())
		}
		for i := 0; i < k; i++ {
			h.press(store.ButtonA)
		}
		if got := h.m.Selected(); got != k%8 {
			t.Fatalf("k=%d selected=%d, want %d", k, got, k%8)
		}
	}
}

func TestMenuLabels(t *testing.T) {
	h := newHarness(t, "")
	h.cal.asc = true
	h.press(store.ButtonB)
	labels := h.m.MenuLabels()
	want := []string{"Back", "Refresh", "ASC: ON", "SCD41 FRC 430ppm", "Reboot", "Reader", "Factory Reset", "Zero Altitude"}
	if len(labels) != len(want) {
		t.Fatalf("labels=%q", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("label %d=%q, want %q", i, labels[i], want[i])
		}
	}
	// The label shows the value cached on menu entry.
	h.cal.asc = false
	if got := h.m.MenuLabels()[2]; got != "ASC: ON" {
		t.Fatalf("ASC label=%q, want cached ON", got)
	}
}

func TestGraphToggleOnHome(t *testing.T) {
	h := newHarness(t, "")
	f := h.press(store.ButtonA)
	if h.m.Graph() != render.GraphAltitude || !f.Redraw || !f.Partial {
		t.Fatalf("graph=%s frame=%+v, want altitude partial redraw", h.m.Graph(), f)
	}
	h.press(store.ButtonA)
	if h.m.Graph() != render.GraphCO2 {
		t.Fatalf("graph=%s, want co2", h.m.Graph())
	}
}

func TestHomeRedrawsOnNewReadings(t *testing.T) {
	h := newHarness(t, "")
	if f := h.tick(); f.Redraw {
		t.Fatalf("idle tick redrew: %+v", f)
	}
	h.clk.advance(time.Second)
	h.st.SetEnvironmental(800, 21, 40)
	if f := h.tick(); !f.Redraw || !f.Partial {
		t.Fatalf("frame=%+v, want partial redraw", f)
	}
	if f := h.tick(); f.Redraw {
		t.Fatalf("second tick redrew: %+v", f)
	}
	// Battery only: no timestamp change, no redraw.
	h.st.SetBatteryVoltage(3.9)
	if f := h.tick(); f.Redraw {
		t.Fatalf("battery write redrew: %+v", f)
	}
}

func TestMenuActions(t *testing.T) {
	h := newHarness(t, "")
	h.press(store.ButtonB)
	h.press(store.ButtonA)
	f := h.press(store.ButtonB)
	if h.m.Screen() != ScreenHome || f.Partial {
		t.Fatalf("refresh: screen=%s frame=%+v, want home full", h.m.Screen(), f)
	}

	h.openMenuItem(2)
	if !h.cal.asc || h.m.Screen() != ScreenHome {
		t.Fatalf("toggle ASC: asc=%v screen=%s", h.cal.asc, h.m.Screen())
	}
	h.openMenuItem(3)
	if len(h.cal.frc) != 1 || h.cal.frc[0] != 430 {
		t.Fatalf("frc=%v, want [430]", h.cal.frc)
	}
	h.openMenuItem(6)
	if h.cal.resets != 1 {
		t.Fatalf("resets=%d, want 1", h.cal.resets)
	}

	h.cal.failASC = errors.New("nack")
	h.openMenuItem(2)
	if h.m.Screen() != ScreenHome {
		t.Fatalf("failed ASC toggle left screen %s", h.m.Screen())
	}
}

func TestRebootEntry(t *testing.T) {
	h := newHarness(t, "")
	called := false
	h.m.cfg.Reboot = func() { called = true }
	h.openMenuItem(4)
	if !called || !h.m.RebootRequested() {
		t.Fatalf("reboot called=%v requested=%v", called, h.m.RebootRequested())
	}
}

func TestZeroAltitude(t *testing.T) {
	h := newHarness(t, "")
	h.st.SetAltitudeOffset(2)
	h.st.SetPressureReading(95000, 20, 10)
	if got := h.st.Snapshot().Altitude; got != 12 {
		t.Fatalf("altitude=%v, want 12", got)
	}

	h.openMenuItem(7)
	if h.m.Screen() != ScreenConfirmZeroAltitude {
		t.Fatalf("screen=%s, want confirm", h.m.Screen())
	}
	h.press(store.ButtonB)
	if h.m.Screen() != ScreenHome {
		t.Fatalf("screen=%s, want home", h.m.Screen())
	}
	snap := h.st.Snapshot()
	if math.Abs(float64(snap.Altitude)) > 1e-4 {
		t.Fatalf("altitude=%v, want 0", snap.Altitude)
	}
	if snap.AltitudeOffset != -10 {
		t.Fatalf("offset=%v, want -10", snap.AltitudeOffset)
	}
	if hist := h.st.AltitudeHistory(); len(hist) != 1 || math.Abs(float64(hist[0])) > 1e-4 {
		t.Fatalf("history=%v, want [0]", hist)
	}

	// The next sensor reading keeps the zero.
	h.st.SetPressureReading(95000, 20, 10)
	if got := h.st.Snapshot().Altitude; math.Abs(float64(got)) > 1e-4 {
		t.Fatalf("altitude after reading=%v, want 0", got)
	}
}

func TestZeroAltitudeCancel(t *testing.T) {
	h := newHarness(t, "")
	h.st.SetPressureReading(95000, 20, 10)
	h.openMenuItem(7)
	h.press(store.ButtonA)
	if h.m.Screen() != ScreenHome {
		t.Fatalf("screen=%s, want home", h.m.Screen())
	}
	if got := h.st.Snapshot().AltitudeOffset; got != 0 {
		t.Fatalf("offset=%v, want unchanged 0", got)
	}
}

func TestReaderBounds(t *testing.T) {
	h := newHarness(t, threePages)
	h.openMenuItem(5)
	if h.m.Screen() != ScreenReader {
		t.Fatalf("screen=%s, want reader", h.m.Screen())
	}
	if n := len(h.m.Pages()); n != 3 {
		t.Fatalf("pages=%d, want 3", n)
	}

	// Tap at page 0 does nothing.
	h.press(store.ButtonB)
	if h.m.Page() != 0 || len(h.pages.saves) != 0 {
		t.Fatalf("page=%d saves=%v after tap at 0", h.m.Page(), h.pages.saves)
	}

	for i := 0; i < 4; i++ {
		f := h.press(store.ButtonA)
		if i < 2 && (!f.Redraw || f.Partial) {
			t.Fatalf("next page frame=%+v, want full redraw", f)
		}
	}
	if h.m.Page() != 2 {
		t.Fatalf("page=%d, want last page 2", h.m.Page())
	}
	h.press(store.ButtonB)
	if h.m.Page() != 1 {
		t.Fatalf("page=%d after tap, want 1", h.m.Page())
	}
	want := []int{1, 2, 1}
	if len(h.pages.saves) != len(want) {
		t.Fatalf("saves=%v, want %v", h.pages.saves, want)
	}
	for i := range want {
		if h.pages.saves[i] != want[i] {
			t.Fatalf("saves=%v, want %v", h.pages.saves, want)
		}
	}
}

func TestReaderRestoresAndClampsPage(t *testing.T) {
	h := newHarness(t, threePages)
	h.pages.idx = 9
	h.openMenuItem(5)
	if h.m.Page() != 2 {
		t.Fatalf("page=%d, want clamped 2", h.m.Page())
	}
}

func TestReaderEntryPressDoesNotTap(t *testing.T) {
	h := newHarness(t, threePages)
	h.pages.idx = 2
	h.press(store.ButtonB)
	for k := 0; k < 5; k++ {
		h.press(store.ButtonA)
	}
	// B goes down in the menu and comes up inside the reader.
	h.set(store.ButtonB, true)
	if h.m.Screen() != ScreenReader {
		t.Fatalf("screen=%s, want reader", h.m.Screen())
	}
	h.set(store.ButtonB, false)
	if h.m.Page() != 2 {
		t.Fatalf("page=%d, want 2", h.m.Page())
	}
}

func TestReaderLongPressExitsOnce(t *testing.T) {
	h := newHarness(t, threePages)
	h.openMenuItem(5)
	h.press(store.ButtonA)
	saves := len(h.pages.saves)

	h.set(store.ButtonB, true)
	if !h.m.HoldPending() {
		t.Fatalf("hold not pending after press")
	}
	h.clk.advance(999 * time.Millisecond)
	if h.tick(); h.m.Screen() != ScreenReader {
		t.Fatalf("left reader before threshold")
	}
	h.clk.advance(time.Millisecond)
	f := h.tick()
	if h.m.Screen() != ScreenMenu || !f.Redraw || f.Partial {
		t.Fatalf("screen=%s frame=%+v, want menu full redraw", h.m.Screen(), f)
	}
	if len(h.pages.saves) != saves+1 {
		t.Fatalf("saves=%v, want one more save", h.pages.saves)
	}

	h.clk.advance(2 * time.Second)
	h.tick()
	h.set(store.ButtonB, false)
	if h.m.Screen() != ScreenMenu || h.m.Page() != 1 {
		t.Fatalf("release after hold: screen=%s page=%d", h.m.Screen(), h.m.Page())
	}
}

func TestReaderMissingContent(t *testing.T) {
	h := newHarness(t, "")
	h.openMenuItem(5)
	if h.m.Screen() != ScreenReader || len(h.m.Pages()) != 0 || h.m.Page() != 0 {
		t.Fatalf("screen=%s pages=%d page=%d", h.m.Screen(), len(h.m.Pages()), h.m.Page())
	}
	// A on an empty reader stays put.
	h.press(store.ButtonA)
	if h.m.Page() != 0 {
		t.Fatalf("page=%d, want 0", h.m.Page())
	}
}

func TestReaderMessages(t *testing.T) {
	cases := []struct {
		name string
		src  TextSource
		want string
	}{
		{"no storage", nil, render.ReaderStorageError},
		{"storage not implemented", content.NewSource(nil, ""), render.ReaderStorageError},
		{"missing file", textSource(""), render.ReaderEmpty},
		{"text", textSource(threePages), ""},
	}
	for _, tc := range cases {
		h := newHarnessWith(t, tc.src)
		h.openMenuItem(5)
		if h.m.Screen() != ScreenReader {
			t.Fatalf("%s: screen=%s, want reader", tc.name, h.m.Screen())
		}
		if got := h.m.ReaderMessage(); got != tc.want {
			t.Fatalf("%s: message=%q, want %q", tc.name, got, tc.want)
		}
	}
}

type recordingPanel struct {
	mu      sync.Mutex
	updates []bool
}

func (p *recordingPanel) Update(_ context.Context, _ []byte, partial bool) error {
	p.mu.Lock()
	p.updates = append(p.updates, partial)
	p.mu.Unlock()
	return nil
}

func (p *recordingPanel) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

func newTask(st *store.Store, m *Machine, clock kernel.Clock) (*Task, *recordingPanel) {
	canvas := gfx.NewCanvas(gfx.NativeWidth, gfx.NativeHeight)
	panel := &recordingPanel{}
	wake := kernel.NewNotifier()
	st.RegisterConsumer(wake)
	return &Task{
		Machine: m,
		Status:  st,
		Canvas:  canvas,
		Render:  render.New(canvas, render.DefaultFonts()),
		Panel:   panel,
		Wake:    wake,
		Clock:   clock,
	}, panel
}

func TestTaskHoldFiresWithoutInput(t *testing.T) {
	clock := kernel.NewSystemClock()
	st := store.New(clock)
	m := NewMachine(Config{
		Status:        st,
		Content:       textSource(threePages),
		Metrics:       fixedMetrics(10),
		Layout:        pager.Layout{MaxLines: 1, MaxWidth: 50},
		HoldThreshold: 120 * time.Millisecond,
	})
	task, panel := newTask(st, m, clock)
	ctx := context.Background()

	// Walk to the reader with single steps.
	step := func(b store.Button, level bool) {
		st.SetButton(b, level)
		if err := task.Step(ctx); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	step(store.ButtonB, true)
	step(store.ButtonB, false)
	for k := 0; k < 5; k++ {
		step(store.ButtonA, true)
		step(store.ButtonA, false)
	}
	step(store.ButtonB, true)
	step(store.ButtonB, false)
	if m.Screen() != ScreenReader {
		t.Fatalf("screen=%s, want reader", m.Screen())
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	before := panel.count()
	st.SetButton(store.ButtonB, true)
	go func() { done <- task.Run(runCtx) }()

	deadline := time.Now().Add(2 * time.Second)
	for panel.count() == before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run=%v, want context.Canceled", err)
	}
	if m.Screen() != ScreenMenu {
		t.Fatalf("screen=%s, want menu after hold", m.Screen())
	}
}

func TestTaskReturnsErrReboot(t *testing.T) {
	clock := &manualClock{}
	st := store.New(clock)
	m := NewMachine(Config{Status: st})
	task, _ := newTask(st, m, clock)

	m.screen = ScreenMenu
	m.selected = 4
	st.SetButton(store.ButtonB, true)
	if err := task.Run(context.Background()); !errors.Is(err, ErrReboot) {
		t.Fatalf("Run=%v, want ErrReboot", err)
	}
}
