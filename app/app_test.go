package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"inkdash/hal"
	"inkdash/internal/config"
)

type lineLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *lineLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakePanel struct {
	mu        sync.Mutex
	refreshes int
}

func (p *fakePanel) Size() (w, h int) { return hal.PanelWidth, hal.PanelHeight }

func (p *fakePanel) WritePlanes(hal.Plane, []byte) error { return nil }

func (p *fakePanel) Refresh(_ hal.RefreshMode, done func()) error {
	p.mu.Lock()
	p.refreshes++
	p.mu.Unlock()
	go done()
	return nil
}

func (p *fakePanel) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshes
}

type panicBattery struct{}

func (panicBattery) Voltage() (float32, error) { panic("adc wedged") }

type fakeHAL struct {
	log     *lineLog
	panel   hal.Panel
	battery hal.Battery
}

func (h *fakeHAL) Logger() hal.Logger           { return h.log }
func (h *fakeHAL) Panel() hal.Panel             { return h.panel }
func (h *fakeHAL) Buttons() hal.Buttons         { return nil }
func (h *fakeHAL) CO2() hal.CO2Sensor           { return nil }
func (h *fakeHAL) Pressure() hal.PressureSensor { return nil }
func (h *fakeHAL) Battery() hal.Battery         { return h.battery }
func (h *fakeHAL) Storage() hal.Storage         { return nil }
func (h *fakeHAL) Network() hal.Network         { return nil }
func (h *fakeHAL) Clock() hal.Clock             { return nil }
func (h *fakeHAL) Reset()                       {}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunWithoutPanel(t *testing.T) {
	h := &fakeHAL{log: &lineLog{}}
	err := Run(context.Background(), h, config.Default())
	if !errors.Is(err, hal.ErrNoPanel) {
		t.Fatalf("Run()=%v, want ErrNoPanel", err)
	}
}

func TestRunBootsAndStops(t *testing.T) {
	panel := &fakePanel{}
	h := &fakeHAL{log: &lineLog{}, panel: panel}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, h, config.Default()) }()

	// Boot console, then the first dashboard frame.
	waitFor(t, "two refreshes", func() bool { return panel.count() >= 2 })
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run()=%v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !h.log.contains("inkdash ") {
		t.Fatalf("no startup line in %q", h.log.lines)
	}
}

func TestRunShowsPanic(t *testing.T) {
	panel := &fakePanel{}
	h := &fakeHAL{log: &lineLog{}, panel: panel, battery: panicBattery{}}

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), h, config.Default()) }()

	var err error
	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after a panic")
	}
	if !errors.Is(err, ErrTaskPanic) {
		t.Fatalf("Run()=%v, want ErrTaskPanic", err)
	}
	var info PanicInfo
	if !errors.As(err, &info) || info.Task != "battery" {
		t.Fatalf("panic info %+v, want task battery", info)
	}
	if !h.log.contains("panic: adc wedged") {
		t.Fatalf("panic not logged: %q", h.log.lines)
	}
	// Boot screen plus panic screen at least.
	if n := panel.count(); n < 2 {
		t.Fatalf("refreshes=%d, want >= 2", n)
	}
}

func TestStackLines(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/lib/go/src/runtime/debug/stack.go:24 +0x5e
inkdash/app.captureStack(...)
	/src/app/stack_std.go:8
inkdash/app.(*panicTrap).catch(0xc000010000, {0x5a1b2c, 0x7})
	/src/app/panic.go:49 +0x8d
panic({0x4f1e20?, 0x5b0c10?})
	/usr/lib/go/src/runtime/panic.go:770 +0x132
inkdash/dash/services/sensors.(*Battery).Step(0xc000020000)
	/src/dash/services/sensors/power.go:22 +0x2b
`)
	got := stackLines(stack)
	if len(got) != 1 || !strings.HasPrefix(got[0], "inkdash/dash/services/sensors.(*Battery).Step") {
		t.Fatalf("stackLines=%q", got)
	}
}
