package ui

import (
	"context"
	"errors"
	"time"

	"inkdash/dash/client/logger"
	"inkdash/dash/gfx"
	"inkdash/dash/render"
	"inkdash/hal"
	"inkdash/kernel"
)

// HoldPollInterval bounds the wait while a reader hold is being timed, so
// the hold fires without any new input.
const HoldPollInterval = 50 * time.Millisecond

// Panel commits a framebuffer. *epd.Controller satisfies it.
type Panel interface {
	Update(ctx context.Context, buf []byte, partial bool) error
}

// Task runs a Machine: wait for a wake-up, evaluate, redraw if needed.
type Task struct {
	Machine *Machine
	Status  Status
	Canvas  *gfx.Canvas
	Render  *render.Renderer
	Panel   Panel
	Wake    *kernel.Notifier
	Clock   kernel.Clock
	Wall    hal.Clock
	Log     *logger.Logger
}

// Run returns ErrReboot after the Reboot entry, or ctx's error.
func (t *Task) Run(ctx context.Context) error {
	for {
		if err := t.Step(ctx); err != nil {
			return err
		}
		if t.Machine.RebootRequested() {
			return ErrReboot
		}

		var timeout time.Duration
		if t.Machine.HoldPending() {
			timeout = HoldPollInterval
		}
		if _, err := t.Wake.Wait(ctx, timeout); err != nil {
			return err
		}
	}
}

// Step is one evaluation tick.
func (t *Task) Step(ctx context.Context) error {
	snap := t.Status.Snapshot()
	f := t.Machine.Tick(snap, t.Clock.Now())
	if !f.Redraw || t.Machine.RebootRequested() {
		return nil
	}

	wall := time.Now()
	if t.Wall != nil {
		wall = t.Wall.Now()
	}
	t.Machine.Draw(t.Render, snap, wall)
	t.Log.Debugf("update display (partial: %v, screen %s)", f.Partial, t.Machine.Screen())
	err := t.Panel.Update(ctx, t.Canvas.Buffer(), f.Partial)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	t.Log.Errorf("display update: %v", err)
	return nil
}
