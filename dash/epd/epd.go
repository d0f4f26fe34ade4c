// Package epd sequences framebuffer commits to a two-plane e-paper panel.
//
// The panel keeps the image being shown and the image shown before it in two
// RAM planes. A partial refresh only drives the pixels that differ between
// them, so after each partial refresh the previous plane is rewritten to
// match the current one. A full refresh writes both planes up front.
package epd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"inkdash/hal"
	"inkdash/kernel"
)

var (
	ErrClosed     = errors.New("epd: controller closed")
	ErrBufferSize = errors.New("epd: buffer size does not match panel")
)

// Stats counts completed commits.
type Stats struct {
	Full    uint32
	Partial uint32
}

// Controller owns the panel-ready semaphore. It is used by one task only.
type Controller struct {
	panel hal.Panel
	ready *kernel.Semaphore
	size  int

	mu     sync.Mutex
	first  bool
	closed bool
	stats  Stats
}

// New wraps p. The first Update is always a full refresh.
func New(p hal.Panel) *Controller {
	w, h := p.Size()
	return &Controller{
		panel: p,
		ready: kernel.NewSemaphore(true),
		size:  (w*h + 7) / 8,
		first: true,
	}
}

func (c *Controller) done() { c.ready.Give() }

// Update pushes buf to the panel. partial is a request; it is ignored for
// the first update after New.
func (c *Controller) Update(ctx context.Context, buf []byte, partial bool) error {
	c.mu.Lock()
	closed, first := c.closed, c.first
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if len(buf) != c.size {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(buf), c.size)
	}
	if first {
		partial = false
	}

	if err := c.ready.Take(ctx); err != nil {
		return err
	}
	var err error
	if partial {
		err = c.partial(ctx, buf)
	} else {
		err = c.full(buf)
	}
	if err != nil {
		// The two planes may no longer agree; the next update redraws both.
		c.mu.Lock()
		c.first = true
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.first = false
	if partial {
		c.stats.Partial++
	} else {
		c.stats.Full++
	}
	c.mu.Unlock()
	return nil
}

// full runs with the ready token held; the completion callback returns it.
func (c *Controller) full(buf []byte) error {
	if err := c.panel.WritePlanes(hal.PlaneBoth, buf); err != nil {
		c.ready.Give()
		return fmt.Errorf("epd: write planes: %w", err)
	}
	if err := c.panel.Refresh(hal.RefreshFull, c.done); err != nil {
		c.ready.Give()
		return fmt.Errorf("epd: full refresh: %w", err)
	}
	return nil
}

func (c *Controller) partial(ctx context.Context, buf []byte) error {
	if err := c.panel.WritePlanes(hal.PlaneCurrent, buf); err != nil {
		c.ready.Give()
		return fmt.Errorf("epd: write current plane: %w", err)
	}
	if err := c.panel.Refresh(hal.RefreshPartial, c.done); err != nil {
		c.ready.Give()
		return fmt.Errorf("epd: partial refresh: %w", err)
	}
	// The callback gives the token back once the panel is idle.
	if err := c.ready.Take(ctx); err != nil {
		return err
	}
	defer c.ready.Give()
	if err := c.panel.WritePlanes(hal.PlanePrevious, buf); err != nil {
		return fmt.Errorf("epd: write previous plane: %w", err)
	}
	return nil
}

// Wait blocks until no refresh is in flight.
func (c *Controller) Wait(ctx context.Context) error {
	if err := c.ready.Take(ctx); err != nil {
		return err
	}
	c.ready.Give()
	return nil
}

// Close makes later updates fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// ForceFull makes the next update a full refresh.
func (c *Controller) ForceFull() {
	c.mu.Lock()
	c.first = true
	c.mu.Unlock()
}

func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
