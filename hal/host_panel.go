//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"
)

var errPanelBusy = errors.New("panel: refresh already running")

// PanelFrame is what the simulated glass shows after a refresh.
type PanelFrame struct {
	Seq   uint64
	Mode  RefreshMode
	Image *image.Gray
}

// simPanel models a two-plane e-paper controller. A full refresh copies the
// current plane to the glass. A partial refresh only drives pixels that
// differ between the current and previous planes, so a stale previous plane
// leaves stale pixels behind, as on real glass.
type simPanel struct {
	w, h int

	mu      sync.Mutex
	full    time.Duration
	partial time.Duration
	cur     []byte
	prev    []byte
	glass   []byte
	busy    bool
	seq     uint64
	onFrame func(PanelFrame)
}

func newSimPanel(w, h int, full, partial time.Duration) *simPanel {
	n := (w*h + 7) / 8
	p := &simPanel{
		w:       w,
		h:       h,
		full:    full,
		partial: partial,
		cur:     make([]byte, n),
		prev:    make([]byte, n),
		glass:   make([]byte, n),
	}
	for i := range p.glass {
		p.cur[i], p.prev[i], p.glass[i] = 0xFF, 0xFF, 0xFF
	}
	return p
}

func (p *simPanel) Size() (w, h int) { return p.w, p.h }

// SetTiming changes the refresh latencies for the next refresh.
func (p *simPanel) SetTiming(full, partial time.Duration) {
	p.mu.Lock()
	p.full, p.partial = full, partial
	p.mu.Unlock()
}

// OnFrame registers fn to receive every completed refresh.
func (p *simPanel) OnFrame(fn func(PanelFrame)) {
	p.mu.Lock()
	p.onFrame = fn
	p.mu.Unlock()
}

func (p *simPanel) WritePlanes(planes Plane, buf []byte) error {
	if len(buf) != len(p.cur) {
		return fmt.Errorf("panel: buffer is %d bytes, want %d", len(buf), len(p.cur))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return errPanelBusy
	}
	if planes&PlaneCurrent != 0 {
		copy(p.cur, buf)
	}
	if planes&PlanePrevious != 0 {
		copy(p.prev, buf)
	}
	return nil
}

func (p *simPanel) Refresh(mode RefreshMode, done func()) error {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return errPanelBusy
	}
	p.busy = true
	d := p.full
	if mode == RefreshPartial {
		d = p.partial
	}
	p.mu.Unlock()

	time.AfterFunc(d, func() {
		p.mu.Lock()
		p.apply(mode)
		p.busy = false
		p.seq++
		fn := p.onFrame
		var f PanelFrame
		if fn != nil {
			f = PanelFrame{Seq: p.seq, Mode: mode, Image: landscape(p.glass, p.w, p.h)}
		}
		p.mu.Unlock()

		if fn != nil {
			fn(f)
		}
		if done != nil {
			done()
		}
	})
	return nil
}

func (p *simPanel) apply(mode RefreshMode) {
	if mode == RefreshFull {
		copy(p.glass, p.cur)
		return
	}
	for i := range p.glass {
		diff := p.cur[i] ^ p.prev[i]
		p.glass[i] = p.glass[i]&^diff | p.cur[i]&diff
	}
}

// Glass returns the image on the glass and the number of refreshes so far.
func (p *simPanel) Glass() (*image.Gray, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return landscape(p.glass, p.w, p.h), p.seq
}

// Seq returns the number of completed refreshes.
func (p *simPanel) Seq() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// landscape turns a native portrait buffer into the landscape image the UI
// drew, undoing the canvas' 90 degree rotation.
func landscape(buf []byte, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			i := x*w + (w - 1 - y)
			c := color.Gray{Y: 0xFF}
			if buf[i/8]&(0x80>>uint(i%8)) == 0 {
				c.Y = 0
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}
