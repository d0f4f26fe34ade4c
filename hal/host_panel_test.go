//go:build !tinygo

package hal

import (
	"testing"
	"time"
)

func white(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

func refreshSync(t *testing.T, p *simPanel, mode RefreshMode) {
	t.Helper()
	done := make(chan struct{})
	if err := p.Refresh(mode, func() { close(done) }); err != nil {
		t.Fatalf("Refresh(%v): %v", mode, err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Refresh(%v) never completed", mode)
	}
}

func TestSimPanelFullRefresh(t *testing.T) {
	p := newSimPanel(8, 2, 0, 0)
	buf := []byte{0x0F, 0xFF}
	if err := p.WritePlanes(PlaneBoth, buf); err != nil {
		t.Fatal(err)
	}
	var frames []PanelFrame
	p.OnFrame(func(f PanelFrame) { frames = append(frames, f) })
	refreshSync(t, p, RefreshFull)

	img, seq := p.Glass()
	if seq != 1 || len(frames) != 1 || frames[0].Mode != RefreshFull {
		t.Fatalf("seq=%d frames=%d", seq, len(frames))
	}
	// Native (x=0,y=0) is black; in landscape that is (0, w-1).
	if got := img.GrayAt(0, 7).Y; got != 0 {
		t.Fatalf("landscape(0,7)=%d, want black", got)
	}
	if got := img.GrayAt(1, 7).Y; got != 0xFF {
		t.Fatalf("landscape(1,7)=%d, want white", got)
	}
}

func TestSimPanelPartialDrivesDeltaOnly(t *testing.T) {
	p := newSimPanel(8, 1, 0, 0)
	if err := p.WritePlanes(PlaneBoth, []byte{0xF0}); err != nil {
		t.Fatal(err)
	}
	refreshSync(t, p, RefreshFull)

	// Previous plane left stale: it claims 0xF0 is on glass.
	if err := p.WritePlanes(PlaneCurrent, []byte{0xCC}); err != nil {
		t.Fatal(err)
	}
	refreshSync(t, p, RefreshPartial)
	if got := p.glass[0]; got != 0xCC {
		t.Fatalf("glass=%08b, want %08b", got, 0xCC)
	}

	// Same image again without updating the previous plane: still correct.
	if err := p.WritePlanes(PlanePrevious, []byte{0xCC}); err != nil {
		t.Fatal(err)
	}
	p.glass[0] = 0x00 // ghost
	if err := p.WritePlanes(PlaneCurrent, []byte{0xCF}); err != nil {
		t.Fatal(err)
	}
	refreshSync(t, p, RefreshPartial)
	// Only the low two bits changed, everything else keeps the ghost.
	if got := p.glass[0]; got != 0x03 {
		t.Fatalf("glass=%08b, want %08b", got, 0x03)
	}
}

func TestSimPanelRejectsWritesWhileBusy(t *testing.T) {
	p := newSimPanel(8, 1, 50*time.Millisecond, 0)
	done := make(chan struct{})
	if err := p.Refresh(RefreshFull, func() { close(done) }); err != nil {
		t.Fatal(err)
	}
	if err := p.WritePlanes(PlaneCurrent, []byte{0}); err == nil {
		t.Fatalf("write during refresh accepted")
	}
	if err := p.Refresh(RefreshFull, nil); err == nil {
		t.Fatalf("second refresh accepted")
	}
	<-done
}
