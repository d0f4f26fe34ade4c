//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"

	"inkdash/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow shows the simulated panel in a desktop window. A or Left
// presses button A, B or Right presses button B. run gets its own
// goroutine; the window closes when it returns, and closing the window
// cancels its context. It blocks until both are done.
func RunWindow(ctx context.Context, h *Host, scale, tps int, run func(ctx context.Context) error) error {
	if h.sim == nil {
		return errors.New("hal: window mode needs the sim backend")
	}
	if scale <= 0 {
		scale = 1
	}
	if tps <= 0 {
		tps = 60
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	g := &hostGame{h: h, done: done}
	ebiten.SetWindowTitle("inkdash (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(PanelHeight*scale, PanelWidth*scale)
	ebiten.SetTPS(tps)
	err := ebiten.RunGame(g)

	cancel()
	if g.finished {
		return g.runErr
	}
	runErr := <-done
	if err != nil {
		return err
	}
	return runErr
}

type hostGame struct {
	h    *Host
	done <-chan error

	finished bool
	runErr   error

	seq   uint64
	img   *ebiten.Image
	rgba  []byte
	drawn bool
}

func keyDown(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.finished = true
		g.runErr = err
		return ebiten.Termination
	default:
	}
	g.h.keyA.press(keyDown(ebiten.KeyA, ebiten.KeyArrowLeft))
	g.h.keyB.press(keyDown(ebiten.KeyB, ebiten.KeyArrowRight))
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(PanelHeight, PanelWidth)
		g.rgba = make([]byte, 4*PanelHeight*PanelWidth)
	}
	if !g.drawn || g.h.sim.Seq() != g.seq {
		gray, seq := g.h.sim.Glass()
		fillRGBA(g.rgba, gray)
		g.img.WritePixels(g.rgba)
		g.seq = seq
		g.drawn = true
	}
	screen.DrawImage(g.img, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return PanelHeight, PanelWidth
}

func fillRGBA(dst []byte, src *image.Gray) {
	for i, y := range src.Pix {
		j := i * 4
		if j+3 >= len(dst) {
			return
		}
		dst[j+0] = y
		dst[j+1] = y
		dst[j+2] = y
		dst[j+3] = 0xFF
	}
}
