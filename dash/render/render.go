// Package render draws the dashboard screens into a 1-bit canvas.
//
// Every function here is a pure mapping from its arguments to pixels; the
// caller owns the canvas and decides when to push it to the panel.
package render

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"

	"inkdash/dash/gfx"
)

// Surface is a clearable drawing target. *gfx.Canvas implements it.
type Surface interface {
	drivers.Displayer
	Clear()
}

// Fonts used by the screens.
type Fonts struct {
	Small  tinyfont.Fonter // labels, footer
	Medium tinyfont.Fonter // CO2 value, titles
	Large  tinyfont.Fonter // clock
	Body   tinyfont.Fonter // menu items and reader text
}

func DefaultFonts() Fonts {
	return Fonts{
		Small:  &proggy.TinySZ8pt7b,
		Medium: &freesans.Regular9pt7b,
		Large:  &freesans.Regular18pt7b,
		Body:   &proggy.TinySZ8pt7b,
	}
}

// Reader page geometry.
const (
	ReaderX          = 10
	ReaderY          = 11
	ReaderLineHeight = 15
)

type Renderer struct {
	s     Surface
	fonts Fonts
}

func New(s Surface, fonts Fonts) *Renderer {
	return &Renderer{s: s, fonts: fonts}
}

func (r *Renderer) Surface() Surface { return r.s }

func (r *Renderer) Fonts() Fonts { return r.fonts }

func (r *Renderer) text(f tinyfont.Fonter, x, y int16, s string) {
	gfx.Text(r.s, f, x, y, s, gfx.Black)
}

func (r *Renderer) textRight(f tinyfont.Fonter, x, y int16, s string) {
	gfx.TextRight(r.s, f, x, y, s, gfx.Black)
}
