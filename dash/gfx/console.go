package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Console is an off-screen text surface with hardware-style vertical
// scrolling, used as the target of a tinyterm terminal during boot and on
// panic. DrawTo copies the visible window onto a display.
type Console struct {
	w, h   int16
	ink    []byte
	scroll int16

	// Inverse swaps ink and paper in DrawTo, for terminals that draw light
	// text on a dark background.
	Inverse bool
	// OnDisplay, if set, is called by Display.
	OnDisplay func() error
}

func NewConsole(w, h int16) *Console {
	return &Console{w: w, h: h, ink: make([]byte, (int(w)*int(h)+7)/8)}
}

func (c *Console) Size() (x, y int16) { return c.w, c.h }

func (c *Console) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	i := int(y)*int(c.w) + int(x)
	if IsInk(col) {
		c.ink[i/8] |= 0x80 >> uint(i%8)
	} else {
		c.ink[i/8] &^= 0x80 >> uint(i%8)
	}
}

func (c *Console) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	FillRect(c, x, y, width, height, col)
	return nil
}

// SetScroll makes buffer row line the top visible row.
func (c *Console) SetScroll(line int16) {
	if c.h == 0 {
		return
	}
	line %= c.h
	if line < 0 {
		line += c.h
	}
	c.scroll = line
}

func (c *Console) SetRotation(drivers.Rotation) error { return nil }

func (c *Console) Display() error {
	if c.OnDisplay == nil {
		return nil
	}
	return c.OnDisplay()
}

func (c *Console) inkAt(x, y int16) bool {
	i := int(y)*int(c.w) + int(x)
	return c.ink[i/8]&(0x80>>uint(i%8)) != 0
}

// DrawTo paints the visible rows onto d, black on white.
func (c *Console) DrawTo(d drivers.Displayer) {
	for vy := int16(0); vy < c.h; vy++ {
		by := (vy + c.scroll) % c.h
		for x := int16(0); x < c.w; x++ {
			if c.inkAt(x, by) != c.Inverse {
				d.SetPixel(x, vy, Black)
			} else {
				d.SetPixel(x, vy, White)
			}
		}
	}
}
