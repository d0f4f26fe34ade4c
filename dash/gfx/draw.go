package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
)

func HLine(d drivers.Displayer, x0, x1, y int16, c color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		d.SetPixel(x, y, c)
	}
}

func VLine(d drivers.Displayer, x, y0, y1 int16, c color.RGBA) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		d.SetPixel(x, y, c)
	}
}

// DottedHLine sets every step-th pixel starting at x0.
func DottedHLine(d drivers.Displayer, x0, x1, y, step int16, c color.RGBA) {
	if step < 1 {
		step = 1
	}
	for x := x0; x <= x1; x += step {
		d.SetPixel(x, y, c)
	}
}

func Rect(d drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	HLine(d, x, x+w-1, y, c)
	HLine(d, x, x+w-1, y+h-1, c)
	VLine(d, x, y, y+h-1, c)
	VLine(d, x+w-1, y, y+h-1, c)
}

func FillRect(d drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.SetPixel(xx, yy, c)
		}
	}
}

// Bitmap is a 1-bit image: rows padded to whole bytes, most significant bit
// first, set bits are drawn.
type Bitmap struct {
	W, H int16
	Bits []byte
}

// DrawBitmap draws the set bits of b with its top-left corner at (x, y).
func DrawBitmap(d drivers.Displayer, x, y int16, b Bitmap, c color.RGBA) {
	stride := (int(b.W) + 7) / 8
	for row := int16(0); row < b.H; row++ {
		for col := int16(0); col < b.W; col++ {
			i := int(row)*stride + int(col)/8
			if i >= len(b.Bits) {
				return
			}
			if b.Bits[i]&(0x80>>(uint(col)%8)) != 0 {
				d.SetPixel(x+col, y+row, c)
			}
		}
	}
}
