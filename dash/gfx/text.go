package gfx

import (
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Text draws s with its baseline at y.
func Text(d drivers.Displayer, f tinyfont.Fonter, x, y int16, s string, c color.RGBA) {
	tinyfont.WriteLine(d, f, x, y, s, c)
}

// TextWidth is the advance width of s in f.
func TextWidth(f tinyfont.Fonter, s string) int16 {
	_, outbox := tinyfont.LineWidth(f, s)
	return int16(outbox)
}

// TextRight draws s so that it ends at x.
func TextRight(d drivers.Displayer, f tinyfont.Fonter, x, y int16, s string, c color.RGBA) {
	Text(d, f, x-TextWidth(f, s), y, s, c)
}

// Lines draws newline separated text, one baseline every lineHeight pixels.
func Lines(d drivers.Displayer, f tinyfont.Fonter, x, y, lineHeight int16, s string, c color.RGBA) {
	for i, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		Text(d, f, x, y+int16(i)*lineHeight, line, c)
	}
}
