package render

import (
	"fmt"

	"inkdash/dash/gfx"
)

// Menu draws the item labels with a cursor on selected.
func (r *Renderer) Menu(labels []string, selected int) {
	r.s.Clear()
	r.text(r.fonts.Medium, 10, 20, "Menu")
	y := int16(38)
	for i, l := range labels {
		prefix := "  "
		if i == selected {
			prefix = "> "
		}
		r.text(r.fonts.Body, 20, y, prefix+l)
		y += 15
	}
}

func (r *Renderer) ConfirmZeroAltitude() {
	r.s.Clear()
	r.text(r.fonts.Medium, 10, 20, "Zero Altitude")
	r.text(r.fonts.Body, 10, 50, "Set current altitude")
	r.text(r.fonts.Body, 10, 70, "to 0 meters?")
	r.text(r.fonts.Body, 10, 100, "B20: Confirm")
	r.text(r.fonts.Body, 10, 115, "B19: Cancel")
}

// Reader placeholders.
const (
	ReaderEmpty        = "File empty or not found."
	ReaderStorageError = "Storage Error"
)

// Reader draws page idx of pages with a "n / total" footer, or the empty
// placeholder when there are no pages.
func (r *Renderer) Reader(pages []string, idx int) {
	if len(pages) == 0 {
		r.ReaderMessage(ReaderEmpty)
		return
	}
	r.s.Clear()
	if idx < 0 || idx >= len(pages) {
		idx = 0
	}
	gfx.Lines(r.s, r.fonts.Body, ReaderX, ReaderY, ReaderLineHeight, pages[idx], gfx.Black)
	r.textRight(r.fonts.Small, 296, 121, fmt.Sprintf("%d / %d", idx+1, len(pages)))
}

func (r *Renderer) ReaderMessage(msg string) {
	r.s.Clear()
	r.text(r.fonts.Body, 10, 50, msg)
}
