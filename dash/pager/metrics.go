package pager

import "tinygo.org/x/tinyfont"

// FontMetrics measures text with a tinyfont font. Only runes in
// [First, Last] that the font actually carries have a width.
type FontMetrics struct {
	Font  tinyfont.Fonter
	First rune
	Last  rune
}

// NewFontMetrics covers printable ASCII.
func NewFontMetrics(f tinyfont.Fonter) FontMetrics {
	return FontMetrics{Font: f, First: 0x20, Last: 0x7e}
}

func (m FontMetrics) Advance(r rune) int {
	if m.Font == nil || r < m.First || r > m.Last {
		return 0
	}
	g := m.Font.GetGlyph(r)
	if g == nil {
		return 0
	}
	info := g.Info()
	if info.Rune != r {
		return 0
	}
	return int(info.XAdvance)
}
