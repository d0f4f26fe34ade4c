// Package pager lays text out into fixed-size pages for the reader screen.
//
// Layout is greedy: words are separated by a space while they fit, wrap to a
// new line when they do not, and a run of two or more newlines in the source
// becomes a blank line. A page holds at most MaxLines lines and no line is
// wider than MaxWidth pixels: a word wider than a line is cut at glyph
// boundaries and each piece starts a new line.
package pager

import "strings"

const (
	MaxLinesPerPage = 7
	MaxLineWidth    = 286
)

// Metrics reports the horizontal advance of a rune in pixels. Runes the font
// cannot draw must report 0.
type Metrics interface {
	Advance(r rune) int
}

// TextWidth sums the advances of every rune in s.
func TextWidth(m Metrics, s string) int {
	w := 0
	for _, r := range s {
		w += m.Advance(r)
	}
	return w
}

// Layout holds the page bounds.
type Layout struct {
	MaxLines int
	MaxWidth int
}

// DefaultLayout matches the reader screen.
var DefaultLayout = Layout{MaxLines: MaxLinesPerPage, MaxWidth: MaxLineWidth}

// Paginate lays text out with DefaultLayout.
func Paginate(text string, m Metrics) []string {
	return DefaultLayout.Paginate(text, m)
}

// Paginate returns every page of text.
func (l Layout) Paginate(text string, m Metrics) []string {
	var pages []string
	p := l.NewPaginator(text, m)
	for {
		page, ok := p.Next()
		if !ok {
			return pages
		}
		pages = append(pages, page)
	}
}

// Paginator produces pages one at a time. Reset restarts the layout from
// the beginning of the text.
type Paginator struct {
	layout Layout
	m      Metrics
	text   string

	idx     int
	pending string // word carried over to the next page
	carry   string // rest of a word cut at the line width
	spaceW  int
	done    bool
}

// NewPaginator prepares a lazy layout of text.
func (l Layout) NewPaginator(text string, m Metrics) *Paginator {
	if l.MaxLines < 1 {
		l.MaxLines = 1
	}
	return &Paginator{layout: l, m: m, text: text, spaceW: m.Advance(' ')}
}

func (p *Paginator) Reset() {
	p.idx = 0
	p.pending = ""
	p.carry = ""
	p.done = false
}

func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\r' }

// token returns the next word and the number of newlines skipped before it.
// cont is set for the rest of a cut word, which must start a new line.
func (p *Paginator) token() (word string, newlines int, cont, ok bool) {
	if p.carry != "" {
		word, p.carry = p.carry, ""
		return word, 0, true, true
	}
	s := p.text
	i := p.idx
	for i < len(s) && isSpace(s[i]) {
		if s[i] == '\n' {
			newlines++
		}
		i++
	}
	if i >= len(s) {
		p.idx = i
		return "", newlines, false, false
	}
	start := i
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	p.idx = i
	return s[start:i], newlines, false, true
}

// cut splits word after the longest prefix that fits on one line. The
// prefix keeps at least one rune so that layout always advances.
func (p *Paginator) cut(word string) (head, tail string) {
	w := 0
	for i, r := range word {
		w += p.m.Advance(r)
		if w > p.layout.MaxWidth && i > 0 {
			return word[:i], word[i:]
		}
	}
	return word, ""
}

// Next returns the next page, or false once the text is exhausted.
func (p *Paginator) Next() (string, bool) {
	if p.done {
		return "", false
	}

	var page strings.Builder
	lines := 0
	width := 0

	if p.pending != "" {
		page.WriteString(p.pending)
		width = TextWidth(p.m, p.pending)
		p.pending = ""
	}

	for {
		word, newlines, cont, ok := p.token()
		if !ok {
			p.done = true
			break
		}
		wordW := TextWidth(p.m, word)
		if wordW > p.layout.MaxWidth {
			word, p.carry = p.cut(word)
			wordW = TextWidth(p.m, word)
		}

		if page.Len() > 0 {
			if newlines >= 2 {
				cost := 1
				if width > 0 {
					cost = 2
				}
				if lines+cost >= p.layout.MaxLines {
					// The break is implicit at the top of the next page.
					p.pending = word
					return page.String(), true
				}
				page.WriteString(strings.Repeat("\n", cost))
				lines += cost
				width = 0
			} else if cont || width+p.spaceW+wordW > p.layout.MaxWidth {
				if lines+1 >= p.layout.MaxLines {
					p.pending = word
					return page.String(), true
				}
				page.WriteByte('\n')
				lines++
				width = 0
			} else {
				page.WriteByte(' ')
				width += p.spaceW
			}
		}

		page.WriteString(word)
		width += wordW
	}

	if page.Len() == 0 {
		return "", false
	}
	return page.String(), true
}

// ClampIndex limits a page index to [0, n-1], or 0 when there are no pages.
func ClampIndex(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
