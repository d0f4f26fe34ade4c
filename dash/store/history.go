package store

// HistoryCap is the number of samples kept per history.
const HistoryCap = 200

// History is a fixed-capacity sliding window. Appending to a full window
// drops the oldest sample.
type History[T any] struct {
	buf   []T
	head  int
	count int
}

// NewHistory returns an empty window holding at most n samples.
func NewHistory[T any](n int) *History[T] {
	if n < 1 {
		n = 1
	}
	return &History[T]{buf: make([]T, n)}
}

func (h *History[T]) Len() int { return h.count }
func (h *History[T]) Cap() int { return len(h.buf) }

func (h *History[T]) Append(v T) {
	h.buf[h.head] = v
	h.head++
	if h.head >= len(h.buf) {
		h.head = 0
	}
	if h.count < len(h.buf) {
		h.count++
	}
}

// At returns the i-th oldest sample.
func (h *History[T]) At(i int) T {
	var zero T
	if i < 0 || i >= h.count {
		return zero
	}
	start := h.head - h.count
	if start < 0 {
		start += len(h.buf)
	}
	idx := start + i
	if idx >= len(h.buf) {
		idx -= len(h.buf)
	}
	return h.buf[idx]
}

// Slice copies the samples out in insertion order.
func (h *History[T]) Slice() []T {
	out := make([]T, h.count)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}

func (h *History[T]) Clear() {
	h.head = 0
	h.count = 0
}
