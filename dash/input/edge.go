// Package input turns debounced button levels into UI events.
package input

// Edge derives a one-shot press flag from successive level samples.
type Edge struct {
	last    bool
	pressed bool
}

// Update records level and reports whether it is a false->true transition
// since the previous call. The flag is not sticky.
func (e *Edge) Update(level bool) bool {
	e.pressed = level && !e.last
	e.last = level
	return e.pressed
}

// Pressed reports the result of the last Update.
func (e *Edge) Pressed() bool { return e.pressed }

// Level reports the last sampled level.
func (e *Edge) Level() bool { return e.last }
