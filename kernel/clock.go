package kernel

import "time"

// Clock is the monotonic time base shared by tasks. Now is the time elapsed
// since boot.
type Clock interface {
	Now() time.Duration
}

// SystemClock measures time since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock starts a clock at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// Ticks returns the milliseconds elapsed since boot.
func (c *SystemClock) Ticks() uint64 {
	return uint64(c.Now() / time.Millisecond)
}
