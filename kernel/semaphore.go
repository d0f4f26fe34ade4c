package kernel

import "context"

// Semaphore is a binary semaphore. Give on an already given semaphore is a
// no-op, so a completion callback may fire more than once without
// accumulating tokens.
type Semaphore struct {
	ch chan struct{}
}

// NewSemaphore returns a semaphore that starts given (available) when given
// is true.
func NewSemaphore(given bool) *Semaphore {
	s := &Semaphore{ch: make(chan struct{}, 1)}
	if given {
		s.ch <- struct{}{}
	}
	return s
}

// Give releases the token. It reports false if the token was already
// available. Safe to call from any goroutine, including callbacks.
func (s *Semaphore) Give() bool {
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Take blocks until the token is available or ctx is done.
func (s *Semaphore) Take(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryTake takes the token if it is available.
func (s *Semaphore) TryTake() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
