package kernel

import (
	"context"
	"sync"
	"time"
)

// Notifier is a binary wake-up signal for a single waiting task.
//
// Any number of Notify calls made while nobody waits collapse into one
// pending wake-up. The zero value is ready to use.
type Notifier struct {
	once sync.Once
	ch   chan struct{}
}

// NewNotifier returns a notifier with no pending wake-up.
func NewNotifier() *Notifier {
	n := &Notifier{}
	n.init()
	return n
}

func (n *Notifier) init() {
	n.once.Do(func() { n.ch = make(chan struct{}, 1) })
}

// Notify marks a wake-up as pending. It never blocks.
func (n *Notifier) Notify() {
	n.init()
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// C exposes the wake-up channel for use in select statements.
func (n *Notifier) C() <-chan struct{} {
	n.init()
	return n.ch
}

// Wait blocks until a wake-up is pending, the timeout elapses or ctx is done.
// A timeout <= 0 waits without a bound. It reports whether a wake-up was
// consumed.
func (n *Notifier) Wait(ctx context.Context, timeout time.Duration) (bool, error) {
	n.init()
	if timeout <= 0 {
		select {
		case <-n.ch:
			return true, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-n.ch:
		return true, nil
	case <-t.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
