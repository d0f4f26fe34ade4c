package kernel

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNotifierCollapsesWakeups(t *testing.T) {
	n := NewNotifier()
	n.Notify()
	n.Notify()
	n.Notify()

	ctx := context.Background()
	woken, err := n.Wait(ctx, time.Millisecond)
	if err != nil || !woken {
		t.Fatalf("Wait() = %v, %v; want true, nil", woken, err)
	}
	woken, err = n.Wait(ctx, time.Millisecond)
	if err != nil || woken {
		t.Fatalf("second Wait() = %v, %v; want false, nil", woken, err)
	}
}

func TestNotifierZeroValue(t *testing.T) {
	var n Notifier
	n.Notify()
	select {
	case <-n.C():
	default:
		t.Fatal("C() not ready after Notify")
	}
}

func TestNotifierWaitCanceled(t *testing.T) {
	n := NewNotifier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := n.Wait(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() err = %v, want context.Canceled", err)
	}
}

func TestNotifierWakesBlockedWaiter(t *testing.T) {
	n := NewNotifier()
	done := make(chan bool)
	go func() {
		woken, _ := n.Wait(context.Background(), 0)
		done <- woken
	}()
	time.Sleep(5 * time.Millisecond)
	n.Notify()
	select {
	case woken := <-done:
		if !woken {
			t.Fatal("waiter returned without wake-up")
		}
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

func TestSemaphoreBinary(t *testing.T) {
	s := NewSemaphore(false)
	if s.TryTake() {
		t.Fatal("TryTake() on empty semaphore = true")
	}
	if !s.Give() {
		t.Fatal("first Give() = false")
	}
	if s.Give() {
		t.Fatal("second Give() = true, want false")
	}
	if !s.TryTake() {
		t.Fatal("TryTake() after Give = false")
	}
	if s.TryTake() {
		t.Fatal("TryTake() twice = true")
	}
}

func TestSemaphoreTakeBlocksUntilGive(t *testing.T) {
	s := NewSemaphore(false)
	go func() {
		time.Sleep(5 * time.Millisecond)
		s.Give()
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Take(ctx); err != nil {
		t.Fatalf("Take() err = %v", err)
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	c := NewSystemClock()
	a := c.Now()
	time.Sleep(2 * time.Millisecond)
	b := c.Now()
	if b <= a {
		t.Fatalf("Now() did not advance: %v then %v", a, b)
	}
}
