package kernel

import (
	"context"
	"sync/atomic"
)

// MaxMessageBytes is the maximum payload size for mailbox messages.
const MaxMessageBytes = 192

// Message is a fixed-size message envelope.
type Message struct {
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Bytes returns the payload.
func (m *Message) Bytes() []byte { return m.Data[:m.Len] }

// NewMessage copies p into a message, truncating to MaxMessageBytes.
func NewMessage(p []byte) Message {
	var msg Message
	if len(p) > MaxMessageBytes {
		p = p[:MaxMessageBytes]
	}
	msg.Len = uint16(copy(msg.Data[:], p))
	return msg
}

const mailboxSlots = 32

// Mailbox is a fixed-size multi-producer, single-consumer queue.
// It never allocates and senders never block.
type Mailbox struct {
	_       [0]func() // prevent accidental copying.
	head    atomic.Uint32
	tail    atomic.Uint32
	ready   [mailboxSlots]atomic.Bool
	slots   [mailboxSlots]Message
	dropped atomic.Uint32
	wake    Notifier
}

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		head := mb.head.Load()
		tail := mb.tail.Load()
		if head-tail >= mailboxSlots {
			mb.dropped.Add(1)
			return false
		}
		if mb.head.CompareAndSwap(head, head+1) {
			slot := head % mailboxSlots
			mb.slots[slot] = msg
			mb.ready[slot].Store(true)
			mb.wake.Notify()
			return true
		}
	}
}

// TryRecv attempts to dequeue one message, returning false if empty.
func (mb *Mailbox) TryRecv() (Message, bool) {
	tail := mb.tail.Load()
	if tail == mb.head.Load() {
		return Message{}, false
	}
	slot := tail % mailboxSlots
	// The slot is reserved but the producer has not finished copying yet.
	if !mb.ready[slot].Load() {
		return Message{}, false
	}
	msg := mb.slots[slot]
	mb.ready[slot].Store(false)
	mb.tail.Store(tail + 1)
	return msg, true
}

// Recv blocks until one message is available or ctx is done.
func (mb *Mailbox) Recv(ctx context.Context) (Message, error) {
	for {
		if msg, ok := mb.TryRecv(); ok {
			return msg, nil
		}
		if _, err := mb.wake.Wait(ctx, 0); err != nil {
			return Message{}, err
		}
	}
}

// Dropped reports how many sends were rejected because the mailbox was full.
func (mb *Mailbox) Dropped() uint32 { return mb.dropped.Load() }
