package logger

import (
	"context"

	"inkdash/hal"
	"inkdash/kernel"
)

// Service drains log lines from its mailbox into a hal.Logger.
type Service struct {
	log hal.Logger
	box kernel.Mailbox
}

func New(log hal.Logger) *Service {
	return &Service{log: log}
}

// Mailbox is where clients send lines.
func (s *Service) Mailbox() *kernel.Mailbox { return &s.box }

// Step writes at most one pending line and reports whether it did.
func (s *Service) Step() bool {
	msg, ok := s.box.TryRecv()
	if !ok {
		return false
	}
	if s.log != nil {
		s.log.WriteLineBytes(msg.Bytes())
	}
	return true
}

// Run writes lines until ctx is done, then flushes what is queued.
func (s *Service) Run(ctx context.Context) {
	for {
		msg, err := s.box.Recv(ctx)
		if err != nil {
			for s.Step() {
			}
			return
		}
		if s.log != nil {
			s.log.WriteLineBytes(msg.Bytes())
		}
	}
}

// Dropped reports lines lost to a full mailbox.
func (s *Service) Dropped() uint32 { return s.box.Dropped() }
