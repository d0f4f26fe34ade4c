package logger

import (
	"fmt"
	"strings"
	"time"

	"inkdash/kernel"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) letter() byte {
	switch l {
	case LevelDebug:
		return 'D'
	case LevelInfo:
		return 'I'
	case LevelWarn:
		return 'W'
	default:
		return 'E'
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
// Anything else is info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Sink accepts log lines. *kernel.Mailbox satisfies it.
type Sink interface {
	TrySend(msg kernel.Message) bool
}

// Logger formats tagged lines like "I (1234) ui: entering menu" and sends
// them to the logger service.
//
// The call is best-effort: lines are dropped when the sink is full. A nil
// *Logger discards everything.
type Logger struct {
	sink  Sink
	clock kernel.Clock
	tag   string
	min   Level
}

func New(sink Sink, clock kernel.Clock, tag string) *Logger {
	return &Logger{sink: sink, clock: clock, tag: tag, min: LevelInfo}
}

// With returns a logger for another tag sharing the same sink.
func (l *Logger) With(tag string) *Logger {
	if l == nil {
		return nil
	}
	cp := *l
	cp.tag = tag
	return &cp
}

func (l *Logger) SetLevel(min Level) {
	if l != nil {
		l.min = min
	}
}

func (l *Logger) Logf(level Level, format string, args ...any) {
	if l == nil || l.sink == nil || level < l.min {
		return
	}
	var ms int64
	if l.clock != nil {
		ms = int64(l.clock.Now() / time.Millisecond)
	}
	line := fmt.Sprintf("%c (%d) %s: %s", level.letter(), ms, l.tag, fmt.Sprintf(format, args...))
	l.sink.TrySend(kernel.NewMessage([]byte(line)))
}

func (l *Logger) Debugf(format string, args ...any) { l.Logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Logf(LevelError, format, args...) }
