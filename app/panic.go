package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"inkdash/hal"
)

// ErrTaskPanic is returned by Run after a task panicked.
var ErrTaskPanic = errors.New("app: task panicked")

// panicScreenTimeout bounds the wait for the panel while drawing the panic
// screen, since the last dashboard refresh may still be running.
const panicScreenTimeout = 10 * time.Second

// panicStackLines caps the stack frames shown on the glass.
const panicStackLines = 6

// PanicInfo describes a recovered task panic.
type PanicInfo struct {
	Task  string
	Value any
	Stack []byte
}

func (p PanicInfo) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrTaskPanic, p.Task, p.Value)
}

func (p PanicInfo) Unwrap() error { return ErrTaskPanic }

// panicTrap keeps the first panic of a run and stops the others.
type panicTrap struct {
	once   sync.Once
	cancel context.CancelFunc

	mu   sync.Mutex
	info *PanicInfo
}

func (p *panicTrap) catch(task string) {
	v := recover()
	if v == nil {
		return
	}
	p.once.Do(func() {
		p.mu.Lock()
		p.info = &PanicInfo{Task: task, Value: v, Stack: captureStack()}
		p.mu.Unlock()
		p.cancel()
	})
}

func (p *panicTrap) first() *PanicInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info
}

// showPanic writes the panic to the HAL logger and, when a console is
// available, to the glass. The e-paper keeps the message after power loss.
func showPanic(l hal.Logger, con *console, info PanicInfo) {
	lines := []string{
		"inkdash panic:",
		"task: " + info.Task,
		fmt.Sprintf("panic: %v", info.Value),
	}
	stack := stackLines(info.Stack)
	if len(stack) == 0 {
		lines = append(lines, "stack: unavailable")
	} else {
		lines = append(lines, "stack:")
		lines = append(lines, stack...)
	}

	if l != nil {
		for _, s := range lines {
			l.WriteLineString(s)
		}
	}
	if con == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), panicScreenTimeout)
	defer cancel()
	n := len(lines)
	if limit := 4 + panicStackLines; n > limit {
		n = limit
	}
	for _, s := range lines[:n] {
		con.Println(s)
	}
	if err := con.Flush(ctx); err != nil && l != nil {
		l.WriteLineString("panic screen: " + err.Error())
	}
}

// stackLines keeps the function lines of a goroutine dump, without the
// runtime frames that lead into the panic.
func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "goroutine ") || strings.HasPrefix(line, "/") {
			continue
		}
		if strings.HasPrefix(line, "runtime") || strings.HasPrefix(line, "panic(") ||
			strings.Contains(line, "app.captureStack") || strings.Contains(line, "(*panicTrap).catch") {
			continue
		}
		out = append(out, line)
	}
	return out
}
