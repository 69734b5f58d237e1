// Package notify is the user-facing notification sink: a severity and
// a message, nothing more. It carries no retry or escalation logic.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Severity of a notification.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

// Notifier surfaces transient messages to the user.
type Notifier interface {
	Notify(sev Severity, msg string)
}

// Console writes glyph-prefixed lines to a writer.
type Console struct {
	W io.Writer

	mu sync.Mutex
}

// NewConsole returns a console notifier writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

func (c *Console) Notify(sev Severity, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch sev {
	case Success:
		fmt.Fprintf(c.W, "✓ %s\n", msg)
	case Error:
		fmt.Fprintf(c.W, "✗ %s\n", msg)
	default:
		fmt.Fprintf(c.W, "• %s\n", msg)
	}
}

// Event is one recorded notification.
type Event struct {
	Severity Severity
	Message  string
}

// Recorder captures notifications in order, for tests and for callers
// that want to inspect what was surfaced.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(sev Severity, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Severity: sev, Message: msg})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
