// Package debuglog holds the storefront's on-screen diagnostic log.
// Entries are timestamped strings; the log is append-only apart from an
// explicit full clear requested by the user.
package debuglog

import (
	"fmt"
	"time"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Entry is one diagnostic line.
type Entry struct {
	At      time.Time
	Message string
}

// String renders "<timestamp>: <message>".
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s", e.At.UTC().Format(TimestampLayout), e.Message)
}

// Sink is the logging callback handed to child views.
type Sink func(message string)

// Log is owned by the application root and mutated only on the UI loop.
type Log struct {
	entries []Entry
	now     func() time.Time
}

// New returns an empty log using the wall clock.
func New() *Log {
	return &Log{now: time.Now}
}

// NewWithClock returns an empty log using the supplied clock.
func NewWithClock(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append adds a timestamped entry.
func (l *Log) Append(message string) Entry {
	e := Entry{At: l.now(), Message: message}
	next := make([]Entry, len(l.entries), len(l.entries)+1)
	copy(next, l.entries)
	l.entries = append(next, e)
	return e
}

// Appendf formats and appends.
func (l *Log) Appendf(format string, args ...interface{}) Entry {
	return l.Append(fmt.Sprintf(format, args...))
}

// Clear resets the log to an empty sequence.
func (l *Log) Clear() {
	l.entries = nil
}

// Entries returns a copy of the entries in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines renders every entry.
func (l *Log) Lines() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.String()
	}
	return out
}

// Len returns the entry count.
func (l *Log) Len() int {
	return len(l.entries)
}

// Sink returns a callback appending to this log.
func (l *Log) Sink() Sink {
	return func(message string) {
		l.Append(message)
	}
}

// Seed writes the startup notices: the mount notice and the catalog size.
func Seed(l *Log, catalogSize int) {
	l.Append("Applicazione montata")
	l.Appendf("Numero di prodotti nel catalogo: %d", catalogSize)
}
