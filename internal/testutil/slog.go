// Package testutil holds test helpers shared across packages.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is a single captured log record.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is an slog.Handler that buffers records so tests can assert
// on what was logged.
type LogCapture struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

// NewLogCapture returns a capturing handler. Records are echoed to the
// test log for debugging.
func NewLogCapture(t *testing.T) *LogCapture {
	return &LogCapture{t: t}
}

// Logger returns a logger backed by this capture.
func (c *LogCapture) Logger() *slog.Logger {
	return slog.New(c)
}

// Handle implements slog.Handler.
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	c.mu.Lock()
	c.records = append(c.records, LogRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	c.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// Enabled implements slog.Handler. Tests capture every level.
func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

// WithAttrs implements slog.Handler.
func (c *LogCapture) WithAttrs([]slog.Attr) slog.Handler { return c }

// WithGroup implements slog.Handler.
func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Records returns a copy of the captured records.
func (c *LogCapture) Records() []LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LogRecord, len(c.records))
	copy(out, c.records)
	return out
}

// CountByLevel returns how many records were logged at the given level.
func (c *LogCapture) CountByLevel(level slog.Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// ContainsMessage reports whether any record's message contains the
// given substring.
func (c *LogCapture) ContainsMessage(message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}
