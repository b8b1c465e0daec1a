// Package activity provides an append-only record of every request/response
// exchange with MCP servers, consumed by the admin surface.
package activity

import (
	"slices"
	"sync"
	"time"

	"github.com/mcphub-dev/mcphub/internal/domain"
)

// DefaultCapacity is the number of entries retained when no capacity is configured.
const DefaultCapacity = 1000

// Log is a bounded, append-only activity log.
// It is safe for concurrent use by multiple goroutines.
type Log struct {
	mu       sync.Mutex
	entries  []domain.LogEntry
	capacity int
}

// NewLog creates a Log retaining at most capacity entries.
// A capacity of 0 means unbounded; negative values fall back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity < 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
	}
}

// Append records a single entry, stamping the current UTC time if unset.
// When the log is at capacity the oldest entry is dropped.
func (l *Log) Append(entry domain.LogEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if l.capacity > 0 && len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Snapshot returns a read-only copy of all retained entries in insertion order.
func (l *Log) Snapshot() []domain.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Clear discards all retained entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
