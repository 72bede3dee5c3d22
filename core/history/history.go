// Package history keeps a bounded, newest-first log of executed searches.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity bounds a Log created with a non-positive capacity.
const DefaultCapacity = 50

// Options is the snapshot of the search options an entry was run with.
type Options struct {
	Mode     string   `json:"mode"`
	Versions []string `json:"versions"`
	Books    []string `json:"books,omitempty"`
	SortBy   string   `json:"sort_by"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// Entry is one logged search.
type Entry struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Options     Options   `json:"options"`
	ResultCount int       `json:"result_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// sameSearch reports whether two entries describe the same search.
// Version and book lists compare case-insensitively and in order.
func (e *Entry) sameSearch(o *Entry) bool {
	return e.Query == o.Query &&
		e.Options.Mode == o.Options.Mode &&
		equalFold(e.Options.Versions, o.Options.Versions) &&
		equalFold(e.Options.Books, o.Options.Books)
}

func equalFold(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Log is a FIFO-bounded search history. All methods are safe for
// concurrent use; each one holds the lock for its whole effect, so readers
// never observe a partial append.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry // oldest first
	now      func() time.Time
}

// New creates a log holding at most capacity entries.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, now: time.Now}
}

// Capacity returns the bound.
func (l *Log) Capacity() int {
	return l.capacity
}

// Append adds e, filling in ID and Timestamp when empty. A previous entry
// for the same search is dropped first; past the bound the oldest entry is
// evicted. It returns the stored entry.
func (l *Log) Append(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Options.Versions = append([]string(nil), e.Options.Versions...)
	e.Options.Books = append([]string(nil), e.Options.Books...)

	l.mu.Lock()
	defer l.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	for i := range l.entries {
		if l.entries[i].sameSearch(&e) {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			break
		}
	}
	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
	return e
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (l *Log) Recent(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
