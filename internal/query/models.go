// Package query defines the entities a search produces and the Source
// interface the output pipeline consumes. Sources hand out threads, messages,
// tags and filenames as single-pass cursors; a SQLite-backed implementation
// lives in sqlite.go.
package query

import (
	"context"
	"strings"
	"time"
)

// Thread is one conversation in a search result.
type Thread struct {
	ID      string
	Authors string // matched authors, then "| " and the unmatched ones
	Subject string
	Oldest  time.Time
	Newest  time.Time
	Matched int
	Total   int
	Tags    []string

	// LoadMessages returns every message of the thread in date order,
	// matched and unmatched alike. Nil means the thread has no messages.
	LoadMessages func(ctx context.Context) (Cursor[*Message], error)

	// OnClose is called once when the thread is released.
	OnClose func()
	closed  bool
}

// Messages opens the thread's message sequence.
func (t *Thread) Messages(ctx context.Context) (Cursor[*Message], error) {
	if t.LoadMessages == nil {
		return NewSliceCursor[*Message](nil), nil
	}
	return t.LoadMessages(ctx)
}

// Close releases the thread. Further calls are no-ops.
func (t *Thread) Close() {
	if t.closed {
		return
	}
	t.closed = true
	if t.OnClose != nil {
		t.OnClose()
	}
}

// Closed reports whether Close has been called.
func (t *Thread) Closed() bool { return t.closed }

// Message is one indexed message.
type Message struct {
	ID       string
	ThreadID string
	Date     time.Time

	// Matched is set when the message itself satisfied the query rather
	// than being included as thread context.
	Matched bool
	// Excluded is set when the message carries an exclude tag and the
	// query runs in flag mode.
	Excluded bool

	Headers map[string]string // keyed by lower-case header name
	Tags    []string

	// LoadFilenames returns the absolute paths the message was indexed
	// from, in index order.
	LoadFilenames func(ctx context.Context) (Cursor[string], error)

	OnClose func()
	closed  bool
}

// Header returns the raw value of the named header, or "" if absent.
func (m *Message) Header(name string) string {
	return m.Headers[strings.ToLower(name)]
}

// Filenames opens the message's filename sequence.
func (m *Message) Filenames(ctx context.Context) (Cursor[string], error) {
	if m.LoadFilenames == nil {
		return NewSliceCursor[string](nil), nil
	}
	return m.LoadFilenames(ctx)
}

// CountFilenames drains the filename sequence and returns its length.
func (m *Message) CountFilenames(ctx context.Context) (int, error) {
	files, err := m.Filenames(ctx)
	if err != nil {
		return 0, err
	}
	defer files.Close()

	n := 0
	for files.Next() {
		n++
	}
	return n, files.Err()
}

// Close releases the message. Further calls are no-ops.
func (m *Message) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.OnClose != nil {
		m.OnClose()
	}
}

// Closed reports whether Close has been called.
func (m *Message) Closed() bool { return m.closed }
