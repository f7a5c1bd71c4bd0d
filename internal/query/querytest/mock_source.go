// Package querytest provides shared test doubles for the query.Source interface.
package querytest

import (
	"context"
	"strings"
	"time"

	"github.com/wesm/msgsearch/internal/query"
)

// MockSource implements query.Source over in-memory fixtures. Each method
// delegates to an optional function field; when the field is nil, the
// fixtures are served.
type MockSource struct {
	Query       string
	Threads     []*query.Thread
	Messages    []*query.Message
	AllTagList  []string // served by AllTags
	MatchedTags []string // served by CollectTags

	// NoResults makes every search method fail with query.ErrNoResults.
	NoResults bool

	// Optional overrides — set these to customise behavior per-test.
	CountThreadsFunc   func(context.Context) (int, error)
	CountMessagesFunc  func(context.Context) (int, error)
	SearchThreadsFunc  func(context.Context) (query.Cursor[*query.Thread], error)
	SearchMessagesFunc func(context.Context) (query.Cursor[*query.Message], error)

	// CountCalls records how many times either count method ran.
	CountCalls int

	// Cursors handed out by the search methods, for Closed checks.
	ThreadCursor  *query.SliceCursor[*query.Thread]
	MessageCursor *query.SliceCursor[*query.Message]
	TagCursor     *query.SliceCursor[string]
}

// Compile-time check.
var _ query.Source = (*MockSource)(nil)

func (m *MockSource) QueryString() string { return m.Query }

func (m *MockSource) CountThreads(ctx context.Context) (int, error) {
	m.CountCalls++
	if m.CountThreadsFunc != nil {
		return m.CountThreadsFunc(ctx)
	}
	return len(m.Threads), nil
}

func (m *MockSource) CountMessages(ctx context.Context) (int, error) {
	m.CountCalls++
	if m.CountMessagesFunc != nil {
		return m.CountMessagesFunc(ctx)
	}
	return len(m.Messages), nil
}

func (m *MockSource) SearchThreads(ctx context.Context) (query.Cursor[*query.Thread], error) {
	if m.SearchThreadsFunc != nil {
		return m.SearchThreadsFunc(ctx)
	}
	if m.NoResults {
		return nil, query.ErrNoResults
	}
	m.ThreadCursor = query.NewSliceCursor(m.Threads)
	return m.ThreadCursor, nil
}

func (m *MockSource) SearchMessages(ctx context.Context) (query.Cursor[*query.Message], error) {
	if m.SearchMessagesFunc != nil {
		return m.SearchMessagesFunc(ctx)
	}
	if m.NoResults {
		return nil, query.ErrNoResults
	}
	m.MessageCursor = query.NewSliceCursor(m.Messages)
	return m.MessageCursor, nil
}

func (m *MockSource) AllTags(context.Context) (query.Cursor[string], error) {
	if m.NoResults {
		return nil, query.ErrNoResults
	}
	m.TagCursor = query.NewSliceCursor(m.AllTagList)
	return m.TagCursor, nil
}

func (m *MockSource) CollectTags(context.Context) (query.Cursor[string], error) {
	if m.NoResults {
		return nil, query.ErrNoResults
	}
	m.TagCursor = query.NewSliceCursor(m.MatchedTags)
	return m.TagCursor, nil
}

// NewMessage returns a matched message with the given id, headers and files.
// Header names are lower-cased.
func NewMessage(id string, headers map[string]string, filenames ...string) *query.Message {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[strings.ToLower(k)] = v
	}
	return &query.Message{
		ID:      id,
		Matched: true,
		Headers: h,
		LoadFilenames: func(context.Context) (query.Cursor[string], error) {
			return query.NewSliceCursor(filenames), nil
		},
	}
}

// NewThread returns a thread over msgs. Matched and Total are derived from
// the messages; the caller may overwrite any field afterwards.
func NewThread(id string, msgs ...*query.Message) *query.Thread {
	t := &query.Thread{
		ID:    id,
		Total: len(msgs),
		LoadMessages: func(context.Context) (query.Cursor[*query.Message], error) {
			return query.NewSliceCursor(msgs), nil
		},
	}
	for i, m := range msgs {
		m.ThreadID = id
		if m.Matched && !m.Excluded {
			t.Matched++
		}
		if i == 0 || m.Date.Before(t.Oldest) {
			t.Oldest = m.Date
		}
		if i == 0 || m.Date.After(t.Newest) {
			t.Newest = m.Date
		}
	}
	return t
}

// At sets m's date and returns m.
func At(m *query.Message, d time.Time) *query.Message {
	m.Date = d
	return m
}
