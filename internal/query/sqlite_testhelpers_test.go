package query

import (
	"context"
	"testing"
	"time"

	"github.com/wesm/msgsearch/internal/testutil"
)

var defaultExcludeTags = []string{"deleted", "spam"}

// testEnv bundles a populated index and a context for SQLiteSource tests.
type testEnv struct {
	t   *testing.T
	Ctx context.Context
	src func(q string, opts Options) *SQLiteSource
}

// newTestEnv creates an index holding three threads:
//
//	t1: m1 Alice "Hello" [inbox], m2 Bob "Re: Hello" [inbox unread]
//	t2: m3 Carol "Cheap offer" [spam]
//	t3: m4 Alice "Notes" [inbox] (two files), m5 Dave "Re: Notes" [deleted]
func newTestEnv(t *testing.T, extra ...*testutil.MessageBuilder) *testEnv {
	t.Helper()
	st := testutil.NewTestStore(t)
	base := testutil.BaseDate

	msgs := []*testutil.MessageBuilder{
		testutil.NewMessage("m1@x", "t1").
			WithFrom("Alice <alice@example.com>").WithTo("Bob <bob@example.com>").
			WithSubject("Hello").WithTags("inbox").WithDate(base),
		testutil.NewMessage("m2@x", "t1").
			WithFrom("Bob <bob@example.com>").WithTo("Alice <alice@example.com>").
			WithSubject("Re: Hello").WithTags("inbox", "unread").WithDate(base.Add(time.Hour)),
		testutil.NewMessage("m3@x", "t2").
			WithFrom("Carol <carol@example.com>").
			WithSubject("Cheap offer").WithTags("spam").WithDate(base.Add(2 * time.Hour)),
		testutil.NewMessage("m4@x", "t3").
			WithFrom("Alice <alice@example.com>").WithCc("Dave <dave@example.com>").
			WithSubject("Notes").WithTags("inbox").WithDate(base.Add(3*time.Hour)).
			WithFilenames("/mail/cur/m4", "/mail/archive/m4"),
		testutil.NewMessage("m5@x", "t3").
			WithFrom("Dave <dave@example.com>").
			WithSubject("Re: Notes").WithTags("deleted").WithDate(base.Add(4 * time.Hour)),
	}
	testutil.AddMessages(t, st, append(msgs, extra...)...)

	return &testEnv{
		t:   t,
		Ctx: context.Background(),
		src: func(q string, opts Options) *SQLiteSource {
			return NewSQLiteSource(st.DB(), q, opts)
		},
	}
}

// source returns a source for q honoring the default exclude tags.
func (e *testEnv) source(q string, exclude Exclude) *SQLiteSource {
	return e.src(q, Options{Exclude: exclude, ExcludeTags: defaultExcludeTags})
}

// threads collects the threads of a search and fails on error.
func (e *testEnv) threads(s *SQLiteSource) []*Thread {
	e.t.Helper()
	c, err := s.SearchThreads(e.Ctx)
	if err != nil {
		e.t.Fatalf("SearchThreads: %v", err)
	}
	threads, err := Collect[*Thread](c)
	if err != nil {
		e.t.Fatalf("iterate threads: %v", err)
	}
	return threads
}

// messages collects the messages of a search and fails on error.
func (e *testEnv) messages(s *SQLiteSource) []*Message {
	e.t.Helper()
	c, err := s.SearchMessages(e.Ctx)
	if err != nil {
		e.t.Fatalf("SearchMessages: %v", err)
	}
	msgs, err := Collect[*Message](c)
	if err != nil {
		e.t.Fatalf("iterate messages: %v", err)
	}
	return msgs
}

// drain drains a string cursor and fails on error.
func (e *testEnv) drain(c Cursor[string], err error) []string {
	e.t.Helper()
	if err != nil {
		e.t.Fatalf("open cursor: %v", err)
	}
	out, err := Collect(c)
	if err != nil {
		e.t.Fatalf("iterate: %v", err)
	}
	return out
}

func threadIDs(threads []*Thread) []string {
	ids := make([]string, len(threads))
	for i, t := range threads {
		ids[i] = t.ID
	}
	return ids
}

func messageIDs(msgs []*Message) []string {
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids
}
