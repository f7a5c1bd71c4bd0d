package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/wesm/msgsearch/internal/store"
)

// NewTestStore creates a temporary index for testing.
// The database is automatically closed when the test completes.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "index.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	t.Cleanup(func() {
		st.Close()
	})

	if err := st.InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return st
}

// AddMessages inserts the built messages in order. Messages without an
// explicit date are spaced one minute apart starting at BaseDate.
func AddMessages(t *testing.T, st *store.Store, msgs ...*MessageBuilder) {
	t.Helper()
	for i, b := range msgs {
		rec := b.Build()
		if !b.dateSet {
			rec.Date = BaseDate.Add(time.Duration(i) * time.Minute)
		}
		if _, err := st.AddMessage(rec); err != nil {
			t.Fatalf("add message %s: %v", rec.MessageID, err)
		}
	}
}

// NewTestIndex writes an index containing msgs to a temporary file, closes
// it and returns its path. Use it for code that opens the index itself.
func NewTestIndex(t *testing.T, msgs ...*MessageBuilder) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "index.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := st.InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	AddMessages(t, st, msgs...)
	return dbPath
}
