package query

import (
	"context"
	"errors"
)

// ErrNoResults is returned when a source cannot produce a result sequence at
// all. It is distinct from an empty sequence.
var ErrNoResults = errors.New("no result set")

// Source runs one prepared query over the index. Implementations:
//   - SQLiteSource: read-only queries against the SQLite index
//   - querytest.MockSource: in-memory fixtures for tests
type Source interface {
	// QueryString returns the query text the source was prepared with.
	QueryString() string

	// CountThreads and CountMessages count matches without materializing
	// them. Callers only invoke them when they need a total.
	CountThreads(ctx context.Context) (int, error)
	CountMessages(ctx context.Context) (int, error)

	// SearchThreads returns matching threads in sort order.
	SearchThreads(ctx context.Context) (Cursor[*Thread], error)

	// SearchMessages returns matching messages in sort order.
	SearchMessages(ctx context.Context) (Cursor[*Message], error)

	// AllTags returns every tag in the index, sorted.
	AllTags(ctx context.Context) (Cursor[string], error)

	// CollectTags returns the sorted union of tags over matching messages.
	CollectTags(ctx context.Context) (Cursor[string], error)
}

// Sort selects result order.
type Sort int

const (
	SortNewestFirst Sort = iota
	SortOldestFirst
)

func (s Sort) String() string {
	if s == SortOldestFirst {
		return "oldest-first"
	}
	return "newest-first"
}

// ParseSort parses "oldest-first" or "newest-first".
func ParseSort(s string) (Sort, error) {
	switch s {
	case "newest-first":
		return SortNewestFirst, nil
	case "oldest-first":
		return SortOldestFirst, nil
	}
	return 0, errors.New("sort must be oldest-first or newest-first")
}

// Exclude controls how messages carrying an exclude tag are treated.
type Exclude int

const (
	// ExcludeTrue drops excluded messages from the match set; they can still
	// appear as thread context.
	ExcludeTrue Exclude = iota
	// ExcludeFalse ignores exclude tags.
	ExcludeFalse
	// ExcludeFlag keeps excluded messages but flags them and leaves them out
	// of matched counts.
	ExcludeFlag
	// ExcludeAll drops excluded messages entirely, thread context included.
	ExcludeAll
)

var excludeNames = map[Exclude]string{
	ExcludeTrue:  "true",
	ExcludeFalse: "false",
	ExcludeFlag:  "flag",
	ExcludeAll:   "all",
}

func (e Exclude) String() string { return excludeNames[e] }

// ParseExclude parses one of true, false, flag or all.
func ParseExclude(s string) (Exclude, error) {
	for e, name := range excludeNames {
		if name == s {
			return e, nil
		}
	}
	return 0, errors.New("exclude must be one of true, false, flag, all")
}

// Options configures how a source evaluates its query.
type Options struct {
	Sort        Sort
	Exclude     Exclude
	ExcludeTags []string
}
