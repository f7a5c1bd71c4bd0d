package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/wesm/msgsearch/internal/query"
)

// ThreadQuery returns two queries that select exactly the matched and the
// unmatched messages of t. Either is nil when that class is empty.
//
// id is an exclusive prefix, so space-joined id: terms select their union
// without an explicit OR.
func ThreadQuery(ctx context.Context, t *query.Thread) (matched, unmatched *string, err error) {
	msgs, err := t.Messages(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w for thread %s: %w", ErrThreadQuery, t.ID, err)
	}
	defer msgs.Close()

	var m, u strings.Builder
	for msgs.Next() {
		msg := msgs.Value()
		buf := &u
		if msg.Matched {
			buf = &m
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(query.MakeBooleanTerm("id", msg.ID))
		msg.Close()
	}
	if err := msgs.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w for thread %s: %w", ErrThreadQuery, t.ID, err)
	}

	return nonEmpty(m.String()), nonEmpty(u.String()), nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
