package query

import (
	"testing"

	"github.com/wesm/msgsearch/internal/search"
)

func TestMakeBooleanTerm(t *testing.T) {
	tests := []struct {
		prefix, term string
		want         string
	}{
		{"id", "abc@example.com", "id:abc@example.com"},
		{"thread", "0000000000000001", "thread:0000000000000001"},
		{"id", "", `id:""`},
		{"id", "a b", `id:"a b"`},
		{"id", `a"b`, `id:"a""b"`},
		{"id", "a)b", `id:"a)b"`},
		{"id", "ü@x", `id:"ü@x"`},
	}

	for _, tt := range tests {
		got := MakeBooleanTerm(tt.prefix, tt.term)
		if got != tt.want {
			t.Errorf("MakeBooleanTerm(%q, %q) = %s, want %s", tt.prefix, tt.term, got, tt.want)
		}

		q := search.Parse(got)
		if len(q.Terms) != 1 {
			t.Errorf("Parse(%s) produced %d terms, want 1", got, len(q.Terms))
			continue
		}
		if string(q.Terms[0].Field) != tt.prefix || q.Terms[0].Value != tt.term {
			t.Errorf("Parse(%s) = %s:%q, want %s:%q", got, q.Terms[0].Field, q.Terms[0].Value, tt.prefix, tt.term)
		}
	}
}
