package query

import (
	"strings"
	"unicode"
)

// MakeBooleanTerm renders prefix:term so that the query parser reads it back
// as a single exact term. The value is double-quoted, with embedded quotes
// doubled, when it is empty or contains whitespace, ')', '"' or non-ASCII
// characters.
func MakeBooleanTerm(prefix, term string) string {
	if !needsQuoting(term) {
		return prefix + ":" + term
	}

	var sb strings.Builder
	sb.Grow(len(prefix) + len(term) + 4)
	sb.WriteString(prefix)
	sb.WriteString(`:"`)
	for _, r := range term {
		if r == '"' {
			sb.WriteRune('"')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

func needsQuoting(term string) bool {
	if term == "" {
		return true
	}
	for _, r := range term {
		if unicode.IsSpace(r) || r == ')' || r == '"' || r > unicode.MaxASCII {
			return true
		}
	}
	return false
}
