// Package search parses the term syntax understood by the SQLite index source.
package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Field identifies what a term matches against.
type Field string

const (
	FieldText    Field = ""
	FieldID      Field = "id"
	FieldThread  Field = "thread"
	FieldTag     Field = "tag"
	FieldFrom    Field = "from"
	FieldTo      Field = "to"
	FieldSubject Field = "subject"
	FieldBefore  Field = "before"
	FieldAfter   Field = "after"
)

// Exclusive reports whether a message can carry at most one value for the
// field. Repeated positive terms of an exclusive field are OR'd together,
// which is what makes a space-joined list of id: terms select a set.
func (f Field) Exclusive() bool {
	return f == FieldID || f == FieldThread
}

// Term is a single search condition.
type Term struct {
	Field   Field
	Value   string
	Negated bool
	Date    *time.Time // before:/after: bound
}

// Query is a parsed query: a conjunction of terms, with exclusive-field
// terms grouped into disjunctions.
type Query struct {
	Raw      string
	MatchAll bool // "*"
	Terms    []Term
}

// IsEmpty returns true if the query has no search criteria.
func (q *Query) IsEmpty() bool {
	return !q.MatchAll && len(q.Terms) == 0
}

// MentionsTag reports whether the query names tag in a positive or negated
// tag: term. Exclude tags the user asks for explicitly are not excluded.
func (q *Query) MentionsTag(tag string) bool {
	for _, t := range q.Terms {
		if t.Field == FieldTag && t.Value == tag {
			return true
		}
	}
	return false
}

// operatorFn handles a parsed operator:value pair by applying it to the query.
type operatorFn func(q *Query, value string, negated bool, now time.Time)

func fieldOp(f Field) operatorFn {
	return func(q *Query, v string, neg bool, _ time.Time) {
		q.Terms = append(q.Terms, Term{Field: f, Value: v, Negated: neg})
	}
}

func lowerFieldOp(f Field) operatorFn {
	return func(q *Query, v string, neg bool, _ time.Time) {
		q.Terms = append(q.Terms, Term{Field: f, Value: strings.ToLower(v), Negated: neg})
	}
}

func dateOp(f Field, parse func(string, time.Time) *time.Time) operatorFn {
	return func(q *Query, v string, neg bool, now time.Time) {
		if t := parse(v, now); t != nil {
			q.Terms = append(q.Terms, Term{Field: f, Value: v, Negated: neg, Date: t})
		}
	}
}

// operators maps operator names to their handler functions.
var operators = map[string]operatorFn{
	"id":         fieldOp(FieldID),
	"mid":        fieldOp(FieldID),
	"thread":     fieldOp(FieldThread),
	"tag":        fieldOp(FieldTag),
	"is":         fieldOp(FieldTag),
	"from":       lowerFieldOp(FieldFrom),
	"to":         lowerFieldOp(FieldTo),
	"subject":    fieldOp(FieldSubject),
	"before":     dateOp(FieldBefore, func(v string, _ time.Time) *time.Time { return parseDate(v) }),
	"after":      dateOp(FieldAfter, func(v string, _ time.Time) *time.Time { return parseDate(v) }),
	"older_than": dateOp(FieldBefore, parseRelativeDate),
	"newer_than": dateOp(FieldAfter, parseRelativeDate),
}

// Parser holds configuration for query parsing.
type Parser struct {
	Now func() time.Time // Time source (mockable for testing)
}

// NewParser creates a Parser with default settings.
func NewParser() *Parser {
	return &Parser{Now: func() time.Time { return time.Now().UTC() }}
}

// Parse parses a query string.
//
// Supported syntax:
//   - * - every message
//   - id:, mid: - message id (exclusive)
//   - thread: - thread id (exclusive)
//   - tag:, is: - exact tag
//   - from:, to: - address substring (to: covers to, cc and bcc)
//   - subject: - subject substring
//   - before:, after: - date filters (YYYY-MM-DD)
//   - older_than:, newer_than: - relative date filters (7d, 2w, 1m, 1y)
//   - -term or "not term" - negation
//   - Bare words and "quoted phrases" - subject or sender substring
//
// Inside double quotes a doubled quote ("") stands for a literal quote.
func (p *Parser) Parse(queryStr string) *Query {
	q := &Query{Raw: queryStr}
	now := time.Now().UTC()
	if p.Now != nil {
		now = p.Now()
	}

	negateNext := false
	for _, tok := range tokenize(queryStr) {
		neg := negateNext
		negateNext = false

		if !tok.hasOp && !tok.quoted {
			switch strings.ToLower(tok.value) {
			case "not":
				negateNext = !neg
				continue
			case "and":
				negateNext = neg
				continue
			case "*":
				if !neg {
					q.MatchAll = true
				}
				continue
			}
		}

		if tok.hasOp {
			op := tok.op
			if strings.HasPrefix(op, "-") {
				op = op[1:]
				neg = !neg
			}
			if handler, ok := operators[op]; ok {
				handler(q, tok.value, neg, now)
				continue
			}
			// Unknown operator: treat the whole token as text.
			q.Terms = append(q.Terms, Term{Field: FieldText, Value: tok.op + ":" + tok.value, Negated: neg})
			continue
		}

		value := tok.value
		if !tok.quoted && len(value) > 1 && value[0] == '-' {
			value = value[1:]
			neg = !neg
		}
		if value == "" {
			continue
		}
		q.Terms = append(q.Terms, Term{Field: FieldText, Value: value, Negated: neg})
	}

	return q
}

// Parse is a convenience function that parses using default settings.
func Parse(queryStr string) *Query {
	return NewParser().Parse(queryStr)
}

// token is one whitespace-separated unit of a query string.
type token struct {
	op     string // lower-cased text before the first unquoted colon
	hasOp  bool
	value  string // value with quoting removed
	quoted bool   // some part of the value was quoted
}

// tokenize splits a query string on unquoted whitespace. Quoted sections may
// appear anywhere in a token, so subject:"foo bar" and id:"a""b" stay whole.
func tokenize(queryStr string) []token {
	var tokens []token
	var current strings.Builder
	var tok token
	started := false
	inQuotes := false

	flush := func() {
		if started {
			tok.value = current.String()
			tokens = append(tokens, tok)
		}
		current.Reset()
		tok = token{}
		started = false
	}

	runes := []rune(queryStr)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes && r == '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = false
		case inQuotes:
			current.WriteRune(r)
		case r == '"':
			inQuotes = true
			tok.quoted = true
			started = true
		case unicode.IsSpace(r):
			flush()
		case r == ':' && !tok.hasOp && !tok.quoted:
			tok.op = strings.ToLower(current.String())
			tok.hasOp = true
			current.Reset()
			started = true
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	return tokens
}

// parseDate parses date strings like YYYY-MM-DD or YYYY/MM/DD.
func parseDate(value string) *time.Time {
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02/01/2006",
	}

	value = strings.TrimSpace(value)
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

var relativeDateRe = regexp.MustCompile(`^(\d+)([dwmy])$`)

// parseRelativeDate parses relative dates like 7d, 2w, 1m, 1y relative to now.
func parseRelativeDate(value string, now time.Time) *time.Time {
	value = strings.TrimSpace(strings.ToLower(value))
	match := relativeDateRe.FindStringSubmatch(value)
	if match == nil {
		return nil
	}

	amount, _ := strconv.Atoi(match[1])

	var result time.Time
	switch match[2] {
	case "d":
		result = now.AddDate(0, 0, -amount)
	case "w":
		result = now.AddDate(0, 0, -amount*7)
	case "m":
		result = now.AddDate(0, -amount, 0)
	case "y":
		result = now.AddDate(-amount, 0, 0)
	default:
		return nil
	}

	return &result
}
