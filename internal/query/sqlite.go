package query

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/wesm/msgsearch/internal/search"
	"github.com/wesm/msgsearch/internal/textutil"
)

// tagSeparator joins tags inside a single group_concat column.
const tagSeparator = "\x1f"

// SQLiteSource implements Source over the SQLite index schema in
// internal/store. It never writes.
type SQLiteSource struct {
	db   *sql.DB
	raw  string
	q    *search.Query
	opts Options

	// matchCond selects messages that satisfy the query (alias m).
	matchCond string
	matchArgs []interface{}

	// excludeCond selects messages carrying an active exclude tag; empty
	// when no exclude tag applies.
	excludeCond string
	excludeArgs []interface{}

	// visibleCond restricts which messages may appear at all, including as
	// thread context.
	visibleCond string
	visibleArgs []interface{}
}

// Compile-time check.
var _ Source = (*SQLiteSource)(nil)

// NewSQLiteSource prepares queryStr against db. The database is not touched
// until a Source method is called.
func NewSQLiteSource(db *sql.DB, queryStr string, opts Options) *SQLiteSource {
	q := search.Parse(queryStr)
	s := &SQLiteSource{db: db, raw: queryStr, q: q, opts: opts}

	termCond, termArgs := buildTermConditions(q)

	var active []string
	if opts.Exclude != ExcludeFalse {
		for _, tag := range opts.ExcludeTags {
			if !q.MentionsTag(tag) {
				active = append(active, tag)
			}
		}
	}
	if len(active) > 0 {
		placeholders := make([]string, len(active))
		for i, tag := range active {
			placeholders[i] = "?"
			s.excludeArgs = append(s.excludeArgs, tag)
		}
		s.excludeCond = fmt.Sprintf(
			"EXISTS (SELECT 1 FROM message_tags xt WHERE xt.message_id = m.id AND xt.tag IN (%s))",
			strings.Join(placeholders, ","))
	}

	s.matchCond, s.matchArgs = termCond, termArgs
	s.visibleCond = "1=1"
	if s.excludeCond != "" {
		switch opts.Exclude {
		case ExcludeTrue:
			s.matchCond = "(" + termCond + ") AND NOT " + s.excludeCond
			s.matchArgs = append(append([]interface{}{}, termArgs...), s.excludeArgs...)
		case ExcludeAll:
			s.matchCond = "(" + termCond + ") AND NOT " + s.excludeCond
			s.matchArgs = append(append([]interface{}{}, termArgs...), s.excludeArgs...)
			s.visibleCond = "NOT " + s.excludeCond
			s.visibleArgs = s.excludeArgs
		}
	}

	return s
}

// QueryString returns the query text the source was prepared with.
func (s *SQLiteSource) QueryString() string { return s.raw }

// buildTermConditions translates a parsed query into a single SQL condition
// over alias m. Positive terms of an exclusive field are OR'd; everything
// else is AND'd.
func buildTermConditions(q *search.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	exclusive := map[search.Field][]string{}
	var exclusiveOrder []search.Field

	for _, t := range q.Terms {
		if t.Field.Exclusive() && !t.Negated {
			if _, seen := exclusive[t.Field]; !seen {
				exclusiveOrder = append(exclusiveOrder, t.Field)
			}
			exclusive[t.Field] = append(exclusive[t.Field], t.Value)
			continue
		}

		cond, condArgs := termCondition(t)
		if cond == "" {
			continue
		}
		if t.Negated {
			cond = "NOT (" + cond + ")"
		}
		conditions = append(conditions, cond)
		args = append(args, condArgs...)
	}

	for _, f := range exclusiveOrder {
		values := exclusive[f]
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			args = append(args, v)
		}
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", exclusiveColumn(f), strings.Join(placeholders, ",")))
	}

	if len(conditions) == 0 {
		return "1=1", nil
	}
	return strings.Join(conditions, " AND "), args
}

func exclusiveColumn(f search.Field) string {
	if f == search.FieldThread {
		return "m.thread_id"
	}
	return "m.message_id"
}

func termCondition(t search.Term) (string, []interface{}) {
	like := "%" + escapeLike(strings.ToLower(t.Value)) + "%"
	switch t.Field {
	case search.FieldID, search.FieldThread:
		return exclusiveColumn(t.Field) + " = ?", []interface{}{t.Value}
	case search.FieldTag:
		return "EXISTS (SELECT 1 FROM message_tags mt WHERE mt.message_id = m.id AND mt.tag = ?)", []interface{}{t.Value}
	case search.FieldFrom:
		return `LOWER(m.from_header) LIKE ? ESCAPE '\'`, []interface{}{like}
	case search.FieldTo:
		return `(LOWER(m.to_header) LIKE ? ESCAPE '\' OR LOWER(m.cc_header) LIKE ? ESCAPE '\' OR LOWER(m.bcc_header) LIKE ? ESCAPE '\')`,
			[]interface{}{like, like, like}
	case search.FieldSubject:
		return `LOWER(m.subject) LIKE ? ESCAPE '\'`, []interface{}{like}
	case search.FieldBefore:
		return "m.date < ?", []interface{}{t.Date.Unix()}
	case search.FieldAfter:
		return "m.date >= ?", []interface{}{t.Date.Unix()}
	case search.FieldText:
		return `(LOWER(m.subject) LIKE ? ESCAPE '\' OR LOWER(m.from_header) LIKE ? ESCAPE '\')`,
			[]interface{}{like, like}
	}
	return "", nil
}

// escapeLike escapes LIKE wildcards so user text matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// CountMessages returns the number of matching messages.
func (s *SQLiteSource) CountMessages(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages m WHERE "+s.matchCond, s.matchArgs...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// CountThreads returns the number of threads with at least one match.
func (s *SQLiteSource) CountThreads(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT m.thread_id) FROM messages m WHERE "+s.matchCond, s.matchArgs...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count threads: %w", err)
	}
	return n, nil
}

// SearchThreads lists matching thread ids up front and materializes each
// thread only when the cursor reaches it.
func (s *SQLiteSource) SearchThreads(ctx context.Context) (Cursor[*Thread], error) {
	order := "MAX(m.date) DESC, m.thread_id"
	if s.opts.Sort == SortOldestFirst {
		order = "MIN(m.date) ASC, m.thread_id"
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT m.thread_id
		FROM messages m
		WHERE %s
		GROUP BY m.thread_id
		ORDER BY %s
	`, s.matchCond, order), s.matchArgs...)
	if err != nil {
		return nil, fmt.Errorf("search threads: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}

	return &threadCursor{ctx: ctx, src: s, ids: ids, pos: -1}, nil
}

// threadCursor materializes one thread per Next call.
type threadCursor struct {
	ctx    context.Context
	src    *SQLiteSource
	ids    []string
	pos    int
	cur    *Thread
	err    error
	closed bool
}

func (c *threadCursor) Next() bool {
	if c.closed || c.err != nil || c.pos+1 >= len(c.ids) {
		return false
	}
	c.pos++
	c.cur, c.err = c.src.loadThread(c.ctx, c.ids[c.pos])
	return c.err == nil
}

func (c *threadCursor) Value() *Thread { return c.cur }
func (c *threadCursor) Err() error     { return c.err }

func (c *threadCursor) Close() error {
	c.closed = true
	c.cur = nil
	return nil
}

// messageColumns is the select list scanned by scanMessages. The two
// trailing flags are bound by matchArgs and excludeArgs, in that order.
const messageColumns = `m.id, m.message_id, m.thread_id, m.date,
	m.from_header, m.to_header, m.cc_header, m.bcc_header, m.subject,
	COALESCE((SELECT group_concat(tag, char(31)) FROM
		(SELECT tag FROM message_tags WHERE message_id = m.id ORDER BY tag)), '')`

func (s *SQLiteSource) flagColumns() (string, []interface{}) {
	excluded := "0"
	if s.excludeCond != "" && s.opts.Exclude == ExcludeFlag {
		excluded = "CASE WHEN " + s.excludeCond + " THEN 1 ELSE 0 END"
	}
	args := append([]interface{}{}, s.matchArgs...)
	if excluded != "0" {
		args = append(args, s.excludeArgs...)
	}
	return fmt.Sprintf(", CASE WHEN %s THEN 1 ELSE 0 END, %s", s.matchCond, excluded), args
}

// loadThread reads every visible message of a thread and derives the
// thread's aggregate fields from them.
func (s *SQLiteSource) loadThread(ctx context.Context, threadID string) (*Thread, error) {
	flags, flagArgs := s.flagColumns()
	args := append(flagArgs, threadID)
	args = append(args, s.visibleArgs...)

	msgs, err := s.scanMessages(ctx, fmt.Sprintf(`
		SELECT %s %s
		FROM messages m
		WHERE m.thread_id = ? AND %s
		ORDER BY m.date, m.id
	`, messageColumns, flags, s.visibleCond), args...)
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", threadID, err)
	}

	t := &Thread{ID: threadID, Total: len(msgs)}
	tagSet := map[string]struct{}{}
	var matched []*Message
	for i, m := range msgs {
		if i == 0 || m.Date.Before(t.Oldest) {
			t.Oldest = m.Date
		}
		if i == 0 || m.Date.After(t.Newest) {
			t.Newest = m.Date
		}
		if m.Matched {
			matched = append(matched, m)
			if !m.Excluded {
				t.Matched++
			}
		}
		for _, tag := range m.Tags {
			tagSet[tag] = struct{}{}
		}
	}
	for tag := range tagSet {
		t.Tags = append(t.Tags, tag)
	}
	sort.Strings(t.Tags)

	t.Authors = formatAuthors(msgs)
	t.Subject = threadSubject(msgs, matched, s.opts.Sort)
	t.LoadMessages = func(context.Context) (Cursor[*Message], error) {
		return NewSliceCursor(msgs), nil
	}
	return t, nil
}

// threadSubject picks the subject of the first matched message for
// oldest-first output and of the last matched message otherwise.
func threadSubject(all, matched []*Message, order Sort) string {
	pool := matched
	if len(pool) == 0 {
		pool = all
	}
	if len(pool) == 0 {
		return ""
	}
	if order == SortOldestFirst {
		return pool[0].Header("subject")
	}
	return pool[len(pool)-1].Header("subject")
}

// formatAuthors lists matched authors first, then "| " and the authors that
// only appear on unmatched messages. Each author appears once.
func formatAuthors(msgs []*Message) string {
	seen := map[string]bool{}
	var matched, unmatched []string
	for _, pass := range []bool{true, false} {
		for _, m := range msgs {
			if m.Matched != pass {
				continue
			}
			name := authorName(m.Header("from"))
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			if pass {
				matched = append(matched, name)
			} else {
				unmatched = append(unmatched, name)
			}
		}
	}

	authors := strings.Join(matched, ", ")
	if len(unmatched) > 0 {
		authors += "| " + strings.Join(unmatched, ", ")
	}
	return authors
}

// authorName returns the display name of the first From mailbox, falling
// back to its address and then to the raw header.
func authorName(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return ""
	}
	addrs, err := mail.ParseAddressList(from)
	if err != nil || len(addrs) == 0 {
		return from
	}
	if addrs[0].Name != "" {
		return addrs[0].Name
	}
	return addrs[0].Address
}

// SearchMessages returns matching messages in date order.
func (s *SQLiteSource) SearchMessages(ctx context.Context) (Cursor[*Message], error) {
	order := "m.date DESC, m.id DESC"
	if s.opts.Sort == SortOldestFirst {
		order = "m.date ASC, m.id ASC"
	}

	flags, flagArgs := s.flagColumns()
	msgs, err := s.scanMessages(ctx, fmt.Sprintf(`
		SELECT %s %s
		FROM messages m
		WHERE %s
		ORDER BY %s
	`, messageColumns, flags, s.matchCond, order), append(flagArgs, s.matchArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	return NewSliceCursor(msgs), nil
}

func (s *SQLiteSource) scanMessages(ctx context.Context, query string, args ...interface{}) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var (
			rowID                                int64
			id, threadID                         string
			date                                 int64
			from, to, cc, bcc, subject, tagsJoin string
			matched, excluded                    bool
		)
		if err := rows.Scan(&rowID, &id, &threadID, &date, &from, &to, &cc, &bcc, &subject, &tagsJoin, &matched, &excluded); err != nil {
			return nil, err
		}

		m := &Message{
			ID:       id,
			ThreadID: threadID,
			Date:     time.Unix(date, 0).UTC(),
			Matched:  matched,
			Excluded: excluded,
			Headers: map[string]string{
				"from":    textutil.EnsureUTF8(from),
				"to":      textutil.EnsureUTF8(to),
				"cc":      textutil.EnsureUTF8(cc),
				"bcc":     textutil.EnsureUTF8(bcc),
				"subject": textutil.EnsureUTF8(subject),
			},
		}
		if tagsJoin != "" {
			m.Tags = strings.Split(tagsJoin, tagSeparator)
			sort.Strings(m.Tags)
		}
		m.LoadFilenames = s.filenameLoader(rowID)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// filenameLoader returns a loader for the files of the message with the
// given row id, in position order.
func (s *SQLiteSource) filenameLoader(rowID int64) func(context.Context) (Cursor[string], error) {
	return func(ctx context.Context) (Cursor[string], error) {
		files, err := s.stringColumn(ctx,
			"SELECT path FROM message_files WHERE message_id = ? ORDER BY position", rowID)
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}
		return NewSliceCursor(files), nil
	}
}

// AllTags returns every tag in the index.
func (s *SQLiteSource) AllTags(ctx context.Context) (Cursor[string], error) {
	tags, err := s.stringColumn(ctx, "SELECT DISTINCT tag FROM message_tags ORDER BY tag")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return NewSliceCursor(tags), nil
}

// CollectTags returns the tags present on matching messages.
func (s *SQLiteSource) CollectTags(ctx context.Context) (Cursor[string], error) {
	tags, err := s.stringColumn(ctx, `
		SELECT DISTINCT t.tag
		FROM message_tags t
		JOIN messages m ON m.id = t.message_id
		WHERE `+s.matchCond+`
		ORDER BY t.tag`, s.matchArgs...)
	if err != nil {
		return nil, fmt.Errorf("collect tags: %w", err)
	}
	return NewSliceCursor(tags), nil
}

func (s *SQLiteSource) stringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
