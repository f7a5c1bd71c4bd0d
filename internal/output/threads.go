package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/wesm/msgsearch/internal/query"
	"github.com/wesm/msgsearch/internal/textutil"
)

// SearchThreads prints the threads inside the window, as bare ids or as
// summaries.
func SearchThreads(ctx context.Context, c *Context) error {
	window, err := c.Window.Resolve(func() (int, error) {
		return c.Source.CountThreads(ctx)
	})
	if err != nil {
		return fmt.Errorf("count threads: %w", err)
	}
	c.logger().Debug("search threads", "offset", window.Offset, "limit", window.Limit)

	threads, err := c.Source.SearchThreads(ctx)
	if err != nil {
		return fmt.Errorf("search threads: %w", err)
	}
	if threads == nil {
		return fmt.Errorf("search threads: %w", query.ErrNoResults)
	}
	defer threads.Close()

	c.Printer.BeginList()
	for i := 0; !window.Done(i) && threads.Next(); i++ {
		thread := threads.Value()
		if window.Skip(i) {
			thread.Close()
			continue
		}

		err := c.printThread(ctx, thread)
		thread.Close()
		if err != nil {
			return err
		}
	}
	if err := threads.Err(); err != nil {
		return fmt.Errorf("read threads: %w", err)
	}
	c.Printer.End()

	return nil
}

func (c *Context) printThread(ctx context.Context, t *query.Thread) error {
	p := c.Printer

	if c.Output == OutputThreads {
		p.SetPrefix("thread")
		p.String(t.ID)
		p.Separator()
		return nil
	}

	date := t.Newest
	if c.Sort == query.SortOldestFirst {
		date = t.Oldest
	}
	relative := textutil.RelativeDate(date, c.now())

	if p.IsText() {
		p.String(fmt.Sprintf("thread:%s %s [%d/%d] %s; %s (%s)",
			t.ID,
			textutil.PadLeft(relative, 12),
			t.Matched,
			t.Total,
			textutil.SanitizeLine(t.Authors),
			textutil.SanitizeLine(t.Subject),
			strings.Join(t.Tags, " ")))
		p.Separator()
		return nil
	}

	p.BeginMap()
	p.MapKey("thread")
	p.String(t.ID)
	p.MapKey("timestamp")
	p.Integer(date.Unix())
	p.MapKey("date_relative")
	p.String(relative)
	p.MapKey("matched")
	p.Integer(int64(t.Matched))
	p.MapKey("total")
	p.Integer(int64(t.Total))
	p.MapKey("authors")
	p.String(t.Authors)
	p.MapKey("subject")
	p.String(t.Subject)

	if c.FormatVersion >= 2 {
		matched, unmatched, err := ThreadQuery(ctx, t)
		if err != nil {
			return err
		}
		p.MapKey("query")
		p.BeginList()
		printStringOrNull(c, matched)
		printStringOrNull(c, unmatched)
		p.End()
	}

	p.MapKey("tags")
	p.BeginList()
	for _, tag := range t.Tags {
		p.String(tag)
	}
	p.End()

	p.End()
	p.Separator()
	return nil
}

func printStringOrNull(c *Context, s *string) {
	if s == nil {
		c.Printer.Null()
		return
	}
	c.Printer.String(*s)
}
