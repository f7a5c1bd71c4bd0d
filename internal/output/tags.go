package output

import (
	"context"
	"fmt"

	"github.com/wesm/msgsearch/internal/query"
)

// SearchTags prints the tags of the matching messages. The query "*" takes
// the whole tag vocabulary directly from the index; any other query
// collects tags over its messages. Both produce the same sorted list.
func SearchTags(ctx context.Context, c *Context) error {
	var (
		tags query.Cursor[string]
		err  error
	)
	if c.Source.QueryString() == "*" {
		tags, err = c.Source.AllTags(ctx)
	} else {
		tags, err = c.Source.CollectTags(ctx)
	}
	if err != nil {
		return fmt.Errorf("search tags: %w", err)
	}
	if tags == nil {
		return fmt.Errorf("search tags: %w", query.ErrNoResults)
	}
	defer tags.Close()

	c.Printer.BeginList()
	for tags.Next() {
		c.Printer.String(tags.Value())
		c.Printer.Separator()
	}
	if err := tags.Err(); err != nil {
		return fmt.Errorf("read tags: %w", err)
	}
	c.Printer.End()

	return nil
}
