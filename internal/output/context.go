package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/wesm/msgsearch/internal/query"
	"github.com/wesm/msgsearch/internal/sprinter"
)

// Context carries the options and collaborators of one search or address
// command.
type Context struct {
	Source  query.Source
	Printer sprinter.Printer

	Output        Output
	Format        sprinter.Format
	FormatVersion int
	Sort          query.Sort
	Exclude       query.Exclude
	Window        Window
	Dupe          int // 1-based file position, -1 for all

	// Now is the reference time for relative dates. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// NewContext returns a Context with the command defaults: summary output,
// text format, current format version, unbounded window, every duplicate.
func NewContext() *Context {
	return &Context{
		Output:        OutputSummary,
		Format:        sprinter.FormatText,
		FormatVersion: CurrentFormatVersion,
		Sort:          query.SortNewestFirst,
		Exclude:       query.ExcludeTrue,
		Window:        Window{Offset: 0, Limit: -1},
		Dupe:          -1,
	}
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Validate checks option combinations and applies the implied defaults. It
// must run before the query source is built: it may change Exclude and
// Output.
func (c *Context) Validate() error {
	if c.Output == 0 {
		return fmt.Errorf("%w: no output selected", ErrIncompatibleOptions)
	}
	if c.Output.IsAddress() && c.Output&^addressOutputs != 0 {
		return fmt.Errorf("%w: output %v mixes search and address modes", ErrIncompatibleOptions, c.Output)
	}

	if c.Dupe != -1 && c.Output != OutputFiles && c.Output != OutputMessages {
		return fmt.Errorf("%w: --duplicate=N is only supported with --output=files and --output=messages",
			ErrIncompatibleOptions)
	}

	if c.Output.IsAddress() && c.Output&(OutputSender|OutputRecipients) == 0 {
		c.Output |= OutputSender
	}

	if c.Format == sprinter.FormatText0 && c.Output == OutputSummary {
		return fmt.Errorf("%w: --format=text0 is not compatible with --output=summary",
			ErrIncompatibleOptions)
	}

	if c.FormatVersion < MinFormatVersion || c.FormatVersion > CurrentFormatVersion {
		return fmt.Errorf("%w: %d (supported: %d to %d)",
			ErrFormatVersion, c.FormatVersion, MinFormatVersion, CurrentFormatVersion)
	}

	if c.Exclude == query.ExcludeFlag && c.Output != OutputSummary {
		c.logger().Warn("this output format cannot flag excluded messages; including them",
			"output", c.Output.String())
		c.Exclude = query.ExcludeFalse
	}

	return nil
}

// Run executes the pass selected by Output. Validate must have succeeded.
func (c *Context) Run(ctx context.Context) error {
	if c.Source == nil || c.Printer == nil {
		return fmt.Errorf("output context needs a source and a printer")
	}

	start := time.Now()
	var err error
	switch {
	case c.Output == OutputSummary, c.Output == OutputThreads:
		err = SearchThreads(ctx, c)
	case c.Output == OutputMessages, c.Output == OutputFiles, c.Output.IsAddress():
		err = SearchMessages(ctx, c)
	case c.Output == OutputTags:
		err = SearchTags(ctx, c)
	default:
		err = fmt.Errorf("unexpected output %v", c.Output)
	}
	if err != nil {
		return err
	}

	c.logger().Debug("search complete",
		"output", c.Output.String(),
		"query", c.Source.QueryString(),
		"elapsed", time.Since(start))
	return nil
}
