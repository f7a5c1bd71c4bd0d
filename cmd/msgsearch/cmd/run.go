package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/wesm/msgsearch/internal/output"
	"github.com/wesm/msgsearch/internal/query"
	"github.com/wesm/msgsearch/internal/sprinter"
	"github.com/wesm/msgsearch/internal/store"
)

// commonFlags are shared by search and address.
type commonFlags struct {
	format        string
	formatVersion int
	sort          string
	exclude       string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "output format: json, sexp, text or text0 (default from config, else text)")
	cmd.Flags().IntVar(&f.formatVersion, "format-version", output.CurrentFormatVersion, "structured output format version")
	cmd.Flags().StringVar(&f.sort, "sort", "", "result order: oldest-first or newest-first (default from config, else newest-first)")
}

// apply resolves the shared flags into c, falling back to config defaults.
func (f *commonFlags) apply(a *app, c *output.Context) error {
	format := f.format
	if format == "" {
		format = a.cfg.Search.Format
	}
	var err error
	if c.Format, err = sprinter.ParseFormat(format); err != nil {
		return err
	}

	sortName := f.sort
	if sortName == "" {
		sortName = a.cfg.Search.Sort
	}
	if c.Sort, err = query.ParseSort(sortName); err != nil {
		return err
	}

	if c.Exclude, err = query.ParseExclude(f.exclude); err != nil {
		return err
	}
	c.FormatVersion = f.formatVersion
	return nil
}

// run validates c, opens the index and prints the results for the query in args.
func (a *app) run(cmd *cobra.Command, args []string, c *output.Context) error {
	queryStr := strings.TrimSpace(strings.Join(args, " "))
	if queryStr == "" {
		return fmt.Errorf("%s requires at least one search term", cmd.Name())
	}

	c.Logger = a.logger
	if err := c.Validate(); err != nil {
		return err
	}
	a.warnIfTerminal(cmd, c.Format)

	st, err := store.OpenReadOnly(a.cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer st.Close()

	var excludeTags []string
	if c.Exclude != query.ExcludeFalse {
		excludeTags = a.cfg.Search.ExcludeTags
	}
	c.Source = query.NewSQLiteSource(st.DB(), queryStr, query.Options{
		Sort:        c.Sort,
		Exclude:     c.Exclude,
		ExcludeTags: excludeTags,
	})

	p, err := sprinter.New(c.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	c.Printer = p

	runErr := c.Run(cmd.Context())
	if err := p.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("write output: %w", err)
	}
	return runErr
}

// warnIfTerminal notes that NUL-separated output is meant for pipes.
func (a *app) warnIfTerminal(cmd *cobra.Command, f sprinter.Format) {
	if f != sprinter.FormatText0 {
		return
	}
	if out, ok := cmd.OutOrStdout().(*os.File); ok && isatty.IsTerminal(out.Fd()) {
		a.logger.Warn("text0 output is NUL-separated; pipe it to a tool such as xargs -0")
	}
}
