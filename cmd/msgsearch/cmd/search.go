package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wesm/msgsearch/internal/output"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		common  commonFlags
		outName string
		offset  int
		limit   int
		dupe    int
	)

	cmd := &cobra.Command{
		Use:   "search [flags] <search-terms>...",
		Short: "Search for threads, messages, files or tags",
		Long: `Search the index and print the results.

Search terms:
  *            every message
  id:          message id
  thread:      thread id
  tag:, is:    exact tag
  from:, to:   address substring (to: covers To, Cc and Bcc)
  subject:     subject substring
  before:, after:           dates (YYYY-MM-DD)
  older_than:, newer_than:  relative dates (7d, 2w, 1m, 1y)
  -term, not term           negation

Output modes:
  summary   one line or record per thread (default)
  threads   thread ids
  messages  message ids
  files     file paths of matching messages
  tags      tags of matching messages

Examples:
  msgsearch search tag:inbox
  msgsearch search --output=files --duplicate=1 from:alice
  msgsearch search --format=json --offset=-10 '*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := output.NewContext()
			var err error
			if c.Output, err = output.ParseSearchOutput(outName); err != nil {
				return err
			}
			if err := common.apply(a, c); err != nil {
				return err
			}
			c.Window = output.Window{Offset: offset, Limit: limit}
			c.Dupe = dupe
			return a.run(cmd, args, c)
		},
	}

	common.register(cmd)
	cmd.Flags().StringVarP(&outName, "output", "o", "summary", "output mode: summary, threads, messages, files or tags")
	cmd.Flags().StringVarP(&common.exclude, "exclude", "x", "true", "exclude tagged messages: true, false, flag or all")
	cmd.Flags().IntVarP(&offset, "offset", "O", 0, "skip this many results; negative counts from the end")
	cmd.Flags().IntVarP(&limit, "limit", "L", -1, "print at most this many results; negative for all")
	cmd.Flags().IntVarP(&dupe, "duplicate", "D", -1, "with files or messages output, select the Nth file of each message")

	return cmd
}
