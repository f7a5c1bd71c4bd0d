package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wesm/msgsearch/internal/output"
	"github.com/wesm/msgsearch/internal/query"
)

func newAddressCmd(a *app) *cobra.Command {
	var (
		common  commonFlags
		outputs []string
	)

	cmd := &cobra.Command{
		Use:   "address [flags] <search-terms>...",
		Short: "Print addresses from matching messages",
		Long: `Print the distinct sender and/or recipient addresses of the
messages matching the search terms.

Output keywords (repeatable or comma separated):
  sender      From addresses (default)
  recipients  To, Cc and Bcc addresses
  count       print each address once at the end with its occurrence count

Examples:
  msgsearch address tag:inbox
  msgsearch address --output=recipients,count from:me@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := output.NewContext()
			var err error
			if c.Output, err = output.ParseAddressOutput(outputs); err != nil {
				return err
			}
			if c.Output == 0 {
				c.Output = output.OutputSender
			}
			if err := common.apply(a, c); err != nil {
				return err
			}
			if c.Exclude != query.ExcludeTrue && c.Exclude != query.ExcludeFalse {
				return fmt.Errorf("address supports --exclude=true or --exclude=false, not %s", c.Exclude)
			}
			return a.run(cmd, args, c)
		},
	}

	common.register(cmd)
	cmd.Flags().StringSliceVarP(&outputs, "output", "o", nil, "sender, recipients and/or count")
	cmd.Flags().StringVarP(&common.exclude, "exclude", "x", "true", "exclude tagged messages: true or false")

	return cmd
}
