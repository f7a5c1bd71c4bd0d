package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/wesm/msgsearch/internal/config"
)

// app holds state shared by every subcommand of one root command.
type app struct {
	cfgFile string
	homeDir string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "msgsearch",
		Short: "Search an indexed mail corpus",
		Long: `msgsearch runs queries against a local mail index and prints the
results as thread summaries, thread or message ids, file paths, tags
or extracted addresses, in text, JSON or S-expression form.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			var err error
			a.cfg, err = config.Load(a.cfgFile, a.homeDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.logger.Debug("config loaded",
				"path", a.cfg.ConfigFilePath(),
				"database", a.cfg.DatabasePath())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ~/.msgsearch/config.toml)")
	root.PersistentFlags().StringVar(&a.homeDir, "home", "", "home directory (overrides MSGSEARCH_HOME)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newSearchCmd(a))
	root.AddCommand(newAddressCmd(a))

	return root
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
