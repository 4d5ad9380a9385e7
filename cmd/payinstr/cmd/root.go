package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/congo-pay/payinstr/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "payinstr",
	Short: "Offline payment instruction tool",
	Long: `payinstr runs payment instructions through the same parser, validator
and executor as the HTTP service, without Postgres or Redis.

Commands:
  process  - run an instruction against an accounts file
  parse    - show the fields extracted from an instruction
  codes    - list every status code`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return logging.NewWithWriter(cmd.ErrOrStderr(), logLevel, logFormat)
}
