package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/urlcount/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for urlcount.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urlcount",
		Short: "Count unique URLs in lists, overall and per .com host",
		Long: `urlcount counts the unique URLs of one or more lists.

Two URLs are the same when their normalized forms are equal: the URL is
lower-cased, the fragment is dropped, one trailing slash is removed and the
query parameters are sorted by name. Entries are also counted per host for
hosts ending in .com.

Every run is recorded so later runs can be compared with earlier ones.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records to stderr as JSON")

	cmd.AddCommand(NewCountCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or the root.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getPersistentBool(cmd, "verbose")
}

// getPersistentBool retrieves a boolean root flag from the command or the root.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// newLogger creates the stderr logger selected by --log-json and --verbose.
func newLogger(cmd *cobra.Command, jsonFormat, verbose bool) *slog.Logger {
	if jsonFormat {
		return log.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}
