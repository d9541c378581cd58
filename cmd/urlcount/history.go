package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/urlcount/internal/config"
	"github.com/nao1215/urlcount/internal/database"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "List recorded runs",
		Long: `History lists the runs recorded by 'urlcount count'.

Without a source, or with --list-sources, it lists every source that has
recorded runs. With a source, it lists the runs of that source, newest
first, with their IDs for use with 'urlcount compare --with-run-id'.

Examples:
  # List sources
  urlcount history

  # List runs of a source
  urlcount history urls.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-sources", "L", false,
		"List all sources with recorded runs")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No runs recorded yet. Run 'urlcount count' first.")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	if listSources || len(args) == 0 {
		sources, err := db.ListSources(cmd.Context())
		if err != nil {
			return err
		}
		return printSources(out, sources)
	}

	runs, err := db.GetHistoryWithMetadata(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printRuns(out, args[0], runs)
}

// printSources writes one source per line.
func printSources(out io.Writer, sources []string) error {
	if len(sources) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintln(out, "Sources with recorded runs:")
	for _, s := range sources {
		fmt.Fprintf(out, "  %s\n", s)
	}
	fmt.Fprintln(out, "\nUse 'urlcount history <source>' to see the runs of a source.")
	return nil
}

// printRuns writes the runs of source as an aligned table.
func printRuns(out io.Writer, source string, runs []database.RunMetadata) error {
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs recorded for %s.\n", source)
		return nil
	}

	fmt.Fprintf(out, "Runs of %s (%d):\n\n", source, len(runs))

	table := tablewriter.NewWriter(out)
	table.Header("ID", "When", "Unique", "Hosts", "Fingerprint")
	for _, r := range runs {
		fp := r.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			humanize.Time(r.Timestamp),
			humanize.Comma(int64(r.Unique)),
			strconv.Itoa(r.Hosts),
			fp,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nUse 'urlcount compare %s' to compare the latest two runs.\n", source)
	return nil
}
