package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/urlcount/internal/config"
	"github.com/nao1215/urlcount/internal/database"
	"github.com/nao1215/urlcount/internal/model"
	"github.com/spf13/cobra"
)

var (
	// errNoRuns is returned when a source has no recorded runs.
	errNoRuns = errors.New("no runs recorded")

	// errSingleRun is returned when a source has only one run and no
	// other run was selected.
	errSingleRun = errors.New("only one run recorded; nothing to compare")

	// errRunNotFound is returned for an unknown --with-run-id.
	errRunNotFound = errors.New("run not found")
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <source>",
		Short: "Compare the latest run of a source with an earlier one",
		Long: `Compare shows how the latest recorded run of a source differs from an
earlier run: new and removed hosts, hosts whose count changed and the
change in unique URLs.

By default the latest run is compared with the one before it. Use
--with-run-id to pick the earlier run ('urlcount history <source>' lists
run IDs).

Examples:
  # Compare the latest two runs
  urlcount compare urls.txt

  # Compare the latest run with run 5
  urlcount compare --with-run-id 5 urls.txt

  # Output as Markdown
  urlcount compare -m urls.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with the run of this ID instead of the previous run")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	runID, err := flags.GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	src := args[0]

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return fmt.Errorf("%w for %s", errNoRuns, src)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	previous, current, err := selectRuns(cmd, db, src, runID)
	if err != nil {
		return err
	}

	w := newReportWriter(cmd.OutOrStdout(), jsonOutput, markdownOutput, getVerboseFlag(cmd))
	_, err = w.WriteComparison(model.Compare(previous, current))
	return err
}

// selectRuns returns the earlier and the latest result of src.
func selectRuns(cmd *cobra.Command, db *database.HistoryDB, src string, runID int64) (*model.Result, *model.Result, error) {
	latest, err := db.GetLatestResults(cmd.Context(), src, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(latest) == 0 {
		return nil, nil, fmt.Errorf("%w for %s", errNoRuns, src)
	}

	if runID != 0 {
		previous, err := db.GetResultByID(cmd.Context(), runID)
		if err != nil {
			return nil, nil, err
		}
		if previous == nil {
			return nil, nil, fmt.Errorf("%w: %d", errRunNotFound, runID)
		}
		return previous, latest[0], nil
	}

	if len(latest) < 2 {
		return nil, nil, fmt.Errorf("%w for %s", errSingleRun, src)
	}
	return latest[1], latest[0], nil
}
