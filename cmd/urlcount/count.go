package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/urlcount/internal/config"
	"github.com/nao1215/urlcount/internal/database"
	"github.com/nao1215/urlcount/internal/model"
	"github.com/nao1215/urlcount/internal/pipeline"
	"github.com/nao1215/urlcount/internal/source"
	"github.com/spf13/cobra"
)

// mergedLabel names the result of a --merge run.
const mergedLabel = "merged"

// errSourcesFailed is returned after the report when a source could not be read.
var errSourcesFailed = errors.New("some sources could not be counted")

// NewCountCmd creates the count command.
func NewCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [file...]",
		Short: "Count unique URLs in one or more lists",
		Long: `Count reads URL lists and reports how many unique URLs they contain,
overall and per .com host.

A list is a file with one URL per line; blank lines and lines starting
with '#' are skipped. With --html, each file is an HTML page and the
links of its a, area, link, img, script and iframe elements are counted.
Use '-' or no argument to read standard input.

Examples:
  # Count one list
  urlcount count urls.txt

  # Count several lists, 8 at a time, as JSON
  urlcount count -b 8 --json access-*.txt

  # Count the union of several lists
  urlcount count --merge monday.txt tuesday.txt

  # Count links of a web page saved to disk
  urlcount count --html --base-url https://example.com/ index.html

  # Write a Markdown report with a host chart
  urlcount count -m -o report.md urls.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: runCountCmd,
	}

	cmd.Flags().BoolP("html", "H", false,
		"Treat every source as an HTML page and count its links")
	cmd.Flags().String("base-url", "",
		"Resolve relative links of HTML sources against this URL (a configured baseURL takes precedence)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sources counted concurrently")
	cmd.Flags().BoolP("merge", "M", false,
		"Count the union of all sources as one result")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .urlcount in current, home or XDG config directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runCountCmd executes the count command.
func runCountCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg.LogJSON, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCount(ctx, cmd, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	htmlInput, err := flags.GetBool("html")
	if err != nil {
		return nil, err
	}
	if htmlInput {
		cfg.Format = string(source.FormatHTML)
	}

	if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Merge, err = flags.GetBool("merge"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getPersistentBool(cmd, "log-json")

	// Load per-source settings. An explicit --config must exist.
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg.Sources = args
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{source.StdinPath}
	}

	return cfg, nil
}

// buildJobs resolves the settings of every source into pipeline jobs.
// The --html flag overrides the configured format.
func buildJobs(cfg *config.Config) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(cfg.Sources))
	for _, path := range cfg.Sources {
		sc := cfg.SourceConfig(path)

		name := sc.Format
		if cfg.Format != "" {
			name = cfg.Format
		}
		format, err := source.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", path, err)
		}

		jobs = append(jobs, pipeline.Job{
			Path:        path,
			Label:       sc.Label,
			Format:      format,
			BaseURL:     sc.BaseURL,
			IgnoreHosts: sc.IgnoreHosts,
		})
	}
	return jobs, nil
}

// runCount counts every source, writes the report and records the run.
func runCount(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	jobs, err := buildJobs(cfg)
	if err != nil {
		return err
	}

	logger.Debug("starting count",
		"sources", cfg.Sources,
		"batchSize", cfg.BatchSize,
		"merge", cfg.Merge,
		"saveToDB", cfg.SaveToDB,
	)

	bp := pipeline.NewBatchProcessor(
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithReader(source.NewReader(
			source.WithStdin(cmd.InOrStdin()),
			source.WithBaseURL(cfg.BaseURL),
		)),
	)

	var results []*model.Result
	if cfg.Merge {
		merged, err := bp.ProcessMerged(ctx, mergedLabel, jobs)
		if err != nil {
			return fmt.Errorf("failed to count sources: %w", err)
		}
		results = []*model.Result{merged}
	} else {
		results, err = bp.ProcessBatch(ctx, jobs)
		if err != nil {
			return fmt.Errorf("counting interrupted: %w", err)
		}
	}

	if err := outputResults(cmd, cfg, results); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveResults(ctx, cfg.DBDir, results, logger); err != nil {
			// The report is already out; history is best effort.
			logger.Warn("failed to record run", "error", err)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSourcesFailed, failed, len(results))
	}
	return nil
}

// saveResults stores every successful result in the history database.
func saveResults(ctx context.Context, dbDir string, results []*model.Result, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	for _, r := range results {
		if r.Failed() {
			continue
		}
		id, err := db.SaveResult(ctx, r)
		if err != nil {
			return err
		}
		logger.Debug("run recorded", "source", r.Source, "id", id)
	}
	return nil
}
