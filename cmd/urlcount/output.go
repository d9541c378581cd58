package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/urlcount/internal/config"
	"github.com/nao1215/urlcount/internal/model"
	"github.com/nao1215/urlcount/internal/report"
	"github.com/spf13/cobra"
)

// newReportWriter returns the writer for the selected format.
func newReportWriter(w io.Writer, jsonReport, markdownReport, verbose bool) report.Writer {
	switch {
	case jsonReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(verbose))
	}
}

// openReportFile creates path and its parent directories.
func openReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}

// outputResults writes the results to stdout, or, with --output, writes
// the selected format to the file and a plain summary to stdout.
func outputResults(cmd *cobra.Command, cfg *config.Config, results []*model.Result) error {
	out := cmd.OutOrStdout()

	if cfg.ReportFile == "" {
		_, err := newReportWriter(out, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose).Write(results)
		return err
	}

	f, err := openReportFile(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := report.NewMultiWriter(
		report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose)),
		newReportWriter(f, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose),
	)
	if _, err := w.Write(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", cfg.ReportFile)
	return f.Close()
}
