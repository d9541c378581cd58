package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/urlcount/internal/model"
)

// defaultTopHosts is the number of hosts listed per result unless verbose.
const defaultTopHosts = 10

// SimpleWriter outputs human-readable text reports for terminal display.
// It uses plain ASCII formatting so output can be piped or saved as is.
type SimpleWriter struct {
	baseWriter

	// verbose lists every host instead of the top defaultTopHosts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with every host listed.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs every result followed by a footer.
func (w *SimpleWriter) Write(results []*model.Result) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "URLCOUNT REPORT")
	for _, r := range results {
		w.writeResult(&sb, r)
	}
	if len(results) == 0 {
		sb.WriteString("No sources counted.\n\n")
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeBanner writes a centered title between two rules.
func (w *SimpleWriter) writeBanner(sb *strings.Builder, title string) {
	pad := (70 - len(title)) / 2
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writeSection writes a section heading.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeResult writes the summary and host breakdown of one result.
func (w *SimpleWriter) writeResult(sb *strings.Builder, r *model.Result) {
	w.writeSection(sb, r.Source)

	if r.Failed() {
		sb.WriteString(fmt.Sprintf("Status:       ERROR - %s\n\n", r.Error))
		return
	}

	sb.WriteString(fmt.Sprintf("Entries:      %s\n", humanize.Comma(int64(r.Total))))
	if r.Ignored > 0 {
		sb.WriteString(fmt.Sprintf("Ignored:      %s\n", humanize.Comma(int64(r.Ignored))))
	}
	sb.WriteString(fmt.Sprintf("Unique URLs:  %s\n", humanize.Comma(int64(r.Unique))))
	sb.WriteString(fmt.Sprintf(".com URLs:    %s across %d host(s)\n", humanize.Comma(int64(r.HostTotal())), len(r.ByHost)))
	sb.WriteString(fmt.Sprintf("Other URLs:   %s\n", humanize.Comma(int64(r.Excluded))))
	if w.verbose {
		sb.WriteString(fmt.Sprintf("Fingerprint:  %s\n", r.Fingerprint))
	}
	sb.WriteString("\n")

	if len(r.ByHost) == 0 {
		sb.WriteString("  No .com hosts found\n\n")
		return
	}

	limit := defaultTopHosts
	if w.verbose {
		limit = 0
	}
	hosts := topHosts(r, limit)
	width := 0
	for _, h := range hosts {
		width = max(width, len(h.Host))
	}
	for _, h := range hosts {
		sb.WriteString(fmt.Sprintf("  %-*s %s\n", width, h.Host, humanize.Comma(int64(h.Count))))
	}
	if rest := len(r.ByHost) - len(hosts); rest > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more host(s), use --verbose to list all\n", rest))
	}
	sb.WriteString("\n")
}

// WriteComparison outputs a comparison in human-readable form.
func (w *SimpleWriter) WriteComparison(c *model.Comparison) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "URLCOUNT COMPARISON")
	sb.WriteString(fmt.Sprintf("Source:    %s\n", c.Current.Source))
	sb.WriteString(fmt.Sprintf("Previous:  %s (%d unique)\n", formatTime(c.Previous), c.Previous.Unique))
	sb.WriteString(fmt.Sprintf("Current:   %s (%d unique)\n", formatTime(c.Current), c.Current.Unique))
	sb.WriteString(fmt.Sprintf("Change:    %s unique URL(s)\n\n", signed(c.UniqueDelta)))

	switch {
	case c.Identical:
		sb.WriteString("Both runs counted the same set of URLs.\n\n")
	case !c.HasChanges():
		sb.WriteString("No host counts changed.\n\n")
	default:
		w.writeHostChanges(&sb, c)
	}

	w.writeFooter(&sb)
	return w.output.Write([]byte(sb.String()))
}

// writeHostChanges lists added, removed and changed hosts.
func (w *SimpleWriter) writeHostChanges(sb *strings.Builder, c *model.Comparison) {
	if len(c.AddedHosts) > 0 {
		w.writeSection(sb, "NEW HOSTS")
		for _, h := range c.AddedHosts {
			sb.WriteString(fmt.Sprintf("  [+] %s (%d)\n", h.Host, h.Count))
		}
		sb.WriteString("\n")
	}
	if len(c.RemovedHosts) > 0 {
		w.writeSection(sb, "REMOVED HOSTS")
		for _, h := range c.RemovedHosts {
			sb.WriteString(fmt.Sprintf("  [-] %s (%d)\n", h.Host, h.Count))
		}
		sb.WriteString("\n")
	}
	if len(c.ChangedHosts) > 0 {
		w.writeSection(sb, "CHANGED HOSTS")
		for _, h := range c.ChangedHosts {
			sb.WriteString(fmt.Sprintf("  [*] %s %d -> %d (%s)\n", h.Host, h.Before, h.After, signed(h.Delta())))
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by urlcount\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// formatTime renders the generation time of r, or "-" when unknown.
func formatTime(r *model.Result) string {
	if r.GeneratedAt.IsZero() {
		return "-"
	}
	return r.GeneratedAt.Format("2006-01-02 15:04:05 MST")
}
