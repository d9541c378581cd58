package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/urlcount/internal/model"
)

// chartHosts is the number of slices in the host distribution chart.
// Remaining hosts are folded into an "other" slice.
const chartHosts = 8

// MarkdownWriter outputs reports in GitHub Flavored Markdown with tables,
// alerts and mermaid pie charts, for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs every result as a section of one document.
func (w *MarkdownWriter) Write(results []*model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("URL Count Report")
	md.PlainText("")

	if len(results) > 1 {
		w.writeOverview(md, results)
	}
	for _, r := range results {
		w.writeResult(md, r)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeOverview writes a table with one row per source.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, results []*model.Result) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			rows = append(rows, []string{r.Source, "-", "-", "-", "❌ " + r.Error})
			continue
		}
		rows = append(rows, []string{
			r.Source,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Unique),
			strconv.Itoa(len(r.ByHost)),
			"✅",
		})
	}

	md.H2("Overview")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Entries", "Unique", ".com Hosts", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeResult writes the summary, chart and host table of one result.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, r *model.Result) {
	md.H2(r.Source)
	md.PlainText("")

	if r.Failed() {
		md.Warningf("This source could not be counted: %s", r.Error)
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", formatTime(r)},
			{"Entries", strconv.Itoa(r.Total)},
			{"Ignored", strconv.Itoa(r.Ignored)},
			{"Unique URLs", strconv.Itoa(r.Unique)},
			{".com URLs", strconv.Itoa(r.HostTotal())},
			{"Other URLs", strconv.Itoa(r.Excluded)},
			{"Fingerprint", "`" + shortFingerprint(r.Fingerprint) + "`"},
		},
	})
	md.PlainText("")

	if len(r.ByHost) == 0 {
		md.Note("No URL in this source belongs to a .com host.")
		md.PlainText("")
		return
	}

	w.writePieChart(md, r)

	hosts := r.Hosts()
	rows := make([][]string, len(hosts))
	for i, h := range hosts {
		rows[i] = []string{"`" + h.Host + "`", strconv.Itoa(h.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Host", "Unique URLs"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the largest hosts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, r *model.Result) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("URLs per host"),
		piechart.WithShowData(true),
	)

	hosts := r.Hosts()
	other := 0
	for i, h := range hosts {
		if i >= chartHosts {
			other += h.Count
			continue
		}
		chart.LabelAndIntValue(h.Host, uint64(h.Count)) //nolint:gosec // counts are positive
	}
	if other > 0 {
		chart.LabelAndIntValue("other", uint64(other)) //nolint:gosec // counts are positive
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteComparison outputs a comparison as a Markdown document.
func (w *MarkdownWriter) WriteComparison(c *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("URL Count Comparison: " + c.Current.Source)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"", "Previous", "Current"},
		Rows: [][]string{
			{"Generated", formatTime(c.Previous), formatTime(c.Current)},
			{"Unique URLs", strconv.Itoa(c.Previous.Unique), strconv.Itoa(c.Current.Unique)},
			{".com Hosts", strconv.Itoa(len(c.Previous.ByHost)), strconv.Itoa(len(c.Current.ByHost))},
		},
	})
	md.PlainText("")

	switch {
	case c.Identical:
		md.Tip("Both runs counted the same set of URLs.")
	case !c.HasChanges():
		md.Note("The URL set changed, but no host count did.")
	default:
		md.Importantf("Unique URLs changed by %s.", signed(c.UniqueDelta))
	}
	md.PlainText("")

	if len(c.AddedHosts) > 0 {
		md.H2("New Hosts")
		md.PlainText("")
		md.BulletList(formatHostCounts(c.AddedHosts)...)
		md.PlainText("")
	}
	if len(c.RemovedHosts) > 0 {
		md.H2("Removed Hosts")
		md.PlainText("")
		md.BulletList(formatHostCounts(c.RemovedHosts)...)
		md.PlainText("")
	}
	if len(c.ChangedHosts) > 0 {
		rows := make([][]string, len(c.ChangedHosts))
		for i, h := range c.ChangedHosts {
			rows[i] = []string{"`" + h.Host + "`", strconv.Itoa(h.Before), strconv.Itoa(h.After), signed(h.Delta())}
		}
		md.H2("Changed Hosts")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Host", "Before", "After", "Delta"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// formatHostCounts renders hosts as "`host` (n)" list items.
func formatHostCounts(hosts []model.HostCount) []string {
	items := make([]string, len(hosts))
	for i, h := range hosts {
		items[i] = "`" + h.Host + "` (" + strconv.Itoa(h.Count) + ")"
	}
	return items
}

// shortFingerprint shortens a digest for display.
func shortFingerprint(fp string) string {
	if len(fp) <= 16 {
		return fp
	}
	return fp[:16] + "..."
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by urlcount*")
}
