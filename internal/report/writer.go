package report

import (
	"io"
	"strconv"

	"github.com/nao1215/urlcount/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the results of one run, in input order.
	// Returns the number of bytes written and any error encountered.
	Write(results []*model.Result) (int, error)

	// WriteComparison outputs the difference between two results.
	WriteComparison(c *model.Comparison) (int, error)
}

// MultiWriter writes to multiple Writers in turn, for example the terminal
// and a report file. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the results to all configured Writers.
// Returns the total bytes written across all writers.
func (m *MultiWriter) Write(results []*model.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteComparison outputs the comparison to all configured Writers.
func (m *MultiWriter) WriteComparison(c *model.Comparison) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteComparison(c)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// topHosts returns at most n hosts of r, highest count first.
// A non-positive n returns every host.
func topHosts(r *model.Result, n int) []model.HostCount {
	hosts := r.Hosts()
	if n > 0 && len(hosts) > n {
		return hosts[:n]
	}
	return hosts
}

// signed formats a delta with an explicit sign.
func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
