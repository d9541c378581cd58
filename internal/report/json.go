package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/urlcount/internal/model"
)

// JSONWriter outputs reports in JSON format for programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in every document.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the output documents.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written for a counting run.
type JSONReport struct {
	Version string          `json:"version,omitempty"`
	Results []*model.Result `json:"results"`
}

// JSONComparison is the document written for a comparison.
type JSONComparison struct {
	Version    string            `json:"version,omitempty"`
	Comparison *model.Comparison `json:"comparison"`
}

// Write outputs the results wrapped in a JSONReport.
func (w *JSONWriter) Write(results []*model.Result) (int, error) {
	if results == nil {
		results = []*model.Result{}
	}
	return w.writeJSON(JSONReport{Version: w.version, Results: results})
}

// WriteComparison outputs the comparison wrapped in a JSONComparison.
func (w *JSONWriter) WriteComparison(c *model.Comparison) (int, error) {
	return w.writeJSON(JSONComparison{Version: w.version, Comparison: c})
}

// writeJSON marshals v and writes it followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
