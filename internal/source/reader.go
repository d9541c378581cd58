package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// maxLineSize bounds a single line of a URL list (1MB).
const maxLineSize = 1024 * 1024

// Format is the layout of a URL list.
type Format string

const (
	// FormatLines is a plain list with one URL per line.
	FormatLines Format = "lines"

	// FormatHTML is an HTML document whose links are collected.
	FormatHTML Format = "html"
)

var (
	// ErrEmptyPath is returned when a source path is empty.
	ErrEmptyPath = errors.New("source path is empty")

	// ErrUnknownFormat is returned for a format other than lines or html.
	ErrUnknownFormat = errors.New("unknown source format: expected 'lines' or 'html'")
)

// ParseFormat converts a configuration value into a Format.
// The empty string selects FormatLines.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatLines:
		return FormatLines, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Reader loads URL lists from files or standard input.
type Reader struct {
	// stdin is read when a source path is StdinPath.
	stdin io.Reader

	// baseURL resolves relative links in HTML sources. Empty keeps them as written.
	baseURL string
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStdin replaces os.Stdin as the stream read for StdinPath.
func WithStdin(r io.Reader) ReaderOption {
	return func(rd *Reader) {
		rd.stdin = r
	}
}

// WithBaseURL resolves relative links found in HTML sources against base.
func WithBaseURL(base string) ReaderOption {
	return func(rd *Reader) {
		rd.baseURL = base
	}
}

// NewReader creates a Reader.
func NewReader(opts ...ReaderOption) *Reader {
	rd := &Reader{stdin: os.Stdin}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// WithBase returns a copy of rd that resolves HTML links against base.
func (rd *Reader) WithBase(base string) *Reader {
	c := *rd
	c.baseURL = base
	return &c
}

// Load reads the URL list at path in the given format.
func (rd *Reader) Load(path string, format Format) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	var in io.Reader
	if path == StdinPath {
		in = rd.stdin
	} else {
		f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to open source: %w", err)
		}
		defer f.Close()
		in = f
	}

	switch format {
	case FormatHTML:
		return ExtractLinks(in, rd.baseURL)
	case FormatLines, "":
		return ReadLines(in)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ReadLines reads one URL per line from r.
// Surrounding whitespace is trimmed; blank lines and '#' comments are skipped.
// A file with no URLs yields an empty, non-nil slice.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	urls := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}
