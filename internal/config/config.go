package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "urlcount"

	// DefaultBatchSize is the number of sources counted concurrently.
	// Counting is CPU-bound and cheap, so a small limit keeps file handles low.
	DefaultBatchSize = 4

	// DefaultFormat is the input format used when neither the flag nor the
	// configuration file selects one.
	DefaultFormat = "lines"
)

// Config holds all options for a counting run. It is populated from CLI
// flags and passed down explicitly rather than kept in global state.
type Config struct {
	// Sources are the URL list paths to count. "-" selects standard input.
	Sources []string

	// Format is the input format for every source: "lines" or "html".
	// Empty means each source uses its configured format, or DefaultFormat.
	Format string

	// Merge counts the union of all sources as a single result instead of
	// one result per source.
	Merge bool

	// Verbose enables debug log output. When false, only warnings and
	// errors are logged.
	Verbose bool

	// LogJSON writes log records as JSON instead of text.
	LogJSON bool

	// BaseURL resolves relative links of HTML sources that have no
	// baseURL in the configuration file.
	BaseURL string

	// BatchSize is the number of sources counted concurrently.
	BatchSize int

	// ConfigFilePath is an explicit path to the configuration file.
	// If empty, .urlcount is searched in the current, home and XDG config
	// directories.
	ConfigFilePath string

	// SourceConfigs holds per-source settings from the configuration file.
	SourceConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to this path instead of stdout.
	ReportFile string

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/urlcount on Linux).
	DBDir string

	// SaveToDB stores every successful result in the history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		SaveToDB:  true,
	}
}

// XDGDataDir returns the XDG data directory for urlcount.
// On Linux: ~/.local/share/urlcount
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for urlcount.
// On Linux: ~/.config/urlcount
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any source is read.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSource
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// SourceConfig returns the merged per-source settings for path.
// A Config without a loaded file yields the zero SourceConfig.
func (c *Config) SourceConfig(path string) SourceConfig {
	var sc SourceConfig
	if c.SourceConfigs != nil {
		sc = c.SourceConfigs.GetSourceConfig(path)
	}
	if sc.Format == "" {
		sc.Format = DefaultFormat
	}
	return sc
}
