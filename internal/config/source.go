package config

import "slices"

// SourceConfig holds settings for a single URL list.
type SourceConfig struct {
	// Label names the source in reports and in the history database.
	// If empty, the path is used.
	Label string `yaml:"label,omitempty"`

	// Format is the input format: "lines" or "html".
	Format string `yaml:"format,omitempty"`

	// BaseURL resolves relative links found in HTML sources.
	BaseURL string `yaml:"baseURL,omitempty"`

	// IgnoreHosts are glob patterns (path.Match syntax) matched against the
	// host of each normalized URL. Matching entries are not counted.
	IgnoreHosts []string `yaml:"ignoreHosts,omitempty"`
}

// File represents the structure of the .urlcount configuration file.
type File struct {
	// Defaults apply to every source unless overridden.
	Defaults SourceConfig `yaml:"defaults,omitempty"`

	// Sources maps a source path, exactly as given on the command line,
	// to its settings.
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`
}

// GetSourceConfig returns the configuration for path, merged with the
// defaults. Scalar settings override the defaults; ignore patterns are
// added to the default patterns.
func (cf *File) GetSourceConfig(path string) SourceConfig {
	result := cf.Defaults
	result.IgnoreHosts = slices.Clone(cf.Defaults.IgnoreHosts)

	sc, ok := cf.Sources[path]
	if !ok {
		return result
	}

	if sc.Label != "" {
		result.Label = sc.Label
	}
	if sc.Format != "" {
		result.Format = sc.Format
	}
	if sc.BaseURL != "" {
		result.BaseURL = sc.BaseURL
	}
	for _, p := range sc.IgnoreHosts {
		if !slices.Contains(result.IgnoreHosts, p) {
			result.IgnoreHosts = append(result.IgnoreHosts, p)
		}
	}

	return result
}
