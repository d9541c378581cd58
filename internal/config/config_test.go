package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"
)

// isolateDirs moves the test into empty working, home and XDG config
// directories and returns the home and XDG config paths.
func isolateDirs(t *testing.T) (string, string) {
	t.Helper()

	// Registered first so it runs after the environment is restored.
	t.Cleanup(func() { xdg.Reload() })

	home := t.TempDir()
	configHome := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()

	return home, configHome
}

// TestNewConfig verifies the defaults returned by NewConfig.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("results are saved by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("report formats are off by default", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected simple report by default")
		}
	})

	t.Run("no sources by default", func(t *testing.T) {
		t.Parallel()
		if len(cfg.Sources) != 0 {
			t.Errorf("expected no sources, got %v", cfg.Sources)
		}
	})
}

// TestConfigValidate tests Config.Validate.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) { c.Sources = []string{"urls.txt"} },
			wantErr: nil,
		},
		{
			name:    "no sources",
			modify:  func(_ *Config) {},
			wantErr: ErrNoSource,
		},
		{
			name: "zero batch size",
			modify: func(c *Config) {
				c.Sources = []string{"-"}
				c.BatchSize = 0
			},
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "negative batch size",
			modify: func(c *Config) {
				c.Sources = []string{"-"}
				c.BatchSize = -1
			},
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "json and markdown together",
			modify: func(c *Config) {
				c.Sources = []string{"-"}
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileGetSourceConfig tests merging of defaults and per-source settings.
func TestFileGetSourceConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SourceConfig{
			Format:      "lines",
			IgnoreHosts: []string{"localhost"},
		},
		Sources: map[string]SourceConfig{
			"urls.txt": {
				Label:       "production",
				IgnoreHosts: []string{"*.internal.com", "localhost"},
			},
			"page.html": {
				Format:  "html",
				BaseURL: "https://example.com/",
			},
		},
	}

	tests := []struct {
		name string
		path string
		want SourceConfig
	}{
		{
			name: "unknown source gets defaults",
			path: "other.txt",
			want: SourceConfig{Format: "lines", IgnoreHosts: []string{"localhost"}},
		},
		{
			name: "ignore patterns are added without duplicates",
			path: "urls.txt",
			want: SourceConfig{
				Label:       "production",
				Format:      "lines",
				IgnoreHosts: []string{"localhost", "*.internal.com"},
			},
		},
		{
			name: "format and base URL override defaults",
			path: "page.html",
			want: SourceConfig{
				Format:      "html",
				BaseURL:     "https://example.com/",
				IgnoreHosts: []string{"localhost"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := cf.GetSourceConfig(tt.path)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GetSourceConfig(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}

	t.Run("merging does not modify defaults", func(t *testing.T) {
		t.Parallel()

		local := &File{
			Defaults: SourceConfig{IgnoreHosts: []string{"a.com"}},
			Sources:  map[string]SourceConfig{"x": {IgnoreHosts: []string{"b.com"}}},
		}
		_ = local.GetSourceConfig("x")
		if len(local.Defaults.IgnoreHosts) != 1 {
			t.Errorf("defaults were modified: %v", local.Defaults.IgnoreHosts)
		}
	})
}

// TestConfigSourceConfig tests lookups without a loaded file.
func TestConfigSourceConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	want := SourceConfig{Format: DefaultFormat}
	if diff := cmp.Diff(want, cfg.SourceConfig("urls.txt")); diff != "" {
		t.Errorf("expected default SourceConfig (-want +got):\n%s", diff)
	}

	cfg.SourceConfigs = &File{Sources: map[string]SourceConfig{
		"page.html": {Format: "html"},
		"urls.txt":  {Label: "urls"},
	}}
	if got := cfg.SourceConfig("page.html").Format; got != "html" {
		t.Errorf("expected configured format 'html', got %q", got)
	}
	if got := cfg.SourceConfig("urls.txt").Format; got != DefaultFormat {
		t.Errorf("expected default format %q, got %q", DefaultFormat, got)
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.urlcount")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".urlcount")
		content := `defaults:
  format: lines
  ignoreHosts:
    - localhost
sources:
  urls.txt:
    label: production
    ignoreHosts: ["*.internal.com"]
  page.html:
    format: html
    baseURL: https://example.com/
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &File{
			Defaults: SourceConfig{Format: "lines", IgnoreHosts: []string{"localhost"}},
			Sources: map[string]SourceConfig{
				"urls.txt":  {Label: "production", IgnoreHosts: []string{"*.internal.com"}},
				"page.html": {Format: "html", BaseURL: "https://example.com/"},
			},
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("loaded config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".urlcount")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil {
			t.Fatal("expected error for invalid YAML")
		}
		if !strings.Contains(err.Error(), configPath) {
			t.Errorf("expected error to mention the path, got %v", err)
		}
	})

	t.Run("initializes nil Sources map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".urlcount")
		if err := os.WriteFile(configPath, []byte("defaults:\n  format: html\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sources == nil {
			t.Error("expected Sources map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		isolateDirs(t)
		dir, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}

		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(""); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		home, _ := isolateDirs(t)

		path := filepath.Join(home, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(""); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("falls back to XDG config directory", func(t *testing.T) {
		_, configHome := isolateDirs(t)

		dir := filepath.Join(configHome, AppName)
		if err := os.MkdirAll(dir, 0750); err != nil {
			t.Fatalf("failed to create config dir: %v", err)
		}
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(""); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("home directory wins over XDG config directory", func(t *testing.T) {
		home, configHome := isolateDirs(t)

		homePath := filepath.Join(home, DefaultConfigFile)
		xdgDir := filepath.Join(configHome, AppName)
		if err := os.MkdirAll(xdgDir, 0750); err != nil {
			t.Fatalf("failed to create config dir: %v", err)
		}
		for _, p := range []string{homePath, filepath.Join(xdgDir, DefaultConfigFile)} {
			if err := os.WriteFile(p, []byte("defaults: {}"), 0600); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
		}

		if got := FindConfigFile(""); got != homePath {
			t.Errorf("expected %q, got %q", homePath, got)
		}
	})
}

// TestConfigLoad tests resolving the configuration file for a run.
func TestConfigLoad(t *testing.T) {
	t.Run("explicit missing path is an error", func(t *testing.T) {
		cfg := NewConfig()
		cfg.ConfigFilePath = filepath.Join(t.TempDir(), "missing.yaml")

		if err := cfg.Load(); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("no implicit file yields empty settings", func(t *testing.T) {
		isolateDirs(t)

		cfg := NewConfig()
		if err := cfg.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SourceConfigs == nil || len(cfg.SourceConfigs.Sources) != 0 {
			t.Errorf("expected empty source configs, got %+v", cfg.SourceConfigs)
		}
	})

	t.Run("explicit file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf.yaml")
		if err := os.WriteFile(path, []byte("sources:\n  a.txt:\n    label: a\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg := NewConfig()
		cfg.ConfigFilePath = path
		if err := cfg.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := cfg.SourceConfig("a.txt").Label; got != "a" {
			t.Errorf("expected label 'a', got %q", got)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{"data": XDGDataDir(), "config": XDGConfigDir()} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("expected %s dir to end with %q, got %q", name, AppName, dir)
		}
	}
}
