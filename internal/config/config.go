package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docnorm.yaml"

// Config represents the application configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Output    OutputConfig    `yaml:"output"`
	Build     BuildConfig     `yaml:"build"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`

	// Warnings collects adjustments made while normalizing enum values.
	Warnings []string `yaml:"-"`
}

// SiteConfig describes where the rendered pages are published.
type SiteConfig struct {
	URL           string        `yaml:"url,omitempty"`
	TrailingSlash TrailingSlash `yaml:"trailing_slash"`
}

// ContentConfig locates the markdown sources.
type ContentConfig struct {
	Directory      string `yaml:"directory"`
	GitLastUpdated bool   `yaml:"git_last_updated"`
}

// MarkdownConfig selects markdown rendering features.
type MarkdownConfig struct {
	GFM        bool            `yaml:"gfm"`
	UnsafeHTML bool            `yaml:"unsafe_html"`
	Sanitize   bool            `yaml:"sanitize"`
	HeadingIDs bool            `yaml:"heading_ids"`
	Highlight  HighlightConfig `yaml:"highlight"`
}

// HighlightConfig configures fenced code highlighting.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Theme   string `yaml:"theme"`
	Wrap    bool   `yaml:"wrap"`
}

// NormalizeConfig configures the id and anchor normalizer.
type NormalizeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Locale  string `yaml:"locale"`
	Lower   bool   `yaml:"lower"`
	Strict  bool   `yaml:"strict"`
	Remove  string `yaml:"remove"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// BuildConfig tunes document processing.
type BuildConfig struct {
	Concurrency int  `yaml:"concurrency"` // 0 means GOMAXPROCS
	Incremental bool `yaml:"incremental"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls metrics export for one-shot builds.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after a build.
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads configPath on top of the defaults. Environment variables from
// .env files and the process are expanded in the YAML first. Relative
// directories are resolved against the configuration file's directory.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

// Parse decodes YAML on top of Default, normalizes enums and validates.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(string(data)) != "" {
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
				WithSeverity(errors.SeverityFatal).
				Build()
		}
	}

	cfg.Warnings = normalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Content.Directory = resolve(c.Content.Directory)
	c.Output.Directory = resolve(c.Output.Directory)
	c.Metrics.Textfile = resolve(c.Metrics.Textfile)
}

// Init creates a new configuration file holding the defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	data = append([]byte("# docnorm configuration. Values of the form ${VAR} are read from the environment.\n"), data...)

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
