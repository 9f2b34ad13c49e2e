package config

import (
	"git.home.luguber.info/inful/docnorm/internal/highlight"
	"git.home.luguber.info/inful/docnorm/internal/slug"
)

// Default returns the configuration used when a key is absent: GFM with
// heading ids and raw HTML, github-dark highlighting with wrapped lines, and
// id normalization with French transliteration in strict lowercase mode.
func Default() *Config {
	return &Config{
		Site: SiteConfig{TrailingSlash: TrailingSlashNever},
		Content: ContentConfig{
			Directory: "docs",
		},
		Markdown: MarkdownConfig{
			GFM:        true,
			UnsafeHTML: true,
			HeadingIDs: true,
			Highlight: HighlightConfig{
				Enabled: true,
				Theme:   highlight.DefaultTheme,
				Wrap:    true,
			},
		},
		Normalize: NormalizeConfig{
			Enabled: true,
			Locale:  "fr",
			Lower:   true,
			Strict:  true,
			Remove:  slug.DefaultRemovePattern,
		},
		Output: OutputConfig{
			Directory: "public",
			Clean:     false,
		},
		Build: BuildConfig{
			Incremental: true,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}
