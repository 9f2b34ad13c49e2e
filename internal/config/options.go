package config

import (
	"git.home.luguber.info/inful/docnorm/internal/highlight"
	"git.home.luguber.info/inful/docnorm/internal/markdown"
	"git.home.luguber.info/inful/docnorm/internal/slug"
)

// SlugOptions converts the normalize section into slug options.
func (c *Config) SlugOptions() (slug.Options, error) {
	locale, err := slug.ParseLocale(c.Normalize.Locale)
	if err != nil {
		return slug.Options{}, err
	}
	remove, err := slug.CompileRemove(c.Normalize.Remove)
	if err != nil {
		return slug.Options{}, err
	}
	return slug.Options{
		Remove:      remove,
		Locale:      locale,
		Replacement: slug.DefaultReplacement,
		Lower:       c.Normalize.Lower,
		Strict:      c.Normalize.Strict,
	}, nil
}

// MarkdownOptions converts the markdown section into renderer options.
func (c *Config) MarkdownOptions() markdown.Options {
	opts := markdown.Options{
		GFM:        c.Markdown.GFM,
		HeadingIDs: c.Markdown.HeadingIDs,
		UnsafeHTML: c.Markdown.UnsafeHTML,
	}
	if c.Markdown.Highlight.Enabled {
		opts.Highlight = &highlight.Options{
			Theme: c.Markdown.Highlight.Theme,
			Wrap:  c.Markdown.Highlight.Wrap,
		}
	}
	return opts
}
