package config

import (
	"strings"

	"git.home.luguber.info/inful/docnorm/internal/foundation/normalization"
)

// TrailingSlash controls whether page URLs end with '/'.
type TrailingSlash string

const (
	TrailingSlashNever  TrailingSlash = "never"
	TrailingSlashAlways TrailingSlash = "always"
	TrailingSlashIgnore TrailingSlash = "ignore"
)

var trailingSlashNormalizer = normalization.NewNormalizer(map[string]TrailingSlash{
	"never":  TrailingSlashNever,
	"always": TrailingSlashAlways,
	"ignore": TrailingSlashIgnore,
}, TrailingSlashNever)

func NormalizeTrailingSlash(raw string) TrailingSlash {
	return trailingSlashNormalizer.Normalize(raw)
}

// PageURL returns the public URL of the page rendered from relPath, a
// slash-separated source path such as "guide/intro.md". "index" pages map to
// their directory.
func (s SiteConfig) PageURL(relPath string) string {
	page := strings.TrimSuffix(relPath, ".md")
	if page == "index" {
		page = ""
	} else {
		page = strings.TrimSuffix(page, "/index")
	}

	u := strings.TrimSuffix(s.URL, "/") + "/" + page
	switch s.TrailingSlash {
	case TrailingSlashAlways:
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
	case TrailingSlashNever:
		if page != "" {
			u = strings.TrimSuffix(u, "/")
		}
	}
	return u
}
