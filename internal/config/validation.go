package config

import (
	"fmt"
	"net/url"
	"path/filepath"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
	"git.home.luguber.info/inful/docnorm/internal/slug"
)

// Validate checks cross-field constraints. Failures are classified config
// errors naming the offending key.
func (c *Config) Validate() error {
	if c.Content.Directory == "" {
		return configError("content.directory", "content directory is required")
	}
	if c.Output.Directory == "" {
		return configError("output.directory", "output directory is required")
	}
	if filepath.Clean(c.Content.Directory) == filepath.Clean(c.Output.Directory) {
		return configError("output.directory", "output directory must differ from the content directory")
	}
	if c.Site.URL != "" {
		u, err := url.Parse(c.Site.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return configError("site.url", fmt.Sprintf("site url %q must be absolute", c.Site.URL))
		}
	}
	if _, err := slug.ParseLocale(c.Normalize.Locale); err != nil {
		return configError("normalize.locale", err.Error())
	}
	if _, err := slug.CompileRemove(c.Normalize.Remove); err != nil {
		return configError("normalize.remove", err.Error())
	}
	return nil
}

func configError(field, message string) error {
	return errors.ConfigError(message).WithContext("field", field).Build()
}
