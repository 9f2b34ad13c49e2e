package config

import (
	"fmt"

	"git.home.luguber.info/inful/docnorm/internal/foundation/normalization"
)

// normalizeConfig canonicalizes enumerated fields in place and returns a
// warning for every value it had to change.
func normalizeConfig(c *Config) []string {
	var warnings []string

	c.Site.TrailingSlash = normalizeEnum(trailingSlashNormalizer, "site.trailing_slash", c.Site.TrailingSlash, &warnings)
	c.Logging.Level = normalizeEnum(logLevelNormalizer, "logging.level", c.Logging.Level, &warnings)
	c.Logging.Format = normalizeEnum(logFormatNormalizer, "logging.format", c.Logging.Format, &warnings)

	if c.Build.Concurrency < 0 {
		warnings = append(warnings, fmt.Sprintf("build.concurrency %d is negative, using 0", c.Build.Concurrency))
		c.Build.Concurrency = 0
	}
	return warnings
}

func normalizeEnum[T ~string](n *normalization.Normalizer[T], field string, value T, warnings *[]string) T {
	normalized, err := n.NormalizeWithError(string(value))
	switch {
	case err != nil:
		normalized = n.Normalize(string(value))
		*warnings = append(*warnings, fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, normalized))
	case normalized != value:
		*warnings = append(*warnings, fmt.Sprintf("normalized %s from '%s' to '%s'", field, value, normalized))
	}
	return normalized
}
