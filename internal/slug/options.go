package slug

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// DefaultRemovePattern is the character class deleted before slugification.
const DefaultRemovePattern = `[*+~.()'"!:@]`

// DefaultReplacement separates words in a slug.
const DefaultReplacement = "-"

// Options controls slug generation.
//
// Lower forces lowercase output using the locale's case rules. Strict keeps only
// ASCII letters and digits and collapses every other run of characters into a
// single Replacement. Locale selects the transliteration table applied before
// anything else. Remove deletes matching characters outright.
type Options struct {
	Remove      *regexp.Regexp
	Locale      language.Tag
	Replacement string
	Lower       bool
	Strict      bool
}

var defaultRemove = regexp.MustCompile(DefaultRemovePattern)

// DefaultOptions returns the configuration used for documentation ids:
// French locale, lowercase, strict, and the DefaultRemovePattern strip set.
func DefaultOptions() Options {
	return Options{
		Remove:      defaultRemove,
		Locale:      language.French,
		Replacement: DefaultReplacement,
		Lower:       true,
		Strict:      true,
	}
}

// ParseLocale parses a BCP 47 tag such as "fr" or "de-CH".
// An empty string yields language.Und, which selects the base character map only.
func ParseLocale(raw string) (language.Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", raw, err)
	}
	return tag, nil
}

// CompileRemove compiles the strip-set pattern. An empty pattern disables removal.
func CompileRemove(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid remove pattern %q: %w", pattern, err)
	}
	return re, nil
}
