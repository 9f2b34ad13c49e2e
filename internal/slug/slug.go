// Package slug derives URL- and identifier-safe strings from arbitrary text.
//
// Slugs are deterministic: the same input and Options always produce the same
// output. With the default options (French locale, lowercase, strict) the result
// only contains [a-z0-9] and single '-' separators, so re-slugifying a slug is a
// no-op.
package slug

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugifier applies a fixed Options set. It holds no mutable state and is safe
// for concurrent use.
type Slugifier struct {
	locale      map[rune]string
	opts        Options
	replacement rune
}

// New returns a Slugifier for opts. An empty Replacement defaults to "-".
func New(opts Options) *Slugifier {
	if opts.Replacement == "" {
		opts.Replacement = DefaultReplacement
	}
	s := &Slugifier{
		locale: localeTable(opts.Locale),
		opts:   opts,
	}
	if r, size := utf8.DecodeRuneInString(opts.Replacement); size == len(opts.Replacement) {
		s.replacement = r
	}
	return s
}

var std = New(DefaultOptions())

// Normalize slugifies text with DefaultOptions after percent-decoding it.
func Normalize(text string) string {
	return std.Normalize(text)
}

// Options returns the configuration this Slugifier was built with.
func (s *Slugifier) Options() Options {
	return s.opts
}

// Normalize percent-decodes text and slugifies the result. When text is not a
// valid percent-encoded UTF-8 string the raw text is slugified instead.
func (s *Slugifier) Normalize(text string) string {
	if decoded, ok := decode(text); ok {
		return s.Slugify(decoded)
	}
	return s.Slugify(text)
}

// Slugify converts text to a slug without percent-decoding it first.
func (s *Slugifier) Slugify(text string) string {
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		piece := s.transliterate(r)
		if s.opts.Remove != nil {
			piece = s.opts.Remove.ReplaceAllString(piece, "")
		}
		b.WriteString(piece)
	}

	out := stripMarks(b.String())
	if s.opts.Lower {
		out = cases.Lower(s.opts.Locale).String(out)
	}
	if s.opts.Strict {
		return s.join(out, isASCIIAlnum)
	}
	return s.join(out, isNotSpace)
}

func (s *Slugifier) transliterate(r rune) string {
	if s.replacement != 0 && r == s.replacement {
		return " "
	}
	if mapped, ok := s.locale[r]; ok {
		return mapped
	}
	if mapped, ok := baseCharMap[r]; ok {
		return mapped
	}
	return string(r)
}

// join keeps runes accepted by keep and collapses every rejected run into a
// single replacement. Leading and trailing runs are dropped.
func (s *Slugifier) join(text string, keep func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(text))
	pending := false
	for _, r := range text {
		if !keep(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteString(s.opts.Replacement)
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}

func decode(text string) (string, bool) {
	decoded, err := url.PathUnescape(text)
	if err != nil || !utf8.ValidString(decoded) {
		return "", false
	}
	return decoded, true
}

func stripMarks(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isNotSpace(r rune) bool {
	return !unicode.IsSpace(r)
}
