// Package headingid assigns GitHub-style ids to markdown headings.
//
// These are the ids a reader sees in most markdown tooling: lowercase, unicode
// letters kept, punctuation dropped, spaces turned into hyphens and duplicates
// suffixed with -1, -2, ... The anchors package re-normalizes them afterwards.
package headingid

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

const fallbackID = "heading"

// Generator implements parser.IDs for a single document.
// It is stateful and must not be shared between documents.
type Generator struct {
	seen map[string]int
}

var _ parser.IDs = (*Generator)(nil)

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator {
	return &Generator{seen: make(map[string]int)}
}

// NewContext returns a goldmark parser context with a fresh Generator.
func NewContext() parser.Context {
	return parser.NewContext(parser.WithIDs(NewGenerator()))
}

// Generate returns a unique id for the heading text value.
func (g *Generator) Generate(value []byte, _ ast.NodeKind) []byte {
	base := Slug(string(value))
	if base == "" {
		base = fallbackID
	}
	return []byte(g.unique(base))
}

// Put reserves an id that was set explicitly (e.g. via an attribute block).
func (g *Generator) Put(value []byte) {
	if _, ok := g.seen[string(value)]; !ok {
		g.seen[string(value)] = 1
	}
}

// unique returns base, or base-N with the smallest free N. seen maps every
// issued id to the next suffix to try for it.
func (g *Generator) unique(base string) string {
	id := base
	if next, taken := g.seen[base]; taken {
		for {
			id = base + "-" + strconv.Itoa(next)
			next++
			if _, taken := g.seen[id]; !taken {
				break
			}
		}
		g.seen[base] = next
	}
	g.seen[id] = 1
	return id
}

// Slug converts heading text to a GitHub-style id without deduplication.
func Slug(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.Is(unicode.M, r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
