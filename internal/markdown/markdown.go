// Package markdown renders documentation bodies to HTML with goldmark.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/docnorm/internal/headingid"
	"git.home.luguber.info/inful/docnorm/internal/highlight"
)

// Options selects the goldmark extensions used to render documentation.
type Options struct {
	// Highlight enables chroma code highlighting when non-nil.
	Highlight *highlight.Options

	GFM        bool
	HeadingIDs bool
	UnsafeHTML bool
}

// DefaultOptions mirrors the documentation site's markdown setup: GFM, heading
// ids, raw HTML passthrough and github-dark highlighting with wrapped lines.
func DefaultOptions() Options {
	return Options{
		Highlight:  &highlight.Options{Theme: highlight.DefaultTheme, Wrap: true},
		GFM:        true,
		HeadingIDs: true,
		UnsafeHTML: true,
	}
}

// Renderer converts markdown bodies (frontmatter already removed) to HTML.
// It is safe for concurrent use; each call gets its own parser context.
type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

// NewRenderer builds a goldmark pipeline for opts.
func NewRenderer(opts Options) *Renderer {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	if opts.Highlight != nil {
		exts = append(exts, highlight.New(*opts.Highlight))
	}

	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	var rendererOpts []goldmark.Option
	if opts.UnsafeHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append(rendererOpts,
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
	)...)

	return &Renderer{md: md, opts: opts}
}

// Render converts body to an HTML fragment.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	var popts []parser.ParseOption
	if r.opts.HeadingIDs {
		popts = append(popts, parser.WithContext(headingid.NewContext()))
	}
	if err := r.md.Convert(body, &buf, popts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
