// Package highlight renders fenced code blocks with chroma syntax highlighting.
package highlight

import (
	"bytes"
	"html"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DefaultTheme matches the documentation site's dark code theme.
const DefaultTheme = "github-dark"

// Options configures the code block renderer.
type Options struct {
	Theme string
	Wrap  bool
}

// Renderer is a goldmark NodeRenderer for *ast.FencedCodeBlock.
type Renderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New returns a Renderer. Unknown themes fall back to chroma's default style.
func New(opts Options) *Renderer {
	if opts.Theme == "" {
		opts.Theme = DefaultTheme
	}
	return &Renderer{
		style: styles.Get(opts.Theme),
		formatter: chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.WrapLongLines(opts.Wrap),
			chromahtml.PreventSurroundingPre(false),
		),
	}
}

// Extend implements goldmark.Extender. The renderer takes priority over
// goldmark's default code block rendering.
func (r *Renderer) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(r, 200)))
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *Renderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *Renderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	language := string(n.Language(source))
	if err := r.Highlight(w, code.String(), language); err != nil {
		// Fall back to an escaped plain block rather than failing the document.
		_, _ = w.WriteString("<pre><code>")
		_, _ = w.WriteString(html.EscapeString(code.String()))
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkSkipChildren, nil
}

// Highlight writes code as highlighted HTML. An empty or unknown language is
// resolved by content analysis, then plain text.
func (r *Renderer) Highlight(w io.Writer, code, language string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iter, err := lexer.Tokenise(nil, code)
	if err != nil {
		return err
	}
	return r.formatter.Format(w, r.style, iter)
}
