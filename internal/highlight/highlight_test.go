package highlight

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func TestRenderer_HighlightsFencedCode(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(New(Options{Theme: DefaultTheme, Wrap: true})))
	src := []byte("```go\npackage main\n\nfunc main() {}\n```\n")

	var buf bytes.Buffer
	require.NoError(t, md.Convert(src, &buf))

	out := buf.String()
	require.Contains(t, out, "<pre")
	require.Contains(t, out, "style=")
	require.Contains(t, out, "package")
	require.NotContains(t, out, `<code class="language-go">`)
}

func TestRenderer_UnknownLanguageStillRenders(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(New(Options{})))
	src := []byte("```nosuchlang\n<b>bold</b>\n```\n")

	var buf bytes.Buffer
	require.NoError(t, md.Convert(src, &buf))
	require.Contains(t, buf.String(), "<pre")
	require.NotContains(t, buf.String(), "<b>bold</b>")
}

func TestRenderer_UnknownThemeFallsBack(t *testing.T) {
	r := New(Options{Theme: "does-not-exist"})

	var buf bytes.Buffer
	require.NoError(t, r.Highlight(&buf, "echo hi", "bash"))
	require.Contains(t, buf.String(), "echo")
}
