package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_DefaultOptions(t *testing.T) {
	r := NewRenderer(DefaultOptions())

	out, err := r.Render([]byte("# Élève & Maître\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~\n"))
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, `<h1 id="élève--maître">`)
	require.Contains(t, html, "<table>")
	require.Contains(t, html, "<del>old</del>")
}

func TestRender_HeadingIDsArePerDocument(t *testing.T) {
	r := NewRenderer(DefaultOptions())

	for range 2 {
		out, err := r.Render([]byte("## Usage\n\n## Usage\n"))
		require.NoError(t, err)
		require.Contains(t, string(out), `<h2 id="usage">`)
		require.Contains(t, string(out), `<h2 id="usage-1">`)
	}
}

func TestRender_RawHTML(t *testing.T) {
	src := []byte(`<div id="Bloc Libre">x</div>` + "\n")

	out, err := NewRenderer(DefaultOptions()).Render(src)
	require.NoError(t, err)
	require.Contains(t, string(out), `<div id="Bloc Libre">`)

	out, err = NewRenderer(Options{}).Render(src)
	require.NoError(t, err)
	require.NotContains(t, string(out), `<div id="Bloc Libre">`)
}

func TestRender_WithoutExtensions(t *testing.T) {
	out, err := NewRenderer(Options{}).Render([]byte("# Title\n\n~~old~~\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<h1>Title</h1>")
	require.NotContains(t, string(out), "<del>")
}
