package headingid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Getting Started", want: "getting-started"},
		{in: "Élève & Maître", want: "élève--maître"},
		{in: "What's new?", want: "whats-new"},
		{in: "snake_case", want: "snake_case"},
		{in: "  padded  ", want: "padded"},
		{in: "!!!", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestGenerator_DisambiguatesDuplicates(t *testing.T) {
	g := NewGenerator()

	require.Equal(t, "intro", string(g.Generate([]byte("Intro"), ast.KindHeading)))
	require.Equal(t, "intro-1", string(g.Generate([]byte("Intro"), ast.KindHeading)))
	require.Equal(t, "intro-2", string(g.Generate([]byte("intro"), ast.KindHeading)))
	require.Equal(t, "heading", string(g.Generate([]byte("?"), ast.KindHeading)))
	require.Equal(t, "heading-1", string(g.Generate([]byte(""), ast.KindHeading)))
}

func TestGenerator_SkipsReservedSuffixes(t *testing.T) {
	g := NewGenerator()
	g.Put([]byte("setup-1"))

	require.Equal(t, "setup", string(g.Generate([]byte("Setup"), ast.KindHeading)))
	require.Equal(t, "setup-2", string(g.Generate([]byte("Setup"), ast.KindHeading)))
	require.Equal(t, "setup-1-1", string(g.Generate([]byte("Setup 1"), ast.KindHeading)))
}

func TestNewContext_AssignsHeadingIDs(t *testing.T) {
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	var buf bytes.Buffer

	err := md.Convert([]byte("# Bonjour le monde\n\n## Bonjour le monde\n"), &buf, parser.WithContext(NewContext()))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `<h1 id="bonjour-le-monde">`)
	require.Contains(t, buf.String(), `<h2 id="bonjour-le-monde-1">`)
}
