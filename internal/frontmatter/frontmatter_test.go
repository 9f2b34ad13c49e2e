package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, nl, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
	require.Equal(t, "\n", nl)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Guide\n---\n# Title\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Guide\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\ntitle: Guide\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Guide\n"), fm)
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, _, err := Split([]byte("---\ntitle: Guide\n# Title\n"))
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Guide\r\n---\r\n# Title\r\n")

	fm, body, had, nl, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", nl)
	require.Equal(t, []byte("title: Guide\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestParse_DecodesFields(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: Guide\norder: 2\nlastUpdated: 2024-03-01\n---\nBody\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, "Guide", doc.Fields["title"])
	require.Equal(t, 2, doc.Fields["order"])
	require.Equal(t, "2024-03-01", doc.Fields["lastUpdated"])
	require.Equal(t, []byte("Body\n"), doc.Body)
}

func TestParse_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := Parse([]byte("---\n: not yaml\n---\nBody\n"))
	require.Error(t, err)
}

func TestParseYAML_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestSerializeYAML_SortsKeys(t *testing.T) {
	out, err := SerializeYAML(map[string]any{
		"title":   "Guide",
		"order":   3,
		"section": "intro",
		"tags":    []any{"b", "a"},
	})
	require.NoError(t, err)
	require.Equal(t, "order: 3\nsection: intro\ntags:\n  - b\n  - a\ntitle: Guide\n", string(out))
}

func TestSerializeYAML_RejectsUnsupportedTypes(t *testing.T) {
	_, err := SerializeYAML(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}
