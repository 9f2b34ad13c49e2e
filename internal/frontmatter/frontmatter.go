// Package frontmatter separates `---` delimited YAML frontmatter from a
// markdown body and serializes it back deterministically.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a markdown source split into frontmatter fields and body.
type Document struct {
	Fields  map[string]any
	Raw     []byte // frontmatter YAML without delimiters
	Body    []byte
	Newline string
	Had     bool
}

// Parse splits content and decodes its frontmatter. Documents without
// frontmatter yield an empty Fields map and the full content as Body.
func Parse(content []byte) (*Document, error) {
	raw, body, had, nl, err := Split(content)
	if err != nil {
		return nil, err
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Fields: fields, Raw: raw, Body: body, Newline: nl, Had: had}, nil
}

// Split separates YAML frontmatter from the Markdown body and reports the
// newline style of the input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, newline string, err error) {
	newline = detectNewline(content)

	open := []byte("---" + newline)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, newline, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, newline, nil
	}

	closeSeq := []byte(newline + "---" + newline)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line has no trailing newline.
		if bytes.HasSuffix(rest, []byte(newline+"---")) {
			return rest[:len(rest)-len("---")], []byte{}, true, newline, nil
		}
		return nil, nil, false, newline, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(newline)], rest[idx+len(closeSeq):], true, newline, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
