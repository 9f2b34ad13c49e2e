// Package anchors normalizes element identifiers and in-page anchor links in a
// rendered HTML tree so that heading ids and "#fragment" references share one
// slug rule, whatever generated them upstream.
//
// The tree is owned by the caller. Normalize only rewrites attribute values; it
// never adds, removes or reorders nodes.
package anchors

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docnorm/internal/slug"
)

// Slugger maps an identifier or fragment to its canonical form.
type Slugger interface {
	Normalize(text string) string
}

// Stats counts the attributes rewritten by a Normalize call.
type Stats struct {
	IDs     int
	Anchors int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.IDs += other.IDs
	s.Anchors += other.Anchors
}

// Normalizer rewrites id attributes and "#fragment" hrefs with a Slugger.
// It holds no per-call state and may be shared between goroutines.
type Normalizer struct {
	slug Slugger
}

// NewNormalizer returns a Normalizer using s, or the default slug rules when s is nil.
func NewNormalizer(s Slugger) *Normalizer {
	if s == nil {
		s = slug.New(slug.DefaultOptions())
	}
	return &Normalizer{slug: s}
}

// Normalize runs the identifier pass, then the anchor pass, over root.
func (n *Normalizer) Normalize(root *html.Node) Stats {
	var stats Stats
	if root == nil {
		return stats
	}

	Walk(root, html.ElementNode, func(node *html.Node) {
		attr := findAttr(node, "id")
		if attr == nil || attr.Val == "" {
			return
		}
		attr.Val = n.slug.Normalize(attr.Val)
		stats.IDs++
	})

	Walk(root, html.ElementNode, func(node *html.Node) {
		if !isAnchor(node) {
			return
		}
		attr := findAttr(node, "href")
		if attr == nil || !strings.HasPrefix(attr.Val, "#") {
			return
		}
		attr.Val = "#" + n.slug.Normalize(attr.Val[1:])
		stats.Anchors++
	})

	return stats
}

// NormalizeFragment parses src as the body of an HTML document, normalizes it
// and serializes the result.
func (n *Normalizer) NormalizeFragment(src []byte) ([]byte, Stats, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(src), context)
	if err != nil {
		return nil, Stats{}, err
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, node := range nodes {
		root.AppendChild(node)
	}

	stats := n.Normalize(root)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, stats, err
		}
	}
	return buf.Bytes(), stats, nil
}

// isAnchor matches <a> in every namespace, so links inside inline SVG are
// rewritten too. Only the plain href attribute is considered, not xlink:href.
func isAnchor(node *html.Node) bool {
	return node.DataAtom == atom.A || node.Data == "a"
}

func findAttr(node *html.Node, key string) *html.Attribute {
	for i := range node.Attr {
		if node.Attr[i].Namespace == "" && node.Attr[i].Key == key {
			return &node.Attr[i]
		}
	}
	return nil
}
