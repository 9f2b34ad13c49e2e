package anchors

import "golang.org/x/net/html"

// Walk calls visit for every node of the given type under root (root included),
// in document order. visit may mutate attributes but must not detach nodes.
func Walk(root *html.Node, kind html.NodeType, visit func(*html.Node)) {
	if root == nil {
		return
	}
	if root.Type == kind {
		visit(root)
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, kind, visit)
	}
}
