// Package linkcheck inspects rendered documentation HTML for links, and
// reports in-page anchors that point at no element.
package linkcheck

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
)

// FindingKind distinguishes what a Finding's link failed to reach.
type FindingKind string

const (
	KindAnchor FindingKind = "anchor"
	KindPage   FindingKind = "page"
)

// Finding is a link whose target does not exist: an in-page anchor matching
// no id, or a relative link to a page that is not part of the build.
type Finding struct {
	Kind     FindingKind `json:"kind"`
	Document string      `json:"document"`
	Href     string      `json:"href"`
	Fragment string      `json:"fragment,omitempty"`
	Text     string      `json:"text,omitempty"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: dangling %s %q (%s)", f.Document, f.Kind, f.Href, f.Text)
}

// CheckFragments lists in-page anchors in src whose fragment matches no
// element id. A bare "#" targets the top of the page and is never reported.
// The fragment is also tried percent-decoded, so unnormalized output checks
// the way browsers resolve it.
func CheckFragments(src []byte) ([]Finding, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryLinks, "failed to parse HTML").Build()
	}

	ids := make(map[string]struct{})
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, _ := s.Attr("id"); id != "" {
			ids[id] = struct{}{}
		}
	})

	var findings []Finding
	doc.Find(`a[href^="#"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		frag := strings.TrimPrefix(href, "#")
		if frag == "" || resolves(ids, frag) {
			return
		}
		findings = append(findings, Finding{
			Kind:     KindAnchor,
			Href:     href,
			Fragment: frag,
			Text:     strings.TrimSpace(s.Text()),
		})
	})
	return findings, nil
}

func resolves(ids map[string]struct{}, frag string) bool {
	if _, ok := ids[frag]; ok {
		return true
	}
	if decoded, err := url.PathUnescape(frag); err == nil {
		if _, ok := ids[decoded]; ok {
			return true
		}
	}
	return false
}

// CheckDocument runs CheckFragments and tags every finding with name.
func CheckDocument(name string, src []byte) ([]Finding, error) {
	findings, err := CheckFragments(src)
	if err != nil {
		return nil, errors.Tag(err, name)
	}
	for i := range findings {
		findings[i].Document = name
	}
	return findings, nil
}
