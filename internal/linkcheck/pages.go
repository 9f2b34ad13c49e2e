package linkcheck

import (
	"bytes"
	"net/url"
	"path"
	"strings"
)

// CheckPages lists relative <a> links in document name whose target page
// does not satisfy exists. Targets are resolved against name's directory,
// or against the site root when they start with "/". Links with a scheme or
// host, and in-page anchors, are not checked here.
func CheckPages(name string, src []byte, baseURL string, exists func(target string) bool) ([]Finding, error) {
	links, err := ExtractLinks(bytes.NewReader(src), baseURL)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, l := range FilterLinks(links, true, false) {
		if l.Tag != "a" || l.IsInPage() {
			continue
		}
		target, ok := resolvePage(name, l.URL, baseURL)
		if !ok || exists(target) {
			continue
		}
		findings = append(findings, Finding{
			Kind:     KindPage,
			Document: name,
			Href:     l.URL,
			Fragment: l.Fragment(),
			Text:     l.Text,
		})
	}
	return findings, nil
}

// resolvePage returns the slash-separated path, relative to the site root,
// that href points at.
func resolvePage(name, href, baseURL string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Opaque != "" {
		return "", false
	}
	if u.Host != "" {
		base, err := url.Parse(baseURL)
		if err != nil || base.Host != u.Host {
			return "", false
		}
		return strings.TrimPrefix(path.Clean(strings.TrimPrefix(u.Path, base.Path)), "/"), true
	}
	if u.Scheme != "" || u.Path == "" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") {
		return strings.TrimPrefix(path.Clean(u.Path), "/"), true
	}
	return path.Join(path.Dir(name), u.Path), true
}
