package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/inful/mdfp"
	"github.com/microcosm-cc/bluemonday"

	"git.home.luguber.info/inful/docnorm/internal/anchors"
	"git.home.luguber.info/inful/docnorm/internal/collection"
	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
	"git.home.luguber.info/inful/docnorm/internal/frontmatter"
	"git.home.luguber.info/inful/docnorm/internal/gitmeta"
	"git.home.luguber.info/inful/docnorm/internal/markdown"
)

// ErrSkip stops processing of a document without failing it.
var ErrSkip = stderrors.New("document skipped")

// Stage transforms a document in place.
type Stage func(ctx context.Context, doc *Document) error

// Step is a named Stage; the name labels logs and metrics.
type Step struct {
	Name string
	Run  Stage
}

// Stage names.
const (
	StageFrontMatter = "frontmatter"
	StageEntry       = "entry"
	StageLastUpdated = "last_updated"
	StageFingerprint = "fingerprint"
	StageRender      = "render"
	StageSanitize    = "sanitize"
	StageNormalize   = "normalize"
	StageHeadings    = "headings"
)

// Options selects the stages built by DefaultSteps.
type Options struct {
	Renderer *markdown.Renderer
	// Normalizer rewrites ids and in-page anchors; nil disables the stage.
	Normalizer *anchors.Normalizer
	// Sanitize strips unsafe HTML from the rendered output.
	Sanitize bool
	// Git fills lastUpdated from history when the frontmatter omits it.
	Git *gitmeta.Repo
	// Unchanged reports whether a document with this fingerprint can be
	// skipped. Consulted right after fingerprinting.
	Unchanged func(relPath, fingerprint string) bool
}

// DefaultSteps returns the stage order: frontmatter, entry, last_updated,
// fingerprint, render, normalize, sanitize, headings. Normalization follows
// rendering so heading ids exist before they are rewritten, and precedes
// sanitizing, which drops anchors whose href is not a valid URL.
func DefaultSteps(opts Options) []Step {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = markdown.NewRenderer(markdown.DefaultOptions())
	}

	steps := []Step{
		{Name: StageFrontMatter, Run: ParseFrontMatter},
		{Name: StageEntry, Run: DecodeEntry},
	}
	if opts.Git != nil {
		steps = append(steps, Step{Name: StageLastUpdated, Run: FillLastUpdated(opts.Git)})
	}
	steps = append(steps, Step{Name: StageFingerprint, Run: Fingerprint(opts.Unchanged)})
	steps = append(steps, Step{Name: StageRender, Run: Render(renderer)})
	if opts.Normalizer != nil {
		steps = append(steps, Step{Name: StageNormalize, Run: Normalize(opts.Normalizer)})
	}
	if opts.Sanitize {
		steps = append(steps, Step{Name: StageSanitize, Run: Sanitize(SanitizePolicy())})
	}
	return append(steps, Step{Name: StageHeadings, Run: CollectHeadings})
}

// ParseFrontMatter splits the YAML frontmatter from the body.
func ParseFrontMatter(_ context.Context, doc *Document) error {
	parsed, err := frontmatter.Parse(doc.Source)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").
			WithDocument(doc.RelPath).
			Build()
	}
	doc.Fields = parsed.Fields
	doc.HadFrontMatter = parsed.Had
	doc.Body = parsed.Body
	return nil
}

// DecodeEntry validates the frontmatter against the collection schema.
func DecodeEntry(_ context.Context, doc *Document) error {
	entry, err := collection.Decode(doc.Fields)
	if err != nil {
		return errors.Tag(err, doc.RelPath)
	}
	doc.Entry = entry
	return nil
}

// FillLastUpdated sets Entry.LastUpdated from the newest commit touching the
// document when the frontmatter has no value.
func FillLastUpdated(repo *gitmeta.Repo) Stage {
	return func(_ context.Context, doc *Document) error {
		if doc.Entry.LastUpdated != "" {
			return nil
		}
		when, ok, err := repo.LastUpdated(doc.Path)
		if err != nil {
			return err
		}
		if ok {
			doc.Entry.LastUpdated = when.UTC().Format(time.DateOnly)
		}
		return nil
	}
}

// Fingerprint computes the content fingerprint over the frontmatter
// (without fingerprint and lastUpdated) and body. When unchanged reports
// true the document is skipped.
func Fingerprint(unchanged func(relPath, fingerprint string) bool) Stage {
	return func(_ context.Context, doc *Document) error {
		fp, err := ComputeFingerprint(doc.Fields, doc.Body)
		if err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "compute fingerprint").
				WithDocument(doc.RelPath).
				Build()
		}
		doc.Fingerprint = fp
		if unchanged != nil && unchanged(doc.RelPath, fp) {
			return ErrSkip
		}
		return nil
	}
}

// ComputeFingerprint hashes the canonical frontmatter and body with mdfp.
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField || k == collection.FieldLastUpdated {
			continue
		}
		hashed[k] = v
	}
	serialized, err := frontmatter.SerializeYAML(hashed)
	if err != nil {
		return "", err
	}
	fm := strings.TrimSuffix(string(serialized), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}

// Render converts the body to HTML.
func Render(r *markdown.Renderer) Stage {
	return func(_ context.Context, doc *Document) error {
		out, err := r.Render(doc.Body)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "render markdown").
				WithDocument(doc.RelPath).
				Build()
		}
		doc.HTML = out
		return nil
	}
}

// SanitizePolicy allows the markup goldmark and chroma produce, including
// element ids and inline code styles, and strips scripts and event handlers.
func SanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Globally()
	p.AllowAttrs("tabindex").OnElements("pre")
	p.AllowStyles(
		"color", "background-color", "font-weight", "font-style", "text-decoration",
		"display", "white-space", "word-break", "tab-size", "-moz-tab-size", "-o-tab-size",
		"padding", "margin", "width", "flex-grow", "user-select",
	).OnElements("pre", "code", "span")
	return p
}

// Sanitize filters the rendered HTML through policy.
func Sanitize(policy *bluemonday.Policy) Stage {
	return func(_ context.Context, doc *Document) error {
		doc.HTML = policy.SanitizeBytes(doc.HTML)
		return nil
	}
}

// Normalize rewrites element ids and in-page anchors in the rendered HTML.
func Normalize(n *anchors.Normalizer) Stage {
	return func(_ context.Context, doc *Document) error {
		out, stats, err := n.NormalizeFragment(doc.HTML)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "normalize identifiers").
				WithDocument(doc.RelPath).
				Build()
		}
		doc.HTML = out
		doc.Stats = stats
		return nil
	}
}

// CollectHeadings records the ids of all headings, in document order.
func CollectHeadings(_ context.Context, doc *Document) error {
	q, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.HTML))
	if err != nil {
		return fmt.Errorf("parse rendered html: %w", err)
	}
	doc.HeadingIDs = doc.HeadingIDs[:0]
	q.Find("h1[id], h2[id], h3[id], h4[id], h5[id], h6[id]").Each(func(_ int, s *goquery.Selection) {
		if id, _ := s.Attr("id"); id != "" {
			doc.HeadingIDs = append(doc.HeadingIDs, id)
		}
	})
	return nil
}
