package build

import (
	"context"
	"path"
	"strings"

	"git.home.luguber.info/inful/docnorm/internal/linkcheck"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
	"git.home.luguber.info/inful/docnorm/internal/pipeline"
)

// Report is the result of a dry run over the content directory.
type Report struct {
	Documents []*pipeline.Document
	Dangling  []linkcheck.Finding
}

// Failed returns the documents whose processing failed.
func (r *Report) Failed() []*pipeline.Document {
	var out []*pipeline.Document
	for _, doc := range r.Documents {
		if doc.Err != nil {
			out = append(out, doc)
		}
	}
	return out
}

// OK reports whether every document processed and every checked link
// resolves.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0 && len(r.Dangling) == 0
}

// Check runs every document through the pipeline without writing anything,
// then looks for in-page anchors that do not resolve to an id and relative
// links to pages outside the content directory.
func (b *Builder) Check(ctx context.Context) (*Report, error) {
	contentDir := b.cfg.Content.Directory
	sources, err := Discover(contentDir)
	if err != nil {
		return nil, err
	}
	steps, err := b.steps(contentDir, b.cfg.Output.Directory, nil, b.logger)
	if err != nil {
		return nil, err
	}

	docs, readFailures := readSources(sources)
	proc := pipeline.NewProcessor(steps,
		pipeline.WithRecorder(b.recorder),
		pipeline.WithLogger(b.logger),
		pipeline.WithConcurrency(b.cfg.Build.Concurrency))
	_ = proc.Process(ctx, docs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists := pageIndex(sources)
	report := &Report{Documents: append(readFailures, docs...)}
	for _, doc := range docs {
		if doc.Err != nil {
			continue
		}
		findings, err := linkcheck.CheckDocument(doc.RelPath, doc.HTML)
		if err != nil {
			b.logger.Warn("Anchor check failed", logfields.Document(doc.RelPath), logfields.Error(err))
			continue
		}
		report.Dangling = append(report.Dangling, findings...)

		pages, err := linkcheck.CheckPages(doc.RelPath, doc.HTML, b.cfg.Site.URL, exists)
		if err != nil {
			b.logger.Warn("Page link check failed", logfields.Document(doc.RelPath), logfields.Error(err))
			continue
		}
		report.Dangling = append(report.Dangling, pages...)
	}
	return report, nil
}

// pageIndex accepts every way a relative link can name a source: the
// markdown path, its rendered fragment path, the extensionless page URL, and
// the directory of an index page.
func pageIndex(sources []Source) func(string) bool {
	known := make(map[string]struct{}, len(sources)*3)
	for _, s := range sources {
		out := OutputPath(s.RelPath)
		page := strings.TrimSuffix(out, path.Ext(out))
		known[s.RelPath] = struct{}{}
		known[out] = struct{}{}
		known[page] = struct{}{}
		if path.Base(page) == "index" {
			known[path.Dir(page)] = struct{}{}
		}
	}
	return func(target string) bool {
		if target == "" {
			target = "."
		}
		_, ok := known[target]
		return ok
	}
}
