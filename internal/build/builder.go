package build

import (
	"context"
	"crypto/sha256"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnorm/internal/anchors"
	"git.home.luguber.info/inful/docnorm/internal/config"
	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
	"git.home.luguber.info/inful/docnorm/internal/gitmeta"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
	"git.home.luguber.info/inful/docnorm/internal/manifest"
	"git.home.luguber.info/inful/docnorm/internal/markdown"
	"git.home.luguber.info/inful/docnorm/internal/metrics"
	"git.home.luguber.info/inful/docnorm/internal/pipeline"
	"git.home.luguber.info/inful/docnorm/internal/slug"
)

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// Options modifies a single build.
type Options struct {
	// Force re-renders every document regardless of the previous manifest.
	Force bool
}

// Result contains the outcome of a build execution.
type Result struct {
	BuildID  string
	Status   BuildStatus
	Duration time.Duration

	Rendered int
	Skipped  int
	Failed   int
	Removed  int

	Manifest  *manifest.BuildManifest
	Documents []*pipeline.Document
}

// Builder renders the configured content directory.
type Builder struct {
	cfg      *config.Config
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder for cfg. cfg must not change afterwards.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders every document. Per-document failures do not stop the build;
// they are joined into the returned error and the manifest lists only the
// documents that succeeded. A cancelled build leaves the previous manifest in
// place.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	start := b.now()
	res := &Result{BuildID: uuid.NewString(), Status: BuildStatusFailed}
	log := b.logger.With(logfields.BuildID(res.BuildID))
	defer func() {
		res.Duration = b.now().Sub(start)
		b.recorder.ObserveBuildDuration(res.Duration)
		b.recorder.IncBuildOutcome(outcomeLabel(res.Status))
	}()

	contentDir, outDir := b.cfg.Content.Directory, b.cfg.Output.Directory

	sources, err := Discover(contentDir)
	if err != nil {
		return res, err
	}
	configHash, err := ConfigHash(b.cfg)
	if err != nil {
		return res, err
	}

	if b.cfg.Output.Clean {
		if err := os.RemoveAll(outDir); err != nil {
			return res, errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("dir", outDir).
				Build()
		}
	}

	previous, err := manifest.Load(outDir)
	if err != nil {
		log.Warn("Ignoring unreadable manifest", logfields.Error(err))
		previous = nil
	}
	reusable := previous
	switch {
	case opts.Force || !b.cfg.Build.Incremental:
		reusable = nil
	case previous != nil && previous.ConfigHash != configHash:
		log.Info("Configuration changed; rendering all documents")
		reusable = nil
	}

	steps, err := b.steps(contentDir, outDir, reusable, log)
	if err != nil {
		return res, err
	}

	docs, readFailures := readSources(sources)
	proc := pipeline.NewProcessor(steps,
		pipeline.WithRecorder(b.recorder),
		pipeline.WithLogger(log),
		pipeline.WithConcurrency(b.cfg.Build.Concurrency))
	_ = proc.Process(ctx, docs)

	if err := ctx.Err(); err != nil {
		res.Status = BuildStatusCancelled
		res.Documents = docs
		log.Warn("Build cancelled", logfields.Error(err))
		return res, err
	}

	m := &manifest.BuildManifest{ID: res.BuildID, Timestamp: start.UTC(), ConfigHash: configHash}
	var failures []error
	for _, doc := range readFailures {
		res.Failed++
		failures = append(failures, doc.Err)
	}

	current := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		current[doc.RelPath] = struct{}{}
		switch {
		case doc.Err != nil:
			res.Failed++
			failures = append(failures, doc.Err)
		case doc.Skipped:
			prev, _ := reusable.Lookup(doc.RelPath)
			m.Documents = append(m.Documents, prev)
			res.Skipped++
		default:
			entry, err := b.write(outDir, doc)
			if err != nil {
				doc.Err = err
				res.Failed++
				failures = append(failures, err)
				continue
			}
			m.Documents = append(m.Documents, entry)
			res.Rendered++
		}
	}
	res.Documents = append(readFailures, docs...)
	res.Removed = removeStale(outDir, previous, current, log)

	res.Status = BuildStatusSuccess
	if len(failures) > 0 {
		res.Status = BuildStatusFailed
	}
	m.Status = string(res.Status)
	m.Duration = b.now().Sub(start).Milliseconds()
	m.Sort()
	if err := m.Persist(outDir); err != nil {
		res.Status = BuildStatusFailed
		failures = append(failures, errors.WrapError(err, errors.CategoryFileSystem, "failed to write manifest").Build())
	}
	res.Manifest = m

	log.Info("Build complete",
		slog.String("status", string(res.Status)),
		slog.Int("rendered", res.Rendered),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
		slog.Int("removed", res.Removed),
		logfields.DurationMS(float64(b.now().Sub(start).Microseconds())/1000))

	return res, stderrors.Join(failures...)
}

func (b *Builder) steps(contentDir, outDir string, reusable *manifest.BuildManifest, log *slog.Logger) ([]pipeline.Step, error) {
	popts := pipeline.Options{
		Renderer: markdown.NewRenderer(b.cfg.MarkdownOptions()),
		Sanitize: b.cfg.Markdown.Sanitize,
	}

	if b.cfg.Normalize.Enabled {
		sopts, err := b.cfg.SlugOptions()
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid normalize settings").Build()
		}
		popts.Normalizer = anchors.NewNormalizer(slug.New(sopts))
	}

	if b.cfg.Content.GitLastUpdated {
		repo, err := gitmeta.Open(contentDir)
		if err != nil {
			log.Warn("lastUpdated from git disabled", logfields.Error(err))
		} else {
			popts.Git = repo
		}
	}

	if reusable != nil {
		popts.Unchanged = func(relPath, fingerprint string) bool {
			prev, ok := reusable.Lookup(relPath)
			if !ok || prev.Fingerprint != fingerprint {
				return false
			}
			_, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(prev.Output)))
			return err == nil
		}
	}

	return pipeline.DefaultSteps(popts), nil
}

func readSources(sources []Source) (docs, failed []*pipeline.Document) {
	for _, src := range sources {
		data, err := os.ReadFile(src.Path)
		doc := pipeline.NewDocument(src.Path, src.RelPath, data)
		if err != nil {
			doc.Err = errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
				WithDocument(src.RelPath).
				Build()
			failed = append(failed, doc)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failed
}

func (b *Builder) write(outDir string, doc *pipeline.Document) (manifest.Document, error) {
	out := OutputPath(doc.RelPath)
	if err := writeFileAtomic(filepath.Join(outDir, filepath.FromSlash(out)), doc.HTML); err != nil {
		return manifest.Document{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithDocument(doc.RelPath).
			Build()
	}
	return manifest.Document{
		Entry:       doc.Entry,
		Source:      doc.RelPath,
		Output:      out,
		URL:         b.cfg.Site.PageURL(doc.RelPath),
		Fingerprint: doc.Fingerprint,
		HeadingIDs:  doc.HeadingIDs,
		IDs:         doc.Stats.IDs,
		Anchors:     doc.Stats.Anchors,
	}, nil
}

// removeStale deletes outputs of documents that no longer exist.
func removeStale(outDir string, previous *manifest.BuildManifest, current map[string]struct{}, log *slog.Logger) int {
	if previous == nil {
		return 0
	}
	removed := 0
	for _, d := range previous.Documents {
		if _, ok := current[d.Source]; ok || d.Output == "" {
			continue
		}
		path := filepath.Join(outDir, filepath.FromSlash(d.Output))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove stale output", logfields.Path(path), logfields.Error(err))
			continue
		}
		removed++
	}
	return removed
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ConfigHash digests the settings that affect rendered output. A changed
// hash invalidates every previous fingerprint.
func ConfigHash(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(struct {
		Site      config.SiteConfig      `yaml:"site"`
		Markdown  config.MarkdownConfig  `yaml:"markdown"`
		Normalize config.NormalizeConfig `yaml:"normalize"`
		Git       bool                   `yaml:"git_last_updated"`
	}{cfg.Site, cfg.Markdown, cfg.Normalize, cfg.Content.GitLastUpdated})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "hash configuration").Build()
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

func outcomeLabel(s BuildStatus) metrics.BuildOutcomeLabel {
	switch s {
	case BuildStatusSuccess:
		return metrics.BuildSuccess
	case BuildStatusCancelled:
		return metrics.BuildCanceled
	default:
		return metrics.BuildFailed
	}
}
