package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docnorm/internal/logfields"
	"git.home.luguber.info/inful/docnorm/internal/metrics"
)

// Processor runs documents through a fixed list of steps. Documents are
// independent: a failure in one never stops the others.
type Processor struct {
	steps       []Step
	recorder    metrics.Recorder
	logger      *slog.Logger
	concurrency int
}

// Option configures a Processor.
type Option func(*Processor)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Processor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithConcurrency bounds the number of documents processed at once.
// Values below 1 mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(p *Processor) { p.concurrency = n }
}

// NewProcessor creates a Processor running steps in order.
func NewProcessor(steps []Step, opts ...Option) *Processor {
	p := &Processor{
		steps:    steps,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency < 1 {
		p.concurrency = runtime.GOMAXPROCS(0)
	}
	return p
}

// Process runs every document. Per-document failures are stored in
// Document.Err and joined into the returned error. Cancellation stops
// documents that have not started yet; they fail with the context error.
func (p *Processor) Process(ctx context.Context, docs []*Document) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				doc.Err = err
				p.recorder.IncDocumentResult(metrics.ResultCanceled)
				return nil
			}
			p.processOne(gctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, doc := range docs {
		if doc.Err != nil {
			errs = append(errs, doc.Err)
		}
	}
	return stderrors.Join(errs...)
}

// ProcessOne runs a single document through the steps.
func (p *Processor) ProcessOne(ctx context.Context, doc *Document) error {
	p.processOne(ctx, doc)
	return doc.Err
}

func (p *Processor) processOne(ctx context.Context, doc *Document) {
	for _, step := range p.steps {
		start := time.Now()
		err := step.Run(ctx, doc)
		p.recorder.ObserveStageDuration(step.Name, time.Since(start))

		if stderrors.Is(err, ErrSkip) {
			doc.Skipped = true
			p.recorder.IncDocumentResult(metrics.ResultSkipped)
			p.logger.Debug("Document unchanged",
				logfields.Document(doc.RelPath),
				logfields.Stage(step.Name))
			return
		}
		if err != nil {
			doc.Err = err
			p.recorder.IncDocumentResult(metrics.ResultFailed)
			p.logger.Error("Document failed",
				logfields.Document(doc.RelPath),
				logfields.Stage(step.Name),
				logfields.Error(err))
			return
		}
	}

	p.recorder.IncDocumentResult(metrics.ResultRendered)
	p.recorder.AddRewrites(doc.Stats.IDs, doc.Stats.Anchors)
	p.logger.Debug("Document processed",
		logfields.Document(doc.RelPath),
		logfields.IDs(doc.Stats.IDs),
		logfields.Anchors(doc.Stats.Anchors))
}
