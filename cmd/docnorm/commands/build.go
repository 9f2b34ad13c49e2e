package commands

import (
	"context"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docnorm/internal/build"
	"git.home.luguber.info/inful/docnorm/internal/config"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
	"git.home.luguber.info/inful/docnorm/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override output.directory"`
	Watch  bool   `short:"w" help:"Rebuild when the content directory changes"`
	Force  bool   `short:"f" help:"Render every document, ignoring the previous manifest"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	opts := []build.Option{build.WithLogger(g.Logger)}
	var reg *prom.Registry
	if cfg.Metrics.Textfile != "" {
		reg = prom.NewRegistry()
		opts = append(opts, build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	}
	builder := build.NewBuilder(cfg, opts...)

	if b.Watch {
		watcher := build.NewWatcher(builder, func(res *build.Result, err error) {
			if res != nil && ctx.Err() == nil {
				printResult(g, res)
			}
			writeMetrics(g, cfg, reg)
		})
		return watcher.Watch(ctx, build.Options{Force: b.Force})
	}

	res, err := builder.Build(ctx, build.Options{Force: b.Force})
	if res != nil {
		printResult(g, res)
	}
	writeMetrics(g, cfg, reg)
	return err
}

func printResult(g *Global, res *build.Result) {
	_, _ = fmt.Fprintf(g.Out, "Build %s: %d rendered, %d skipped, %d failed, %d removed in %s\n",
		res.Status, res.Rendered, res.Skipped, res.Failed, res.Removed, res.Duration.Round(time.Millisecond))
}

func writeMetrics(g *Global, cfg *config.Config, reg *prom.Registry) {
	if reg == nil {
		return
	}
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile, reg); err != nil {
		g.Logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
	}
}
