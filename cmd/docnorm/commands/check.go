package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docnorm/internal/build"
	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}

	report, err := build.NewBuilder(cfg, build.WithLogger(g.Logger)).Check(ctx)
	if err != nil {
		return err
	}

	failed := report.Failed()
	for _, doc := range failed {
		_, _ = fmt.Fprintf(g.Out, "%s: %v\n", doc.RelPath, doc.Err)
	}
	for _, f := range report.Dangling {
		_, _ = fmt.Fprintln(g.Out, f.String())
	}
	_, _ = fmt.Fprintf(g.Out, "Checked %d documents: %d invalid, %d dangling links\n",
		len(report.Documents), len(failed), len(report.Dangling))

	if report.OK() {
		return nil
	}
	category := errors.CategoryLinks
	if len(failed) > 0 {
		category = errors.CategoryValidation
	}
	return errors.NewError(category, "check found problems").
		WithContext("invalid", len(failed)).
		WithContext("dangling", len(report.Dangling)).
		Build()
}
