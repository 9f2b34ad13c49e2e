package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
	"git.home.luguber.info/inful/docnorm/internal/version"
)

// Execute parses args, runs the selected command and returns the process
// exit code. Command output goes to out; usage and error text go to errOut.
func Execute(ctx context.Context, args []string, out, errOut io.Writer, exit func(int)) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("docnorm"),
		kong.Description("Render markdown documentation with normalized element ids and in-page anchors."),
		kong.UsageOnError(),
		kong.Writers(out, errOut),
		kong.Exit(exit),
		kong.Vars{"version": version.String()},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, nil).Handle(errOut, err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 1
	}

	global := &Global{Logger: slog.Default(), Out: out}
	if err := kctx.Run(global, &cli); err != nil {
		return errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).Handle(errOut, err)
	}
	return 0
}
