package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
	"git.home.luguber.info/inful/docnorm/internal/slug"
)

// SlugCmd implements the 'slug' command.
type SlugCmd struct {
	Text []string `arg:"" help:"Text to normalize"`
}

// Run prints one slug per argument. The normalize section of the
// configuration applies when the file exists; otherwise the defaults do.
func (s *SlugCmd) Run(g *Global, root *CLI) error {
	opts := slug.DefaultOptions()
	if _, err := os.Stat(root.Config); err == nil {
		cfg, err := loadConfig(g, root)
		if err != nil {
			return err
		}
		if opts, err = cfg.SlugOptions(); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid normalize settings").Build()
		}
	}

	slugifier := slug.New(opts)
	for _, text := range s.Text {
		_, _ = fmt.Fprintln(g.Out, slugifier.Normalize(text))
	}
	return nil
}
