package build

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnorm/internal/linkcheck"
)

func TestCheck_CleanTree(t *testing.T) {
	cfg := newTestConfig(t)
	seed(t, cfg)

	report, err := NewBuilder(cfg).Check(context.Background())
	require.NoError(t, err)
	require.True(t, report.OK())
	require.Len(t, report.Documents, 2)

	_, err = os.Stat(cfg.Output.Directory)
	require.True(t, os.IsNotExist(err), "check must not write output")
}

func TestCheck_ReportsDanglingAnchorsAndFailures(t *testing.T) {
	cfg := newTestConfig(t)
	seed(t, cfg)
	writeFile(t, cfg.Content.Directory, "broken.md", "---\ntitle: Liens\n---\n# Liens\n\n[ailleurs](<#Nulle part>)\n\n[guide](guide/install.md) et [perdu](guide/absent.md)\n")
	writeFile(t, cfg.Content.Directory, "notitle.md", "---\ndescription: x\n---\nbody\n")

	report, err := NewBuilder(cfg).Check(context.Background())
	require.NoError(t, err)
	require.False(t, report.OK())

	require.Len(t, report.Failed(), 1)
	require.Equal(t, "notitle.md", report.Failed()[0].RelPath)

	require.Len(t, report.Dangling, 2)
	require.Equal(t, "broken.md", report.Dangling[0].Document)
	require.Equal(t, linkcheck.KindAnchor, report.Dangling[0].Kind)
	require.Equal(t, "nulle-part", report.Dangling[0].Fragment)
	require.Equal(t, linkcheck.KindPage, report.Dangling[1].Kind)
	require.Equal(t, "guide/absent.md", report.Dangling[1].Href)
}

func TestPageIndex(t *testing.T) {
	exists := pageIndex([]Source{{RelPath: "index.md"}, {RelPath: "guide/index.md"}, {RelPath: "guide/install.md"}})
	for _, target := range []string{"", ".", "index.md", "guide", "guide/index.html", "guide/install", "guide/install.html"} {
		require.True(t, exists(target), target)
	}
	require.False(t, exists("guide/absent.md"))
}

func TestCheck_Cancelled(t *testing.T) {
	cfg := newTestConfig(t)
	seed(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(cfg).Check(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
