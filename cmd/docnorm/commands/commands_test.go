package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnorm/internal/version"
)

type exitCalled int

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	exit := func(c int) { panic(exitCalled(c)) }

	func() {
		defer func() {
			if r := recover(); r != nil {
				c, ok := r.(exitCalled)
				if !ok {
					panic(r)
				}
				code = int(c)
			}
		}()
		code = Execute(context.Background(), args, &out, &errOut, exit)
	}()
	return code, out.String(), errOut.String()
}

func writeProject(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "docnorm.yaml")
	cfg := "site:\n  url: https://docs.example.com\nmarkdown:\n  highlight:\n    enabled: false\nmetrics:\n  textfile: metrics.prom\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o750))
	doc := "---\ntitle: Démarrage\n---\n# Démarrage rapide\n\nVoir [plus haut](<#Démarrage rapide>).\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "index.md"), []byte(doc), 0o600))
	return dir, cfgPath
}

func TestSlug_Defaults(t *testing.T) {
	code, out, _ := run(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "slug", "Élève & maître", "Déjà-vu")
	require.Equal(t, 0, code)
	require.Equal(t, "eleve-et-maitre\ndeja-vu\n", out)
}

func TestSlug_UsesConfiguredLocale(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "docnorm.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("normalize:\n  locale: de\n"), 0o600))

	code, out, _ := run(t, "-c", cfgPath, "slug", "Größe")
	require.Equal(t, 0, code)
	require.Equal(t, "groesse\n", out)
}

func TestInit_WritesAndRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	code, out, _ := run(t, "init", "-o", dir)
	require.Equal(t, 0, code)
	require.Contains(t, out, filepath.Join(dir, "docnorm.yaml"))
	require.FileExists(t, filepath.Join(dir, "docnorm.yaml"))

	code, _, errOut := run(t, "init", "-o", dir)
	require.Equal(t, 7, code)
	require.Contains(t, errOut, "already exists")

	code, _, _ = run(t, "init", "-o", dir, "--force")
	require.Equal(t, 0, code)
}

func TestBuild_WritesOutputAndMetrics(t *testing.T) {
	dir, cfgPath := writeProject(t)

	code, out, errOut := run(t, "-c", cfgPath, "build")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "Build success: 1 rendered")

	html, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), `id="demarrage-rapide"`)
	require.Contains(t, string(html), `href="#demarrage-rapide"`)

	prom, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	require.Contains(t, string(prom), `docnorm_build_outcomes_total{outcome="success"} 1`)
}

func TestBuild_OutputOverride(t *testing.T) {
	dir, cfgPath := writeProject(t)
	outDir := filepath.Join(dir, "elsewhere")

	code, _, errOut := run(t, "-c", cfgPath, "build", "-o", outDir, "--force")
	require.Equal(t, 0, code, errOut)
	require.FileExists(t, filepath.Join(outDir, "index.html"))
}

func TestBuild_MissingConfig(t *testing.T) {
	code, _, errOut := run(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"), "build")
	require.Equal(t, 11, code)
	require.Contains(t, errOut, "Error:")
}

func TestCheck(t *testing.T) {
	dir, cfgPath := writeProject(t)

	code, out, _ := run(t, "-c", cfgPath, "check")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Checked 1 documents: 0 invalid, 0 dangling links")
	require.NoDirExists(t, filepath.Join(dir, "public"))

	broken := "---\ntitle: Liens\n---\n[ailleurs](#absent)\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "liens.md"), []byte(broken), 0o600))

	code, out, _ = run(t, "-c", cfgPath, "check")
	require.Equal(t, 2, code)
	require.Contains(t, out, `liens.md: dangling anchor "#absent"`)
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := run(t, "--version")
	require.Equal(t, 0, code)
	require.True(t, strings.HasPrefix(out, "docnorm "+version.Version))
}
