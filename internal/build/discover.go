package build

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
)

// Source is a markdown file found below the content directory.
type Source struct {
	Path    string // contentDir joined with RelPath
	RelPath string // slash-separated, relative to the content directory
}

// Discover returns the *.md files below contentDir sorted by RelPath.
// Hidden files and directories are skipped.
func Discover(contentDir string) ([]Source, error) {
	var sources []Source
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != contentDir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{Path: path, RelPath: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		category := errors.CategoryFileSystem
		if stderrors.Is(err, fs.ErrNotExist) {
			category = errors.CategoryNotFound
		}
		return nil, errors.WrapError(err, category, "failed to discover documents").
			WithContext("dir", contentDir).
			Build()
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].RelPath < sources[j].RelPath })
	return sources, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// OutputPath maps a source path to its fragment path: "guide/intro.md"
// becomes "guide/intro.html".
func OutputPath(relPath string) string {
	return strings.TrimSuffix(relPath, filepath.Ext(relPath)) + ".html"
}
