// Package gitmeta reads per-file history from the git repository that holds
// the documentation sources.
package gitmeta

import (
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
)

// Repo is an opened repository. Lookups are serialized; go-git's object
// storage is not safe for concurrent readers.
type Repo struct {
	repo *git.Repository
	root string
	mu   sync.Mutex
}

// Open finds the repository containing dir, searching parent directories.
func Open(dir string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "open repository").
			WithContext("dir", dir).
			Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "bare repositories are not supported").
			WithContext("dir", dir).
			Build()
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, fmt.Errorf("resolve worktree root: %w", err)
	}
	return &Repo{repo: repo, root: root}, nil
}

// LastUpdated returns the committer time of the newest commit touching path.
// ok is false when the file has no history (untracked or empty repository).
func (r *Repo) LastUpdated(path string) (when time.Time, ok bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false, err
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return time.Time{}, false, err
	}
	rel = filepath.ToSlash(rel)

	r.mu.Lock()
	defer r.mu.Unlock()

	iter, err := r.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errors.WrapError(err, errors.CategoryGit, "read file history").
			WithContext("path", rel).
			Build()
	}
	defer iter.Close()

	c, err := iter.Next()
	if stderrors.Is(err, io.EOF) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, errors.WrapError(err, errors.CategoryGit, "read file history").
			WithContext("path", rel).
			Build()
	}
	return c.Committer.When, true, nil
}
