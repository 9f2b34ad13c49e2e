package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docnorm/internal/logfields"
)

// DefaultDebounce is the quiet period after the last filesystem event
// before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Watcher rebuilds whenever the content directory changes.
type Watcher struct {
	builder  *Builder
	debounce time.Duration
	onBuild  func(*Result, error)
}

// NewWatcher creates a Watcher. onBuild, when non-nil, is called after every
// build including the initial one.
func NewWatcher(b *Builder, onBuild func(*Result, error)) *Watcher {
	return &Watcher{builder: b, debounce: DefaultDebounce, onBuild: onBuild}
}

// Watch builds once with opts, then rebuilds incrementally on changes until
// ctx is done. Bursts of events within the debounce window produce a single
// build; builds never overlap.
func (w *Watcher) Watch(ctx context.Context, opts Options) error {
	contentDir := w.builder.cfg.Content.Directory
	outDir, _ := filepath.Abs(w.builder.cfg.Output.Directory)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, contentDir, outDir); err != nil {
		return err
	}

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	w.run(ctx, opts)
	w.builder.logger.Info("Watching for changes", logfields.Path(contentDir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name, outDir) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name, outDir)
				}
			}
			w.builder.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.builder.logger.Warn("Watcher error", logfields.Error(err))
		case <-rebuildReq:
			w.builder.logger.Info("Change detected; rebuilding")
			w.run(ctx, Options{})
		}
	}
}

func (w *Watcher) run(ctx context.Context, opts Options) {
	res, err := w.builder.Build(ctx, opts)
	if err != nil && ctx.Err() == nil {
		w.builder.logger.Warn("Rebuild finished with errors", logfields.Error(err))
	}
	if w.onBuild != nil {
		w.onBuild(res, err)
	}
}

// newDebouncer returns a channel that receives once per quiet period after
// trigger calls, and a stop func cancelling a pending timer.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

func addDirsRecursive(w *fsnotify.Watcher, root, outDir string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (isHidden(d.Name()) || underDir(path, outDir)) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// shouldIgnoreEvent returns true for events that should not trigger rebuilds:
// hidden files, editor swap files and anything written to the output directory.
func shouldIgnoreEvent(path, outDir string) bool {
	if underDir(path, outDir) {
		return true
	}
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"))
}

func underDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
