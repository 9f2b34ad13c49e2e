package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_RebuildsOnChange(t *testing.T) {
	cfg := newTestConfig(t)
	seed(t, cfg)

	results := make(chan *Result, 16)
	w := NewWatcher(NewBuilder(cfg), func(r *Result, _ error) { results <- r })
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, Options{}) }()

	select {
	case r := <-results:
		require.Equal(t, 2, r.Rendered)
	case <-time.After(5 * time.Second):
		t.Fatal("initial build did not run")
	}

	writeFile(t, cfg.Content.Directory, "guide/new.md", "---\ntitle: Nouveau\n---\n# Nouveau\n")
	target := filepath.Join(cfg.Output.Directory, "guide", "new.html")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-results:
		case <-deadline:
			t.Fatal("rebuild did not produce the new document")
		}
		if _, err := os.Stat(target); err == nil {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_InitialBuildHonorsForce(t *testing.T) {
	cfg := newTestConfig(t)
	seed(t, cfg)
	_, err := NewBuilder(cfg).Build(context.Background(), Options{})
	require.NoError(t, err)

	results := make(chan *Result, 16)
	w := NewWatcher(NewBuilder(cfg), func(r *Result, _ error) { results <- r })
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, Options{Force: true}) }()

	select {
	case r := <-results:
		require.NotNil(t, r)
		require.Equal(t, 2, r.Rendered)
		require.Equal(t, 0, r.Skipped)
	case <-time.After(5 * time.Second):
		t.Fatal("initial build did not run")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	ch, trigger, stop := newDebouncer(30 * time.Millisecond)
	defer stop()

	for range 5 {
		trigger()
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no rebuild request")
	}
	select {
	case <-ch:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	out := filepath.Join(string(filepath.Separator), "site", "public")
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(string(filepath.Separator), "site", "docs", "a.md"), false},
		{filepath.Join(string(filepath.Separator), "site", "docs", ".a.md.swp"), true},
		{filepath.Join(string(filepath.Separator), "site", "docs", "a.md~"), true},
		{filepath.Join(string(filepath.Separator), "site", "docs", "#a.md#"), true},
		{filepath.Join(out, "a.html"), true},
		{filepath.Join(string(filepath.Separator), "site", "public-notes", "a.md"), false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, shouldIgnoreEvent(tt.path, out), tt.path)
	}
}
