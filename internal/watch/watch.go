// Package watch rebuilds units when they or the documents they consume change.
package watch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentic-research/jsxz/internal/build"
	"github.com/fsnotify/fsnotify"
)

// Watcher drives incremental rebuilds.
type Watcher struct {
	Builder  *build.Builder
	Units    []string
	Debounce time.Duration
	Logger   *slog.Logger

	deps    map[string][]string // unit -> documents
	watched map[string]bool     // directories
}

// Run builds every unit once, then rebuilds affected units on file changes
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Logger == nil {
		w.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w.Debounce <= 0 {
		w.Debounce = 100 * time.Millisecond
	}
	w.deps = make(map[string][]string)
	w.watched = make(map[string]bool)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	w.rebuild(ctx, fw, w.Units)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		changed = make(map[string]bool)
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.Debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.Debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-timerC:
			timerC = nil
			units := w.Affected(changed)
			changed = make(map[string]bool)
			if len(units) > 0 {
				w.rebuild(ctx, fw, units)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watcher error", "err", err)
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if shouldTrigger(evt) {
				changed[filepath.Clean(evt.Name)] = true
				resetTimer()
			}
		}
	}
}

// Affected returns the units touched by a set of changed paths, sorted.
func (w *Watcher) Affected(changed map[string]bool) []string {
	var units []string
	for _, u := range w.Units {
		hit := changed[u]
		for _, d := range w.deps[u] {
			hit = hit || changed[d]
		}
		if hit {
			units = append(units, u)
		}
	}
	sort.Strings(units)
	return units
}

func (w *Watcher) rebuild(ctx context.Context, fw *fsnotify.Watcher, units []string) {
	outcomes, err := w.Builder.Build(ctx, units)
	if err != nil {
		w.Logger.Error("build failed", "err", err)
	}
	for _, o := range outcomes {
		switch {
		case o.Skipped && w.Builder.Store != nil:
			if deps, err := w.Builder.Store.Deps(o.Unit); err == nil {
				w.deps[o.Unit] = deps
			}
		case o.Deps != nil || o.Err == nil:
			w.deps[o.Unit] = o.Deps
		}
		w.watchDir(fw, filepath.Dir(o.Unit))
		for _, d := range w.deps[o.Unit] {
			w.watchDir(fw, filepath.Dir(d))
		}
	}
}

func (w *Watcher) watchDir(fw *fsnotify.Watcher, dir string) {
	if w.watched[dir] {
		return
	}
	if err := fw.Add(dir); err != nil {
		w.Logger.Warn("watch add failed", "dir", dir, "err", err)
		return
	}
	w.watched[dir] = true
}

func shouldTrigger(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !strings.HasPrefix(filepath.Base(evt.Name), ".")
}
