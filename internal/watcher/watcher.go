package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"depscan/internal/observability"
	"depscan/internal/scanner"
)

// Watcher observes a project tree and invokes a callback after source files
// change. Events are debounced, and the callback runs the complete analysis
// again; nothing is patched incrementally.
type Watcher struct {
	root     string
	debounce time.Duration
	limiter  *rate.Limiter
	exclude  map[string]bool
	fw       *fsnotify.Watcher
	onChange func(context.Context)
}

func New(root string, debounce time.Duration, maxPerMinute int, excludeDirs []string, onChange func(context.Context)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	exclude := make(map[string]bool, len(excludeDirs))
	for _, dir := range excludeDirs {
		exclude[dir] = true
	}

	return &Watcher{
		root:     root,
		debounce: debounce,
		limiter:  rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), 1),
		exclude:  exclude,
		fw:       fw,
		onChange: onChange,
	}, nil
}

// Run watches until the context is cancelled. Directories created while
// watching are added on the fly.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op.Has(fsnotify.Create) {
				if err := w.addRecursive(event.Name); err == nil {
					slog.Debug("watching new path", "path", event.Name)
				}
			}

			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}

		case <-pending:
			timer = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
			observability.WatcherRunsTotal.Inc()
			w.onChange(ctx)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// relevant keeps directory events (for addRecursive) and analyzable source
// files, and drops everything else, editor temp files included.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if w.exclude[name] {
		return false
	}
	if _, ok := scanner.LanguageOf(event.Name); ok {
		return true
	}
	// Possibly a new directory; Stat would race with deletes, so accept
	// creates without an extension and let addRecursive sort it out.
	return event.Op.Has(fsnotify.Create) && filepath.Ext(event.Name) == ""
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.exclude[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			slog.Warn("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}
