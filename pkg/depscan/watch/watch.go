// Package watch re-runs a dependency check whenever the project tree
// changes. Each run is a full check; nothing is carried over between runs.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/depscan/pkg/depscan/logging"
)

var logger = logging.Get("watch")

// DefaultDebounce is the quiet period after the last event before a re-run.
const DefaultDebounce = 500 * time.Millisecond

// skipDirs are directory names never watched.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Watcher watches a project root and invokes a callback after changes
// settle.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(context.Context)

	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	paths  map[string]bool
	closed bool
}

// New creates a Watcher over root. onChange runs once immediately and again
// after every debounced burst of filesystem events. A debounce of zero uses
// DefaultDebounce.
func New(root string, debounce time.Duration, onChange func(context.Context)) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     absRoot,
		debounce: debounce,
		onChange: onChange,
		fsw:      fsw,
		paths:    make(map[string]bool),
	}, nil
}

// Run installs recursive watches, performs the initial run and then blocks
// processing events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.onChange(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			logger.Debug("changes settled; re-running check")
			w.onChange(ctx)
		}
	}
}

// handleEvent extends the watch into newly created directories.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Lstat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if skipDirs[filepath.Base(event.Name)] {
		return
	}
	if err := w.addRecursive(event.Name); err != nil {
		logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
	}
}

// addRecursive watches root and every directory beneath it, skipping
// symlinks and install roots. Entries that cannot be read are skipped.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDirs[d.Name()] {
			return fs.SkipDir
		}
		return w.addWatch(path)
	})
}

// addWatch adds a single directory to the watch list.
func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.paths[path] {
		return nil
	}
	if err := w.fsw.Add(path); err != nil {
		logger.Warn("failed to add watch", "path", path, "error", err)
		return nil
	}
	w.paths[path] = true
	return nil
}

// close releases the underlying fsnotify watcher.
func (w *Watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	_ = w.fsw.Close()
}
