// Package walker provides the parallel directory traversal that feeds the
// extractor worker pool. It uses fastwalk, so the traversal itself runs
// across multiple goroutines; discovered files are pushed onto a shared
// channel in no particular order.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/depscan/pkg/depscan/ignore"
	"github.com/jamesainslie/depscan/pkg/depscan/logging"
	"github.com/jamesainslie/depscan/pkg/depscan/types"
)

var logger = logging.Get("walker")

// skipDirs are directory names never descended into regardless of ignore
// rules. node_modules is a nested dependency-install root: its contents are
// never walked, though manifests inside it may be loaded separately.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Options configures a Walker.
type Options struct {
	// Root is the absolute project root directory.
	Root string

	// Rules is the compiled ignore rule set, queried with root-relative
	// paths. Must not be nil.
	Rules *ignore.RuleSet
}

// Walker emits candidate file paths under a root directory.
type Walker struct {
	opts Options

	errors   []types.ScanError
	errorsMu sync.Mutex
}

// New creates a Walker.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk traverses the root and sends every candidate file to out. It returns
// only when traversal is complete; the caller closes out. Per-entry errors
// (permission denied, broken links) are recorded and skipped. The only
// returned errors are a failure to open the root itself or context
// cancellation.
func (w *Walker) Walk(ctx context.Context, out chan<- types.FileEntry) error {
	conf := fastwalk.Config{
		Follow: false, // never follow symlinks
	}

	done := make(chan struct{})
	stop := context.AfterFunc(ctx, func() { close(done) })
	defer stop()

	err := fastwalk.Walk(&conf, w.opts.Root, w.callback(done, out))
	if err != nil && !errors.Is(err, fastwalk.ErrSkipFiles) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// Errors returns the per-entry errors recorded during the walk.
func (w *Walker) Errors() []types.ScanError {
	w.errorsMu.Lock()
	defer w.errorsMu.Unlock()
	return append([]types.ScanError(nil), w.errors...)
}

// callback returns the fastwalk callback. It runs concurrently across the
// traversal pool, so everything it touches must be goroutine safe.
func (w *Walker) callback(done <-chan struct{}, out chan<- types.FileEntry) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		select {
		case <-done:
			return fastwalk.ErrSkipFiles
		default:
		}

		if err != nil {
			if path == w.opts.Root {
				return err
			}
			w.addError(path, err)
			return nil
		}

		if path == w.opts.Root {
			return nil
		}

		rel := w.relative(path)

		if d.IsDir() {
			if skipDirs[d.Name()] || w.opts.Rules.MatchPath(rel) {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if w.opts.Rules.MatchPath(rel) {
			return nil
		}

		select {
		case out <- types.FileEntry{Path: path, Rel: rel}:
		case <-done:
			return fastwalk.ErrSkipFiles
		}
		return nil
	}
}

// relative converts an absolute walk path to the root-relative slash form
// used as report identity.
func (w *Walker) relative(path string) string {
	rel, err := filepath.Rel(w.opts.Root, path)
	if err != nil {
		// Fall back to the base name; fastwalk always hands us paths under
		// the root, so this only happens for exotic mount situations.
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// addError records a per-entry traversal error without aborting the walk.
func (w *Walker) addError(path string, err error) {
	if os.IsNotExist(err) {
		return
	}
	logger.Warn("walk entry skipped", "path", path, "error", err)

	w.errorsMu.Lock()
	defer w.errorsMu.Unlock()
	w.errors = append(w.errors, types.ScanError{Path: path, Error: err.Error()})
}
