// Package checker runs the full dependency check: it loads the project
// manifest, compiles ignore rules, walks the tree in parallel, extracts
// per-file package usage across a worker pool, and aggregates everything
// into an immutable Result.
package checker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/depscan/pkg/depscan/extractor"
	"github.com/jamesainslie/depscan/pkg/depscan/ignore"
	"github.com/jamesainslie/depscan/pkg/depscan/logging"
	"github.com/jamesainslie/depscan/pkg/depscan/manifest"
	"github.com/jamesainslie/depscan/pkg/depscan/parser"
	"github.com/jamesainslie/depscan/pkg/depscan/types"
	"github.com/jamesainslie/depscan/pkg/depscan/walker"
)

// DefaultIgnoreFile is the custom ignore file honored during the walk when
// Options.ReadIgnoreFile is set.
const DefaultIgnoreFile = ".depscanignore"

// Options configures a check.
type Options struct {
	// Directory is the project root containing package.json.
	Directory string

	// IgnorePatterns are globs excluding paths from the walk and names from
	// the report. A leading '!' negates.
	IgnorePatterns []string

	// IgnoreFile is the name of an additional VCS-style ignore file read
	// from the project root. Empty means DefaultIgnoreFile.
	IgnoreFile string

	// ReadIgnoreFile enables loading IgnoreFile.
	ReadIgnoreFile bool

	// SkipMissing suppresses the missing-dependency computation entirely.
	SkipMissing bool

	// IgnoreBinPackages excludes bin-only packages from both the missing
	// and unused sets.
	IgnoreBinPackages bool

	// Workers is the extraction pool size. Zero or negative means the
	// available hardware parallelism.
	Workers int
}

// Validate applies defaults for unset options.
func (o *Options) Validate() error {
	if o.Directory == "" {
		o.Directory = "."
	}
	if o.IgnoreFile == "" {
		o.IgnoreFile = DefaultIgnoreFile
	}
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
	return nil
}

var logger = logging.Get("checker")

// Checker performs dependency checks.
type Checker struct {
	opts Options
}

// New creates a Checker. Options are validated and defaults applied.
func New(opts Options) *Checker {
	_ = opts.Validate()
	return &Checker{opts: opts}
}

// fileUsage is one worker's output for a single file.
type fileUsage struct {
	rel   string
	names map[string]struct{}
}

// Check runs the scan. Setup failures (missing root, unreadable manifest,
// malformed ignore pattern) abort before any worker starts; per-entry and
// per-file failures are absorbed into Result.Errors and the run always
// produces a best-effort result.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	start := time.Now()

	root, err := filepath.Abs(c.opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	pkg, err := manifest.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load project manifest: %w", err)
	}
	logger.Debug("manifest loaded", "name", pkg.Name, "version", pkg.Version)

	rules, err := c.compileRules(root)
	if err != nil {
		return nil, err
	}

	ext := extractor.New(root, pkg, c.opts.IgnoreBinPackages)
	w := walker.New(walker.Options{Root: root, Rules: rules})

	entries := make(chan types.FileEntry, 128)
	results := make(chan fileUsage, 128)

	var walkErr error
	go func() {
		walkErr = w.Walk(ctx, entries)
		close(entries)
	}()

	var (
		wg           sync.WaitGroup
		filesScanned atomic.Int64
		fileErrs     []types.ScanError
		fileErrsMu   sync.Mutex
	)
	for i := 0; i < c.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entries {
				names, ok, err := c.extractOne(ctx, ext, entry)
				if err != nil {
					fileErrsMu.Lock()
					fileErrs = append(fileErrs, types.ScanError{Path: entry.Path, Error: err.Error()})
					fileErrsMu.Unlock()
					continue
				}
				if !ok {
					continue
				}
				filesScanned.Add(1)
				if len(names) > 0 {
					results <- fileUsage{rel: entry.Rel, names: names}
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Single consumer: merges are serialized here, so the usage map needs
	// no locking and the outcome is independent of processing order.
	using := make(types.UsageMap)
	for r := range results {
		for name := range r.names {
			using.Add(name, r.rel)
		}
	}

	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	scanErrs := append(w.Errors(), fileErrs...)
	logger.Debug("check complete",
		"files", filesScanned.Load(),
		"dependencies", len(using),
		"errors", len(scanErrs),
		"elapsed", time.Since(start))

	return &Result{
		Manifest:     pkg,
		Directory:    root,
		Using:        using,
		Errors:       scanErrs,
		FilesScanned: filesScanned.Load(),
		Elapsed:      time.Since(start),
		opts:         c.opts,
		rules:        rules,
	}, nil
}

// extractOne parses and classifies a single file. ok is false for files no
// dialect claims; err is set only for recoverable per-file failures.
func (c *Checker) extractOne(ctx context.Context, ext *extractor.Extractor, entry types.FileEntry) (map[string]struct{}, bool, error) {
	res, err := parser.ParseFile(ctx, entry.Path)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupported) {
			return nil, false, nil
		}
		logger.Warn("file skipped", "path", entry.Rel, "error", err)
		return nil, false, err
	}
	defer res.Close()

	return ext.Extract(res), true, nil
}

// compileRules builds the ignore rule set from configured patterns plus the
// optional custom ignore file.
func (c *Checker) compileRules(root string) (*ignore.RuleSet, error) {
	patterns := append([]string(nil), c.opts.IgnorePatterns...)
	if c.opts.ReadIgnoreFile {
		filePatterns, err := ignore.LoadFile(filepath.Join(root, c.opts.IgnoreFile))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, filePatterns...)
	}
	rules, err := ignore.Compile(patterns)
	if err != nil {
		return nil, fmt.Errorf("compile ignore patterns: %w", err)
	}
	return rules, nil
}
