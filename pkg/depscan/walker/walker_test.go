package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/depscan/pkg/depscan/ignore"
	"github.com/jamesainslie/depscan/pkg/depscan/types"
)

// buildTree creates files (given as slash-relative paths) under a temp root.
func buildTree(t *testing.T, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("// stub\n"), 0o644))
	}
	return root
}

// collect runs a full walk and returns the sorted relative paths emitted.
func collect(t *testing.T, root string, patterns []string) ([]string, *Walker) {
	t.Helper()
	rules, err := ignore.Compile(patterns)
	require.NoError(t, err)

	w := New(Options{Root: root, Rules: rules})
	out := make(chan types.FileEntry, 128)

	walkErr := make(chan error, 1)
	go func() {
		walkErr <- w.Walk(context.Background(), out)
		close(out)
	}()

	var rels []string
	for entry := range out {
		rels = append(rels, entry.Rel)
	}
	require.NoError(t, <-walkErr)
	sort.Strings(rels)
	return rels, w
}

func TestWalkEmitsFiles(t *testing.T) {
	root := buildTree(t, []string{
		"index.js",
		"src/app.ts",
		"src/util/helpers.ts",
	})

	rels, w := collect(t, root, nil)
	require.Equal(t, []string{"index.js", "src/app.ts", "src/util/helpers.ts"}, rels)
	require.Empty(t, w.Errors())
}

func TestWalkSkipsWellKnownDirs(t *testing.T) {
	root := buildTree(t, []string{
		"index.js",
		"node_modules/lodash/index.js",
		"node_modules/lodash/package.json",
		".git/config",
		"src/node_modules/inner/index.js",
	})

	rels, _ := collect(t, root, nil)
	require.Equal(t, []string{"index.js"}, rels)
}

func TestWalkHonorsIgnoreRules(t *testing.T) {
	root := buildTree(t, []string{
		"index.js",
		"dist/bundle.js",
		"src/app.min.js",
		"src/app.js",
	})

	rels, _ := collect(t, root, []string{"dist", "*.min.js"})
	require.Equal(t, []string{"index.js", "src/app.js"}, rels)
}

func TestWalkRelSlashSeparated(t *testing.T) {
	root := buildTree(t, []string{"a/b/c.js"})

	rels, _ := collect(t, root, nil)
	require.Equal(t, []string{"a/b/c.js"}, rels)
}

func TestWalkCancelledContext(t *testing.T) {
	root := buildTree(t, []string{"index.js"})

	rules, err := ignore.Compile(nil)
	require.NoError(t, err)
	w := New(Options{Root: root, Rules: rules})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan types.FileEntry, 8)
	err = w.Walk(ctx, out)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWalkMissingRoot(t *testing.T) {
	rules, err := ignore.Compile(nil)
	require.NoError(t, err)
	w := New(Options{Root: filepath.Join(t.TempDir(), "gone"), Rules: rules})

	out := make(chan types.FileEntry, 8)
	err = w.Walk(context.Background(), out)
	require.Error(t, err)
}
