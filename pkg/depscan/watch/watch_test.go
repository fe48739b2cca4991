package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startWatcher runs a watcher in the background and returns a cancel func
// that also waits for Run to return.
func startWatcher(t *testing.T, root string, debounce time.Duration, onChange func(context.Context)) context.CancelFunc {
	t.Helper()
	w, err := New(root, debounce, onChange)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// waitFor polls until cond is true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestRunInitialCallback(t *testing.T) {
	root := t.TempDir()

	var runs atomic.Int64
	stop := startWatcher(t, root, 50*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	defer stop()

	if !waitFor(t, 2*time.Second, func() bool { return runs.Load() >= 1 }) {
		t.Fatal("initial callback never fired")
	}
}

func TestRunRerunsAfterChange(t *testing.T) {
	root := t.TempDir()

	var runs atomic.Int64
	stop := startWatcher(t, root, 50*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	defer stop()

	require.True(t, waitFor(t, 2*time.Second, func() bool { return runs.Load() >= 1 }))

	require.NoError(t, os.WriteFile(filepath.Join(root, "index.js"), []byte("// v1\n"), 0o644))

	if !waitFor(t, 5*time.Second, func() bool { return runs.Load() >= 2 }) {
		t.Fatal("change never triggered a re-run")
	}
}

func TestRunDebouncesBursts(t *testing.T) {
	root := t.TempDir()

	var runs atomic.Int64
	stop := startWatcher(t, root, 300*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	defer stop()

	require.True(t, waitFor(t, 2*time.Second, func() bool { return runs.Load() >= 1 }))

	// A rapid burst of writes should settle into far fewer re-runs than
	// events; with an idle gap shorter than the debounce, at most a couple.
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "index.js"), []byte("// burst\n"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	require.True(t, waitFor(t, 5*time.Second, func() bool { return runs.Load() >= 2 }))
	time.Sleep(500 * time.Millisecond)
	require.LessOrEqual(t, runs.Load(), int64(4))
}

func TestRunWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	var runs atomic.Int64
	stop := startWatcher(t, root, 50*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	defer stop()

	require.True(t, waitFor(t, 2*time.Second, func() bool { return runs.Load() >= 1 }))

	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.True(t, waitFor(t, 5*time.Second, func() bool { return runs.Load() >= 2 }))

	before := runs.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "app.js"), []byte("// new\n"), 0o644))
	if !waitFor(t, 5*time.Second, func() bool { return runs.Load() > before }) {
		t.Fatal("write in new directory never triggered a re-run")
	}
}

func TestRunMissingRoot(t *testing.T) {
	var runs atomic.Int64
	w, err := New(filepath.Join(t.TempDir(), "gone"), 0, func(context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Unreadable roots are tolerated; the initial run still happens and
	// Run exits on cancellation.
	err = w.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, int64(1), runs.Load())
}
