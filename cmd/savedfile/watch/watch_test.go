package watch_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savedfile/cmd/savedfile/watch"
)

func startWatcher(t *testing.T, files ...string) <-chan []string {
	t.Helper()
	w, err := watch.New(watch.Config{Files: files, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)
	return changes
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	changes := startWatcher(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("v%d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case batch := <-changes:
		assert.Equal(t, []string{path}, batch)
	case <-time.After(time.Second):
		t.Fatal("expected a batch of changes")
	}

	select {
	case batch := <-changes:
		t.Fatalf("unexpected second batch: %v", batch)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_BatchesSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.conf")
	b := filepath.Join(dir, "b.conf")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	changes := startWatcher(t, a, b)

	require.NoError(t, os.WriteFile(b, []byte("b2"), 0o644))
	require.NoError(t, os.WriteFile(a, []byte("a2"), 0o644))

	select {
	case batch := <-changes:
		assert.Equal(t, []string{a, b}, batch)
	case <-time.After(time.Second):
		t.Fatal("expected a batch of changes")
	}
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched")
	other := filepath.Join(dir, "other")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))

	select {
	case batch := <-changes:
		t.Fatalf("should not report unwatched files, got %v", batch)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_NoFiles(t *testing.T) {
	_, err := watch.New(watch.Config{})
	require.Error(t, err)
}

func TestWatcher_Stop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	w, err := watch.New(watch.Config{Files: []string{path}})
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out")
	}
}
