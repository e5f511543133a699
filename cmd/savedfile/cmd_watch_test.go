package main

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savedfile/cmd/savedfile/store"
)

func TestWatchTargets(t *testing.T) {
	f := newFixture(t)
	shared := f.write(t, "shared.conf", "x")
	other := f.write(t, "other.conf", "y")
	for _, r := range []struct{ name, version, src string }{
		{"cfg", "", shared},
		{"cfg", "backup", shared},
		{"other", "", other},
	} {
		_, err := register(f.reg, f.filesDir, r.name, r.version, r.src)
		require.NoError(t, err)
	}
	unstored := store.NewEntry("loose", "")
	unstored.OriginalPath = other
	require.NoError(t, f.reg.Add(unstored))

	all := watchTargets(f.reg, nil)
	require.Len(t, all, 2)
	assert.Len(t, all[shared], 2)
	assert.Len(t, all[other], 1, "entries without a stored copy are not watched")

	only := watchTargets(f.reg, []string{"other"})
	require.Len(t, only, 1)
	assert.Equal(t, "other", only[other][0].Name)
}

func TestRefreshChanged(t *testing.T) {
	f := newFixture(t)
	src := f.write(t, "a.conf", "old")
	entry, err := register(f.reg, f.filesDir, "a", "", src)
	require.NoError(t, err)
	targets := watchTargets(f.reg, nil)

	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	refreshed := refreshChanged(targets, []string{src, "/not/watched"})

	assert.Equal(t, []string{"a"}, refreshed)
	assert.Equal(t, "new", readString(t, *entry.StoredPath))
}

func TestApp_WatchRefreshesStoredCopy(t *testing.T) {
	f := newFixture(t)
	src := f.write(t, "a.conf", "old")
	entry, err := register(f.reg, f.filesDir, "a", "", src)
	require.NoError(t, err)

	a := &app{
		cfg:      Config{Watch: WatchConfig{Debounce: 20 * time.Millisecond}},
		registry: f.reg,
		stdout:   io.Discard,
		stderr:   io.Discard,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.watch(ctx, nil) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(src, []byte("new"), 0o644)
		data, err := os.ReadFile(*entry.StoredPath)
		return err == nil && string(data) == "new"
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestApp_WatchNothing(t *testing.T) {
	f := newFixture(t)
	var out strings.Builder
	a := &app{registry: f.reg, stdout: &out}

	require.NoError(t, a.watch(context.Background(), nil))
	assert.Contains(t, out.String(), "Nothing to watch")
}
