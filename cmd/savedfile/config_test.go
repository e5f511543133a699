package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savedfile/cmd/savedfile/store"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolateConfig(t)
	content := "copy: true\nlink_original: always\nlog_level: debug\nsync_writes: false\nwatch:\n  debounce: 2s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.True(t, cfg.Copy)
	assert.Equal(t, linkOriginalAlways, cfg.LinkOriginal)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.SyncWrites)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := isolateConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("link_original: always\n"), 0o644))
	t.Setenv("SAVEDFILE_LINK_ORIGINAL", "never")
	t.Setenv("SAVEDFILE_WATCH_DEBOUNCE", "75ms")

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, linkOriginalNever, cfg.LinkOriginal)
	assert.Equal(t, 75*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("home: /srv/saved\n"), 0o644))

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/saved", cfg.Home)

	_, err = loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidLinkOriginal(t *testing.T) {
	isolateConfig(t)
	t.Setenv("SAVEDFILE_LINK_ORIGINAL", "sometimes")

	_, err := loadConfig(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sometimes")
}

func TestResolveConfigDir(t *testing.T) {
	t.Setenv(envConfigDir, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", appName), dir)

	t.Setenv(envConfigDir, "/explicit")
	dir, err = resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/explicit", dir)
}

func TestResolvePaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	assert.Equal(t, store.DefaultPaths(), resolvePaths(Config{}))
	assert.Equal(t, filepath.Join(home, ".savedfile"), resolvePaths(Config{}).Root)
	assert.Equal(t, filepath.Join(home, "saved"), resolvePaths(Config{Home: "~/saved"}).Root)
	assert.Equal(t, "/abs/dir", resolvePaths(Config{Home: "/abs/dir"}).Root)
	assert.Equal(t, "~user/x", resolvePaths(Config{Home: "~user/x"}).Root)
}

func TestResolveConfigDir_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(envConfigDir, "")
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", appName), dir)
}
