package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"savedfile/cmd/savedfile/store"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, messages) are computed from it.
const appName = "savedfile"

var (
	envPrefix    = strings.ToUpper(appName)
	envConfigDir = envPrefix + "_CONFIG_DIR"
)

// Accepted values for link_original.
const (
	linkOriginalAsk    = "ask"
	linkOriginalAlways = "always"
	linkOriginalNever  = "never"
)

// Config holds every user-tunable setting.
type Config struct {
	Home         string      `mapstructure:"home"`
	Copy         bool        `mapstructure:"copy"`
	LinkOriginal string      `mapstructure:"link_original"`
	LogLevel     string      `mapstructure:"log_level"`
	SyncWrites   bool        `mapstructure:"sync_writes"`
	Watch        WatchConfig `mapstructure:"watch"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

func defaultConfig() Config {
	return Config{
		LinkOriginal: linkOriginalAsk,
		LogLevel:     "warn",
		SyncWrites:   true,
		Watch:        WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// resolveConfigDir picks the directory searched for config.yaml:
// SAVEDFILE_CONFIG_DIR when set, else savedfile under XDG_CONFIG_HOME,
// else ~/.config/savedfile.
func resolveConfigDir() (string, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating the config directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// bindFlags exposes the persistent flags that double as config keys.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if f := fs.Lookup("home"); f != nil {
		if err := v.BindPFlag("home", f); err != nil {
			return fmt.Errorf("binding --home: %w", err)
		}
	}
	return nil
}

// loadConfig layers defaults, the config file, SAVEDFILE_* env vars and
// bound flags. A missing config file is fine unless cfgFile names it
// explicitly.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	d := defaultConfig()
	v.SetDefault("home", d.Home)
	v.SetDefault("copy", d.Copy)
	v.SetDefault("link_original", d.LinkOriginal)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("sync_writes", d.SyncWrites)
	v.SetDefault("watch.debounce", d.Watch.Debounce)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if dir, err := resolveConfigDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	switch cfg.LinkOriginal {
	case linkOriginalAsk, linkOriginalAlways, linkOriginalNever:
	default:
		return Config{}, fmt.Errorf("invalid link_original %q (want %s, %s or %s)",
			cfg.LinkOriginal, linkOriginalAsk, linkOriginalAlways, linkOriginalNever)
	}
	return cfg, nil
}

// resolvePaths returns the registry layout, honouring the home override.
func resolvePaths(cfg Config) store.Paths {
	if cfg.Home == "" {
		return store.DefaultPaths()
	}
	root := cfg.Home
	if rest, ok := strings.CutPrefix(root, "~"); ok && (rest == "" || os.IsPathSeparator(rest[0])) {
		root = filepath.Join(store.HomeDir(), rest)
	}
	return store.Paths{Root: root}
}
