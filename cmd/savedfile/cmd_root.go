package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"savedfile/cmd/savedfile/store"
	"savedfile/pkg/lib"
)

// app carries the state shared by every command of one invocation. The
// registry is built once, before the command runs, and handed to it here.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg      Config
	paths    store.Paths
	registry *store.Registry

	stdout io.Writer
	stderr io.Writer

	// Interactive collaborators, replaced in tests.
	confirm func(title string) (bool, error)
	pick    func(entries []store.Entry) (store.Entry, error)
}

func newApp() *app {
	return &app{
		v:       viper.New(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		confirm: confirmPrompt,
		pick:    pickEntry,
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Save files under a memorable name and reuse them anywhere",
		Long: appName + " keeps a copy of a file under a name (and optional version)\n" +
			"and re-creates it anywhere later, as a hard link when possible or a copy otherwise.\n\n" +
			"Saved files live in ~/." + appName + "/files, indexed by ~/." + appName + "/" + appName + ".json.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default: ~/.config/"+appName+"/config.yaml)")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")
	root.PersistentFlags().String("home", "", "registry directory (default: ~/."+appName+")")
	cobra.CheckErr(bindFlags(a.v, root.PersistentFlags()))

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.AddCommand(newFromCommand(a))
	root.AddCommand(newUseCommand(a))
	root.AddCommand(newRemoveCommand(a))
	root.AddCommand(newListCommand(a))
	root.AddCommand(newInfoCommand(a))
	root.AddCommand(newBrowseCommand(a))
	root.AddCommand(newWatchCommand(a))
	return root
}

// init loads the configuration, sets up logging and reads the registry.
// It runs once per process; later calls are no-ops.
func (a *app) init() error {
	if a.registry != nil {
		return nil
	}

	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	if err := lib.SetupLogger(a.stderr, level); err != nil {
		return err
	}

	paths := resolvePaths(cfg)
	reg := store.NewRegistry(paths.RegistryFile(), store.WithSyncWrites(cfg.SyncWrites))
	if err := reg.Load(); err != nil {
		return fmt.Errorf("reading the registry file: %w", err)
	}

	a.cfg = cfg
	a.paths = paths
	a.registry = reg
	return nil
}

// completeNames completes the first positional argument with registered names.
func completeNames(a *app) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if err := a.init(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		seen := make(map[string]bool)
		var names []string
		for _, e := range a.registry.All() {
			if !seen[e.Name] && strings.HasPrefix(e.Name, toComplete) {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
		}
		sort.Strings(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeVersions completes --version with the versions saved for args[0].
func completeVersions(a *app) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if err := a.init(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var versions []string
		for _, g := range listAll(a.registry, args[0]) {
			for _, v := range g.Versions {
				if strings.HasPrefix(v, toComplete) {
					versions = append(versions, v)
				}
			}
		}
		return versions, cobra.ShellCompDirectiveNoFileComp
	}
}
