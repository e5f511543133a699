package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"savedfile/cmd/savedfile/store"
	"savedfile/cmd/savedfile/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [name...]",
		Short: "Refresh stored copies whenever their original files change",
		Long: "Watch the original files of saved entries (all of them, or only the given names)\n" +
			"and copy them into storage again after they change. Stops on Ctrl+C.",
		ValidArgsFunction: completeNames(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args)
		},
	}
}

// watchTargets maps each original path to the stored entries made from it,
// keeping only entries named in names when names is not empty.
func watchTargets(reg *store.Registry, names []string) map[string][]store.Entry {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	targets := make(map[string][]store.Entry)
	for _, e := range sortedEntries(reg) {
		if !e.IsStored() || (len(wanted) > 0 && !wanted[e.Name]) {
			continue
		}
		path := filepath.Clean(e.OriginalPath)
		targets[path] = append(targets[path], e)
	}
	return targets
}

// refreshChanged copies every changed original back into storage and
// returns the keys that were refreshed. Failures are logged and skipped.
func refreshChanged(targets map[string][]store.Entry, changed []string) []string {
	var refreshed []string
	for _, path := range changed {
		for _, e := range targets[path] {
			if err := e.Refresh(filepath.Dir(*e.StoredPath)); err != nil {
				log.Warn().Err(err).Str("key", e.Key()).Msg("refresh failed")
				continue
			}
			refreshed = append(refreshed, e.Key())
		}
	}
	return refreshed
}

func (a *app) watch(ctx context.Context, names []string) error {
	targets := watchTargets(a.registry, names)
	if len(targets) == 0 {
		fmt.Fprintln(a.stdout, styleInfo.Render("Nothing to watch"))
		return nil
	}

	files := make([]string, 0, len(targets))
	for path := range targets {
		files = append(files, path)
	}
	w, err := watch.New(watch.Config{Files: files, Debounce: a.cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, styleInfo.Render(fmt.Sprintf("Watching %d files", len(files))))

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-changes:
			if !ok {
				return nil
			}
			for _, key := range refreshChanged(targets, batch) {
				fmt.Fprintln(a.stdout, styleOK.Render("refreshed"), styleName.Render(key))
			}
		}
	}
}
