package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"savedfile/cmd/savedfile/store"
)

func newRemoveCommand(a *app) *cobra.Command {
	var (
		version string
		purge   bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:               "remove <name>",
		Aliases:           []string{"rm"},
		Short:             "Remove a saved file",
		Long:              "Remove a saved file from the registry. The stored copy is kept unless --purge is given.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNames(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lookup(a.registry, args[0], version); errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(a.stdout, styleInfo.Render("No entry found with that name and version"))
				return nil
			}

			if purge && !yes {
				ok, err := a.confirm(fmt.Sprintf("Also delete the stored copy of %s?", store.NewEntry(args[0], version).Key()))
				if err != nil || !ok {
					purge = false
				}
			}

			entry, err := forget(a.registry, args[0], version)
			if err != nil {
				return err
			}
			if purge {
				if err := purgeStored(entry); err != nil {
					return err
				}
			}
			fmt.Fprintln(a.stdout, styleOK.Render("removed"), styleName.Render(entry.Key()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&version, "version", "v", "", "the version of the file to remove")
	cmd.Flags().BoolVar(&purge, "purge", false, "also delete the stored copy")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask before purging")
	_ = cmd.RegisterFlagCompletionFunc("version", completeVersions(a))
	return cmd
}
