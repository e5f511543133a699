package main

import (
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"savedfile/cmd/savedfile/store"
)

func newUseCommand(a *app) *cobra.Command {
	var (
		version string
		output  string
		doCopy  bool
	)

	cmd := &cobra.Command{
		Use:   "use [name]",
		Short: "Use a saved file by whatever you --named it using the from command",
		Long: "Re-create a saved file in the current directory (or at --output).\n\n" +
			"A hard link to the stored copy is made when possible; otherwise the file is copied.\n" +
			"Without a name, an interactive finder lists every saved file.",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeNames(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			preferCopy := a.cfg.Copy
			if cmd.Flags().Changed("copy") {
				preferCopy = doCopy
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				if a.registry.Len() == 0 {
					fmt.Fprintln(a.stdout, styleInfo.Render("No saved files yet"))
					return nil
				}
				entry, err := a.pick(sortedEntries(a.registry))
				if errors.Is(err, fuzzyfinder.ErrAbort) {
					return nil
				}
				if err != nil {
					return err
				}
				name, version = entry.Name, entry.VersionString()
			}

			res, err := materialize(a.registry, name, version, output, preferCopy)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(a.stdout, styleInfo.Render("No entry found with that name and version"))
				return nil
			}
			if res.LinkErr != nil {
				fmt.Fprintln(a.stdout, styleWarn.Render("Failed to create a link, making copy instead"))
			}
			if err != nil {
				return err
			}

			verb := "copied"
			if res.Linked {
				verb = "linked"
			}
			fmt.Fprintln(a.stdout, styleOK.Render(verb), styleName.Render(res.Entry.Key()), styleDim.Render("->"), res.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&version, "version", "v", "", "the version of the file to use")
	cmd.Flags().StringVarP(&output, "output", "o", "", "what to save the file as locally")
	cmd.Flags().BoolVarP(&doCopy, "copy", "c", false, "copy the file instead of creating a link to it")
	_ = cmd.RegisterFlagCompletionFunc("version", completeVersions(a))
	return cmd
}
