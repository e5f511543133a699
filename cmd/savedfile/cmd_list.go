package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list [name]",
		Aliases: []string{"ls"},
		Short:   "List saved files and their versions",
		Long: "Gives a list of all (or a specific) saved file(s) and their versions.\n" +
			"A plus after the name means there is a default (unversioned) variant.",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeNames(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			var filter string
			if len(args) == 1 {
				filter = args[0]
			}
			groups := listAll(a.registry, filter)
			if output != outputText {
				return encode(a.stdout, output, groups)
			}
			printGroups(a.stdout, groups)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

// printGroups writes one line per name: the name, a plus when a default
// variant exists, then its versions.
func printGroups(w io.Writer, groups []fileGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "no saved files found")
		return
	}
	for _, g := range groups {
		line := styleName.Render(g.Name)
		if g.HasDefault {
			line += styleDefault.Render("+")
		}
		if len(g.Versions) > 0 {
			line += styleDim.Render(" versions:") + " " + styleVersion.Render(strings.Join(g.Versions, ", "))
		}
		fmt.Fprintln(w, line)
	}
}
