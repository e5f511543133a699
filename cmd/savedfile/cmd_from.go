package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"savedfile/cmd/savedfile/store"
)

func newFromCommand(a *app) *cobra.Command {
	var (
		name         string
		version      string
		linkOriginal bool
		keepOriginal bool
	)

	cmd := &cobra.Command{
		Use:   "from <file>",
		Short: "Create a saved file from a provided local file",
		Long: "Copy <file> into the registry under --named (and --version, if given).\n\n" +
			"Afterwards the original can be replaced by a hard link to the stored copy.\n" +
			"Without --link-original or --keep-original the link_original setting decides\n" +
			"(ask, always or never).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := register(a.registry, a.paths.FilesDir(), name, version, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, styleOK.Render("saved"), styleName.Render(entry.Key()))

			replace, err := a.shouldReplaceOriginal(linkOriginal, keepOriginal)
			if err != nil {
				return err
			}
			if !replace {
				return nil
			}
			if err := replaceWithLink(entry); err != nil {
				if store.IsCrossDevice(err) {
					return fmt.Errorf("the registry is on another filesystem, keeping the original: %w", err)
				}
				return fmt.Errorf("replacing the original with a link: %w", err)
			}
			fmt.Fprintln(a.stdout, styleInfo.Render("linked "+entry.OriginalPath+" to the stored copy"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "named", "n", "", "what to name the provided file in the registry")
	cmd.Flags().StringVarP(&version, "version", "v", "", "the version of the file")
	cmd.Flags().BoolVar(&linkOriginal, "link-original", false, "replace the original with a link to the stored copy")
	cmd.Flags().BoolVar(&keepOriginal, "keep-original", false, "leave the original file untouched")
	_ = cmd.MarkFlagRequired("named")
	cmd.MarkFlagsMutuallyExclusive("link-original", "keep-original")
	return cmd
}

// shouldReplaceOriginal decides whether from replaces the original file with
// a link. A prompt that cannot run (no terminal, aborted) counts as no.
func (a *app) shouldReplaceOriginal(linkFlag, keepFlag bool) (bool, error) {
	switch {
	case linkFlag:
		return true, nil
	case keepFlag:
		return false, nil
	}

	switch a.cfg.LinkOriginal {
	case linkOriginalAlways:
		return true, nil
	case linkOriginalNever:
		return false, nil
	}

	ok, err := a.confirm("Replace original with a link to the stored one?")
	if err != nil {
		log.Debug().Err(err).Msg("link-original prompt unavailable, keeping the original")
		return false, nil
	}
	return ok, nil
}
