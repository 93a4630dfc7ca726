package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aallbrig/clause/tui"
)

func newExploreCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Browse commands interactively",
		Long: `Explore opens a terminal UI over the registered commands. Enter on a
command offers to run it (arguments come from config and defaults) or to
copy its usage to the clipboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			tokens, err := tui.Run(a.title(), a.registry.Commands(), a.cfg)
			if err != nil {
				return err
			}
			if tokens == nil {
				return nil
			}
			return a.run(cmd.Context(), tokens)
		},
	}
}
