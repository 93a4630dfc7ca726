package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aallbrig/clause/render"
)

func newCommandsCmd(o *options) *cobra.Command {
	var (
		output       string
		filter       string
		exclude      string
		commandsOnly bool
	)
	c := &cobra.Command{
		Use:   "commands",
		Short: "List the declared commands",
		Long: `Commands lists every registered command: manifest sub-commands, groups
and their members, global commands and modifiers, including built-ins.

Examples:
  clause commands                  # styled tree
  clause commands --filter=remote  # only matching commands
  clause commands --output=json    # machine-readable listing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			opts := render.Options{
				Filter:       filter,
				Exclude:      exclude,
				CommandsOnly: commandsOnly,
				Output:       output,
				NoColor:      a.cfg.NoColor,
				Colors:       a.cfg.Colors,
			}
			return render.New(opts).Render(cmd.OutOrStdout(), a.title(), a.registry.Commands())
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	c.Flags().StringVar(&filter, "filter", "", "Only show commands matching pattern")
	c.Flags().StringVar(&exclude, "exclude", "", "Exclude commands matching pattern")
	c.Flags().BoolVar(&commandsOnly, "commands-only", false, "Hide options and positionals")
	return c
}
