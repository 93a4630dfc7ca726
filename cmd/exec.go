package cmd

import (
	"github.com/spf13/cobra"
)

func newExecCmd(o *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "exec [tokens...]",
		Short: "Parse and run a command line against the manifest",
		Long: `Exec scans the tokens into clauses, validates each clause against the
declared commands and runs the modifiers in priority order followed by the
primary command. With no primary command the manifest default runs.

Flags of clause itself are only read before the first token. Put leading
global commands after -- so they reach the engine:

  clause exec deploy --region eu web
  clause exec -- --log-level debug deploy web

Exit status is 0 on success, 1 when the command line does not parse and 4
when a command fails.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.run(cmd.Context(), args)
		},
	}
	c.Flags().SetInterspersed(false)
	return c
}
