package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aallbrig/clause/history"
)

func newHistoryCmd(o *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Inspect the invocation journal",
	}
	c.AddCommand(newHistoryListCmd(o))
	c.AddCommand(newHistoryClearCmd(o))
	c.AddCommand(newHistoryCommandsCmd(o))
	return c
}

func openJournal(o *options, cmd *cobra.Command) (*history.Journal, error) {
	a, err := o.load(cmd)
	if err != nil {
		return nil, err
	}
	if a.journal == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	return a.journal, nil
}

func newHistoryListCmd(o *options) *cobra.Command {
	var (
		limit  int
		output string
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "List recent invocations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal(o, cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.List(limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			out := cmd.OutOrStdout()
			if output == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if entries == nil {
					entries = []history.Entry{}
				}
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "(history is empty)")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.At.Format(time.DateTime), e.Outcome, strings.Join(e.Tokens, " "))
			}
			return tw.Flush()
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 = all)")
	c.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json")
	return c
}

func newHistoryClearCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [command]",
		Short: "Clear journaled invocations",
		Long: `Clear removes invocations from the journal.

Without arguments, clears the entire journal.
With a command name, clears only invocations whose primary command it was.

Examples:
  clause history clear            # clear everything
  clause history clear deploy     # clear only deploy's invocations`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal(o, cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			if len(args) == 0 {
				if err := j.Clear(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}
			name := args[0]
			if err := j.ClearCommand(name); err != nil {
				return fmt.Errorf("clear history for %q: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History cleared for %q.\n", name)
			return nil
		},
	}
}

func newHistoryCommandsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands that appear in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal(o, cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			names, err := j.Commands()
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(history is empty)")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
