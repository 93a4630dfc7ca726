// Package cmd implements the clause CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configFile string
	manifest   string
	noColor    bool
	strict     bool
	noHistory  bool
	debug      bool
}

// ExitError carries a process exit code out of a command. The message has
// already been reported when Err is nil.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit codes.
const (
	ExitSuccess      = 0
	ExitParseError   = 1
	ExitCommandError = 4
)

// NewRootCmd returns a fresh root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	o := &options{}
	c := &cobra.Command{
		Use:   "clause",
		Short: "Run multi-clause command lines against a command manifest",
		Long: `clause parses command lines made of several clauses, such as
"--log-level debug deploy --region eu web", against the commands declared in a
YAML manifest, then runs the modifiers and the primary command.

Examples:
  clause exec deploy --region eu web       # run a manifest command
  clause exec -- --no-color deploy web     # leading global commands go after --
  clause commands --output=yaml            # list declared commands
  clause explore                           # browse commands interactively
  clause history list                      # show recent invocations`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), o.debug, "")
		},
	}
	c.PersistentFlags().StringVar(&o.configFile, "config", "", "Config file (default ~/.clause/config.yaml)")
	c.PersistentFlags().StringVarP(&o.manifest, "manifest", "m", "", "Command manifest (default clause.yaml)")
	c.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "Disable color output")
	c.PersistentFlags().BoolVar(&o.strict, "strict", false, "Fail when a token is not used by any command")
	c.PersistentFlags().BoolVar(&o.noHistory, "no-history", false, "Do not journal invocations")
	c.PersistentFlags().BoolVar(&o.debug, "debug", false, "Enable debug logging")

	c.AddCommand(newExecCmd(o))
	c.AddCommand(newCommandsCmd(o))
	c.AddCommand(newHistoryCmd(o))
	c.AddCommand(newExploreCmd(o))
	c.AddCommand(newVersionCmd())
	return c
}

// setupLogging points the global logger at w. debug wins over level; an
// empty or unknown level means warn.
func setupLogging(w io.Writer, debug bool, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	zerolog.SetGlobalLevel(lvl)
}

// Execute runs the root command and exits with its status.
func Execute() {
	err := NewRootCmd().Execute()
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, "Error:", exitErr.Err)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitParseError)
}
