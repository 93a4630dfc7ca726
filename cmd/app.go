package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/history"
	"github.com/aallbrig/clause/manifest"
	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/printer"
	"github.com/aallbrig/clause/registry"
	"github.com/aallbrig/clause/runner"
)

// defaultManifest is looked up in the working directory when neither the
// flag nor the config names a manifest.
const defaultManifest = "clause.yaml"

// app is everything a subcommand needs, loaded from flags and config.
type app struct {
	cfg      *config.Config
	manifest *manifest.Manifest
	registry *registry.Registry
	console  *printer.Console
	journal  *history.Journal
	out      io.Writer
}

// load reads config and manifest and registers every command. Callers must Close the app.
func (o *options) load(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	cfg.NoColor = cfg.NoColor || o.noColor
	cfg.Strict = cfg.Strict || o.strict
	cfg.NoHistory = cfg.NoHistory || o.noHistory
	setupLogging(cmd.ErrOrStderr(), o.debug, cfg.LogLevel)

	a := &app{
		cfg:      cfg,
		out:      cmd.OutOrStdout(),
		console:  printer.NewConsole(cmd.ErrOrStderr(), cfg.Colors, cfg.NoColor, log.Logger),
		registry: registry.New(registry.WithLogger(log.Logger)),
	}

	m, err := o.loadManifest(cmd, cfg)
	if err != nil {
		return nil, err
	}
	a.manifest = m
	for _, c := range m.Commands {
		if err := a.registry.Add(c); err != nil {
			return nil, fmt.Errorf("registering %s: %w", models.Name(c), err)
		}
	}
	for _, c := range builtins(a) {
		if a.taken(c) {
			log.Debug().Str("command", models.Name(c)).Msg("manifest overrides built-in command")
			continue
		}
		if err := a.registry.Add(c); err != nil {
			return nil, err
		}
	}

	if !cfg.NoHistory {
		j, err := history.Open(cfg.HistoryDir)
		if err != nil {
			log.Warn().Err(err).Msg("could not open history, running without")
		} else {
			a.journal = j
		}
	}
	return a, nil
}

func (o *options) loadManifest(cmd *cobra.Command, cfg *config.Config) (*manifest.Manifest, error) {
	path := o.manifest
	if path == "" {
		path = cfg.Manifest
	}
	mopts := manifest.Options{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
	if path != "" {
		return manifest.Load(path, mopts)
	}
	m, err := manifest.Load(defaultManifest, mopts)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Msg("no manifest found, using built-in commands only")
		return &manifest.Manifest{Name: "clause"}, nil
	}
	return m, err
}

// Close releases the history journal.
func (a *app) Close() {
	if a.journal != nil {
		a.journal.Close()
	}
}

// title names the command set in listings.
func (a *app) title() string {
	if a.manifest.Name != "" {
		return a.manifest.Name
	}
	return "clause"
}

func (a *app) runner() *runner.Runner {
	policy := runner.Advisory
	if a.cfg.Strict {
		policy = runner.Strict
	}
	opts := []runner.Option{
		runner.WithUnusedPolicy(policy),
		runner.WithCommandConfigs(a.cfg),
		runner.WithLogger(log.Logger),
	}
	if a.journal != nil {
		opts = append(opts, runner.WithJournal(journal{a.journal}))
	}
	return runner.New(a.registry, a.console, opts...)
}

// run executes tokens and maps the outcome to an exit status. Diagnostics
// have already been printed by the runner.
func (a *app) run(ctx context.Context, tokens []string) error {
	res := a.runner().Run(ctx, tokens, a.manifest.Default)
	switch res.Outcome {
	case runner.Success:
		return nil
	case runner.CommandError:
		return &ExitError{Code: ExitCommandError}
	default:
		return &ExitError{Code: ExitParseError}
	}
}

// journal adapts a history journal to the runner.
type journal struct {
	j *history.Journal
}

func (h journal) Record(tokens []string, res runner.Result) error {
	e := history.Entry{
		Tokens:  tokens,
		Outcome: res.Outcome.String(),
		At:      time.Now(),
	}
	if res.Primary != nil {
		e.Primary = res.Primary.Name
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	return h.j.Record(e)
}
