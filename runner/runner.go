// Package runner parses a token sequence into one primary command plus any
// modifier commands and executes them.
package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/populate"
	"github.com/aallbrig/clause/printer"
	"github.com/aallbrig/clause/scanner"
	"github.com/aallbrig/clause/validate"
)

// Outcome is the result contract with the hosting process.
type Outcome int

const (
	Success Outcome = iota
	ParseError
	CommandError
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ParseError:
		return "parse-error"
	case CommandError:
		return "command-error"
	}
	return "unknown"
}

// State is the runner's position in a single Run.
type State int

const (
	Idle State = iota
	Scanned
	QualifiersValidated
	PrimaryValidated
	Executing
	Succeeded
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanned:
		return "scanned"
	case QualifiersValidated:
		return "qualifiers-validated"
	case PrimaryValidated:
		return "primary-validated"
	case Executing:
		return "executing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// UnusedPolicy decides what happens to tokens no command accepted.
type UnusedPolicy int

const (
	// Advisory reports each unused token as a warning and carries on.
	Advisory UnusedPolicy = iota
	// Strict reports the warnings and then fails with ParseError.
	Strict
)

// Catalog is the registry view the runner needs. *registry.Registry satisfies it.
type Catalog interface {
	scanner.Index
	Commands() []models.Command
}

// ConfigSource supplies per-command configuration. *config.Config satisfies it.
type ConfigSource interface {
	CommandConfig(name string) models.Args
}

// Configs is a ConfigSource backed by a map.
type Configs map[string]models.Args

// CommandConfig implements ConfigSource.
func (c Configs) CommandConfig(name string) models.Args { return c[name] }

// Journal records finished runs.
type Journal interface {
	Record(tokens []string, res Result) error
}

// Invocation is a validated command ready to run.
type Invocation struct {
	Command models.Command
	// Name is the command name, qualified for group members.
	Name string
	Args models.Args
}

// Result describes a finished Run.
type Result struct {
	Outcome    Outcome
	Primary    *Invocation
	Qualifiers []Invocation
	Unused     []string
	Err        error
}

// Runner sequences scanning, population, validation and execution.
type Runner struct {
	catalog Catalog
	scan    *scanner.Scanner
	out     printer.Printer
	log     zerolog.Logger
	policy  UnusedPolicy
	configs ConfigSource
	journal Journal
	state   State
}

// Option configures a Runner.
type Option func(*Runner)

// WithUnusedPolicy sets how unused tokens are treated. The default is Advisory.
func WithUnusedPolicy(p UnusedPolicy) Option { return func(r *Runner) { r.policy = p } }

// WithCommandConfigs sets the per-command configuration used to seed arguments.
func WithCommandConfigs(src ConfigSource) Option { return func(r *Runner) { r.configs = src } }

// WithJournal records every run.
func WithJournal(j Journal) Option { return func(r *Runner) { r.journal = j } }

// WithLogger sets the logger state transitions are reported to.
func WithLogger(l zerolog.Logger) Option { return func(r *Runner) { r.log = l } }

// New returns a Runner over catalog reporting diagnostics to out.
func New(catalog Catalog, out printer.Printer, opts ...Option) *Runner {
	r := &Runner{
		catalog: catalog,
		scan:    scanner.New(catalog),
		out:     out,
		log:     zerolog.Nop(),
		configs: Configs{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// State returns the state the last Run ended in.
func (r *Runner) State() State { return r.state }

// Lookup implements models.Env. Non-global names win over global ones.
func (r *Runner) Lookup(name string) (models.Command, bool) {
	if c, ok := r.catalog.Lookup(name); ok {
		return c, true
	}
	return r.catalog.LookupGlobal(name)
}

// Commands implements models.Env.
func (r *Runner) Commands() []models.Command { return r.catalog.Commands() }

// CommandConfig implements models.Env.
func (r *Runner) CommandConfig(name string) models.Args {
	return r.configs.CommandConfig(name).Clone()
}

func (r *Runner) transition(s State) {
	r.state = s
	r.log.Debug().Stringer("state", s).Msg("runner transition")
}

// Run parses tokens and executes the resulting commands. def, when not nil,
// is the sub-command or global command used when tokens name no primary command.
func (r *Runner) Run(ctx context.Context, tokens []string, def models.Command) (res Result) {
	r.transition(Idle)
	if r.journal != nil {
		defer func() {
			if err := r.journal.Record(tokens, res); err != nil {
				r.log.Warn().Err(err).Msg("could not record run")
			}
		}()
	}

	scanned := r.scan.Scan(tokens)
	r.transition(Scanned)

	var qualifiers, primaries []scanner.Clause
	for _, c := range scanned.Clauses {
		if c.Command.Kind() == models.KindGlobalModifier {
			qualifiers = append(qualifiers, c)
		} else {
			primaries = append(primaries, c)
		}
	}
	res.Unused = append(res.Unused, scanned.UnusedLeadingArgs...)

	if len(primaries) > 1 {
		names := make([]string, len(primaries))
		for i, c := range primaries {
			names[i] = c.Name()
		}
		return r.fail(res, ParseError, &UsageError{Detail: strings.Join(names, ", "), Err: ErrMultipleCommands})
	}

	for _, c := range qualifiers {
		inv, unused, err := r.parse(c.Command, c.Name(), c.PotentialArgs)
		if err != nil {
			return r.fail(res, ParseError, err)
		}
		res.Qualifiers = append(res.Qualifiers, inv)
		res.Unused = append(res.Unused, unused...)
	}
	r.transition(QualifiersValidated)

	switch {
	case len(primaries) == 1:
		c := primaries[0]
		if g, ok := c.Command.(*models.GroupCommand); ok {
			return r.fail(res, ParseError, &UsageError{Command: g.Name, Detail: "expected one of " + memberNames(g), Err: ErrNotRunnable})
		}
		inv, unused, err := r.parse(c.Command, c.Name(), c.PotentialArgs)
		if err != nil {
			return r.fail(res, ParseError, err)
		}
		res.Primary = &inv
		res.Unused = append(res.Unused, unused...)
	case def != nil:
		if def.Kind() == models.KindGroup || def.Kind() == models.KindGlobalModifier {
			return r.fail(res, ParseError, &UsageError{Command: models.Name(def), Detail: "not usable as a default command", Err: ErrNotRunnable})
		}
		name := models.Name(def)
		inv, unused, err := r.parse(def, name, res.Unused)
		if err != nil {
			r.log.Debug().Err(err).Str("command", name).Msg("default command rejected its candidate tokens, retrying without them")
			inv, _, err = r.parse(def, name, nil)
			if err != nil {
				return r.fail(res, ParseError, err)
			}
			unused = res.Unused
		}
		res.Primary = &inv
		res.Unused = unused
	default:
		return r.fail(res, ParseError, &UsageError{Err: ErrNoCommand})
	}
	r.transition(PrimaryValidated)

	for _, tok := range res.Unused {
		r.out.Warn(fmt.Sprintf("unused argument: %s", tok))
	}
	if r.policy == Strict && len(res.Unused) > 0 {
		return r.fail(res, ParseError, &UsageError{Detail: strings.Join(res.Unused, " "), Err: ErrUnusedArgs})
	}

	sort.SliceStable(res.Qualifiers, func(i, j int) bool {
		return priority(res.Qualifiers[i]) > priority(res.Qualifiers[j])
	})

	r.transition(Executing)
	for _, q := range res.Qualifiers {
		if err := r.exec(ctx, q); err != nil {
			return r.fail(res, CommandError, err)
		}
	}
	if err := r.exec(ctx, *res.Primary); err != nil {
		return r.fail(res, CommandError, err)
	}
	r.transition(Succeeded)
	res.Outcome = Success
	return res
}

func (r *Runner) fail(res Result, outcome Outcome, err error) Result {
	r.transition(Failed)
	r.out.Error(err.Error())
	res.Outcome = outcome
	res.Err = err
	return res
}

// parse populates and validates one clause.
func (r *Runner) parse(cmd models.Command, name string, tokens []string) (Invocation, []string, error) {
	shape := models.ShapeOf(cmd)
	pop := populate.Populate(shape, tokens)
	checked := validate.Args(shape, pop.Values, pop.Missing, r.seed(name, shape))
	r.log.Debug().Str("command", name).Strs("tokens", tokens).Strs("unused", pop.Unused).Int("invalid", len(checked.Invalid)).Msg("parsed clause")
	if !checked.Valid() {
		return Invocation{}, nil, &UsageError{Command: name, Invalid: checked.Invalid, Err: ErrInvalidArgs}
	}
	return Invocation{Command: cmd, Name: name, Args: checked.Args}, pop.Unused, nil
}

// seed picks the configured values for the arguments shape declares. Names
// are also tried lowercased since configuration keys may be case-folded.
func (r *Runner) seed(name string, shape models.Shape) models.Args {
	raw := r.configs.CommandConfig(name)
	if len(raw) == 0 {
		return nil
	}
	out := models.Args{}
	pick := func(arg string) {
		if v, ok := raw[arg]; ok {
			out[arg] = v
		} else if v, ok := raw[strings.ToLower(arg)]; ok {
			out[arg] = v
		}
	}
	for _, o := range shape.Options {
		pick(o.Name)
	}
	for _, p := range shape.Positionals {
		pick(p.Name)
	}
	return out
}

// exec runs one command, turning a returned error or a panic into an ExecError.
func (r *Runner) exec(ctx context.Context, inv Invocation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ExecError{Command: inv.Name, Args: inv.Args, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	r.log.Debug().Str("command", inv.Name).Msg("executing")
	if runErr := inv.Command.Info().Run(ctx, inv.Args.Clone(), r); runErr != nil {
		return &ExecError{Command: inv.Name, Args: inv.Args, Err: runErr}
	}
	return nil
}

func priority(inv Invocation) int {
	if m, ok := inv.Command.(*models.GlobalModifierCommand); ok {
		return m.RunPriority
	}
	return 0
}

func memberNames(g *models.GroupCommand) string {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = models.QualifiedName(g.Name, m.Name)
	}
	return strings.Join(names, ", ")
}
