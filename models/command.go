package models

import "context"

// Kind discriminates the four command shapes.
type Kind int

const (
	KindSub Kind = iota
	KindGroup
	KindGlobal
	KindGlobalModifier
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindSub:
		return "subcommand"
	case KindGroup:
		return "group"
	case KindGlobal:
		return "global"
	case KindGlobalModifier:
		return "modifier"
	}
	return "unknown"
}

// IsGlobal reports whether commands of this kind live in the global namespace.
func (k Kind) IsGlobal() bool { return k == KindGlobal || k == KindGlobalModifier }

// Env is what a running command can see of the engine: the registered
// commands and the per-command configuration map.
type Env interface {
	Lookup(name string) (Command, bool)
	Commands() []Command
	CommandConfig(name string) Args
}

// RunFunc executes a command with its validated arguments.
type RunFunc func(ctx context.Context, args Args, env Env) error

// Command is a closed sum over *SubCommand, *GroupCommand, *GlobalCommand and
// *GlobalModifierCommand. Switch on the concrete type to handle every shape.
type Command interface {
	Kind() Kind
	Info() *Base
	sealed()
}

// Base carries the fields every command has.
type Base struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Run         RunFunc `json:"-" yaml:"-"`
}

// Info returns b itself so embedding types satisfy Command.
func (b *Base) Info() *Base { return b }

func (b *Base) sealed() {}

// SubCommand is an ordinary command with options and positionals.
type SubCommand struct {
	Base          `yaml:",inline"`
	Aliases       []string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Options       []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	Positionals   []Positional `json:"positionals,omitempty" yaml:"positionals,omitempty"`
	Topic         string       `json:"topic,omitempty" yaml:"topic,omitempty"`
	UsageExamples []string     `json:"usage_examples,omitempty" yaml:"usage_examples,omitempty"`
}

// Kind implements Command.
func (*SubCommand) Kind() Kind { return KindSub }

// Option returns the option declared under name or short alias.
func (c *SubCommand) Option(nameOrAlias string) (Option, bool) {
	return ShapeOf(c).Option(nameOrAlias)
}

// GroupCommand bundles sub-commands under a shared prefix.
type GroupCommand struct {
	Base    `yaml:",inline"`
	Members []*SubCommand `json:"members" yaml:"members"`
}

// Kind implements Command.
func (*GroupCommand) Kind() Kind { return KindGroup }

// Member returns the member sub-command called name.
func (g *GroupCommand) Member(name string) (*SubCommand, bool) {
	for _, m := range g.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// QualifiedName joins a group and member name into the single-token form.
func QualifiedName(group, member string) string { return group + ":" + member }

// GlobalCommand is a flag-like command invoked as --name or -alias.
type GlobalCommand struct {
	Base       `yaml:",inline"`
	ShortAlias string          `json:"short_alias,omitempty" yaml:"short_alias,omitempty"`
	Argument   *GlobalArgument `json:"argument,omitempty" yaml:"argument,omitempty"`
}

// Kind implements Command.
func (*GlobalCommand) Kind() Kind { return KindGlobal }

// GlobalModifierCommand is a global command that runs before the primary
// command. Higher RunPriority runs earlier.
type GlobalModifierCommand struct {
	GlobalCommand `yaml:",inline"`
	RunPriority   int `json:"run_priority" yaml:"run_priority"`
}

// Kind implements Command.
func (*GlobalModifierCommand) Kind() Kind { return KindGlobalModifier }

// Name is a convenience for cmd.Info().Name that tolerates nil.
func Name(cmd Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.Info().Name
}

// Global returns the GlobalCommand part of a global or modifier command.
func Global(cmd Command) (*GlobalCommand, bool) {
	switch c := cmd.(type) {
	case *GlobalCommand:
		return c, true
	case *GlobalModifierCommand:
		return &c.GlobalCommand, true
	}
	return nil, false
}
