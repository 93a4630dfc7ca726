package models

// Argument is the part shared by every kind of declared argument.
type Argument struct {
	Name        string    `json:"name" yaml:"name"`
	Type        ValueType `json:"type" yaml:"type"`
	ValidValues []Value   `json:"valid_values,omitempty" yaml:"valid_values,omitempty"`
}

// Option is a named argument addressed as --name or -alias.
type Option struct {
	Argument     `yaml:",inline"`
	ShortAlias   string `json:"short_alias,omitempty" yaml:"short_alias,omitempty"`
	DefaultValue Value  `json:"default,omitempty" yaml:"default,omitempty"`
	IsOptional   bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	IsArray      bool   `json:"array,omitempty" yaml:"array,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Required reports whether the option must be resolved to a value.
func (o Option) Required() bool { return !o.IsOptional && o.DefaultValue == nil }

// Positional is an argument matched by its position among the non-option tokens.
type Positional struct {
	Argument         `yaml:",inline"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	IsVarArgMultiple bool   `json:"vararg_multiple,omitempty" yaml:"vararg_multiple,omitempty"`
	IsVarArgOptional bool   `json:"vararg_optional,omitempty" yaml:"vararg_optional,omitempty"`
}

// IsVarArg reports whether either vararg flag is set.
func (p Positional) IsVarArg() bool { return p.IsVarArgMultiple || p.IsVarArgOptional }

// GlobalArgument is the single optional argument of a global command.
type GlobalArgument struct {
	Argument     `yaml:",inline"`
	DefaultValue Value `json:"default,omitempty" yaml:"default,omitempty"`
	IsOptional   bool  `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Shape is the argument layout the populator and validator work against.
// Global commands expose their single argument as one positional and keep
// the original definition in Global.
type Shape struct {
	Options     []Option
	Positionals []Positional
	Global      *GlobalArgument
}

// ShapeOf returns the argument layout of cmd. Groups have no arguments of their own.
func ShapeOf(cmd Command) Shape {
	switch c := cmd.(type) {
	case *SubCommand:
		return Shape{Options: c.Options, Positionals: c.Positionals}
	case *GlobalCommand:
		return globalShape(c)
	case *GlobalModifierCommand:
		return globalShape(&c.GlobalCommand)
	}
	return Shape{}
}

func globalShape(g *GlobalCommand) Shape {
	if g.Argument == nil {
		return Shape{}
	}
	return Shape{
		Positionals: []Positional{{Argument: g.Argument.Argument}},
		Global:      g.Argument,
	}
}

// Option returns the option declared under name or, failing that, under
// short alias.
func (s Shape) Option(nameOrAlias string) (Option, bool) {
	for _, o := range s.Options {
		if o.Name == nameOrAlias {
			return o, true
		}
	}
	for _, o := range s.Options {
		if o.ShortAlias != "" && o.ShortAlias == nameOrAlias {
			return o, true
		}
	}
	return Option{}, false
}
