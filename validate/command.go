package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aallbrig/clause/models"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	aliasRe = regexp.MustCompile(`^[A-Za-z0-9]$`)
)

// Command returns the first rule cmd violates, or nil.
func Command(cmd models.Command) error {
	if cmd == nil {
		return reject("", "nil command", ErrInvalidName)
	}
	name := models.Name(cmd)
	if err := checkName(name, "command name"); err != nil {
		return reject(name, err.Error(), ErrInvalidName)
	}
	switch c := cmd.(type) {
	case *models.SubCommand:
		return subCommand(c, name)
	case *models.GroupCommand:
		return group(c)
	case *models.GlobalCommand:
		return global(c)
	case *models.GlobalModifierCommand:
		return global(&c.GlobalCommand)
	}
	return reject(name, fmt.Sprintf("unsupported command type %T", cmd), ErrInvalidName)
}

func checkName(name, what string) error {
	switch {
	case name == "":
		return fmt.Errorf("%s is empty", what)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%s %q starts with '-'", what, name)
	case !nameRe.MatchString(name):
		return fmt.Errorf("%s %q may contain only letters, digits, '_' and '-'", what, name)
	}
	return nil
}

func checkAlias(alias string) error {
	if !aliasRe.MatchString(alias) {
		return fmt.Errorf("%q must be a single alphanumeric character", alias)
	}
	return nil
}

// subCommand validates a sub-command; label is the name used in errors, which
// is the qualified name for group members.
func subCommand(c *models.SubCommand, label string) error {
	if c.Run == nil {
		return reject(label, "sub-commands must set Run", ErrNoRunFunc)
	}
	seenAlias := map[string]bool{}
	for _, a := range c.Aliases {
		if err := checkName(a, "alias"); err != nil {
			return reject(label, err.Error(), ErrInvalidName)
		}
		if a == c.Name || seenAlias[a] {
			return reject(label, fmt.Sprintf("alias %q repeats the command name or another alias", a), ErrDuplicateName)
		}
		seenAlias[a] = true
	}

	optNames := map[string]bool{}
	optAliases := map[string]bool{}
	for _, o := range c.Options {
		if err := checkName(o.Name, "option name"); err != nil {
			return reject(label, err.Error(), ErrInvalidName)
		}
		if optNames[o.Name] {
			return reject(label, fmt.Sprintf("option %q declared twice", o.Name), ErrDuplicateName)
		}
		optNames[o.Name] = true
		if o.ShortAlias != "" {
			if err := checkAlias(o.ShortAlias); err != nil {
				return reject(label, "option "+o.Name+": "+err.Error(), ErrInvalidAlias)
			}
			if optAliases[o.ShortAlias] {
				return reject(label, fmt.Sprintf("option alias %q declared twice", o.ShortAlias), ErrDuplicateName)
			}
			optAliases[o.ShortAlias] = true
		}
		if err := optionDefault(o); err != nil {
			return reject(label, "option "+o.Name+": "+err.Error(), ErrDefaultValue)
		}
	}

	for _, o := range c.Options {
		if o.ShortAlias != "" && optNames[o.ShortAlias] && o.ShortAlias != o.Name {
			return reject(label, fmt.Sprintf("option alias %q is also an option name", o.ShortAlias), ErrDuplicateName)
		}
	}

	posNames := map[string]bool{}
	for i, p := range c.Positionals {
		if err := checkName(p.Name, "positional name"); err != nil {
			return reject(label, err.Error(), ErrInvalidName)
		}
		if posNames[p.Name] {
			return reject(label, fmt.Sprintf("positional %q declared twice", p.Name), ErrDuplicateName)
		}
		posNames[p.Name] = true
		if p.IsVarArg() && i != len(c.Positionals)-1 {
			return reject(label, fmt.Sprintf("vararg positional %q must be the last positional", p.Name), ErrVarArgPlacement)
		}
	}
	return nil
}

func group(g *models.GroupCommand) error {
	if len(g.Members) == 0 {
		return reject(g.Name, "a group needs at least one member", ErrEmptyGroup)
	}
	seen := map[string]bool{}
	for _, m := range g.Members {
		if m == nil {
			return reject(g.Name, "nil member", ErrInvalidName)
		}
		label := models.QualifiedName(g.Name, m.Name)
		if err := checkName(m.Name, "member name"); err != nil {
			return reject(label, err.Error(), ErrInvalidName)
		}
		if m.Name == g.Name {
			return reject(label, "member has the same name as its group", ErrDuplicateName)
		}
		if seen[m.Name] {
			return reject(label, "member declared twice", ErrDuplicateName)
		}
		seen[m.Name] = true
		if err := subCommand(m, label); err != nil {
			return err
		}
	}
	return nil
}

func global(g *models.GlobalCommand) error {
	if g.Run == nil {
		return reject(g.Name, "global commands must set Run", ErrNoRunFunc)
	}
	if g.ShortAlias != "" {
		if err := checkAlias(g.ShortAlias); err != nil {
			return reject(g.Name, err.Error(), ErrInvalidAlias)
		}
	}
	if a := g.Argument; a != nil {
		if err := checkName(a.Name, "argument name"); err != nil {
			return reject(g.Name, err.Error(), ErrInvalidName)
		}
		if a.DefaultValue != nil {
			if models.IsSequence(a.DefaultValue) {
				return reject(g.Name, "argument default must be a scalar", ErrDefaultValue)
			}
			if err := elementDefault(a.Argument, a.DefaultValue); err != nil {
				return reject(g.Name, "argument "+a.Name+": "+err.Error(), ErrDefaultValue)
			}
		}
	}
	return nil
}

func optionDefault(o models.Option) error {
	if o.DefaultValue == nil {
		return nil
	}
	if models.IsSequence(o.DefaultValue) {
		if !o.IsArray {
			return fmt.Errorf("default is a sequence but the option is not an array")
		}
		for _, e := range models.Elements(o.DefaultValue) {
			if err := elementDefault(o.Argument, e); err != nil {
				return err
			}
		}
		return nil
	}
	return elementDefault(o.Argument, o.DefaultValue)
}

// elementDefault checks a scalar default against the declared type and valid values.
func elementDefault(a models.Argument, v models.Value) error {
	if !models.MatchesType(v, a.Type) {
		return fmt.Errorf("default %v is not a %s", v, a.Type)
	}
	if len(a.ValidValues) > 0 && !models.Contains(a.ValidValues, v, a.Type) {
		return fmt.Errorf("default %v is not one of the valid values", v)
	}
	return nil
}
