// Package registry stores validated commands and indexes them for lookup.
package registry

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/validate"
)

// Registry is an append-only set of commands. Sub-commands, groups and
// qualified group members share one namespace; global and modifier commands
// live in a second one, so a sub-command and a global may share a name.
//
// A Registry is built once before parsing starts and is read-only after that.
type Registry struct {
	log      zerolog.Logger
	commands []models.Command
	local    map[string]models.Command
	global   map[string]models.Command
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger registrations are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:    zerolog.Nop(),
		local:  map[string]models.Command{},
		global: map[string]models.Command{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Add validates cmd and indexes it. Nothing is indexed when an error is returned.
func (r *Registry) Add(cmd models.Command) error {
	if err := validate.Command(cmd); err != nil {
		return err
	}
	name := models.Name(cmd)

	var keys []string
	ns := r.local
	switch c := cmd.(type) {
	case *models.SubCommand:
		keys = append([]string{c.Name}, c.Aliases...)
	case *models.GroupCommand:
		keys = []string{c.Name}
		for _, m := range c.Members {
			keys = append(keys, models.QualifiedName(c.Name, m.Name))
			for _, a := range m.Aliases {
				keys = append(keys, models.QualifiedName(c.Name, a))
			}
		}
	case *models.GlobalCommand:
		ns = r.global
		keys = globalKeys(c)
	case *models.GlobalModifierCommand:
		ns = r.global
		keys = globalKeys(&c.GlobalCommand)
	}

	for _, k := range keys {
		if prev, ok := ns[k]; ok {
			return &validate.RegistrationError{
				Command: name,
				Detail:  fmt.Sprintf("%q is already registered by %s %q", k, prev.Kind(), models.Name(prev)),
				Err:     validate.ErrDuplicateName,
			}
		}
	}

	if g, ok := cmd.(*models.GroupCommand); ok {
		ns[g.Name] = g
		for _, m := range g.Members {
			ns[models.QualifiedName(g.Name, m.Name)] = m
			for _, a := range m.Aliases {
				ns[models.QualifiedName(g.Name, a)] = m
			}
		}
	} else {
		for _, k := range keys {
			ns[k] = cmd
		}
	}
	r.commands = append(r.commands, cmd)
	r.log.Debug().Str("command", name).Stringer("kind", cmd.Kind()).Strs("keys", keys).Msg("registered command")
	return nil
}

// MustAdd is Add for command sets assembled in code; it panics on error.
func (r *Registry) MustAdd(cmds ...models.Command) *Registry {
	for _, c := range cmds {
		if err := r.Add(c); err != nil {
			panic(err)
		}
	}
	return r
}

func globalKeys(g *models.GlobalCommand) []string {
	keys := []string{g.Name}
	if g.ShortAlias != "" {
		keys = append(keys, g.ShortAlias)
	}
	return keys
}

// Commands returns every command in registration order.
func (r *Registry) Commands() []models.Command {
	return append([]models.Command(nil), r.commands...)
}

// SubCommands returns the top-level sub-commands.
func (r *Registry) SubCommands() []*models.SubCommand { return collect[*models.SubCommand](r) }

// Groups returns the group commands.
func (r *Registry) Groups() []*models.GroupCommand { return collect[*models.GroupCommand](r) }

// Globals returns the global commands that are not modifiers.
func (r *Registry) Globals() []*models.GlobalCommand { return collect[*models.GlobalCommand](r) }

// Modifiers returns the global modifier commands.
func (r *Registry) Modifiers() []*models.GlobalModifierCommand {
	return collect[*models.GlobalModifierCommand](r)
}

func collect[T models.Command](r *Registry) []T {
	var out []T
	for _, c := range r.commands {
		if t, ok := c.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Lookup finds a non-global command by name, alias, or qualified member name
// ("group:member").
func (r *Registry) Lookup(name string) (models.Command, bool) {
	c, ok := r.local[name]
	return c, ok
}

// LookupGlobal finds a global or modifier command by name or short alias.
func (r *Registry) LookupGlobal(nameOrAlias string) (models.Command, bool) {
	c, ok := r.global[nameOrAlias]
	return c, ok
}

// Member finds a member of group by name or alias.
func (r *Registry) Member(group, name string) (*models.SubCommand, bool) {
	g, ok := r.local[group].(*models.GroupCommand)
	if !ok {
		return nil, false
	}
	m, ok := r.local[models.QualifiedName(g.Name, name)].(*models.SubCommand)
	return m, ok
}
