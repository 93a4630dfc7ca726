// Package manifest builds commands from declarative YAML definitions.
package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/aallbrig/clause/models"
)

// File is the YAML layout of a manifest.
type File struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Default     string          `yaml:"default"`
	SubCommands []SubCommandDef `yaml:"subcommands"`
	Groups      []GroupDef      `yaml:"groups"`
	Globals     []GlobalDef     `yaml:"globals"`
	Modifiers   []GlobalDef     `yaml:"modifiers"`
}

// SubCommandDef declares a sub-command. Exec, when set, is the argv to run;
// otherwise the command prints its arguments.
type SubCommandDef struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Aliases     []string        `yaml:"aliases"`
	Topic       string          `yaml:"topic"`
	Examples    []string        `yaml:"examples"`
	Exec        []string        `yaml:"exec"`
	Options     []OptionDef     `yaml:"options"`
	Positionals []PositionalDef `yaml:"positionals"`
}

// GroupDef declares a group and its members.
type GroupDef struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Members     []SubCommandDef `yaml:"members"`
}

// GlobalDef declares a global command, or a modifier when Priority is used
// under the modifiers key.
type GlobalDef struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Alias       string       `yaml:"alias"`
	Exec        []string     `yaml:"exec"`
	Argument    *ArgumentDef `yaml:"argument"`
	Priority    int          `yaml:"priority"`
}

// OptionDef declares an option.
type OptionDef struct {
	Name        string `yaml:"name"`
	Alias       string `yaml:"alias"`
	Type        string `yaml:"type"`
	Default     any    `yaml:"default"`
	Optional    bool   `yaml:"optional"`
	Array       bool   `yaml:"array"`
	Valid       []any  `yaml:"valid"`
	Description string `yaml:"description"`
}

// PositionalDef declares a positional.
type PositionalDef struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Valid       []any  `yaml:"valid"`
	Description string `yaml:"description"`
	Multiple    bool   `yaml:"multiple"`
	Optional    bool   `yaml:"optional"`
}

// ArgumentDef declares the argument of a global command.
type ArgumentDef struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Default  any    `yaml:"default"`
	Optional bool   `yaml:"optional"`
	Valid    []any  `yaml:"valid"`
}

// Manifest is a parsed manifest ready for registration.
type Manifest struct {
	Name        string
	Description string
	Commands    []models.Command
	// Default is the command to run when the tokens name none, or nil.
	Default models.Command
}

// Options controls how manifest commands behave when run.
type Options struct {
	// Out receives echoed arguments and the stdout of exec commands.
	Out io.Writer
	// Err receives the stderr of exec commands.
	Err io.Writer
	// Dir is where exec commands run and relative binaries are resolved.
	Dir string
}

// Load reads and parses the manifest at path. Exec commands run in the
// manifest's directory.
func Load(path string, opts Options) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if opts.Dir == "" {
		opts.Dir = filepath.Dir(path)
	}
	m, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse builds commands from manifest YAML. The commands are not validated;
// register them to find definition errors.
func Parse(data []byte, opts Options) (*Manifest, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	b := builder{opts: opts}

	m := &Manifest{Name: f.Name, Description: f.Description}
	for _, d := range f.SubCommands {
		sub, err := b.subCommand(d, d.Name)
		if err != nil {
			return nil, err
		}
		m.Commands = append(m.Commands, sub)
	}
	for _, d := range f.Groups {
		g := &models.GroupCommand{Base: models.Base{Name: d.Name, Description: d.Description}}
		for _, md := range d.Members {
			sub, err := b.subCommand(md, models.QualifiedName(d.Name, md.Name))
			if err != nil {
				return nil, err
			}
			g.Members = append(g.Members, sub)
		}
		m.Commands = append(m.Commands, g)
	}
	for _, d := range f.Globals {
		g, err := b.global(d)
		if err != nil {
			return nil, err
		}
		m.Commands = append(m.Commands, g)
	}
	for _, d := range f.Modifiers {
		g, err := b.global(d)
		if err != nil {
			return nil, err
		}
		m.Commands = append(m.Commands, &models.GlobalModifierCommand{GlobalCommand: *g, RunPriority: d.Priority})
	}

	if f.Default != "" {
		for _, c := range m.Commands {
			if models.Name(c) == f.Default && (c.Kind() == models.KindSub || c.Kind() == models.KindGlobal) {
				m.Default = c
				break
			}
		}
		if m.Default == nil {
			return nil, fmt.Errorf("default command %q is not a declared sub-command or global", f.Default)
		}
	}
	return m, nil
}

type builder struct {
	opts Options
}

func (b builder) run(label string, argv []string) models.RunFunc {
	if len(argv) > 0 {
		return execRun(label, argv, b.opts)
	}
	return echoRun(label, b.opts.Out)
}

func (b builder) subCommand(d SubCommandDef, label string) (*models.SubCommand, error) {
	sub := &models.SubCommand{
		Base:          models.Base{Name: d.Name, Description: d.Description, Run: b.run(label, d.Exec)},
		Aliases:       d.Aliases,
		Topic:         d.Topic,
		UsageExamples: d.Examples,
	}
	for _, o := range d.Options {
		t, err := models.ParseValueType(o.Type)
		if err != nil {
			return nil, fmt.Errorf("command %q option %q: %w", label, o.Name, err)
		}
		sub.Options = append(sub.Options, models.Option{
			Argument:     models.Argument{Name: o.Name, Type: t, ValidValues: o.Valid},
			ShortAlias:   o.Alias,
			DefaultValue: o.Default,
			IsOptional:   o.Optional,
			IsArray:      o.Array,
			Description:  o.Description,
		})
	}
	for _, p := range d.Positionals {
		t, err := models.ParseValueType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("command %q positional %q: %w", label, p.Name, err)
		}
		sub.Positionals = append(sub.Positionals, models.Positional{
			Argument:         models.Argument{Name: p.Name, Type: t, ValidValues: p.Valid},
			Description:      p.Description,
			IsVarArgMultiple: p.Multiple,
			IsVarArgOptional: p.Optional,
		})
	}
	return sub, nil
}

func (b builder) global(d GlobalDef) (*models.GlobalCommand, error) {
	g := &models.GlobalCommand{
		Base:       models.Base{Name: d.Name, Description: d.Description, Run: b.run(d.Name, d.Exec)},
		ShortAlias: d.Alias,
	}
	if a := d.Argument; a != nil {
		t, err := models.ParseValueType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("command %q argument %q: %w", d.Name, a.Name, err)
		}
		g.Argument = &models.GlobalArgument{
			Argument:     models.Argument{Name: a.Name, Type: t, ValidValues: a.Valid},
			DefaultValue: a.Default,
			IsOptional:   a.Optional,
		}
	}
	return g, nil
}
