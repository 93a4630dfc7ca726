// Package render lists registered commands as a styled tree, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.yaml.in/yaml/v3"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/models"
)

// Options controls listing behavior.
type Options struct {
	Filter       string
	Exclude      string
	CommandsOnly bool
	NoColor      bool
	Output       string // text, json, yaml
	Colors       config.ColorScheme
}

// DefaultOptions returns rendering options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Output: "text",
		Colors: config.DefaultColors(),
	}
}

// Renderer renders a command listing.
type Renderer struct {
	opts   Options
	styles styles
}

type styles struct {
	base     lipgloss.Style
	subcmd   lipgloss.Style
	group    lipgloss.Style
	global   lipgloss.Style
	modifier lipgloss.Style
	option   lipgloss.Style
	pos      lipgloss.Style
	value    lipgloss.Style
	dim      lipgloss.Style
}

// New creates a Renderer with the given options.
func New(opts Options) *Renderer {
	r := &Renderer{opts: opts}
	if opts.NoColor {
		plain := lipgloss.NewStyle()
		r.styles = styles{base: plain, subcmd: plain, group: plain, global: plain, modifier: plain,
			option: plain, pos: plain, value: plain, dim: plain}
	} else {
		r.styles = styles{
			base:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(opts.Colors.Base)),
			subcmd:   lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Colors.Subcmd)),
			group:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(opts.Colors.Group)),
			global:   lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Colors.Global)),
			modifier: lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Colors.Modifier)),
			option:   lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Colors.Option)),
			pos:      lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Colors.Pos)),
			value:    lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Colors.Value)),
			dim:      lipgloss.NewStyle().Faint(true),
		}
	}
	return r
}

// Entry is one command in a JSON or YAML listing.
type Entry struct {
	Kind    string         `json:"kind" yaml:"kind"`
	Command models.Command `json:"command" yaml:"command"`
}

// Listing is the JSON and YAML document.
type Listing struct {
	Name     string  `json:"name" yaml:"name"`
	Commands []Entry `json:"commands" yaml:"commands"`
}

// Render writes the listing of cmds under title to w.
func (r *Renderer) Render(w io.Writer, title string, cmds []models.Command) error {
	cmds = r.filter(cmds)
	switch r.opts.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.listing(title, cmds))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.listing(title, cmds)); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		r.renderTree(w, title, cmds)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", r.opts.Output)
	}
}

func (r *Renderer) listing(title string, cmds []models.Command) Listing {
	l := Listing{Name: title, Commands: make([]Entry, 0, len(cmds))}
	for _, c := range cmds {
		l.Commands = append(l.Commands, Entry{Kind: c.Kind().String(), Command: c})
	}
	return l
}

// filter applies Filter and Exclude to command names. A group is kept when
// any member matches.
func (r *Renderer) filter(cmds []models.Command) []models.Command {
	var out []models.Command
	for _, c := range cmds {
		name := models.Name(c)
		if r.opts.Exclude != "" && strings.Contains(name, r.opts.Exclude) {
			continue
		}
		if r.opts.Filter != "" && !strings.Contains(name, r.opts.Filter) && !r.hasMatchingMember(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Renderer) hasMatchingMember(c models.Command) bool {
	g, ok := c.(*models.GroupCommand)
	if !ok {
		return false
	}
	for _, m := range g.Members {
		if strings.Contains(m.Name, r.opts.Filter) {
			return true
		}
	}
	return false
}

const (
	iconBranch  = "▼ "
	iconLeaf    = "• "
	connLast    = "└── "
	connMid     = "├── "
	connLastPad = "    "
	connMidPad  = "│   "
)

func (r *Renderer) renderTree(w io.Writer, title string, cmds []models.Command) {
	icon := iconLeaf
	if len(cmds) > 0 {
		icon = iconBranch
	}
	fmt.Fprintln(w, icon+r.styles.base.Render(title))
	for i, c := range cmds {
		last := i == len(cmds)-1
		conn, pad := connMid, connMidPad
		if last {
			conn, pad = connLast, connLastPad
		}
		switch cmd := c.(type) {
		case *models.GroupCommand:
			r.line(w, conn+iconBranch, r.styles.group.Render(cmd.Name), nil, cmd.Description)
			for j, m := range cmd.Members {
				mconn := connMid
				if j == len(cmd.Members)-1 {
					mconn = connLast
				}
				r.line(w, pad+mconn+iconLeaf, r.styles.subcmd.Render(m.Name), r.subMeta(m), m.Description)
			}
		case *models.SubCommand:
			name := cmd.Name
			if len(cmd.Aliases) > 0 {
				name += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			r.line(w, conn+iconLeaf, r.styles.subcmd.Render(name), r.subMeta(cmd), cmd.Description)
		case *models.GlobalCommand:
			r.line(w, conn+iconLeaf, r.styles.global.Render(globalName(cmd)), r.globalMeta(cmd), cmd.Description)
		case *models.GlobalModifierCommand:
			meta := append(r.globalMeta(&cmd.GlobalCommand), r.styles.dim.Render("priority "+strconv.Itoa(cmd.RunPriority)))
			r.line(w, conn+iconLeaf, r.styles.modifier.Render(globalName(&cmd.GlobalCommand)), meta, cmd.Description)
		}
	}
}

func (r *Renderer) line(w io.Writer, prefix, name string, meta []string, desc string) {
	line := prefix + name
	if len(meta) > 0 {
		line += " " + strings.Join(meta, " ")
	}
	if desc != "" {
		line += "  " + r.styles.dim.Render(desc)
	}
	fmt.Fprintln(w, line)
}

func globalName(g *models.GlobalCommand) string {
	name := "--" + g.Name
	if g.ShortAlias != "" {
		name += ", -" + g.ShortAlias
	}
	return name
}

func (r *Renderer) subMeta(c *models.SubCommand) []string {
	if r.opts.CommandsOnly {
		return nil
	}
	var meta []string
	for _, p := range c.Positionals {
		meta = append(meta, r.styles.pos.Render(Positional(p)))
	}
	if len(c.Options) > 0 && len(c.Options) <= 5 {
		parts := make([]string, len(c.Options))
		for i, o := range c.Options {
			parts[i] = r.option(o)
		}
		meta = append(meta, "["+strings.Join(parts, ",")+"]")
	} else if len(c.Options) > 5 {
		meta = append(meta, r.styles.dim.Render(fmt.Sprintf("[%d options]", len(c.Options))))
	}
	return meta
}

func (r *Renderer) option(o models.Option) string {
	s := r.styles.option.Render("--" + o.Name)
	if o.Type != models.TypeBool {
		s += "=" + r.styles.value.Render("<"+o.Type.String()+">")
	}
	if o.IsArray {
		s += r.styles.dim.Render("...")
	}
	return s
}

func (r *Renderer) globalMeta(g *models.GlobalCommand) []string {
	if r.opts.CommandsOnly || g.Argument == nil {
		return nil
	}
	arg := "<" + g.Argument.Name + ">"
	if g.Argument.IsOptional || g.Argument.DefaultValue != nil || g.Argument.Type == models.TypeBool {
		arg = "[" + g.Argument.Name + "]"
	}
	return []string{r.styles.pos.Render(arg)}
}

// Positional renders a positional the way usage lines show it: <name> when
// required, [name] when optional, with ... for vararg-multiple.
func Positional(p models.Positional) string {
	name := p.Name
	if p.IsVarArgMultiple {
		name += "..."
	}
	if p.IsVarArgOptional {
		return "[" + name + "]"
	}
	return "<" + name + ">"
}

// RenderToString renders the listing to a string.
func RenderToString(title string, cmds []models.Command, opts Options) (string, error) {
	var sb strings.Builder
	r := New(opts)
	if err := r.Render(&sb, title, cmds); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Stats counts commands by kind.
type Stats struct {
	SubCommands int
	Groups      int
	Members     int
	Globals     int
	Modifiers   int
	Options     int
}

// Collect gathers stats from a command set.
func Collect(cmds []models.Command) Stats {
	var s Stats
	for _, c := range cmds {
		switch cmd := c.(type) {
		case *models.SubCommand:
			s.SubCommands++
			s.Options += len(cmd.Options)
		case *models.GroupCommand:
			s.Groups++
			s.Members += len(cmd.Members)
			for _, m := range cmd.Members {
				s.Options += len(m.Options)
			}
		case *models.GlobalCommand:
			s.Globals++
		case *models.GlobalModifierCommand:
			s.Modifiers++
		}
	}
	return s
}

// Usage returns a plain invocation skeleton for cmd called as name, e.g.
// "deploy --region=<string> [--force] <target>". Required options come
// first, then optional ones in brackets, then positionals.
func Usage(cmd models.Command, name string) string {
	parts := []string{name}
	switch c := cmd.(type) {
	case *models.SubCommand:
		var optional []string
		for _, o := range c.Options {
			s := "--" + o.Name
			if o.Type != models.TypeBool {
				s += "=<" + o.Type.String() + ">"
			}
			if o.Required() {
				parts = append(parts, s)
			} else {
				optional = append(optional, "["+s+"]")
			}
		}
		parts = append(parts, optional...)
		for _, p := range c.Positionals {
			parts = append(parts, Positional(p))
		}
	case *models.GroupCommand:
		names := make([]string, len(c.Members))
		for i, m := range c.Members {
			names[i] = m.Name
		}
		parts = append(parts, "<"+strings.Join(names, "|")+">")
	case *models.GlobalCommand, *models.GlobalModifierCommand:
		g, _ := models.Global(c)
		parts[0] = "--" + name
		if a := g.Argument; a != nil && a.Type != models.TypeBool {
			if a.IsOptional || a.DefaultValue != nil {
				parts = append(parts, "["+a.Name+"]")
			} else {
				parts = append(parts, "<"+a.Name+">")
			}
		}
	}
	return strings.Join(parts, " ")
}
