package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/render"
)

// HelpPaneModel shows the declaration of the selected command: usage,
// options, positionals and examples. The content scrolls when the pane has
// focus.
type HelpPaneModel struct {
	item         Item
	hasItem      bool
	cfg          *config.Config
	width        int
	height       int
	scrollOffset int
	focused      bool
	lines        []string
}

func NewHelpPaneModel(cfg *config.Config) *HelpPaneModel {
	return &HelpPaneModel{cfg: cfg}
}

// SetItem replaces the content with item's help.
func (h *HelpPaneModel) SetItem(item Item) {
	if h.hasItem && h.item == item {
		return
	}
	h.item = item
	h.hasItem = true
	h.scrollOffset = 0
	h.lines = helpLines(item)
}

// Lines returns the unstyled content lines.
func (h *HelpPaneModel) Lines() []string { return h.lines }

func (h *HelpPaneModel) SetSize(w, hi int) {
	h.width = w
	h.height = hi
}

func (h *HelpPaneModel) SetFocused(f bool) { h.focused = f }

func (h *HelpPaneModel) ScrollUp(n int) {
	h.scrollOffset -= n
	if h.scrollOffset < 0 {
		h.scrollOffset = 0
	}
}

func (h *HelpPaneModel) ScrollDown(n int) {
	h.scrollOffset += n
	if m := h.maxOffset(); h.scrollOffset > m {
		h.scrollOffset = m
	}
}

func (h *HelpPaneModel) PageUp()   { h.ScrollUp(h.viewportLines()) }
func (h *HelpPaneModel) PageDown() { h.ScrollDown(h.viewportLines()) }
func (h *HelpPaneModel) Top()      { h.scrollOffset = 0 }
func (h *HelpPaneModel) Bottom()   { h.scrollOffset = h.maxOffset() }

func (h *HelpPaneModel) maxOffset() int {
	return max(0, len(h.lines)-h.viewportLines())
}

func (h *HelpPaneModel) viewportLines() int {
	return max(1, h.height-3)
}

func (h *HelpPaneModel) View(w, hi int) string {
	h.width = w
	h.height = hi

	vp := h.viewportLines()
	end := min(h.scrollOffset+vp, len(h.lines))
	start := min(h.scrollOffset, end)
	padded := make([]string, vp)
	copy(padded, h.lines[start:end])

	title := "Help"
	if h.hasItem {
		title += ": " + h.item.CallName()
	}
	if len(h.lines) > vp {
		pct := min(100, (h.scrollOffset+vp)*100/len(h.lines))
		title += fmt.Sprintf(" [%d%%]", pct)
	}

	borderColor := lipgloss.Color("#555555")
	titleStyle := lipgloss.NewStyle().Bold(true)
	if h.focused {
		borderColor = lipgloss.Color("#5EA4F5")
		titleStyle = titleStyle.Foreground(lipgloss.Color("#5EA4F5"))
	}

	innerW := w - 4
	rendered := make([]string, len(padded))
	for i, line := range padded {
		rendered[i] = hardWrap(line, innerW)
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(w - 2).
		Height(hi - 2)
	return boxStyle.Render(titleStyle.Render(title) + "\n" + strings.Join(rendered, "\n"))
}

func hardWrap(s string, maxW int) string {
	if maxW <= 0 || len(s) <= maxW {
		return s
	}
	return s[:maxW]
}

func helpLines(item Item) []string {
	var lines []string
	add := func(format string, a ...any) { lines = append(lines, fmt.Sprintf(format, a...)) }

	add("usage: %s", render.Usage(item.Command, item.CallName()))
	if desc := item.Command.Info().Description; desc != "" {
		add("")
		lines = append(lines, strings.Split(desc, "\n")...)
	}

	switch c := item.Command.(type) {
	case *models.SubCommand:
		if len(c.Aliases) > 0 {
			add("")
			add("aliases: %s", strings.Join(c.Aliases, ", "))
		}
		if len(c.Options) > 0 {
			add("")
			add("options:")
			for _, o := range c.Options {
				name := "--" + o.Name
				if o.ShortAlias != "" {
					name += ", -" + o.ShortAlias
				}
				add("  %-24s %s", name, describe(o.Argument, o.DefaultValue, o.Required(), o.IsArray))
				if o.Description != "" {
					add("  %-24s %s", "", o.Description)
				}
			}
		}
		if len(c.Positionals) > 0 {
			add("")
			add("positionals:")
			for _, p := range c.Positionals {
				add("  %-24s %s", render.Positional(p), describe(p.Argument, nil, !p.IsVarArgOptional, p.IsVarArgMultiple))
				if p.Description != "" {
					add("  %-24s %s", "", p.Description)
				}
			}
		}
		if len(c.UsageExamples) > 0 {
			add("")
			add("examples:")
			for _, ex := range c.UsageExamples {
				add("  %s", ex)
			}
		}
	case *models.GroupCommand:
		add("")
		add("members:")
		for _, m := range c.Members {
			add("  %-24s %s", models.QualifiedName(c.Name, m.Name), m.Description)
		}
	case *models.GlobalCommand, *models.GlobalModifierCommand:
		g, _ := models.Global(c)
		if g.ShortAlias != "" {
			add("")
			add("alias: -%s", g.ShortAlias)
		}
		if a := g.Argument; a != nil {
			add("")
			add("argument:")
			add("  %-24s %s", a.Name, describe(a.Argument, a.DefaultValue, !a.IsOptional && a.DefaultValue == nil, false))
		}
		if m, ok := c.(*models.GlobalModifierCommand); ok {
			add("")
			add("runs before the primary command, priority %d", m.RunPriority)
		}
	}
	return lines
}

func describe(a models.Argument, def models.Value, required, multiple bool) string {
	parts := []string{a.Type.String()}
	if multiple {
		parts[0] = "list of " + parts[0]
	}
	if required {
		parts = append(parts, "required")
	}
	if def != nil {
		parts = append(parts, "default "+models.Format(def))
	}
	if len(a.ValidValues) > 0 {
		valid := make([]string, len(a.ValidValues))
		for i, v := range a.ValidValues {
			valid[i] = models.Format(v)
		}
		parts = append(parts, "one of "+strings.Join(valid, "|"))
	}
	return strings.Join(parts, ", ")
}
