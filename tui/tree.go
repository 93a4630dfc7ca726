package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/models"
)

// Item is one selectable row: a command, or a member of a group.
type Item struct {
	Command models.Command
	// Group is set for group members.
	Group *models.GroupCommand
}

// CallName is the name the item is invoked by: the qualified form for
// group members, the plain name otherwise.
func (it Item) CallName() string {
	if it.Group != nil {
		return models.QualifiedName(it.Group.Name, models.Name(it.Command))
	}
	return models.Name(it.Command)
}

// Tokens returns the tokens that invoke the item with no arguments.
func (it Item) Tokens() []string {
	if _, ok := models.Global(it.Command); ok {
		return []string{"--" + it.CallName()}
	}
	return []string{it.CallName()}
}

type treeItem struct {
	Item
	depth    int
	expanded bool
}

// TreeModel is the scrollable, filterable command list. Groups expand to
// show their members.
type TreeModel struct {
	cmds     []models.Command
	items    []treeItem
	cursor   int
	offset   int
	filter   string
	expanded map[string]bool
	focused  bool
	cfg      *config.Config
	width    int
	height   int
}

func NewTreeModel(cmds []models.Command, cfg *config.Config) *TreeModel {
	t := &TreeModel{
		cmds:     cmds,
		expanded: make(map[string]bool),
		cfg:      cfg,
		focused:  true,
	}
	t.rebuild()
	return t
}

func (t *TreeModel) SetSize(w, h int) { t.width = w; t.height = h }
func (t *TreeModel) SetFilter(f string) {
	t.filter = f
	t.cursor = 0
	t.offset = 0
	t.rebuild()
}
func (t *TreeModel) SetFocused(f bool) { t.focused = f }

// Len returns the number of visible rows.
func (t *TreeModel) Len() int { return len(t.items) }

// Selected returns the item under the cursor.
func (t *TreeModel) Selected() (Item, bool) {
	if t.cursor < len(t.items) {
		return t.items[t.cursor].Item, true
	}
	return Item{}, false
}

func (t *TreeModel) Up() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.scrollIntoView()
}

func (t *TreeModel) Down() {
	if t.cursor < len(t.items)-1 {
		t.cursor++
	}
	t.scrollIntoView()
}

// Expand opens the selected group.
func (t *TreeModel) Expand() {
	if t.cursor >= len(t.items) {
		return
	}
	item := t.items[t.cursor]
	if g, ok := item.Command.(*models.GroupCommand); ok && !item.expanded {
		t.expanded[g.Name] = true
		t.rebuild()
	}
}

// Collapse closes the selected group, or the group of the selected member.
func (t *TreeModel) Collapse() {
	if t.cursor >= len(t.items) {
		return
	}
	item := t.items[t.cursor]
	name := ""
	switch {
	case item.Group != nil:
		name = item.Group.Name
	case item.expanded:
		name = models.Name(item.Command)
	default:
		return
	}
	t.expanded[name] = false
	t.rebuild()
	for i, it := range t.items {
		if it.Group == nil && models.Name(it.Command) == name {
			t.cursor = i
			break
		}
	}
	t.scrollIntoView()
}

func (t *TreeModel) ToggleExpand() {
	if t.cursor < len(t.items) && t.items[t.cursor].expanded {
		t.Collapse()
		return
	}
	t.Expand()
}

func (t *TreeModel) ViewSized(w, h int) string {
	t.width = w
	t.height = h
	if t.cursor >= len(t.items) && len(t.items) > 0 {
		t.cursor = len(t.items) - 1
	}

	borderColor := lipgloss.Color("#555555")
	if t.focused {
		borderColor = lipgloss.Color("#5EA4F5")
	}

	innerW := w - 4
	if innerW < 1 {
		innerW = 1
	}
	innerH := h - 2
	if innerH < 1 {
		innerH = 1
	}

	var lines []string
	end := t.offset + innerH
	if end > len(t.items) {
		end = len(t.items)
	}
	for i := t.offset; i < end; i++ {
		lines = append(lines, t.renderItem(t.items[i], i == t.cursor, innerW))
	}
	if len(t.items) == 0 {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render("no matching commands"))
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(w - 2).
		Height(h - 2)
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (t *TreeModel) renderItem(item treeItem, selected bool, maxW int) string {
	indent := strings.Repeat("  ", item.depth)
	icon := "• "
	if _, ok := item.Command.(*models.GroupCommand); ok {
		icon = "▶ "
		if item.expanded {
			icon = "▼ "
		}
	}

	label := models.Name(item.Command)
	if _, ok := models.Global(item.Command); ok {
		label = "--" + label
	}
	kind := item.Command.Kind().String()
	if item.Group != nil {
		kind = "member"
	}
	text := indent + icon + label
	if len(text)+len(kind)+2 <= maxW {
		text += "  " + kind
	} else if len(text) > maxW {
		text = text[:maxW]
	}

	if selected {
		style := lipgloss.NewStyle().Bold(true)
		if !t.cfg.NoColor {
			style = style.Foreground(lipgloss.Color(t.cfg.Colors.Selected))
		}
		return style.Render(text)
	}
	if t.cfg.NoColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.kindColor(item.Command.Kind()))).Render(text)
}

func (t *TreeModel) kindColor(k models.Kind) string {
	switch k {
	case models.KindGroup:
		return t.cfg.Colors.Group
	case models.KindGlobal:
		return t.cfg.Colors.Global
	case models.KindGlobalModifier:
		return t.cfg.Colors.Modifier
	default:
		return t.cfg.Colors.Subcmd
	}
}

func (t *TreeModel) rebuild() {
	t.items = nil
	for _, c := range t.cmds {
		g, isGroup := c.(*models.GroupCommand)
		if !isGroup {
			if matchesFilter(models.Name(c), t.filter) {
				t.items = append(t.items, treeItem{Item: Item{Command: c}})
			}
			continue
		}
		var members []treeItem
		for _, m := range g.Members {
			if matchesFilter(m.Name, t.filter) || matchesFilter(models.QualifiedName(g.Name, m.Name), t.filter) {
				members = append(members, treeItem{Item: Item{Command: m, Group: g}, depth: 1})
			}
		}
		// A filter that matches members opens their group.
		expanded := t.expanded[g.Name] || (t.filter != "" && len(members) > 0)
		if !matchesFilter(g.Name, t.filter) && len(members) == 0 {
			continue
		}
		t.items = append(t.items, treeItem{Item: Item{Command: g}, expanded: expanded})
		if expanded {
			t.items = append(t.items, members...)
		}
	}
	if t.cursor >= len(t.items) {
		t.cursor = max(0, len(t.items)-1)
	}
}

func (t *TreeModel) scrollIntoView() {
	innerH := t.height - 2
	if innerH < 1 {
		innerH = 1
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+innerH {
		t.offset = t.cursor - innerH + 1
	}
}

func matchesFilter(name, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}
