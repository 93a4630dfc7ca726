// Package tui implements the interactive Bubble Tea command explorer.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/models"
)

// NavScheme is the keyboard navigation scheme.
type NavScheme int

const (
	SchemeArrows NavScheme = iota
	SchemeVim
	SchemeWASD
)

type pane int

const (
	paneTree pane = iota
	paneHelp
	paneCount
)

// executeModal is the enter dialog for running or copying the selection.
type executeModal struct {
	active bool
	item   Item
}

// Model is the root Bubble Tea model.
type Model struct {
	title       string
	cfg         *config.Config
	scheme      NavScheme
	tree        *TreeModel
	preview     *PreviewModel
	helpPane    *HelpPaneModel
	filter      textinput.Model
	filtering   bool
	focusedPane pane
	width       int
	height      int
	statusMsg   string
	quitting    bool
	modal       executeModal
	// chosen holds the tokens to run after the program exits.
	chosen []string
	// copyFn writes to the system clipboard; replaced in tests.
	copyFn func(string) error
}

// NewModel returns an explorer over cmds.
func NewModel(title string, cmds []models.Command, cfg *config.Config) *Model {
	filter := textinput.New()
	filter.Placeholder = "filter…"
	filter.CharLimit = 64

	m := &Model{
		title:    title,
		cfg:      cfg,
		tree:     NewTreeModel(cmds, cfg),
		preview:  NewPreviewModel(cfg),
		helpPane: NewHelpPaneModel(cfg),
		filter:   filter,
		copyFn:   clipboard.WriteAll,
	}
	m.syncSelected()
	return m
}

// SetClipboard replaces the clipboard writer.
func (m *Model) SetClipboard(fn func(string) error) { m.copyFn = fn }

// Chosen returns the tokens picked with the run action, or nil.
func (m *Model) Chosen() []string { return m.chosen }

// Selected returns the item under the cursor.
func (m *Model) Selected() (Item, bool) { return m.tree.Selected() }

// HelpLines returns the help pane's content for the selection.
func (m *Model) HelpLines() []string { return m.helpPane.Lines() }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil

	case tea.KeyMsg:
		if m.modal.active {
			return m.updateModal(msg)
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+c":
		m.modal.active = false
		m.statusMsg = "cancelled"
	case "enter", "r", "R":
		m.chosen = m.modal.item.Tokens()
		m.modal.active = false
		m.quitting = true
		return m, tea.Quit
	case "c", "C":
		skeleton := m.preview.Skeleton()
		if err := m.copyFn(skeleton); err != nil {
			m.statusMsg = "copy failed: " + err.Error()
		} else {
			m.statusMsg = "copied: " + skeleton
		}
		m.modal.active = false
	}
	return m, nil
}

func (m *Model) renderModal() string {
	modalW := max(30, min(m.width-8, 72))

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5EA4F5"))
	cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.Colors.Base)).Bold(true)
	hintStyle := lipgloss.NewStyle().Faint(true)

	inner := titleStyle.Render("Run Command") + "\n\n" +
		cmdStyle.Render(strings.Join(m.modal.item.Tokens(), " ")) + "\n" +
		hintStyle.Render(m.preview.Skeleton()) + "\n\n" +
		hintStyle.Render("[Enter/R] Run  [C] Copy usage  [Esc] Cancel")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5EA4F5")).
		Padding(1, 2).
		Width(modalW - 2).
		Render(inner)
	return lipgloss.Place(max(m.width, lipgloss.Width(box)), max(m.height, lipgloss.Height(box)),
		lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		m.setFocus((m.focusedPane + 1) % paneCount)
		m.statusMsg = "focus: " + paneName(m.focusedPane)
		return m, nil

	case "ctrl+s":
		m.scheme = (m.scheme + 1) % 3
		m.statusMsg = "nav: " + schemeName(m.scheme)
		return m, nil

	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case "enter":
		if item, ok := m.tree.Selected(); ok {
			if _, isGroup := item.Command.(*models.GroupCommand); isGroup {
				m.tree.ToggleExpand()
				m.syncSelected()
				return m, nil
			}
			m.modal = executeModal{active: true, item: item}
		}
		return m, nil
	}

	if m.focusedPane == paneHelp {
		return m.updateHelpPaneKeys(key)
	}

	up, down, left, right := "up", "down", "left", "right"
	switch m.scheme {
	case SchemeVim:
		up, down, left, right = "k", "j", "h", "l"
	case SchemeWASD:
		up, down, left, right = "w", "s", "a", "d"
	}
	switch key {
	case up:
		m.tree.Up()
	case down:
		m.tree.Down()
	case left:
		m.tree.Collapse()
	case right:
		m.tree.Expand()
	case " ":
		m.tree.ToggleExpand()
	}
	m.syncSelected()
	return m, nil
}

func (m *Model) updateHelpPaneKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.helpPane.ScrollUp(1)
	case "down", "j":
		m.helpPane.ScrollDown(1)
	case "pgup", "ctrl+u", "b":
		m.helpPane.PageUp()
	case "pgdown", "ctrl+d":
		m.helpPane.PageDown()
	case "g":
		m.helpPane.Top()
	case "G":
		m.helpPane.Bottom()
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.filtering = false
		m.filter.Blur()
		m.tree.SetFilter(m.filter.Value())
		m.syncSelected()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.tree.SetFilter(m.filter.Value())
	m.syncSelected()
	return m, cmd
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	overHelp := m.width > 0 && msg.X >= m.treeWidth()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if overHelp {
			m.helpPane.ScrollUp(3)
		} else {
			m.tree.Up()
			m.syncSelected()
		}
	case tea.MouseButtonWheelDown:
		if overHelp {
			m.helpPane.ScrollDown(3)
		} else {
			m.tree.Down()
			m.syncSelected()
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress {
			if overHelp {
				m.setFocus(paneHelp)
			} else {
				m.setFocus(paneTree)
			}
		}
	}
	return m, nil
}

func (m *Model) setFocus(p pane) {
	m.focusedPane = p
	m.tree.SetFocused(p == paneTree)
	m.helpPane.SetFocused(p == paneHelp)
}

func (m *Model) syncSelected() {
	if item, ok := m.tree.Selected(); ok {
		m.preview.SetItem(item)
		m.helpPane.SetItem(item)
	}
}

const previewBarHeight = 2

func (m *Model) applyLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.tree.SetSize(m.treeWidth(), m.contentHeight())
	m.helpPane.SetSize(m.helpWidth(), m.contentHeight())
}

func (m *Model) contentHeight() int {
	return max(1, m.height-previewBarHeight-1)
}

func (m *Model) treeWidth() int {
	if m.width < 80 {
		return m.width
	}
	return max(30, m.width*45/100)
}

func (m *Model) helpWidth() int {
	return m.width - m.treeWidth()
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.modal.active {
		return m.renderModal()
	}

	cH := m.contentHeight()
	body := m.tree.ViewSized(m.treeWidth(), cH)
	if m.helpWidth() > 20 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.helpPane.View(m.helpWidth(), cH))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.preview.View(m.width), body, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	left := lipgloss.NewStyle().Bold(true).Render(m.title)

	var hint string
	switch {
	case m.statusMsg != "":
		hint = m.statusMsg
		m.statusMsg = ""
	case m.filtering:
		hint = "filter: " + m.filter.View() + "  (Enter/Esc)"
	case m.focusedPane == paneHelp:
		hint = "↑↓/jk:scroll · PgUp/PgDn · g/G:top/bottom · Tab:switch"
	default:
		hint = fmt.Sprintf("Enter:run  /:filter  Space:expand  Tab:help  q:quit  nav:%s", schemeName(m.scheme))
	}
	right := lipgloss.NewStyle().Faint(true).Render(hint)

	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return left + strings.Repeat(" ", gap) + right
}

func schemeName(s NavScheme) string {
	switch s {
	case SchemeVim:
		return "vim"
	case SchemeWASD:
		return "wasd"
	default:
		return "arrows"
	}
}

func paneName(p pane) string {
	if p == paneHelp {
		return "help"
	}
	return "tree"
}

// Run starts the explorer and returns the tokens the user chose to run, or
// nil when they quit without choosing.
func Run(title string, cmds []models.Command, cfg *config.Config) ([]string, error) {
	m := NewModel(title, cmds, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(*Model); ok {
		return fm.Chosen(), nil
	}
	return nil, nil
}
