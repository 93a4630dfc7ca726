package tui_test

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/tui"
)

func sampleCommands() []models.Command {
	return []models.Command{
		&models.SubCommand{
			Base: models.Base{Name: "commit", Description: "record changes"},
			Options: []models.Option{
				{Argument: models.Argument{Name: "message"}, ShortAlias: "m"},
				{Argument: models.Argument{Name: "amend", Type: models.TypeBool}, IsOptional: true},
			},
			Positionals: []models.Positional{{Argument: models.Argument{Name: "file"}, IsVarArgOptional: true}},
		},
		&models.GroupCommand{Base: models.Base{Name: "remote"}, Members: []*models.SubCommand{
			{Base: models.Base{Name: "add"}, Positionals: []models.Positional{{Argument: models.Argument{Name: "url"}}}},
			{Base: models.Base{Name: "remove"}},
		}},
		&models.GlobalCommand{Base: models.Base{Name: "version"}, ShortAlias: "V"},
	}
}

func newModel() *tui.Model {
	cfg := config.DefaultConfig()
	cfg.NoColor = true
	m := tui.NewModel("git", sampleCommands(), cfg)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selected(t *testing.T, m *tui.Model) string {
	t.Helper()
	item, ok := m.Selected()
	if !ok {
		t.Fatal("nothing selected")
	}
	return item.CallName()
}

func TestNewModel_selectsFirst(t *testing.T) {
	m := newModel()
	if got := selected(t, m); got != "commit" {
		t.Errorf("selected = %q, want commit", got)
	}
	lines := m.HelpLines()
	if len(lines) == 0 || lines[0] != "usage: commit --message=<string> [--amend] [file]" {
		t.Errorf("help lines = %q", lines)
	}
}

func TestModel_navigateIntoGroup(t *testing.T) {
	m := newModel()
	m.Update(key("down"))
	if got := selected(t, m); got != "remote" {
		t.Fatalf("selected = %q, want remote", got)
	}
	m.Update(key("enter"))
	m.Update(key("down"))
	if got := selected(t, m); got != "remote:add" {
		t.Errorf("selected = %q, want remote:add", got)
	}
}

func TestModel_vimScheme(t *testing.T) {
	m := newModel()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m.Update(key("j"))
	m.Update(key("l"))
	m.Update(key("j"))
	m.Update(key("j"))
	if got := selected(t, m); got != "remote:remove" {
		t.Errorf("selected = %q, want remote:remove", got)
	}
	m.Update(key("h"))
	if got := selected(t, m); got != "remote" {
		t.Errorf("after collapse selected = %q, want remote", got)
	}
}

func TestModel_filter(t *testing.T) {
	m := newModel()
	m.Update(key("/"))
	for _, r := range "add" {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))
	m.Update(key("down"))
	if got := selected(t, m); got != "remote:add" {
		t.Errorf("selected = %q, want remote:add", got)
	}
}

func TestModel_runGlobal(t *testing.T) {
	m := newModel()
	m.Update(key("down"))
	m.Update(key("down"))
	m.Update(key("enter"))
	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected quit command after run")
	}
	if got := strings.Join(m.Chosen(), " "); got != "--version" {
		t.Errorf("Chosen() = %q, want --version", got)
	}
}

func TestModel_copyUsage(t *testing.T) {
	m := newModel()
	var copied string
	m.SetClipboard(func(s string) error { copied = s; return nil })
	m.Update(key("enter"))
	m.Update(key("c"))
	if copied != "commit --message=<string> [--amend] [file]" {
		t.Errorf("copied %q", copied)
	}
	if m.Chosen() != nil {
		t.Error("copy should not choose a command")
	}
}

func TestModel_copyFailure(t *testing.T) {
	m := newModel()
	m.SetClipboard(func(string) error { return errors.New("no clipboard") })
	m.Update(key("enter"))
	m.Update(key("c"))
	if v := m.View(); !strings.Contains(v, "copy failed: no clipboard") {
		t.Errorf("status bar missing copy failure:\n%s", v)
	}
}

func TestModel_modalCancel(t *testing.T) {
	m := newModel()
	m.Update(key("enter"))
	_, cmd := m.Update(key("esc"))
	if cmd != nil {
		t.Error("esc in the modal should not quit")
	}
	if m.Chosen() != nil {
		t.Error("cancel should not choose a command")
	}
}

func TestModel_TabCyclesFocus(t *testing.T) {
	m := newModel()
	for i := 0; i < 4; i++ {
		updated, _ := m.Update(key("tab"))
		if updated == nil {
			t.Fatalf("Update returned nil on tab %d", i)
		}
	}
}

func TestModel_QuitOnQ(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command after 'q'")
	}
}

func TestModel_View(t *testing.T) {
	m := newModel()
	v := m.View()
	for _, want := range []string{"commit", "▶ remote", "--version", "usage: commit"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestTreeModel_filterNoMatch(t *testing.T) {
	tree := tui.NewTreeModel(sampleCommands(), config.DefaultConfig())
	tree.SetSize(80, 24)
	tree.SetFilter("zzz")
	if _, ok := tree.Selected(); ok {
		t.Error("expected no selection")
	}
	if !strings.Contains(tree.ViewSized(80, 24), "no matching commands") {
		t.Error("expected empty-state text")
	}
}

func TestItem_Tokens(t *testing.T) {
	cmds := sampleCommands()
	g := cmds[1].(*models.GroupCommand)
	tests := []struct {
		item tui.Item
		want string
	}{
		{tui.Item{Command: cmds[0]}, "commit"},
		{tui.Item{Command: g.Members[0], Group: g}, "remote:add"},
		{tui.Item{Command: cmds[2]}, "--version"},
	}
	for _, tt := range tests {
		if got := strings.Join(tt.item.Tokens(), " "); got != tt.want {
			t.Errorf("Tokens() = %q, want %q", got, tt.want)
		}
	}
}
