package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/render"
)

// PreviewModel shows a color-coded invocation skeleton of the selection at the top.
type PreviewModel struct {
	item    Item
	hasItem bool
	cfg     *config.Config
}

func NewPreviewModel(cfg *config.Config) *PreviewModel {
	return &PreviewModel{cfg: cfg}
}

func (p *PreviewModel) SetItem(item Item) {
	p.item = item
	p.hasItem = true
}

// Skeleton returns the plain invocation skeleton, or "" with nothing selected.
func (p *PreviewModel) Skeleton() string {
	if !p.hasItem {
		return ""
	}
	return render.Usage(p.item.Command, p.item.CallName())
}

func (p *PreviewModel) View(width int) string {
	skeleton := p.Skeleton()
	if skeleton == "" {
		return ""
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#555555")).
		Width(width - 2).
		Padding(0, 1)
	return style.Render(p.colorize(skeleton))
}

func (p *PreviewModel) colorize(skeleton string) string {
	if p.cfg.NoColor {
		return skeleton
	}
	cmdStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.cfg.Colors.Base))
	optStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.cfg.Colors.Option))
	posStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.cfg.Colors.Pos))

	parts := strings.Fields(skeleton)
	for i, part := range parts {
		switch {
		case i == 0:
			parts[i] = cmdStyle.Render(part)
		case strings.HasPrefix(strings.TrimPrefix(part, "["), "--"):
			parts[i] = optStyle.Render(part)
		default:
			parts[i] = posStyle.Render(part)
		}
	}
	return strings.Join(parts, " ")
}
