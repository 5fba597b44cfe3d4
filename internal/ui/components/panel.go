package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lazygrid/lazygrid/internal/ui/theme"
)

// Panel frames a component with a themed border and optional title.
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Theme   theme.Theme
	Focused bool
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	border := p.Theme.Border
	if p.Focused {
		border = p.Theme.BorderFocused
	}
	style := lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}
