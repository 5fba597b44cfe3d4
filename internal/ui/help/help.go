package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazygrid/lazygrid/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"r", "Reload data source"},
		{"H", "Refresh history"},
	}
}

// GetNavigationKeys returns navigation key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"←/h", "Previous column"},
		{"→/l", "Next column"},
		{"[ / ]", "Previous / next page"},
	}
}

// GetFilterKeys returns filter and sort key bindings
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"f", "Filter selected column"},
		{"F", "Clear filter on selected column"},
		{"s", "Cycle sort on selected column"},
		{"y", "Copy selected cell"},
		{"Y", "Copy combined predicate"},
		{"e", "Export current page as CSV"},
		{"E", "Export current page as JSON"},
	}
}

// GetFilterEditorKeys returns key bindings inside the filter editor
func GetFilterEditorKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/↓", "Choose operator"},
		{"Tab", "Switch between operator and value"},
		{"Enter", "Apply filter"},
		{"Ctrl+R", "Remove filter"},
		{"Esc", "Close without applying"},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.FilterActive).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	sections := []struct {
		title string
		keys  []KeyBinding
	}{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys()},
		{"Filter & Sort", GetFilterKeys()},
		{"Filter Editor", GetFilterEditorKeys()},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("lazygrid - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, kb := range section.keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
