package styles

import (
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"

	"pdfmerge/internal/config"
)

// Theme defines the core UI styles
var Theme = struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Dragged    lipgloss.Style
	Gap        lipgloss.Style
	Muted      lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
	List       lipgloss.Style
	Primary    lipgloss.Color
}{}

func init() {
	Apply(config.New())
}

// Apply rebuilds Theme from the colors of cfg.
func Apply(cfg *config.Config) {
	t := cfg.Theme
	primary := lipgloss.Color(t.Primary)

	Theme.Primary = primary
	Theme.App = lipgloss.NewStyle().
		Padding(1, 2)
	Theme.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(primary).
		MarginBottom(1)
	Theme.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Emphasis)).
		Bold(true)
	Theme.Unselected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))
	Theme.Dragged = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Warning)).
		Bold(true)
	Theme.Gap = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Info))
	Theme.Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	Theme.Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Success))
	Theme.Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Error)).
		Bold(true)
	Theme.Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Info))
	Theme.List = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Border))
}

// PickerStyles returns file picker styles in the current theme.
func PickerStyles() filepicker.Styles {
	s := filepicker.DefaultStyles()
	s.Cursor = s.Cursor.Foreground(Theme.Primary)
	s.Selected = s.Selected.Foreground(Theme.Primary).Bold(true)
	s.Directory = s.Directory.Foreground(Theme.Help.GetForeground()).Bold(true)
	return s
}
