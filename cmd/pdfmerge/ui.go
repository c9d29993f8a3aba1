package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pdfmerge/internal/config"
)

var (
	logoStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle()
	errorStyle   = lipgloss.NewStyle()
	warningStyle = lipgloss.NewStyle()
	infoStyle    = lipgloss.NewStyle()
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func init() {
	applyTheme(config.New())
}

// applyTheme colors the CLI output with the configured theme.
func applyTheme(cfg *config.Config) {
	logoStyle = logoStyle.Foreground(lipgloss.Color(cfg.Theme.Primary))
	headerStyle = headerStyle.Foreground(lipgloss.Color(cfg.Theme.Emphasis))
	successStyle = successStyle.Foreground(lipgloss.Color(cfg.Theme.Success))
	errorStyle = errorStyle.Foreground(lipgloss.Color(cfg.Theme.Error))
	warningStyle = warningStyle.Foreground(lipgloss.Color(cfg.Theme.Warning))
	infoStyle = infoStyle.Foreground(lipgloss.Color(cfg.Theme.Info))
}

// drawLogo renders the banner shown above the usage text.
func drawLogo() string {
	logo := `
 ___  ___  ___
| _ \|   \| __|_ __  ___ _ _ __ _ ___
|  _/| |) | _|| '  \/ -_) '_/ _' / -_)
|_|  |___/|_| |_|_|_\___|_| \__, \___|
                            |___/     `
	return logoStyle.Render(logo)
}

func successText(s string) string { return successStyle.Render("✓ " + s) }
func errorText(s string) string   { return errorStyle.Render("✗ " + s) }
func warningText(s string) string { return warningStyle.Render("! " + s) }
func infoText(s string) string    { return infoStyle.Render("ℹ " + s) }

// printHeader writes a section header underlined to its width.
func printHeader(w io.Writer, s string) {
	fmt.Fprintln(w, headerStyle.Render(s))
	fmt.Fprintln(w, mutedStyle.Render(strings.Repeat("─", lipgloss.Width(s))))
}
