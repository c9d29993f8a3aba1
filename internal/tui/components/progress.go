package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"

	"pdfmerge/internal/tui/styles"
)

// ProgressBar shows how far a merge has come.
type ProgressBar struct {
	bar progress.Model
}

func NewProgressBar(width int) *ProgressBar {
	bar := progress.New(
		progress.WithSolidFill(string(styles.Theme.Primary)),
		progress.WithoutPercentage(),
	)
	if width > 0 {
		bar.Width = width
	}
	return &ProgressBar{bar: bar}
}

// View renders percent (0-100) with the phase message under it.
func (p *ProgressBar) View(percent int, message string) string {
	percent = min(max(percent, 0), 100)
	line := fmt.Sprintf("%s %3d%%", p.bar.ViewAs(float64(percent)/100), percent)
	if message == "" {
		return line
	}
	return line + "\n" + styles.Theme.Muted.Render(message)
}
