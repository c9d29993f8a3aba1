package views

import (
	"strings"

	"pdfmerge/internal/tui/common"
	"pdfmerge/internal/tui/components"
	"pdfmerge/internal/tui/styles"
)

const progressWidth = 40

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(renderBanner())
	sb.WriteString("\n")

	if m.Mode() == common.Picking {
		sb.WriteString(styles.Theme.Help.Render("Pick a file or folder to add") + "\n\n")
		sb.WriteString(m.PickerView())
	} else {
		fileList := components.NewFileList()
		fileList.SetFiles(m.Entries())
		fileList.SetCursor(m.Cursor())
		fileList.SetOrdering(m.Ordering())
		fileList.SetDrag(m.DragSource(), m.DragSlot())
		sb.WriteString(fileList.View())
	}
	sb.WriteString("\n")

	if percent, message := m.Progress(); m.Mode() == common.Merging || percent > 0 {
		sb.WriteString("\n" + components.NewProgressBar(progressWidth).View(percent, message) + "\n")
	}

	if text, isError := m.Status(); text != "" {
		style := styles.Theme.Success
		if isError {
			style = styles.Theme.Error
		}
		sb.WriteString("\n" + style.Render(text) + "\n")
	}

	if m.ShowHelp() {
		sb.WriteString("\n" + RenderHelp())
	}
	sb.WriteString("\n" + m.HelpView())

	return styles.Theme.App.Render(sb.String())
}

func RenderHelp() string {
	return styles.Theme.Help.Render(`
Quick Start Guide:
1. Press a to add files or a whole folder
2. Press o to turn on ordering mode
3. Press space on a file to pick it up, move with j/k
   - drop on a gap to move it there
   - drop on another file to swap the two
4. Press m to merge, the PDF is written to the output directory
5. Press R to retry after a failure, r to start over
`)
}

func renderBanner() string {
	return styles.Theme.Title.Render(`
	 ___  ___  ___   __  __
	| _ \|   \| __| |  \/  |___ _ _ __ _ ___
	|  _/| |) | _|  | |\/| / -_) '_/ _' / -_)
	|_|  |___/|_|   |_|  |_\___|_| \__, \___|
	                               |___/`)
}
