package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"pdfmerge/internal/tui/styles"
	"pdfmerge/pkg/types"
)

// FileList renders the selection. While a file is dragged the cursor moves
// over slots: slot 2i is the gap before file i and slot 2i+1 is file i.
type FileList struct {
	files      []types.FileEntry
	cursor     int
	ordering   bool
	dragSlot   int
	dragSource int
}

func NewFileList() *FileList {
	return &FileList{dragSlot: -1, dragSource: -1}
}

func (fl *FileList) SetFiles(files []types.FileEntry) {
	fl.files = files
}

func (fl *FileList) SetCursor(cursor int) {
	fl.cursor = cursor
}

func (fl *FileList) SetOrdering(on bool) {
	fl.ordering = on
}

// SetDrag sets the dragged file and the slot under the cursor; pass -1, -1
// when nothing is dragged.
func (fl *FileList) SetDrag(source, slot int) {
	fl.dragSource = source
	fl.dragSlot = slot
}

func (fl *FileList) dragging() bool {
	return fl.dragSource >= 0 && fl.dragSlot >= 0
}

func (fl *FileList) View() string {
	var s strings.Builder

	header := fmt.Sprintf("Files (%d)", len(fl.files))
	if fl.ordering {
		header += " · ordering"
	}
	s.WriteString(styles.Theme.Help.Render(header) + "\n\n")

	if len(fl.files) == 0 {
		s.WriteString(styles.Theme.Muted.Render("No files selected") + "\n")
		return styles.Theme.List.Render(s.String())
	}

	width := 0
	for _, f := range fl.files {
		if n := len(displayName(f)); n > width {
			width = n
		}
	}

	for i, f := range fl.files {
		if fl.dragging() && fl.dragSlot == 2*i {
			s.WriteString(styles.Theme.Gap.Render("  ── drop here ──") + "\n")
		}
		s.WriteString(fl.row(i, f, width) + "\n")
	}
	if fl.dragging() && fl.dragSlot == 2*len(fl.files) {
		s.WriteString(styles.Theme.Gap.Render("  ── drop here ──") + "\n")
	}
	return styles.Theme.List.Render(s.String())
}

func (fl *FileList) row(i int, f types.FileEntry, width int) string {
	marker := " "
	style := styles.Theme.Unselected
	switch {
	case fl.dragging() && i == fl.dragSource:
		marker = "≡"
		style = styles.Theme.Dragged
	case fl.dragging() && fl.dragSlot == 2*i+1:
		marker = "⇄"
		style = styles.Theme.Selected
	case !fl.dragging() && i == fl.cursor:
		marker = ">"
		style = styles.Theme.Selected
	}

	details := fmt.Sprintf("%-6s %8s", f.TypeLabel, humanize.Bytes(uint64(max(f.Size, 0))))
	line := fmt.Sprintf("%s %2d. %-*s  %s", marker, i+1, width, displayName(f), details)
	return style.Render(line)
}

func displayName(f types.FileEntry) string {
	if f.RelativePath != "" {
		return filepath.ToSlash(f.RelativePath)
	}
	return f.Name
}
