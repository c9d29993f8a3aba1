package common

import "pdfmerge/pkg/types"

type Mode int

const (
	Normal Mode = iota
	Picking
	Merging
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Entries() []types.FileEntry
	Cursor() int
	Ordering() bool
	// DragSlot is the drag cursor over 2n+1 slots: even slots are gaps,
	// odd slots are files. It is -1 when nothing is being dragged.
	DragSlot() int
	DragSource() int
	ShowHelp() bool
	Mode() Mode
	Progress() (percent int, message string)
	Status() (text string, isError bool)
	PickerView() string
	HelpView() string
}
