package session

import "pdfmerge/pkg/types"

// Listener is told about everything the presentation layer shows.
// Calls are made on the goroutine that issued the command.
type Listener interface {
	FileListChanged(entries []types.FileEntry)
	ProgressUpdated(percent int, message string)
	Succeeded(filename string)
	Failed(message string)
}

// Funcs is a Listener built from optional callbacks.
type Funcs struct {
	OnFileListChanged func(entries []types.FileEntry)
	OnProgress        func(percent int, message string)
	OnSucceeded       func(filename string)
	OnFailed          func(message string)
}

func (f Funcs) FileListChanged(entries []types.FileEntry) {
	if f.OnFileListChanged != nil {
		f.OnFileListChanged(entries)
	}
}

func (f Funcs) ProgressUpdated(percent int, message string) {
	if f.OnProgress != nil {
		f.OnProgress(percent, message)
	}
}

func (f Funcs) Succeeded(filename string) {
	if f.OnSucceeded != nil {
		f.OnSucceeded(filename)
	}
}

func (f Funcs) Failed(message string) {
	if f.OnFailed != nil {
		f.OnFailed(message)
	}
}
