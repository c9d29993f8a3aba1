package messages

import "pdfmerge/pkg/types"

// FilesCollectedMsg carries the result of expanding picked paths.
type FilesCollectedMsg struct {
	Files   []*types.CandidateFile
	Replace bool // replace the selection instead of appending
	Err     error
}

type FileListMsg struct {
	Entries []types.FileEntry
}

type ProgressMsg struct {
	Percent int
	Message string
}

type SucceededMsg struct {
	Filename string
}

type FailedMsg struct {
	Message string
}

// MergeDoneMsg is sent when a merge command returns.
type MergeDoneMsg struct {
	Err error
}
