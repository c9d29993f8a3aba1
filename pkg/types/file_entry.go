package types

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FileEntry is how a list entry is shown to the user.
type FileEntry struct {
	Name         string
	RelativePath string
	Size         int64
	Extension    string
	TypeLabel    string
}

var typeLabels = map[string]string{
	"pdf":  "PDF",
	"doc":  "Word",
	"docx": "Word",
	"txt":  "Text",
	"jpg":  "Image",
	"jpeg": "Image",
	"png":  "Image",
	"gif":  "Image",
	"bmp":  "Image",
	"webp": "Image",
	"tiff": "Image",
	"tif":  "Image",
	"eml":  "Email",
	"msg":  "Email",
}

// TypeLabel names the kind of file for display.
func TypeLabel(ext string) string {
	if l, ok := typeLabels[strings.ToLower(ext)]; ok {
		return l
	}
	return "File"
}

// EntryFor converts a candidate into its display form.
func EntryFor(f *CandidateFile) FileEntry {
	ext := f.Extension()
	return FileEntry{
		Name:         f.Name,
		RelativePath: f.RelativePath,
		Size:         f.Size,
		Extension:    ext,
		TypeLabel:    TypeLabel(ext),
	}
}

// EntriesFor converts a batch.
func EntriesFor(files []*CandidateFile) []FileEntry {
	out := make([]FileEntry, len(files))
	for i, f := range files {
		out[i] = EntryFor(f)
	}
	return out
}

// FormatSize renders a byte count for people, e.g. "1.5 kB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// HumanSize is the entry size formatted with FormatSize.
func (e FileEntry) HumanSize() string {
	return FormatSize(e.Size)
}
