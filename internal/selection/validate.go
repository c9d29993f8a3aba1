// Package selection turns what the user picked into candidate files: it
// validates entries, expands directories and detects content types.
package selection

import (
	"strings"

	"pdfmerge/pkg/types"
)

// IsAcceptable reports whether f may be merged. Hidden and system entries
// (names starting with "." or "~") are rejected. Anything else is accepted
// when it has content, a declared type or an extension.
func IsAcceptable(f *types.CandidateFile) bool {
	if f == nil || f.Name == "" {
		return false
	}
	if strings.HasPrefix(f.Name, ".") || strings.HasPrefix(f.Name, "~") {
		return false
	}
	return f.Size > 0 || f.MimeHint != "" || hasExtension(f.Name)
}

// hasExtension reports whether any '.' in name is followed by at least one
// character, so "archive.tar." counts and "weird." does not.
func hasExtension(name string) bool {
	i := strings.IndexByte(name, '.')
	return i >= 0 && i < len(name)-1
}

// FilterAcceptable returns the acceptable files of batch in order.
// Filtering an already filtered batch returns it unchanged.
func FilterAcceptable(batch []*types.CandidateFile) []*types.CandidateFile {
	out := make([]*types.CandidateFile, 0, len(batch))
	for _, f := range batch {
		if IsAcceptable(f) {
			out = append(out, f)
		}
	}
	return out
}
