package convert

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"pdfmerge/pkg/types"
)

// Text renders a plain text file onto a single page. Content that does
// not fit is cut and a note says how many lines were left out.
type Text struct {
	Settings Settings
}

// Convert implements Converter.
func (c Text) Convert(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome {
	before := doc.PageCount()
	data, err := f.ReadAll(ctx)
	if err != nil {
		return failed(doc, c.Settings, f, before, "cannot read file: "+err.Error())
	}

	w := newPageWriter(doc, c.Settings)
	w.newPage()
	w.title("File: " + f.Name)

	body := c.Settings.bodyFont()
	lines := w.wrap(body, decodeText(data))
	room := w.room()
	if len(lines) <= room {
		w.flowSingle(body, lines)
		return types.Appended(1)
	}

	keep := room - 1
	if keep < 0 {
		keep = 0
	}
	w.flowSingle(body, lines[:keep])
	w.line(c.Settings.boldFont(), truncationNote(len(lines)-keep))
	return types.Appended(1)
}

func truncationNote(omitted int) string {
	return fmt.Sprintf("[Content truncated: %d more lines not shown]", omitted)
}

// decodeText strips a UTF-8 byte order mark and reads input that is not
// valid UTF-8 as Windows-1252.
func decodeText(data []byte) string {
	s := strings.TrimPrefix(string(data), "\ufeff")
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(s, "?")
	}
	return string(decoded)
}
