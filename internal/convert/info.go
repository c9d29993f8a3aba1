package convert

import (
	"context"

	"pdfmerge/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// Info renders a metadata page for files whose content cannot be shown.
type Info struct {
	Settings Settings
}

// Convert implements Converter.
func (c Info) Convert(_ context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome {
	InfoPage(doc, c.Settings, f, "")
	return types.InfoPage("unsupported file type")
}

// InfoPage draws one page with the file's name, declared type, size and
// modification time. A non-empty reason is printed below the note.
func InfoPage(doc Document, s Settings, f *types.CandidateFile, reason string) {
	w := newPageWriter(doc, s)
	w.newPage()
	w.title("File: " + f.Name)

	declared := f.MimeHint
	if declared == "" {
		declared = "Unknown"
	}
	modified := "Unknown"
	if !f.LastModified.IsZero() {
		modified = f.LastModified.Format(timeLayout)
	}

	body := s.bodyFont()
	w.flowSingle(body, []string{
		"Type: " + declared,
		"Size: " + types.FormatSize(f.Size),
		"Last modified: " + modified,
		"",
		"Content extraction is not supported for this file type.",
	})
	if reason != "" {
		w.flowSingle(body, w.wrap(body, "Reason: "+reason))
	}
}

// ErrorPage draws one page reporting why f could not be converted.
func ErrorPage(doc Document, s Settings, f *types.CandidateFile, reason string) {
	w := newPageWriter(doc, s)
	w.newPage()
	w.title("Error processing file")

	body := s.bodyFont()
	w.flowSingle(body, w.wrap(body, "File: "+f.Name))
	w.flowSingle(body, w.wrap(body, "Reason: "+reason))
	w.flowSingle(body, []string{"Size: " + types.FormatSize(f.Size)})
}

// failed draws an error page and returns the matching outcome.
func failed(doc Document, s Settings, f *types.CandidateFile, before int, reason string) types.ConversionOutcome {
	ErrorPage(doc, s, f, reason)
	out := types.ErrorPageOutcome(reason)
	out.Pages = doc.PageCount() - before
	return out
}

// fallback draws an info page with reason and returns the matching outcome.
func fallback(doc Document, s Settings, f *types.CandidateFile, before int, reason string) types.ConversionOutcome {
	InfoPage(doc, s, f, reason)
	out := types.InfoPage(reason)
	out.Pages = doc.PageCount() - before
	return out
}
