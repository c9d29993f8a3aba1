package convert

import (
	"context"
	"fmt"

	"pdfmerge/internal/eml"
	"pdfmerge/pkg/types"
)

var emailHeaders = []string{"From", "To", "Subject", "Date"}

// Email renders the main headers of a message followed by its body. The
// body is capped at Settings.EmailMaxLines wrapped lines.
type Email struct {
	Settings Settings
}

// Convert implements Converter.
func (c Email) Convert(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome {
	before := doc.PageCount()
	data, err := f.ReadAll(ctx)
	if err != nil {
		return failed(doc, c.Settings, f, before, "cannot read file: "+err.Error())
	}

	msg, err := eml.Parse(decodeText(data))
	if err != nil {
		return fallback(doc, c.Settings, f, before, "could not parse email: "+err.Error())
	}

	w := newPageWriter(doc, c.Settings)
	w.newPage()
	w.title("File: " + f.Name)

	body := c.Settings.bodyFont()
	for _, h := range emailHeaders {
		w.flow(body, w.wrap(body, h+": "+msg.Header(h)))
	}
	w.flow(body, []string{""})

	var lines []string
	if msg.Body != "" {
		lines = w.wrap(body, msg.Body)
	}
	limit := c.Settings.EmailMaxLines
	if len(lines) <= limit {
		w.flow(body, lines)
		return types.Appended(doc.PageCount() - before)
	}
	w.flow(body, lines[:limit])
	w.flow(c.Settings.boldFont(), []string{fmt.Sprintf("[Message truncated: %d more lines not shown]", len(lines)-limit)})
	return types.Appended(doc.PageCount() - before)
}
