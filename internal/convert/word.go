package convert

import (
	"context"

	"pdfmerge/internal/log"
	"pdfmerge/internal/markup"
	"pdfmerge/pkg/types"
)

// Word renders word processing documents as wrapped paragraphs over as
// many pages as needed. Documents whose text cannot be extracted get an
// info page instead of an error page.
type Word struct {
	Settings  Settings
	Extractor markup.Extractor
}

// Convert implements Converter.
func (c Word) Convert(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome {
	before := doc.PageCount()
	data, err := f.ReadAll(ctx)
	if err != nil {
		return failed(doc, c.Settings, f, before, "cannot read file: "+err.Error())
	}

	html, err := c.Extractor.Extract(ctx, data)
	if err != nil {
		log.LogWithError(err).With(log.F("file", f.RelativePath)).Info("Word extraction failed, using info page")
		return fallback(doc, c.Settings, f, before, "could not extract document text: "+err.Error())
	}

	w := newPageWriter(doc, c.Settings)
	w.newPage()
	w.title("File: " + f.Name)

	body := c.Settings.bodyFont()
	paras := markup.Paragraphs(html)
	if len(paras) == 0 {
		w.flow(body, []string{"(This document contains no text.)"})
	}
	for i, p := range paras {
		if i > 0 {
			w.flow(body, []string{""})
		}
		w.flow(body, w.wrap(body, p))
	}
	return types.Appended(doc.PageCount() - before)
}
