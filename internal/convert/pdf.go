package convert

import (
	"context"

	"pdfmerge/internal/log"
	"pdfmerge/pkg/types"
)

// PDF copies every page of a source PDF into the output, in order and at
// its original size.
type PDF struct {
	Settings Settings
}

// Convert implements Converter.
func (c PDF) Convert(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome {
	before := doc.PageCount()
	data, err := f.ReadAll(ctx)
	if err != nil {
		return failed(doc, c.Settings, f, before, "cannot read file: "+err.Error())
	}

	pages, err := doc.ImportPDF(data)
	if err != nil {
		log.LogWithError(err).With(log.F("file", f.RelativePath)).Warn("PDF import failed")
		return failed(doc, c.Settings, f, before, err.Error())
	}
	return types.Appended(pages)
}
