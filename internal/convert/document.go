// Package convert turns candidate files into pages of the output document.
// Each file family has a Converter; Dispatcher picks one by extension.
package convert

import (
	"context"

	"pdfmerge/internal/layout"
	"pdfmerge/pkg/types"
)

// Document is the output document converters append pages to.
// *pdfdoc.Document implements it.
type Document interface {
	PageSize() (w, h float64)
	PageCount() int
	AddPage()
	SetFont(f layout.Font)
	Text(x, y float64, s string)
	Measurer(f layout.Font) layout.Measurer
	RegisterImage(data []byte, format string) (string, error)
	DrawImage(name string, r layout.Rect)
	ImportPDF(data []byte) (int, error)
}

// Converter renders one file into doc. Failures never escape: they are
// drawn as an info or error page and reported in the outcome.
type Converter interface {
	Convert(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome

// Convert calls fn.
func (fn ConverterFunc) Convert(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome {
	return fn(ctx, f, doc)
}
