package convert

import (
	"pdfmerge/internal/layout"
)

// pageWriter flows lines of text down a page. y is the top of the next
// line; a line fits while it ends above the bottom margin.
type pageWriter struct {
	doc    Document
	s      Settings
	width  float64
	bottom float64
	y      float64
}

func newPageWriter(doc Document, s Settings) *pageWriter {
	w, h := doc.PageSize()
	return &pageWriter{
		doc:    doc,
		s:      s,
		width:  w - 2*s.Margin,
		bottom: h - s.Margin,
	}
}

func (w *pageWriter) newPage() {
	w.doc.AddPage()
	w.y = w.s.Margin
}

// title draws a bold heading, wrapped if needed, followed by a gap.
func (w *pageWriter) title(text string) {
	font := w.s.titleFont()
	advance := font.Size * 1.25
	for _, line := range layout.Wrap(text, w.width, w.s.measurer(w.doc, font)) {
		w.doc.SetFont(font)
		w.doc.Text(w.s.Margin, w.y+font.Size, line)
		w.y += advance
	}
	w.y += w.s.LineHeight
}

// room returns how many more lines fit on the current page.
func (w *pageWriter) room() int {
	n := int((w.bottom - w.y) / w.s.LineHeight)
	if n < 0 {
		return 0
	}
	return n
}

func (w *pageWriter) line(font layout.Font, text string) {
	w.doc.SetFont(font)
	w.doc.Text(w.s.Margin, w.y+font.Size, text)
	w.y += w.s.LineHeight
}

// flow draws lines, starting a new page whenever the next one would
// cross the bottom margin.
func (w *pageWriter) flow(font layout.Font, lines []string) {
	for _, l := range lines {
		if w.room() < 1 {
			w.newPage()
		}
		w.line(font, l)
	}
}

// wrap breaks text to the drawable width in font.
func (w *pageWriter) wrap(font layout.Font, text string) []string {
	return layout.Wrap(text, w.width, w.s.measurer(w.doc, font))
}

// flowSingle draws as many lines as fit on the current page and drops
// the rest. Info and error pages never spill onto a second page.
func (w *pageWriter) flowSingle(font layout.Font, lines []string) {
	for _, l := range lines {
		if w.room() < 1 {
			return
		}
		w.line(font, l)
	}
}
