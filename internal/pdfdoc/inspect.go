package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdfmerge/internal/errors"
)

// PageInfo describes one page of an existing PDF.
type PageInfo struct {
	Number int
	Width  float64
	Height float64
	Text   string
}

// Summary is what Inspect reports about a PDF.
type Summary struct {
	Pages []PageInfo
}

// PageCount returns the number of pages.
func (s *Summary) PageCount() int {
	return len(s.Pages)
}

// Text joins the text of all pages with form feeds.
func (s *Summary) Text() string {
	parts := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\f")
}

// Inspect reads page sizes and, when withText is set, the plain text of
// every page. The reader panics on some malformed input; that is
// reported as an error.
func Inspect(data []byte, withText bool) (summary *Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			summary = nil
			err = errors.NewKind(errors.ConversionFailed, "malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.NewKind(errors.ConversionFailed, "cannot open PDF: %v", err)
	}

	n := r.NumPage()
	summary = &Summary{Pages: make([]PageInfo, 0, n)}
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			return nil, errors.NewKind(errors.ConversionFailed, "page %d is missing", i)
		}
		info := PageInfo{Number: i}
		info.Width, info.Height = mediaBox(p.V)

		if withText {
			for _, name := range p.Fonts() {
				if _, ok := fonts[name]; !ok {
					f := p.Font(name)
					fonts[name] = &f
				}
			}
			text, err := p.GetPlainText(fonts)
			if err != nil {
				return nil, errors.NewKind(errors.ConversionFailed, "page %d: %v", i, err)
			}
			info.Text = text
		}
		summary.Pages = append(summary.Pages, info)
	}
	return summary, nil
}

// InspectReader is Inspect over a stream.
func InspectReader(r io.Reader, withText bool) (*Summary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Inspect(data, withText)
}

var doOperator = regexp.MustCompile(`/([^\s/\[\]()<>]+)\s+Do\b`)

// PageContent returns the decoded drawing operators of page n followed by
// those of every form XObject the page draws. Pages copied by ImportPDF
// hold only a reference to their form, so this is where the copied content
// shows.
func PageContent(data []byte, n int) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			content = ""
			err = errors.NewKind(errors.ConversionFailed, "malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewKind(errors.ConversionFailed, "cannot open PDF: %v", err)
	}
	if n < 1 || n > r.NumPage() {
		return "", errors.NewKind(errors.ConversionFailed, "page %d out of range", n)
	}
	p := r.Page(n)

	var b strings.Builder
	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			if err := readStream(&b, contents.Index(i)); err != nil {
				return "", err
			}
		}
	} else if err := readStream(&b, contents); err != nil {
		return "", err
	}

	page := b.String()
	xobjects := p.Resources().Key("XObject")
	for _, m := range doOperator.FindAllStringSubmatch(page, -1) {
		form := xobjects.Key(m[1])
		if form.Key("Subtype").Name() != "Form" {
			continue
		}
		if err := readStream(&b, form); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func readStream(b *strings.Builder, v pdf.Value) error {
	if v.Kind() != pdf.Stream {
		return nil
	}
	rc := v.Reader()
	defer rc.Close()
	if _, err := io.Copy(b, rc); err != nil {
		return errors.NewKind(errors.ConversionFailed, "cannot read content stream: %v", err)
	}
	b.WriteByte('\n')
	return nil
}

// mediaBox resolves the page's MediaBox, which may be inherited from an
// ancestor in the page tree.
func mediaBox(page pdf.Value) (w, h float64) {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.IsNull() || box.Len() < 4 {
			continue
		}
		llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
		urx, ury := box.Index(2).Float64(), box.Index(3).Float64()
		return abs(urx - llx), abs(ury - lly)
	}
	return 0, 0
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// String renders a short description used by the inspect command.
func (p PageInfo) String() string {
	return fmt.Sprintf("page %d: %.2f x %.2f pt", p.Number, p.Width, p.Height)
}
