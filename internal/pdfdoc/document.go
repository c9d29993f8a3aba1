// Package pdfdoc is the output document of a merge. It wraps fpdf for
// drawing and serialization and gofpdi for importing pages of source PDFs.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/phpdave11/gofpdi"
	"golang.org/x/text/encoding/charmap"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/layout"
)

const fontFamily = "Helvetica"

// Options configures a new Document.
type Options struct {
	PageWidth  float64 // points
	PageHeight float64 // points
	Title      string
	Created    time.Time // written as creation and modification date
}

// Image formats accepted by RegisterImage.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
)

// Document accumulates pages until it is finalized with Bytes.
type Document struct {
	pdf      *fpdf.Fpdf
	importer *gofpdi.Importer
	// gofpdi keys its readers by the address of the stream pointer, so
	// every pointer handed to it stays reachable for the document's life.
	streams []*io.ReadSeeker
	nextObj int

	pageW, pageH float64
	font         layout.Font
	fontSet      bool
	images       int

	once     sync.Once
	output   []byte
	finalErr error
}

// New creates an empty document whose standard page is PageWidth x PageHeight.
func New(opts Options) *Document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: opts.PageWidth, Ht: opts.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("pdfmerge", false)
	pdf.SetProducer("pdfmerge", false)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	created := opts.Created
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)

	return &Document{
		pdf:      pdf,
		importer: gofpdi.NewImporter(),
		nextObj:  1,
		pageW:    opts.PageWidth,
		pageH:    opts.PageHeight,
	}
}

// PageSize returns the standard page size in points.
func (d *Document) PageSize() (w, h float64) {
	return d.pageW, d.pageH
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

// AddPage starts a new page of the standard size.
func (d *Document) AddPage() {
	d.AddPageSize(d.pageW, d.pageH)
}

// AddPageSize starts a page of the given size in points.
func (d *Document) AddPageSize(w, h float64) {
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	// fpdf forgets the font on a new page.
	d.fontSet = false
}

// SetFont selects the font for subsequent Text calls.
func (d *Document) SetFont(f layout.Font) {
	if d.fontSet && d.font == f {
		return
	}
	style := ""
	if f.Bold {
		style = "B"
	}
	d.pdf.SetFont(fontFamily, style, f.Size)
	d.font = f
	d.fontSet = true
}

// Text draws s with its baseline at y.
func (d *Document) Text(x, y float64, s string) {
	d.pdf.Text(x, y, encode(s))
}

// Measurer measures strings in font f using the font's glyph widths.
func (d *Document) Measurer(f layout.Font) layout.Measurer {
	return layout.MeasureFunc(func(s string) float64 {
		d.SetFont(f)
		return d.pdf.GetStringWidth(encode(s))
	})
}

// RegisterImage embeds encoded image bytes and returns the name to draw
// them with. Only JPEG, PNG and GIF are accepted; any decoding problem is
// returned and leaves the document usable.
func (d *Document) RegisterImage(data []byte, format string) (string, error) {
	var imageType string
	switch format {
	case FormatJPEG:
		imageType = "JPG"
	case FormatPNG:
		imageType = "PNG"
	case FormatGIF:
		imageType = "GIF"
	default:
		return "", errors.Newf("image format %q cannot be embedded directly", format)
	}

	d.images++
	name := fmt.Sprintf("img%d", d.images)
	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if d.pdf.Err() {
		err := d.pdf.Error()
		d.pdf.ClearError()
		return "", err
	}
	return name, nil
}

// DrawImage places a registered image inside r.
func (d *Document) DrawImage(name string, r layout.Rect) {
	d.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, fpdf.ImageOptions{}, 0, "")
}

// ImportPDF appends every page of a source PDF, each at its own MediaBox
// size, and returns the number of pages added. Page content is copied as a
// form XObject. Malformed or encrypted sources return an error and add no
// pages.
func (d *Document) ImportPDF(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewKind(errors.ConversionFailed, "cannot read PDF: %v", r)
		}
	}()

	rs := io.ReadSeeker(bytes.NewReader(data))
	d.streams = append(d.streams, &rs)
	d.importer.SetSourceStream(&rs)
	// fpdf resolves imported objects by a hash of their object number, and
	// stream sources all hash alike, so each source numbers from its own base.
	d.importer.SetNextObjectID(d.nextObj)

	sizes := d.importer.GetPageSizes()
	if len(sizes) == 0 {
		return 0, errors.NewKind(errors.ConversionFailed, "PDF has no pages")
	}
	templates := make([]int, 0, len(sizes))
	for n := 1; n <= len(sizes); n++ {
		templates = append(templates, d.importer.ImportPage(n, "/MediaBox"))
	}

	names := d.importer.PutFormXobjectsUnordered()
	objs := d.importer.GetImportedObjectsUnordered()
	d.pdf.ImportTemplates(names)
	d.pdf.ImportObjects(objs)
	d.pdf.ImportObjPos(d.importer.GetImportedObjHashPos())
	d.nextObj += len(objs) + 1

	for i, tpl := range templates {
		w, h := sizes[i+1]["/MediaBox"]["w"], sizes[i+1]["/MediaBox"]["h"]
		if w <= 0 || h <= 0 {
			w, h = d.pageW, d.pageH
		}
		d.AddPageSize(w, h)
		name, sx, sy, tx, ty := d.importer.UseTemplate(tpl, 0, 0, w, h)
		d.pdf.UseImportedTemplate(name, sx, sy, tx, ty)
	}
	return len(templates), d.takeError()
}

func (d *Document) takeError() error {
	if !d.pdf.Err() {
		return nil
	}
	err := d.pdf.Error()
	d.pdf.ClearError()
	return errors.NewKind(errors.ConversionFailed, "cannot import PDF: %v", err)
}

// Bytes serializes the document. It runs once; later calls return the
// same bytes or the same error. No pages should be added afterwards.
func (d *Document) Bytes() ([]byte, error) {
	d.once.Do(func() {
		var buf bytes.Buffer
		if err := d.pdf.Output(&buf); err != nil {
			d.finalErr = errors.NewRunError("could not serialize document", errors.PhaseFinalizing, errors.FinalizationFailed, err)
			return
		}
		d.output = buf.Bytes()
	})
	return d.output, d.finalErr
}

// encode maps s onto the WinAnsi code page used by the standard fonts.
// Characters outside it become '?' and control characters become spaces.
func encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			b.WriteByte(' ')
			continue
		}
		if r < 0x80 {
			b.WriteByte(byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
