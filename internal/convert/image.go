package convert

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // register decoder
	_ "image/jpeg"
	"image/png"
	"strings"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/layout"
	"pdfmerge/internal/log"
	"pdfmerge/pkg/types"
)

// Formats the output document embeds without re-encoding.
var directFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// maxDecodePixels bounds images that have to be decoded before embedding.
// Dimensions come from the file header, so this is checked before decoding.
const maxDecodePixels = 40_000_000

var registerExif sync.Once

// Image places a raster image on its own page, scaled to fit inside the
// margins and centered.
type Image struct {
	Settings Settings
}

// Convert implements Converter.
func (c Image) Convert(ctx context.Context, f *types.CandidateFile, doc Document) types.ConversionOutcome {
	before := doc.PageCount()
	data, err := f.ReadAll(ctx)
	if err != nil {
		return failed(doc, c.Settings, f, before, "cannot read file: "+err.Error())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return failed(doc, c.Settings, f, before, "cannot read image dimensions: "+err.Error())
	}
	logger := log.LogWithFields(
		log.F("file", f.RelativePath),
		log.F("format", format),
		log.F("width", cfg.Width),
		log.F("height", cfg.Height),
	)
	var meta map[string]string
	if format == "jpeg" || format == "tiff" {
		meta = exifMetadata(data)
		for k, v := range meta {
			logger = logger.With(log.F(k, v))
		}
	}

	name, err := c.embed(doc, data, format, cfg, logger)
	if err != nil {
		return failed(doc, c.Settings, f, before, err.Error())
	}

	w, h := doc.PageSize()
	doc.AddPage()
	doc.DrawImage(name, layout.FitImage(w, h, c.Settings.Margin, cfg.Width, cfg.Height))
	if caption := exifCaption(meta); caption != "" {
		// The caption sits in the bottom margin, below the fitted image.
		doc.SetFont(layout.Font{Size: c.Settings.FontSize * 0.8})
		doc.Text(c.Settings.Margin, h-c.Settings.Margin/2, caption)
	}
	logger.Debug("Image placed")
	return types.Appended(1)
}

// embed registers the original bytes when the document accepts the format
// and otherwise re-encodes the decoded image as PNG.
func (c Image) embed(doc Document, data []byte, format string, cfg image.Config, logger *log.Entry) (string, error) {
	if directFormats[format] {
		name, err := doc.RegisterImage(data, format)
		if err == nil {
			return name, nil
		}
		logger.Debugf("Direct embed failed, re-encoding: %v", err)
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxDecodePixels {
		return "", errors.NewKind(errors.ConversionFailed, "image is %dx%d pixels, too large to decode", cfg.Width, cfg.Height)
	}
	encoded, err := reencode(data)
	if err != nil {
		return "", errors.NewKind(errors.ConversionFailed, "cannot decode image: %v", err)
	}
	name, err := doc.RegisterImage(encoded, "png")
	if err != nil {
		return "", errors.NewKind(errors.ConversionFailed, "cannot embed re-encoded image: %v", err)
	}
	return name, nil
}

// reencode decodes any registered format, draws it onto an NRGBA canvas
// and returns the canvas as a non-interlaced PNG.
func reencode(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exifMetadata returns the capture time and camera model when present.
// Broken EXIF blocks are ignored.
func exifMetadata(data []byte) (meta map[string]string) {
	registerExif.Do(func() { exif.RegisterParsers(mknote.All...) })
	meta = map[string]string{}
	defer func() {
		if recover() != nil {
			meta = map[string]string{}
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return meta
	}
	if dt, err := x.DateTime(); err == nil {
		meta["taken"] = dt.Format(timeLayout)
	}
	if model, err := x.Get(exif.Model); err == nil {
		if s, err := model.StringVal(); err == nil && s != "" {
			meta["camera"] = s
		}
	}
	return meta
}

// exifCaption renders the metadata found by exifMetadata as one line.
func exifCaption(meta map[string]string) string {
	var parts []string
	if v := meta["taken"]; v != "" {
		parts = append(parts, "Taken "+v)
	}
	if v := meta["camera"]; v != "" {
		parts = append(parts, "Camera "+v)
	}
	return strings.Join(parts, ", ")
}
