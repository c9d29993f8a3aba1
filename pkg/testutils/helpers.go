package testutils

import (
	"archive/zip"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/xml"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"

	"pdfmerge/pkg/types"
)

// FixedTime is the modification time given to fixture candidates.
var FixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// CreateTestFilesWithContent creates test files with specific content.
// Names may contain slashes; parent directories are created.
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// CreateTestFilesWithDefault creates a small mixed selection.
func CreateTestFilesWithDefault(t *testing.T, dir string) {
	t.Helper()
	CreateTestFilesWithContent(t, dir, map[string]string{
		"notes.txt":  "test content 1",
		"readme.txt": "test content 2",
		".hidden":    "dotfile",
		"~lock.doc":  "lock",
	})
}

// Candidate builds an in-memory candidate.
func Candidate(name string, data []byte) *types.CandidateFile {
	return types.NewMemoryCandidate(name, "", data, FixedTime)
}

// PDF renders a PDF with one page per size (width, height in points).
// Every page carries the text "Page N".
func PDF(t *testing.T, sizes ...[2]float64) []byte {
	t.Helper()
	return MarkedPDF(t, "Page", sizes...)
}

// MarkedPDF is PDF with every page carrying "<marker> N" instead.
func MarkedPDF(t *testing.T, marker string, sizes ...[2]float64) []byte {
	t.Helper()
	if len(sizes) == 0 {
		sizes = [][2]float64{{595.28, 841.89}}
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: sizes[0][0], Ht: sizes[0][1]},
	})
	pdf.SetCreationDate(FixedTime)
	pdf.SetModificationDate(FixedTime)
	for i, s := range sizes {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: s[0], Ht: s[1]})
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(40, 60, marker+" "+strconv.Itoa(i+1))
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

// PNG encodes a solid w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

// JPEG encodes a solid w x h image.
func JPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

// JPEGWithExif is JPEG with an EXIF block holding the camera model and a
// capture time in EXIF form ("2006:01:02 15:04:05").
func JPEGWithExif(t *testing.T, w, h int, model, taken string) []byte {
	t.Helper()
	img := JPEG(t, w, h)

	// Little-endian TIFF with a single IFD of two ASCII entries.
	strs := []struct {
		tag uint16
		val string
	}{{0x0110, model + "\x00"}, {0x0132, taken + "\x00"}}
	le := binary.LittleEndian
	var tif bytes.Buffer
	tif.WriteString("II")
	binary.Write(&tif, le, uint16(42))
	binary.Write(&tif, le, uint32(8))
	binary.Write(&tif, le, uint16(len(strs)))
	offset := uint32(8 + 2 + 12*len(strs) + 4)
	for _, e := range strs {
		binary.Write(&tif, le, e.tag)
		binary.Write(&tif, le, uint16(2))
		binary.Write(&tif, le, uint32(len(e.val)))
		binary.Write(&tif, le, offset)
		offset += uint32(len(e.val))
	}
	binary.Write(&tif, le, uint32(0))
	for _, e := range strs {
		tif.WriteString(e.val)
	}

	payload := append([]byte("Exif\x00\x00"), tif.Bytes()...)
	var out bytes.Buffer
	out.Write(img[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(img[2:])
	return out.Bytes()
}

// InterlacedPNG returns a 1x1 Adam7-interlaced PNG. Go decodes it but
// the PDF writer refuses interlaced images, so it exercises re-encoding.
func InterlacedPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte("\x89PNG\r\n\x1a\n"))

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], 1)
	binary.BigEndian.PutUint32(ihdr[4:], 1)
	ihdr[8] = 8  // bit depth
	ihdr[9] = 2  // truecolor
	ihdr[12] = 1 // Adam7
	writeChunk(&buf, "IHDR", ihdr)

	// Only the first pass holds a pixel for a 1x1 image.
	var raw bytes.Buffer
	zw := zlib.NewWriter(&raw)
	_, err := zw.Write([]byte{0, 200, 40, 40})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	writeChunk(&buf, "IDAT", raw.Bytes())
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	buf.Write(n[:])
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	buf.WriteString(typ)
	buf.Write(data)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	buf.Write(n[:])
}

func solid(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

// DOCX builds a minimal word processing package whose body holds one
// paragraph per entry.
func DOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		require.NoError(t, xml.EscapeText(&body, []byte(p)))
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	return ZipWith(t, map[string]string{"word/document.xml": body.String()})
}

// ZipWith builds a zip archive holding the given files.
func ZipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
