// Package markup turns word processing documents into lightweight HTML
// and that HTML into paragraphs of plain text.
package markup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"html"
	"io"
	"strings"

	"pdfmerge/internal/errors"
)

// Extractor produces HTML-like markup from a document's raw bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// Extract calls fn.
func (fn ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return fn(ctx, data)
}

// DOCX extracts markup from Office Open XML packages. Legacy binary .doc
// files are not packages and fail with an error.
type DOCX struct{}

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Extract implements Extractor.
func (DOCX) Extract(ctx context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "not a word processing package")
	}
	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New("package has no word/document.xml")
	}

	rc, err := body.Open()
	if err != nil {
		return "", errors.Wrap(err, "cannot open document body")
	}
	defer rc.Close()
	return convertBody(ctx, rc)
}

// convertBody walks the document XML emitting one block element per
// paragraph or table row. Heading styles become h1..h6.
func convertBody(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var out strings.Builder

	var (
		para     strings.Builder
		inPara   bool
		inText   bool
		tag      = "p"
		rowCells []string
		inRow    bool
	)

	flushPara := func() {
		text := para.String()
		para.Reset()
		if inRow {
			rowCells = append(rowCells, text)
			return
		}
		out.WriteString("<" + tag + ">" + html.EscapeString(text) + "</" + tag + ">\n")
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "malformed document body")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "tr":
				inRow = true
				rowCells = rowCells[:0]
			case "p":
				inPara = true
				tag = "p"
			case "pStyle":
				if inPara {
					tag = headingTag(attr(t, "val"))
				}
			case "t":
				inText = true
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					flushPara()
				}
				inPara = false
			case "tr":
				inRow = false
				out.WriteString("<tr>" + html.EscapeString(strings.Join(rowCells, "\t")) + "</tr>\n")
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func headingTag(style string) string {
	s := strings.ToLower(style)
	if strings.HasPrefix(s, "heading") && len(s) == len("heading")+1 {
		if d := s[len(s)-1]; d >= '1' && d <= '6' {
			return "h" + string(d)
		}
	}
	if s == "title" {
		return "h1"
	}
	return "p"
}
