package convert

import (
	"strings"

	"pdfmerge/internal/markup"
	"pdfmerge/pkg/types"
)

// Kind is a converter family.
type Kind int

const (
	KindInfo Kind = iota
	KindPDF
	KindImage
	KindText
	KindWord
	KindEmail
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	case KindWord:
		return "word"
	case KindEmail:
		return "email"
	default:
		return "info"
	}
}

var kindsByExtension = map[string]Kind{
	"pdf":  KindPDF,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"png":  KindImage,
	"gif":  KindImage,
	"bmp":  KindImage,
	"webp": KindImage,
	"tiff": KindImage,
	"tif":  KindImage,
	"txt":  KindText,
	"doc":  KindWord,
	"docx": KindWord,
	"eml":  KindEmail,
	"msg":  KindEmail,
}

// KindFor maps an extension, in any case and with or without the
// leading dot, to a converter family. Unknown extensions map to KindInfo.
func KindFor(ext string) Kind {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if k, ok := kindsByExtension[ext]; ok {
		return k
	}
	return KindInfo
}

// Dispatcher holds one converter per family.
type Dispatcher struct {
	converters map[Kind]Converter
}

// NewDispatcher wires the standard converters. Word documents are
// extracted with extractor, or with markup.DOCX when it is nil.
func NewDispatcher(s Settings, extractor markup.Extractor) *Dispatcher {
	if extractor == nil {
		extractor = markup.DOCX{}
	}
	return &Dispatcher{converters: map[Kind]Converter{
		KindPDF:   PDF{Settings: s},
		KindImage: Image{Settings: s},
		KindText:  Text{Settings: s},
		KindWord:  Word{Settings: s, Extractor: extractor},
		KindEmail: Email{Settings: s},
		KindInfo:  Info{Settings: s},
	}}
}

// Register replaces the converter used for kind.
func (d *Dispatcher) Register(kind Kind, c Converter) {
	d.converters[kind] = c
}

// For returns the converter for f.
func (d *Dispatcher) For(f *types.CandidateFile) (Kind, Converter) {
	kind := KindFor(f.Extension())
	return kind, d.converters[kind]
}
