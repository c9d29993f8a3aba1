package convert

import (
	"pdfmerge/internal/config"
	"pdfmerge/internal/layout"
)

// Settings controls how text-bearing pages are laid out.
type Settings struct {
	Margin          float64
	FontSize        float64
	TitleSize       float64
	LineHeight      float64
	CharWidthFactor float64
	UseFontMetrics  bool
	EmailMaxLines   int
}

// DefaultSettings matches the defaults of the configuration file.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.New())
}

// SettingsFromConfig reads the page and text sections of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Margin:          cfg.Page.Margin,
		FontSize:        cfg.Text.FontSize,
		TitleSize:       cfg.Text.TitleSize,
		LineHeight:      cfg.Text.LineHeight,
		CharWidthFactor: cfg.Text.CharWidthFactor,
		UseFontMetrics:  cfg.Text.UseFontMetrics,
		EmailMaxLines:   cfg.Text.EmailMaxLines,
	}
}

func (s Settings) bodyFont() layout.Font  { return layout.Font{Size: s.FontSize} }
func (s Settings) boldFont() layout.Font  { return layout.Font{Bold: true, Size: s.FontSize} }
func (s Settings) titleFont() layout.Font { return layout.Font{Bold: true, Size: s.TitleSize} }

// measurer prefers the document's glyph metrics and falls back to the
// character count heuristic.
func (s Settings) measurer(doc Document, f layout.Font) layout.Measurer {
	if s.UseFontMetrics {
		return doc.Measurer(f)
	}
	return layout.Heuristic{FontSize: f.Size, Factor: s.CharWidthFactor}
}
