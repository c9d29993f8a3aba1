// Package layout holds the page arithmetic shared by the converters: greedy
// line wrapping against a width measurer and image fitting.
package layout

import (
	"strings"
	"unicode/utf8"
)

// Font selects a face and size for measuring and drawing.
type Font struct {
	Bold bool
	Size float64
}

// Measurer returns the rendered width of s in points.
type Measurer interface {
	Measure(s string) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(s string) float64

// Measure calls fn.
func (fn MeasureFunc) Measure(s string) float64 { return fn(s) }

// Heuristic approximates widths as rune count x font size x factor.
// It is used when no font metrics are available.
type Heuristic struct {
	FontSize float64
	Factor   float64
}

// Measure implements Measurer.
func (h Heuristic) Measure(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * h.FontSize * h.Factor
}

// Wrap breaks text into lines no wider than width. Words are added to a
// line while the candidate stays strictly narrower than width. Explicit
// newlines start a new line and empty lines are kept. A single word wider
// than width is split between runes.
func Wrap(text string, width float64, m Measurer) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, width, m)...)
	}
	return lines
}

func wrapParagraph(para string, width float64, m Measurer) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if m.Measure(candidate) < width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		if m.Measure(word) < width {
			line = word
			continue
		}
		pieces := splitWord(word, width, m)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// splitWord cuts an overlong word into pieces that fit. Each piece holds
// at least one rune so progress is guaranteed for tiny widths.
func splitWord(word string, width float64, m Measurer) []string {
	var pieces []string
	var cur []rune
	for _, r := range word {
		next := string(append(cur, r))
		if len(cur) > 0 && m.Measure(next) >= width {
			pieces = append(pieces, string(cur))
			cur = []rune{r}
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		pieces = append(pieces, string(cur))
	}
	return pieces
}
