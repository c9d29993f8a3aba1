package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixed measures every rune as 1pt.
var fixed = Heuristic{FontSize: 1, Factor: 1}

func TestHeuristic(t *testing.T) {
	h := Heuristic{FontSize: 11, Factor: 0.5}
	assert.InDelta(t, 27.5, h.Measure("hello"), 1e-9)
	assert.InDelta(t, 11.0, h.Measure("çé"), 1e-9, "runes, not bytes")
	assert.Zero(t, h.Measure(""))
}

func TestWrapGreedy(t *testing.T) {
	lines := Wrap("the quick brown fox jumps", 10, fixed)
	assert.Equal(t, []string{"the quick", "brown fox", "jumps"}, lines)

	for _, l := range lines {
		assert.Less(t, fixed.Measure(l), 10.0)
	}
}

func TestWrapStrictWidth(t *testing.T) {
	// "abcd efgh" is 9 wide; with width 9 it must not fit.
	assert.Equal(t, []string{"abcd", "efgh"}, Wrap("abcd efgh", 9, fixed))
	assert.Equal(t, []string{"abcd efgh"}, Wrap("abcd efgh", 9.5, fixed))
}

func TestWrapPreservesNewlines(t *testing.T) {
	lines := Wrap("first line\n\nthird\r\nfourth", 100, fixed)
	assert.Equal(t, []string{"first line", "", "third", "fourth"}, lines)
}

func TestWrapCollapsesInnerWhitespace(t *testing.T) {
	assert.Equal(t, []string{"a b c"}, Wrap("  a \t b   c  ", 100, fixed))
}

func TestWrapSplitsLongWords(t *testing.T) {
	lines := Wrap("xx abcdefghij yy", 4, fixed)
	assert.Equal(t, []string{"xx", "abc", "def", "ghi", "j", "yy"}, lines)

	joined := strings.ReplaceAll(strings.Join(lines, ""), " ", "")
	assert.Equal(t, "xxabcdefghijyy", joined, "no characters lost")
}

func TestWrapTinyWidthMakesProgress(t *testing.T) {
	lines := Wrap("abc", 0.5, fixed)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestWrapEmpty(t *testing.T) {
	assert.Equal(t, []string{""}, Wrap("", 10, fixed))
}

func TestMeasureFunc(t *testing.T) {
	m := MeasureFunc(func(s string) float64 { return float64(len(s)) * 2 })
	assert.Equal(t, []string{"ab", "cd"}, Wrap("ab cd", 6, m))
}

func TestFitImageLandscape(t *testing.T) {
	// 4000x3000 photo on A4 with 50pt margins is width constrained.
	r := FitImage(595.28, 841.89, 50, 4000, 3000)

	assert.InDelta(t, 495.28, r.W, 1e-6)
	assert.InDelta(t, 371.46, r.H, 1e-6)
	assert.InDelta(t, 50, r.X, 1e-6)
	assert.InDelta(t, (841.89-371.46)/2, r.Y, 1e-6)
}

func TestFitImagePortrait(t *testing.T) {
	// Taller than the drawable area: height constrained.
	r := FitImage(595.28, 841.89, 50, 1000, 3000)

	assert.InDelta(t, 741.89, r.H, 1e-6)
	assert.InDelta(t, 741.89/3, r.W, 1e-6)
	assert.InDelta(t, 50, r.Y, 1e-6)
	assert.InDelta(t, (595.28-r.W)/2, r.X, 1e-6)
}

func TestFitImageInvariants(t *testing.T) {
	pageW, pageH, margin := 595.28, 841.89, 50.0
	sizes := [][2]int{{1, 1}, {1, 5000}, {5000, 1}, {640, 480}, {495, 741}, {16, 9}, {3, 4}}

	for _, s := range sizes {
		r := FitImage(pageW, pageH, margin, s[0], s[1])
		require.Greater(t, r.W, 0.0)
		assert.LessOrEqual(t, r.W, pageW-2*margin+1e-9)
		assert.LessOrEqual(t, r.H, pageH-2*margin+1e-9)
		assert.GreaterOrEqual(t, r.X, margin-1e-9)
		assert.GreaterOrEqual(t, r.Y, margin-1e-9)
		assert.InDelta(t, float64(s[0])/float64(s[1]), r.W/r.H, 1e-9, "aspect preserved")
		assert.InDelta(t, pageW/2, r.X+r.W/2, 1e-9, "centered horizontally")
		assert.InDelta(t, pageH/2, r.Y+r.H/2, 1e-9, "centered vertically")

		// one dimension touches the margins
		touchesW := abs(r.W-(pageW-2*margin)) < 1e-9
		touchesH := abs(r.H-(pageH-2*margin)) < 1e-9
		assert.True(t, touchesW || touchesH)
	}
}

func TestFitImageDegenerate(t *testing.T) {
	r := FitImage(595.28, 841.89, 50, 0, 0)
	assert.Equal(t, Rect{X: 50, Y: 50, W: 495.28, H: 741.89}, r)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
