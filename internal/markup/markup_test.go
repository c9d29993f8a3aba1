package markup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmerge/internal/markup"
	"pdfmerge/pkg/testutils"
)

func TestParagraphs(t *testing.T) {
	in := `<h1>Title</h1><p>First   paragraph
with a <b>bold</b> word.</p><div>Second &amp; last<br/>line two</div><p>  </p>`

	paras := markup.Paragraphs(in)
	assert.Equal(t, []string{
		"Title",
		"First paragraph\nwith a bold word.",
		"Second & last\nline two",
	}, paras)
}

func TestParagraphsSkipsScripts(t *testing.T) {
	paras := markup.Paragraphs(`<style>p{}</style><p>visible</p><script>var x = 1;</script>`)
	assert.Equal(t, []string{"visible"}, paras)
}

func TestToText(t *testing.T) {
	assert.Equal(t, "one\n\ntwo", markup.ToText("<p>one</p><p>two</p>"))
	assert.Equal(t, "", markup.ToText(""))
	assert.Equal(t, "plain text", markup.ToText("plain   text"))
}

func TestDOCXExtract(t *testing.T) {
	data := testutils.DOCX(t, "Quarterly report", "Revenue grew <10%> & costs fell.")

	out, err := markup.DOCX{}.Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Contains(t, out, "<p>Quarterly report</p>")

	paras := markup.Paragraphs(out)
	assert.Equal(t, []string{"Quarterly report", "Revenue grew <10%> & costs fell."}, paras)
}

func TestDOCXRejectsLegacyDoc(t *testing.T) {
	// OLE compound file magic, as found at the start of .doc files.
	legacy := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0, 0, 0, 0}
	_, err := markup.DOCX{}.Extract(context.Background(), legacy)
	require.Error(t, err)
}

func TestDOCXRequiresDocumentPart(t *testing.T) {
	_, err := markup.DOCX{}.Extract(context.Background(), testutils.ZipWith(t, map[string]string{"other.xml": "<x/>"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestDOCXHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := markup.DOCX{}.Extract(ctx, testutils.DOCX(t, "x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtractorFunc(t *testing.T) {
	var e markup.Extractor = markup.ExtractorFunc(func(ctx context.Context, data []byte) (string, error) {
		return "<p>" + string(data) + "</p>", nil
	})
	out, err := e.Extract(context.Background(), []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", out)
}
