package selection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/pkg/testutils"
	"pdfmerge/pkg/types"
)

func TestIsAcceptable(t *testing.T) {
	tests := []struct {
		name string
		file *types.CandidateFile
		want bool
	}{
		{"nil", nil, false},
		{"empty name", &types.CandidateFile{Size: 10}, false},
		{"dotfile", &types.CandidateFile{Name: ".DS_Store", Size: 10}, false},
		{"lock file", &types.CandidateFile{Name: "~$report.docx", Size: 10}, false},
		{"has size", &types.CandidateFile{Name: "README", Size: 1}, true},
		{"has mime", &types.CandidateFile{Name: "README", MimeHint: "text/plain"}, true},
		{"has extension", &types.CandidateFile{Name: "empty.txt"}, true},
		{"trailing dot", &types.CandidateFile{Name: "weird."}, false},
		{"inner dot before trailing dot", &types.CandidateFile{Name: "archive.tar."}, true},
		{"only dots at the end", &types.CandidateFile{Name: "notes.."}, true},
		{"bare", &types.CandidateFile{Name: "README"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAcceptable(tt.file))
		})
	}
}

func TestFilterAcceptableIsIdempotent(t *testing.T) {
	batch := []*types.CandidateFile{
		{Name: "a.pdf"},
		{Name: ".hidden", Size: 3},
		{Name: "b", Size: 3},
		{Name: "~tmp.txt"},
		{Name: "c"},
	}
	once := FilterAcceptable(batch)
	require.Len(t, once, 2)
	assert.Equal(t, "a.pdf", once[0].Name)
	assert.Equal(t, "b", once[1].Name)
	assert.Equal(t, once, FilterAcceptable(once))
}

func TestDetectMime(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"a.PDF":   "whatever",
		"page":    "<html><body>hi</body></html>",
		"blob":    "\x00\x01\x02\x03",
		"nothing": "",
	})
	assert.Equal(t, "application/pdf", DetectMime(filepath.Join(dir, "a.PDF"), 8))
	assert.Equal(t, "text/html; charset=utf-8", DetectMime(filepath.Join(dir, "page"), 28))
	assert.Equal(t, "", DetectMime(filepath.Join(dir, "blob"), 4))
	assert.Equal(t, "", DetectMime(filepath.Join(dir, "nothing"), 0))
}

func names(files []*types.CandidateFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelativePath
	}
	return out
}

func TestCollectOrderAndValidation(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	testutils.CreateTestFilesWithContent(t, docs, map[string]string{
		"b.txt":           "b",
		"a.pdf":           "a",
		"sub/c.png":       "c",
		"sub/deeper/d.md": "d",
		".git/config":     "x",
		".hidden":         "x",
		"~lock.docx":      "x",
		"zz/README":       "",
	})
	single := filepath.Join(dir, "single.eml")
	require.NoError(t, os.WriteFile(single, []byte("Subject: hi\n\nbody"), 0644))

	files, err := Collect(context.Background(), []string{single, docs}, Options{Recursive: true, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"single.eml",
		"docs/a.pdf",
		"docs/b.txt",
		"docs/sub/c.png",
		"docs/sub/deeper/d.md",
	}, names(files))

	assert.Equal(t, "a.pdf", files[1].Name)
	assert.Equal(t, "application/pdf", files[1].MimeHint)
	assert.Equal(t, int64(1), files[1].Size)

	data, err := files[0].ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Subject: hi\n\nbody", string(data))
}

func TestCollectIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	content := map[string]string{}
	for _, sub := range []string{"a", "b", "c", "d", "e", "f"} {
		for _, f := range []string{"1.txt", "2.txt", "3.txt"} {
			content[sub+"/"+f] = sub + f
			content[sub+"/inner/"+f] = sub + f
		}
	}
	testutils.CreateTestFilesWithContent(t, dir, content)

	first, err := Collect(context.Background(), []string{dir}, Options{Recursive: true, Workers: 8})
	require.NoError(t, err)
	require.Len(t, first, 36)
	for i := 0; i < 5; i++ {
		again, err := Collect(context.Background(), []string{dir}, Options{Recursive: true, Workers: 3})
		require.NoError(t, err)
		assert.Equal(t, names(first), names(again))
	}
}

func TestCollectNonRecursive(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"top.txt":     "x",
		"sub/low.txt": "x",
	})
	files, err := Collect(context.Background(), []string{dir}, Options{Workers: 1})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "top.txt", files[0].Name)
}

func TestCollectGlobs(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"a.pdf":           "x",
		"b.txt":           "x",
		"drafts/c.pdf":    "x",
		"final/d.pdf":     "x",
		"final/notes.txt": "x",
	})
	files, err := Collect(context.Background(), []string{dir}, Options{
		Include:   []string{"*.pdf"},
		Exclude:   []string{"*/drafts/*"},
		Recursive: true,
		Workers:   2,
	})
	require.NoError(t, err)

	var got []string
	for _, f := range files {
		got = append(got, f.Name)
	}
	assert.Equal(t, []string{"a.pdf", "d.pdf"}, got)
}

func TestCollectErrors(t *testing.T) {
	_, err := Collect(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, Options{})
	assert.True(t, errors.IsFileNotFound(err))

	_, err = Collect(context.Background(), nil, Options{Include: []string{"[unclosed"}})
	assert.True(t, errors.IsInvalidConfig(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	testutils.CreateTestFilesWithDefault(t, dir)
	_, err = Collect(ctx, []string{dir}, Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Selection.Exclude = []string{"*.tmp"}
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, []string{"*.tmp"}, opts.Exclude)
	assert.True(t, opts.Recursive)
	assert.Equal(t, 2, opts.Workers)
}
