package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/merge"
	"pdfmerge/pkg/testutils"
	"pdfmerge/pkg/types"
)

type recorder struct {
	lists     [][]string
	progress  []string
	succeeded []string
	failed    []string
}

func (r *recorder) FileListChanged(entries []types.FileEntry) {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	r.lists = append(r.lists, names)
}

func (r *recorder) ProgressUpdated(_ int, message string) { r.progress = append(r.progress, message) }
func (r *recorder) Succeeded(filename string)             { r.succeeded = append(r.succeeded, filename) }
func (r *recorder) Failed(message string)                 { r.failed = append(r.failed, message) }

func (r *recorder) lastList() []string {
	if len(r.lists) == 0 {
		return nil
	}
	return r.lists[len(r.lists)-1]
}

func batch(names ...string) []*types.CandidateFile {
	out := make([]*types.CandidateFile, len(names))
	for i, n := range names {
		out[i] = testutils.Candidate(n, []byte("content of "+n))
	}
	return out
}

func newSession(t *testing.T, opts ...merge.Option) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(config.NewTestConfig(), rec, opts...), rec
}

func TestSelectFilters(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.SelectFiles(batch("a.txt", ".hidden", "b.txt")))
	assert.Equal(t, []string{"a.txt", "b.txt"}, rec.lastList())

	require.NoError(t, s.AddFiles(batch("c.txt", "~tmp")))
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, rec.lastList())
}

func TestReorderRequiresOrdering(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.SelectFiles(batch("A.txt", "B.txt", "C.txt")))

	err := s.Reorder(0, Target{Kind: Insertion, Index: 2})
	assert.True(t, errors.IsOrderingDisabled(err))
	_, err = s.Gesture(filelist.Start(0))
	assert.True(t, errors.IsOrderingDisabled(err))

	s.SetOrdering(true)
	require.NoError(t, s.Reorder(0, Target{Kind: Insertion, Index: 2}))
	assert.Equal(t, []string{"B.txt", "A.txt", "C.txt"}, rec.lastList())

	require.NoError(t, s.Reorder(0, Target{Kind: Item, Index: 2}))
	assert.Equal(t, []string{"C.txt", "A.txt", "B.txt"}, rec.lastList())

	assert.True(t, errors.IsIndexOutOfRange(s.Reorder(5, Target{Kind: Insertion, Index: 0})))
}

func TestGestures(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.SelectFiles(batch("A.txt", "B.txt", "C.txt")))
	s.SetOrdering(true)
	changes := len(rec.lists)

	_, err := s.Gesture(filelist.Start(2))
	require.NoError(t, err)
	a, err := s.Gesture(filelist.Over(0))
	require.NoError(t, err)
	assert.Equal(t, filelist.Highlight, a.Kind)
	assert.Equal(t, filelist.Dragging, s.DragState().Phase)
	assert.Len(t, rec.lists, changes, "hovering does not change the list")

	_, err = s.Gesture(filelist.DropAt(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"C.txt", "A.txt", "B.txt"}, rec.lastList())
	assert.Equal(t, filelist.Idle, s.DragState().Phase)
}

func TestOrderingOffUsesSelectionOrder(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.SelectFiles(batch("A.txt", "B.txt")))
	s.SetOrdering(true)
	require.NoError(t, s.Reorder(1, Target{Kind: Insertion, Index: 0}))
	assert.Equal(t, "B.txt", s.Files()[0].Name)

	s.SetOrdering(false)
	assert.Equal(t, []string{"A.txt", "B.txt"}, rec.lastList())
	assert.Equal(t, "A.txt", s.Files()[0].Name)

	res, err := s.StartMerge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A.txt", res.Outcomes[0].File.Name)
}

func TestStartMergeNotifies(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.SelectFiles(batch("a.txt", "b.txt")))

	res, err := s.StartMerge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{res.Artifact.Filename}, rec.succeeded)
	assert.True(t, strings.HasPrefix(res.Artifact.Filename, "merged-files-"))
	assert.Contains(t, rec.progress, "Preparing files...")
	assert.Contains(t, rec.progress, "Processing file 2 of 2...")
	assert.Contains(t, rec.progress, "Finalizing PDF...")
	assert.Empty(t, rec.failed)
}

func TestStartMergeWithNothingSelected(t *testing.T) {
	s, rec := newSession(t)
	_, err := s.StartMerge(context.Background())
	assert.True(t, errors.IsNoValidFiles(err))
	assert.Equal(t, []string{NoFilesMessage}, rec.failed)
	assert.Equal(t, types.Idle, s.Snapshot().Status)
}

func TestStartMergeWithOnlyRejectedFiles(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.SelectFiles(batch(".hidden", "~lock.txt")))
	require.Empty(t, s.Files())

	_, err := s.StartMerge(context.Background())
	assert.True(t, errors.IsNoValidFiles(err))
	assert.Equal(t, []string{"No valid files to process"}, rec.failed)
	snap := s.Snapshot()
	assert.Equal(t, types.Failed, snap.Status)
	assert.Equal(t, "No valid files to process", snap.Err)

	// A reset forgets the rejected pick.
	require.NoError(t, s.Reset())
	rec.failed = nil
	_, err = s.StartMerge(context.Background())
	assert.True(t, errors.IsNoValidFiles(err))
	assert.Equal(t, []string{NoFilesMessage}, rec.failed)
}

func TestDeliveryFailureAndRedeliver(t *testing.T) {
	fail := true
	sink := merge.SinkFunc(func(context.Context, types.Artifact) error {
		if fail {
			return errors.New("permission denied")
		}
		return nil
	})
	s, rec := newSession(t, merge.WithSink(sink))
	require.NoError(t, s.SelectFiles(batch("a.txt")))

	res, err := s.StartMerge(context.Background())
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"Failed to download PDF: permission denied"}, rec.failed)
	_, ok := s.Artifact()
	assert.True(t, ok)

	fail = false
	require.NoError(t, s.Redeliver(context.Background()))
	assert.Equal(t, []string{res.Artifact.Filename, res.Artifact.Filename}, rec.succeeded)
}

func TestRetryKeepsSelection(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.SelectFiles(batch("a.txt", "b.txt")))
	_, err := s.StartMerge(context.Background())
	require.NoError(t, err)

	res, err := s.Retry(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Outcomes, 2)
}

func TestReset(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.SelectFiles(batch("a.txt")))
	s.SetOrdering(true)
	_, err := s.StartMerge(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	assert.Empty(t, rec.lastList())
	assert.False(t, s.Ordering())
	assert.Equal(t, types.Idle, s.Snapshot().Status)
	_, ok := s.Artifact()
	assert.False(t, ok)
}

func TestOrderingDefaultFromConfig(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Ordering.Enabled = true
	s := New(cfg, nil)
	assert.True(t, s.Ordering())
	require.NoError(t, s.SelectFiles(batch("a.txt", "b.txt")))
	require.NoError(t, s.Reorder(1, Target{Kind: Insertion, Index: 0}))
	assert.Equal(t, "b.txt", s.Files()[0].Name)
}
