// Package session is the boundary between a user interface and the merge
// core. It owns the file list, the ordering mode and the orchestrator and
// reports changes to a Listener.
package session

import (
	"context"
	"sync"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/selection"
	"pdfmerge/pkg/types"
)

// NoFilesMessage is reported when a merge is started before anything was
// selected.
const NoFilesMessage = "No files selected. Please select files to process."

// TargetKind tells whether a reorder drops between files or onto one.
type TargetKind int

const (
	Insertion TargetKind = iota
	Item
)

// Target is where a reordered file is dropped.
type Target struct {
	Kind  TargetKind
	Index int
}

// Session holds one user's selection.
type Session struct {
	mu       sync.Mutex
	ordering bool
	// picked is set once the user has chosen files, even if none of them
	// were acceptable.
	picked bool

	list     *filelist.List
	drag     *filelist.Controller
	orch     *merge.Orchestrator
	listener Listener
}

// New creates a session. opts are passed to the orchestrator; progress is
// always forwarded to listener.
func New(cfg *config.Config, listener Listener, opts ...merge.Option) *Session {
	if listener == nil {
		listener = Funcs{}
	}
	s := &Session{
		list:     filelist.New(nil),
		listener: listener,
	}
	s.drag = filelist.NewController(s.list)
	opts = append(opts, merge.WithObserver(s.observe))
	s.orch = merge.New(cfg, opts...)
	s.setOrdering(cfg.Ordering.Enabled)
	return s
}

func (s *Session) observe(run types.MergeRun) {
	if run.Status.Busy() {
		s.listener.ProgressUpdated(run.Percent, run.Message)
	}
}

func (s *Session) listChanged() {
	s.listener.FileListChanged(s.list.Entries())
}

func (s *Session) busy() bool {
	return s.orch.Snapshot().Status.Busy()
}

// SelectFiles replaces the selection with the acceptable files of batch.
func (s *Session) SelectFiles(batch []*types.CandidateFile) error {
	if s.busy() {
		return errors.ErrRunInProgress
	}
	s.list.SetAll(selection.FilterAcceptable(batch))
	s.setPicked(len(batch) > 0)
	s.drag.SetEnabled(s.Ordering())
	s.listChanged()
	return nil
}

// AddFiles appends the acceptable files of batch to the selection.
func (s *Session) AddFiles(batch []*types.CandidateFile) error {
	if s.busy() {
		return errors.ErrRunInProgress
	}
	s.list.Append(selection.FilterAcceptable(batch))
	if len(batch) > 0 {
		s.setPicked(true)
	}
	s.listChanged()
	return nil
}

func (s *Session) setPicked(on bool) {
	s.mu.Lock()
	s.picked = on
	s.mu.Unlock()
}

func (s *Session) wasPicked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picked
}

// Ordering reports whether ordering mode is on.
func (s *Session) Ordering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordering
}

func (s *Session) setOrdering(on bool) {
	s.mu.Lock()
	s.ordering = on
	s.mu.Unlock()
	s.drag.SetEnabled(on)
}

// SetOrdering turns ordering mode on or off. Turning it off restores the
// selection order.
func (s *Session) SetOrdering(on bool) {
	s.setOrdering(on)
	if !on {
		s.list.ResetOrder()
	}
	s.listChanged()
}

// Reorder moves the file at source to an insertion point or swaps it
// with another file.
func (s *Session) Reorder(source int, target Target) error {
	if !s.Ordering() {
		return errors.ErrOrderingDisabled
	}
	var err error
	switch target.Kind {
	case Insertion:
		err = s.list.MoveToInsertionPoint(source, target.Index)
	case Item:
		err = s.list.Swap(source, target.Index)
	default:
		err = errors.Newf("unknown reorder target %d", target.Kind)
	}
	if err != nil {
		return err
	}
	s.listChanged()
	return nil
}

// Gesture feeds a raw drag event to the drag controller. The returned
// action tells the presentation layer what to highlight.
func (s *Session) Gesture(g filelist.Gesture) (filelist.Action, error) {
	action, err := s.drag.Handle(g)
	if err != nil {
		return action, err
	}
	if action.Kind == filelist.Move || action.Kind == filelist.Swap {
		s.listChanged()
	}
	return action, nil
}

// DragState returns the drag controller state.
func (s *Session) DragState() filelist.State {
	return s.drag.State()
}

// Entries returns the list in its current order.
func (s *Session) Entries() []types.FileEntry {
	return s.list.Entries()
}

// Files returns the files a merge would process, in processing order.
func (s *Session) Files() []*types.CandidateFile {
	if s.Ordering() {
		return s.list.Items()
	}
	return s.list.Selection()
}

// StartMerge merges the current list. Files are processed in the user's
// order when ordering mode is on and in selection order otherwise. A
// selection whose files were all rejected still runs, and fails validation.
func (s *Session) StartMerge(ctx context.Context) (*merge.Result, error) {
	files := s.Files()
	if len(files) == 0 && !s.wasPicked() {
		err := errors.NewRunError(NoFilesMessage, errors.PhaseValidating, errors.NoValidFiles, nil)
		s.listener.Failed(NoFilesMessage)
		return nil, err
	}

	res, err := s.orch.Run(ctx, files)
	switch {
	case errors.IsRunInProgress(err):
		return nil, err
	case errors.IsDeliveryFailed(err):
		s.listener.Succeeded(res.Artifact.Filename)
		s.listener.Failed(err.Error())
		return res, err
	case err != nil:
		s.listener.Failed(err.Error())
		return nil, err
	}
	s.listener.Succeeded(res.Artifact.Filename)
	return res, nil
}

// Retry starts over with the files still selected.
func (s *Session) Retry(ctx context.Context) (*merge.Result, error) {
	if err := s.orch.Reset(); err != nil {
		return nil, err
	}
	return s.StartMerge(ctx)
}

// Redeliver hands the last merged document to the sink again.
func (s *Session) Redeliver(ctx context.Context) error {
	if err := s.orch.Redeliver(ctx); err != nil {
		s.listener.Failed(err.Error())
		return err
	}
	a, _ := s.orch.Artifact()
	s.listener.Succeeded(a.Filename)
	return nil
}

// Reset clears the selection, turns ordering mode off and forgets the
// last merged document.
func (s *Session) Reset() error {
	if err := s.orch.Reset(); err != nil {
		return err
	}
	s.list.Clear()
	s.setPicked(false)
	s.setOrdering(false)
	s.listChanged()
	return nil
}

// Snapshot returns the state of the current or last run.
func (s *Session) Snapshot() types.MergeRun {
	return s.orch.Snapshot()
}

// Artifact returns the last merged document, if any.
func (s *Session) Artifact() (types.Artifact, bool) {
	return s.orch.Artifact()
}
