// Package filelist holds the ordered list of files to merge and the drag
// controller that reorders it.
package filelist

import (
	"sync"

	"pdfmerge/internal/errors"
	"pdfmerge/pkg/types"
)

// List keeps two orders over the same files: the order they were
// selected in and the order the user arranged. It holds references only;
// reordering moves entries and never copies them. It is safe for
// concurrent use.
type List struct {
	mu        sync.RWMutex
	selection []*types.CandidateFile
	items     []*types.CandidateFile
}

// New returns a list holding files in the given order.
func New(files []*types.CandidateFile) *List {
	l := &List{}
	l.SetAll(files)
	return l
}

// SetAll replaces the selection and the current order with files.
func (l *List) SetAll(files []*types.CandidateFile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection = append([]*types.CandidateFile(nil), files...)
	l.items = append([]*types.CandidateFile(nil), files...)
}

// Append adds a batch to the end of both orders.
func (l *List) Append(files []*types.CandidateFile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection = append(l.selection, files...)
	l.items = append(l.items, files...)
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection = nil
	l.items = nil
}

// Len returns the number of files.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns a copy of the current order.
func (l *List) Items() []*types.CandidateFile {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*types.CandidateFile(nil), l.items...)
}

// Selection returns a copy of the selection order.
func (l *List) Selection() []*types.CandidateFile {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*types.CandidateFile(nil), l.selection...)
}

// ResetOrder makes the current order equal to the selection order again.
func (l *List) ResetOrder() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items[:0], l.selection...)
}

// MoveToInsertionPoint moves the file at source to the gap point, where
// gap 0 is before the first file and gap Len() after the last. Dropping
// a file on either gap next to itself changes nothing.
func (l *List) MoveToInsertionPoint(source, point int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.items)
	if source < 0 || source >= n {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "source %d not in [0,%d)", source, n)
	}
	if point < 0 || point > n {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "insertion point %d not in [0,%d]", point, n)
	}
	if point == source || point == source+1 {
		return nil
	}

	moved := l.items[source]
	l.items = append(l.items[:source], l.items[source+1:]...)
	if source < point {
		point--
	}
	l.items = append(l.items, nil)
	copy(l.items[point+1:], l.items[point:])
	l.items[point] = moved
	return nil
}

// Swap exchanges the files at a and b.
func (l *List) Swap(a, b int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.items)
	if a < 0 || a >= n || b < 0 || b >= n {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "swap %d,%d not in [0,%d)", a, b, n)
	}
	l.items[a], l.items[b] = l.items[b], l.items[a]
	return nil
}

// Entries returns the current order in display form.
func (l *List) Entries() []types.FileEntry {
	return types.EntriesFor(l.Items())
}
