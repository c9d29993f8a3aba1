package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmerge/internal/config"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/session"
	"pdfmerge/internal/tui/common"
	"pdfmerge/internal/tui/messages"
	"pdfmerge/pkg/testutils"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyPress(k))
		run(m, cmd)
	}
}

// run executes cmd and feeds back the messages the model produces for
// itself. Spinner ticks and other framework messages are dropped.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}
	for _, msg := range msgs {
		switch msg.(type) {
		case messages.MergeDoneMsg, messages.FilesCollectedMsg:
			m.Update(msg)
		}
	}
}

func newModel(t *testing.T) (*Model, string) {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.Output.Directory = t.TempDir()
	m := New(cfg, nil, merge.WithClock(func() time.Time { return testutils.FixedTime }))
	return m, cfg.Output.Directory
}

func withFiles(t *testing.T, m *Model, names ...string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{}
	for _, n := range names {
		files[n] = "content of " + n
	}
	testutils.CreateTestFilesWithContent(t, dir, files)
	run(m, m.collect([]string{dir}, true))
	require.Len(t, m.Entries(), len(names))
}

func order(m *Model) []string {
	files := m.Session().Files()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

func TestModelInitialization(t *testing.T) {
	m, _ := newModel(t)
	assert.NotNil(t, m)
	assert.Equal(t, common.Normal, m.Mode())
	assert.Empty(t, m.Entries())
	assert.Equal(t, -1, m.DragSlot())
	assert.Equal(t, -1, m.DragSource())
	assert.False(t, m.Ordering())
	assert.NotNil(t, m.Init())
}

func TestNavigation(t *testing.T) {
	m, _ := newModel(t)

	t.Run("empty list", func(t *testing.T) {
		press(t, m, "j", "k", "k")
		assert.Equal(t, 0, m.Cursor())
	})

	withFiles(t, m, "a.txt", "b.txt", "c.txt")

	t.Run("clamped at both ends", func(t *testing.T) {
		press(t, m, "j", "j", "j", "j")
		assert.Equal(t, 2, m.Cursor())
		press(t, m, "k", "k", "k")
		assert.Equal(t, 0, m.Cursor())
	})
}

func TestPickUpNeedsOrderingMode(t *testing.T) {
	m, _ := newModel(t)
	withFiles(t, m, "a.txt", "b.txt")

	press(t, m, " ")
	text, isError := m.Status()
	assert.True(t, isError)
	assert.Contains(t, text, "ordering mode")
	assert.Equal(t, -1, m.DragSlot())
}

func TestKeyboardMoveToGap(t *testing.T) {
	m, _ := newModel(t)
	withFiles(t, m, "a.txt", "b.txt", "c.txt")

	press(t, m, "o", " ")
	require.True(t, m.Ordering())
	assert.Equal(t, 1, m.DragSlot())
	assert.Equal(t, 0, m.DragSource())

	// slot 1 (a) -> 2 (gap) -> 3 (b) -> 4 (gap after b)
	press(t, m, "j", "j", "j")
	assert.Equal(t, 4, m.DragSlot())

	press(t, m, "enter")
	assert.Equal(t, []string{"b.txt", "a.txt", "c.txt"}, order(m))
	assert.Equal(t, 1, m.Cursor(), "cursor follows the moved file")
	assert.Equal(t, -1, m.DragSlot())
}

func TestKeyboardSwap(t *testing.T) {
	m, _ := newModel(t)
	withFiles(t, m, "a.txt", "b.txt", "c.txt")

	press(t, m, "o", " ", "j", "j", "j", "j", "enter")
	assert.Equal(t, []string{"c.txt", "b.txt", "a.txt"}, order(m))
	assert.Equal(t, 2, m.Cursor())
}

func TestDragSlotIsClamped(t *testing.T) {
	m, _ := newModel(t)
	withFiles(t, m, "a.txt", "b.txt")

	press(t, m, "o", " ", "k", "k", "k")
	assert.Equal(t, 0, m.DragSlot())
	press(t, m, "j", "j", "j", "j", "j", "j")
	assert.Equal(t, 4, m.DragSlot())
}

func TestCancelDragKeepsOrder(t *testing.T) {
	m, _ := newModel(t)
	withFiles(t, m, "a.txt", "b.txt", "c.txt")

	press(t, m, "o", " ", "j", "j", "j", "esc")
	assert.Equal(t, -1, m.DragSlot())
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, order(m))
}

func TestOrderingOffRestoresSelectionOrder(t *testing.T) {
	m, _ := newModel(t)
	withFiles(t, m, "a.txt", "b.txt")

	press(t, m, "o", " ", "j", "j", "j", "enter")
	require.Equal(t, []string{"b.txt", "a.txt"}, order(m))

	press(t, m, "o")
	assert.False(t, m.Ordering())
	assert.Equal(t, []string{"a.txt", "b.txt"}, order(m))
	assert.Equal(t, "a.txt", m.Entries()[0].Name)
}

func TestMergeWritesPDF(t *testing.T) {
	m, out := newModel(t)
	withFiles(t, m, "a.txt", "b.txt")

	press(t, m, "m")
	assert.Equal(t, common.Normal, m.Mode())

	text, isError := m.Status()
	assert.False(t, isError)
	assert.Contains(t, text, "PDF created successfully!")

	percent, message := m.Progress()
	assert.Equal(t, 100, percent)
	assert.Equal(t, "PDF created successfully!", message)

	_, err := os.Stat(filepath.Join(out, "merged-files-1709294400000.pdf"))
	assert.NoError(t, err)
}

func TestMergeWithNothingSelected(t *testing.T) {
	m, _ := newModel(t)

	press(t, m, "m")
	text, isError := m.Status()
	assert.True(t, isError)
	assert.Equal(t, session.NoFilesMessage, text)
}

func TestRedeliverNeedsArtifact(t *testing.T) {
	m, _ := newModel(t)

	press(t, m, "s")
	text, isError := m.Status()
	assert.True(t, isError)
	assert.Contains(t, text, "Nothing to save")
}

func TestRedeliverAfterMerge(t *testing.T) {
	m, out := newModel(t)
	withFiles(t, m, "a.txt")

	press(t, m, "m")
	target := filepath.Join(out, "merged-files-1709294400000.pdf")
	require.NoError(t, os.Remove(target))

	press(t, m, "s")
	_, err := os.Stat(target)
	assert.NoError(t, err)
}

func TestResetClearsEverything(t *testing.T) {
	m, _ := newModel(t)
	withFiles(t, m, "a.txt", "b.txt")

	press(t, m, "o", "m", "r")
	assert.Empty(t, m.Entries())
	assert.False(t, m.Ordering())
	percent, _ := m.Progress()
	assert.Zero(t, percent)
	text, _ := m.Status()
	assert.Equal(t, "Selection cleared", text)
}

func TestListenerEventsOnlyApplyWhileMerging(t *testing.T) {
	m, _ := newModel(t)

	m.Update(messages.ProgressMsg{Percent: 50, Message: "half"})
	percent, _ := m.Progress()
	assert.Zero(t, percent)

	m.mode = common.Merging
	_, cmd := m.Update(messages.ProgressMsg{Percent: 50, Message: "half"})
	percent, message := m.Progress()
	assert.Equal(t, 50, percent)
	assert.Equal(t, "half", message)
	assert.NotNil(t, cmd, "listener events re-arm the event reader")
}

func TestPickerMode(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(keyPress("a"))
	assert.Equal(t, common.Picking, m.Mode())
	assert.NotNil(t, cmd)

	press(t, m, "tab")
	assert.Equal(t, common.Normal, m.Mode())
}

func TestCollectErrorIsShown(t *testing.T) {
	m, _ := newModel(t)

	run(m, m.collect([]string{filepath.Join(t.TempDir(), "missing.pdf")}, false))
	text, isError := m.Status()
	assert.True(t, isError)
	assert.Contains(t, text, "missing.pdf")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newModel(t)
	press(t, m, "?")
	assert.True(t, m.ShowHelp())
	press(t, m, "?")
	assert.False(t, m.ShowHelp())
}
