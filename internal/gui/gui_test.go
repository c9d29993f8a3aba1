//go:build !nogui
// +build !nogui

package gui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmerge/internal/config"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/session"
	"pdfmerge/pkg/testutils"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.Output.Directory = t.TempDir()
	a := NewAppWith(test.NewApp(), cfg, filepath.Join(t.TempDir(), "config.yaml"),
		merge.WithClock(func() time.Time { return testutils.FixedTime }))
	t.Cleanup(func() { a.mainWindow.Close() })
	return a
}

func addFiles(t *testing.T, a *App, names ...string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{}
	for _, n := range names {
		files[n] = "content of " + n
	}
	testutils.CreateTestFilesWithContent(t, dir, files)
	require.NoError(t, a.addPaths([]string{dir}))
}

func order(a *App) []string {
	var names []string
	for _, f := range a.Session().Files() {
		names = append(names, f.Name)
	}
	return names
}

// TestNewApp checks if the GUI application initializes without errors.
func TestNewApp(t *testing.T) {
	a := newTestApp(t)

	w := a.GetMainWindow()
	require.NotNil(t, w, "Main window should not be nil")
	tabs, ok := w.Content().(*container.AppTabs)
	require.True(t, ok, "Window content should be the tab container")
	assert.Len(t, tabs.Items, 2)

	assert.True(t, a.mergeButton.Disabled(), "nothing to merge yet")
	assert.True(t, a.pickButton.Disabled(), "ordering mode is off")
}

func TestAddPathsAndMerge(t *testing.T) {
	a := newTestApp(t)
	addFiles(t, a, "a.txt", "b.txt")

	assert.Equal(t, 2, a.fileList.Length())
	assert.Equal(t, "Added 2 file(s)", a.statusLabel.Text)
	assert.False(t, a.mergeButton.Disabled())

	require.NoError(t, a.merge())
	assert.Equal(t, 1.0, a.progress.Value)
	assert.Contains(t, a.statusLabel.Text, "PDF created successfully!")

	_, err := os.Stat(filepath.Join(a.cfg.Output.Directory, "merged-files-1709294400000.pdf"))
	assert.NoError(t, err)
	assert.False(t, a.saveButton.Disabled())
}

func TestAddMissingPath(t *testing.T) {
	a := newTestApp(t)
	err := a.addPaths([]string{filepath.Join(t.TempDir(), "missing.pdf")})
	assert.Error(t, err)
	assert.Contains(t, a.statusLabel.Text, "missing.pdf")
}

func TestMergeNothingSelected(t *testing.T) {
	a := newTestApp(t)
	assert.Error(t, a.merge())
	assert.Equal(t, session.NoFilesMessage, a.statusLabel.Text)
}

func TestReorderControls(t *testing.T) {
	a := newTestApp(t)
	addFiles(t, a, "a.txt", "b.txt", "c.txt")

	a.orderingCheck.SetChecked(true)
	require.True(t, a.Session().Ordering())

	t.Run("move before", func(t *testing.T) {
		a.onSelected(0)
		test.Tap(a.pickButton)
		assert.Equal(t, 0, a.pickedRow())

		name, _ := rowText(a.entryAt(0), 0, true)
		assert.Contains(t, name, "≡")

		a.onSelected(2)
		test.Tap(a.beforeButton)
		assert.Equal(t, []string{"b.txt", "a.txt", "c.txt"}, order(a))
		assert.Equal(t, -1, a.pickedRow())
	})

	t.Run("swap", func(t *testing.T) {
		a.onSelected(0)
		test.Tap(a.pickButton)
		a.onSelected(2)
		test.Tap(a.swapButton)
		assert.Equal(t, []string{"c.txt", "a.txt", "b.txt"}, order(a))
	})

	t.Run("move to end", func(t *testing.T) {
		a.onSelected(0)
		test.Tap(a.pickButton)
		test.Tap(a.endButton)
		assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, order(a))
	})

	t.Run("cancel", func(t *testing.T) {
		a.onSelected(1)
		test.Tap(a.pickButton)
		test.Tap(a.cancelButton)
		assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, order(a))
	})

	t.Run("turning ordering off restores selection order", func(t *testing.T) {
		a.onSelected(0)
		test.Tap(a.pickButton)
		test.Tap(a.endButton)
		require.Equal(t, []string{"b.txt", "c.txt", "a.txt"}, order(a))

		a.orderingCheck.SetChecked(false)
		assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, order(a))
		assert.True(t, a.pickButton.Disabled())
	})
}

func TestReset(t *testing.T) {
	a := newTestApp(t)
	addFiles(t, a, "a.txt")
	a.orderingCheck.SetChecked(true)

	test.Tap(a.resetButton)
	assert.Zero(t, a.fileList.Length())
	assert.False(t, a.orderingCheck.Checked)
	assert.Equal(t, "Selection cleared", a.statusLabel.Text)
}

func TestSaveSettings(t *testing.T) {
	a := newTestApp(t)
	a.cfg.Output.Prefix = "bundle"
	a.cfg.Text.EmailMaxLines = 12

	require.NoError(t, a.saveConfig())
	loaded, err := config.LoadConfigFile(a.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "bundle", loaded.Output.Prefix)
	assert.Equal(t, 12, loaded.Text.EmailMaxLines)

	a.cfg.Output.Prefix = ""
	assert.Error(t, a.saveConfig(), "invalid settings are not written")
}
