//go:build !nogui
// +build !nogui

// Package gui is the desktop front end built on fyne. Files are added by
// dropping them on the window or through the file dialogs, reordered with
// the pick up and drop controls, and merged into the output directory.
package gui

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/log"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/selection"
	"pdfmerge/internal/session"
	"pdfmerge/pkg/types"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	cfgPath    string
	session    *session.Session

	mu       sync.Mutex
	entries  []types.FileEntry
	selected int // row selected in the file list, -1 for none
	picked   int // row picked up for reordering, -1 for none
	running  bool

	fileList      *widget.List
	orderingCheck *widget.Check
	progress      *widget.ProgressBar
	statusLabel   *widget.Label

	mergeButton *widget.Button
	retryButton *widget.Button
	saveButton  *widget.Button
	resetButton *widget.Button

	pickButton   *widget.Button
	beforeButton *widget.Button
	swapButton   *widget.Button
	endButton    *widget.Button
	cancelButton *widget.Button
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, cfgPath string, opts ...merge.Option) *App {
	// Create app with a unique ID for preferences storage
	return NewAppWith(app.NewWithID("io.github.pdfmerge"), cfg, cfgPath, opts...)
}

// NewAppWith builds the application on an existing fyne app, such as the
// one from fyne's test package.
func NewAppWith(fyneApp fyne.App, cfg *config.Config, cfgPath string, opts ...merge.Option) *App {
	a := &App{
		fyneApp:  fyneApp,
		cfg:      cfg,
		cfgPath:  cfgPath,
		selected: -1,
		picked:   -1,
	}

	// The output directory is read at delivery so that settings changes
	// apply to the next merge.
	sink := merge.SinkFunc(func(ctx context.Context, art types.Artifact) error {
		return merge.FileSink{Dir: a.cfg.Output.Directory}.Deliver(ctx, art)
	})
	opts = append([]merge.Option{merge.WithSink(sink)}, opts...)
	a.session = session.New(cfg, session.Funcs{
		OnFileListChanged: a.onFileListChanged,
		OnProgress:        a.onProgress,
		OnSucceeded:       a.onSucceeded,
		OnFailed:          a.onFailed,
	}, opts...)

	a.mainWindow = a.fyneApp.NewWindow("PDF Merge")
	a.setupMainWindow()
	return a
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Session returns the session the window drives.
func (a *App) Session() *session.Session {
	return a.session
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow.Show()
	a.fyneApp.Run()
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.fileList = widget.NewList(
		func() int {
			a.mu.Lock()
			defer a.mu.Unlock()
			return len(a.entries)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewLabel("Template"), layout.NewSpacer(), widget.NewLabel("Details"))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*fyne.Container)
			name, details := rowText(a.entryAt(i), i, a.pickedRow() == i)
			row.Objects[0].(*widget.Label).SetText(name)
			row.Objects[2].(*widget.Label).SetText(details)
		},
	)
	a.fileList.OnSelected = a.onSelected
	a.fileList.OnUnselected = func(widget.ListItemID) {
		a.mu.Lock()
		a.selected = -1
		a.mu.Unlock()
		a.updateControls()
	}

	a.orderingCheck = widget.NewCheck("Ordering mode", func(on bool) {
		a.session.SetOrdering(on)
		a.mu.Lock()
		a.picked = -1
		a.mu.Unlock()
		a.updateControls()
	})
	a.orderingCheck.SetChecked(a.session.Ordering())

	a.progress = widget.NewProgressBar()
	a.statusLabel = widget.NewLabel("Drop files here or use Add Files")
	a.statusLabel.Wrapping = fyne.TextWrapWord

	addFilesButton := widget.NewButton("Add Files...", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()
			go a.addPaths([]string{path})
		}, a.mainWindow)
	})
	addFolderButton := widget.NewButton("Add Folder...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			go a.addPaths([]string{uri.Path()})
		}, a.mainWindow)
	})

	a.pickButton = widget.NewButton("Pick Up", a.pickUp)
	a.beforeButton = widget.NewButton("Move Before", func() { a.dropOnRow(false) })
	a.swapButton = widget.NewButton("Swap", func() { a.dropOnRow(true) })
	a.endButton = widget.NewButton("Move to End", a.dropAtEnd)
	a.cancelButton = widget.NewButton("Cancel", a.cancelDrag)

	a.mergeButton = widget.NewButton("Merge to PDF", func() { go a.mergeAndReport(a.merge) })
	a.retryButton = widget.NewButton("Retry", func() { go a.mergeAndReport(a.retry) })
	a.saveButton = widget.NewButton("Save Again", func() {
		go func() {
			if err := a.redeliver(); err != nil {
				a.ShowError("Save failed", err)
			}
		}()
	})
	a.resetButton = widget.NewButton("Reset", a.reset)
	a.mergeButton.Importance = widget.HighImportance

	reorderBar := container.NewHBox(a.orderingCheck, layout.NewSpacer(),
		a.pickButton, a.beforeButton, a.swapButton, a.endButton, a.cancelButton)
	topBar := container.NewVBox(container.NewHBox(addFilesButton, addFolderButton), reorderBar)
	bottomBar := container.NewVBox(
		a.progress,
		a.statusLabel,
		container.NewHBox(a.mergeButton, a.retryButton, a.saveButton, layout.NewSpacer(), a.resetButton),
	)
	mergeTab := container.NewBorder(topBar, bottomBar, nil, nil, a.fileList)

	tabs := container.NewAppTabs(
		container.NewTabItem("Merge", mergeTab),
		container.NewTabItem("Settings", a.createSettingsTab()),
	)

	a.mainWindow.SetContent(tabs)
	a.mainWindow.Resize(fyne.NewSize(800, 600))
	a.mainWindow.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		paths := make([]string, 0, len(uris))
		for _, u := range uris {
			paths = append(paths, u.Path())
		}
		go a.addPaths(paths)
	})
	a.updateControls()
}

func rowText(e types.FileEntry, i int, picked bool) (string, string) {
	name := e.Name
	if e.RelativePath != "" {
		name = e.RelativePath
	}
	marker := "  "
	if picked {
		marker = "≡ "
	}
	return fmt.Sprintf("%s%d. %s", marker, i+1, name), fmt.Sprintf("%s  %s", e.TypeLabel, e.HumanSize())
}

func (a *App) entryAt(i int) types.FileEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.entries) {
		return types.FileEntry{}
	}
	return a.entries[i]
}

func (a *App) pickedRow() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.picked
}

func (a *App) onFileListChanged(entries []types.FileEntry) {
	a.mu.Lock()
	a.entries = entries
	if a.selected >= len(entries) {
		a.selected = -1
	}
	a.mu.Unlock()
	if a.fileList != nil {
		a.fileList.Refresh()
	}
	a.updateControls()
}

func (a *App) onProgress(percent int, message string) {
	a.progress.SetValue(float64(percent) / 100)
	a.statusLabel.SetText(message)
}

func (a *App) onSucceeded(filename string) {
	path := merge.FileSink{Dir: a.cfg.Output.Directory}.Path(types.Artifact{Filename: filename})
	a.progress.SetValue(1)
	a.statusLabel.SetText("PDF created successfully! Saved " + path)
}

func (a *App) onFailed(message string) {
	a.statusLabel.SetText(message)
}

func (a *App) onSelected(id widget.ListItemID) {
	a.mu.Lock()
	a.selected = id
	picked := a.picked
	a.mu.Unlock()

	// Selecting a row while a file is picked up hovers the gap before it.
	if picked >= 0 {
		a.gesture(filelist.Over(id))
	}
	a.updateControls()
}

// addPaths expands paths and appends the acceptable files to the list.
func (a *App) addPaths(paths []string) error {
	files, err := selection.Collect(context.Background(), paths, selection.OptionsFromConfig(a.cfg))
	if err != nil {
		a.statusLabel.SetText(err.Error())
		log.LogWithError(err).Warn("Could not add dropped files")
		return err
	}
	if len(files) == 0 {
		a.statusLabel.SetText("No supported files found")
		return nil
	}
	if err := a.session.AddFiles(files); err != nil {
		a.statusLabel.SetText(err.Error())
		return err
	}
	a.statusLabel.SetText(fmt.Sprintf("Added %d file(s)", len(files)))
	return nil
}

func (a *App) gesture(g filelist.Gesture) bool {
	if _, err := a.session.Gesture(g); err != nil {
		a.statusLabel.SetText(err.Error())
		return false
	}
	return true
}

func (a *App) pickUp() {
	a.mu.Lock()
	sel := a.selected
	a.mu.Unlock()
	if sel < 0 || !a.gesture(filelist.Start(sel)) {
		return
	}
	a.mu.Lock()
	a.picked = sel
	a.mu.Unlock()
	a.statusLabel.SetText("Select where the file should go")
	a.fileList.Refresh()
	a.updateControls()
}

// dropOnRow drops the picked file before the selected row, or swaps the
// two when swap is set.
func (a *App) dropOnRow(swap bool) {
	a.mu.Lock()
	src, sel := a.picked, a.selected
	a.mu.Unlock()
	if src < 0 || sel < 0 {
		return
	}
	g := filelist.DropAt(src, sel)
	if swap {
		g = filelist.DropOn(src, sel)
	}
	a.finishDrag(g)
}

func (a *App) dropAtEnd() {
	a.mu.Lock()
	src, n := a.picked, len(a.entries)
	a.mu.Unlock()
	if src < 0 {
		return
	}
	a.finishDrag(filelist.DropAt(src, n))
}

func (a *App) cancelDrag() {
	a.mu.Lock()
	src := a.picked
	a.mu.Unlock()
	if src < 0 {
		return
	}
	a.finishDrag(filelist.Cancel(src))
}

func (a *App) finishDrag(g filelist.Gesture) {
	a.gesture(g)
	a.mu.Lock()
	a.picked = -1
	a.mu.Unlock()
	a.fileList.UnselectAll()
	a.fileList.Refresh()
	a.updateControls()
}

func (a *App) setRunning(running bool) {
	a.mu.Lock()
	a.running = running
	a.mu.Unlock()
	a.updateControls()
}

// merge runs a merge of the current list and blocks until it is done.
func (a *App) merge() error {
	a.setRunning(true)
	defer a.setRunning(false)
	a.progress.SetValue(0)
	_, err := a.session.StartMerge(context.Background())
	return err
}

func (a *App) retry() error {
	a.setRunning(true)
	defer a.setRunning(false)
	a.progress.SetValue(0)
	_, err := a.session.Retry(context.Background())
	return err
}

func (a *App) redeliver() error {
	a.setRunning(true)
	defer a.setRunning(false)
	return a.session.Redeliver(context.Background())
}

func (a *App) mergeAndReport(run func() error) {
	err := run()
	switch {
	case err == nil:
		art, _ := a.session.Artifact()
		a.fyneApp.SendNotification(fyne.NewNotification("PDF created", art.Filename))
	case errors.IsRunInProgress(err):
	default:
		a.ShowError("Merge failed", err)
	}
}

func (a *App) reset() {
	if err := a.session.Reset(); err != nil {
		a.statusLabel.SetText(err.Error())
		return
	}
	a.mu.Lock()
	a.picked, a.selected = -1, -1
	a.mu.Unlock()
	a.orderingCheck.SetChecked(false)
	a.fileList.UnselectAll()
	a.progress.SetValue(0)
	a.statusLabel.SetText("Selection cleared")
	a.updateControls()
}

// updateControls enables the buttons that make sense in the current state.
func (a *App) updateControls() {
	if a.mergeButton == nil {
		return
	}
	a.mu.Lock()
	n, sel, picked, running := len(a.entries), a.selected, a.picked, a.running
	a.mu.Unlock()
	ordering := a.session.Ordering()
	_, hasArtifact := a.session.Artifact()

	setEnabled(a.mergeButton, !running && n > 0)
	setEnabled(a.retryButton, !running && n > 0 && a.session.Snapshot().Status == types.Failed)
	setEnabled(a.saveButton, !running && hasArtifact)
	setEnabled(a.resetButton, !running)

	setEnabled(a.pickButton, !running && ordering && picked < 0 && sel >= 0)
	setEnabled(a.beforeButton, !running && ordering && picked >= 0 && sel >= 0)
	setEnabled(a.swapButton, !running && ordering && picked >= 0 && sel >= 0 && sel != picked)
	setEnabled(a.endButton, !running && ordering && picked >= 0)
	setEnabled(a.cancelButton, !running && ordering && picked >= 0)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Warn(title)
	dialog.ShowError(err, a.mainWindow)
}

// ShowInfo displays an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("Information", message, a.mainWindow)
}

// Run opens the window with paths, if any, already added.
func Run(cfg *config.Config, cfgPath string, paths []string) error {
	a := NewApp(cfg, cfgPath)
	if len(paths) > 0 {
		go a.addPaths(paths)
	}
	a.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
