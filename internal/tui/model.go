// Package tui is the terminal front end. It drives a session.Session from
// the keyboard and shows the file list, the drag cursor and merge progress.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/selection"
	"pdfmerge/internal/session"
	"pdfmerge/internal/tui/common"
	"pdfmerge/internal/tui/components"
	"pdfmerge/internal/tui/messages"
	"pdfmerge/internal/tui/styles"
	"pdfmerge/internal/tui/views"
	"pdfmerge/pkg/types"
)

const eventBuffer = 64

type Model struct {
	// Core state
	mode     common.Mode
	entries  []types.FileEntry
	cursor   int
	dragSlot int
	showHelp bool
	percent  int
	message  string
	initial  []string

	ctx     context.Context
	session *session.Session
	sink    merge.FileSink
	opts    selection.Options
	events  chan tea.Msg

	keys   types.KeyMap
	help   help.Model
	picker filepicker.Model
	status *components.StatusBar
}

// listener forwards session events into the program. Sends never block;
// the outcome of a merge is also returned by the command that ran it.
type listener struct {
	events chan<- tea.Msg
}

func (l listener) send(msg tea.Msg) {
	select {
	case l.events <- msg:
	default:
	}
}

func (l listener) FileListChanged(entries []types.FileEntry) {
	l.send(messages.FileListMsg{Entries: entries})
}

func (l listener) ProgressUpdated(percent int, message string) {
	l.send(messages.ProgressMsg{Percent: percent, Message: message})
}

func (l listener) Succeeded(filename string) { l.send(messages.SucceededMsg{Filename: filename}) }
func (l listener) Failed(message string)     { l.send(messages.FailedMsg{Message: message}) }

// New creates the model. paths, if any, are collected when the program
// starts and become the initial selection.
func New(cfg *config.Config, paths []string, opts ...merge.Option) *Model {
	styles.Apply(cfg)

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	picker := filepicker.New()
	picker.CurrentDirectory = wd
	picker.DirAllowed = true
	picker.FileAllowed = true
	picker.Height = 15
	picker.Styles = styles.PickerStyles()

	m := &Model{
		mode:     common.Normal,
		dragSlot: -1,
		initial:  paths,
		ctx:      context.Background(),
		sink:     merge.FileSink{Dir: cfg.Output.Directory},
		opts:     selection.OptionsFromConfig(cfg),
		events:   make(chan tea.Msg, eventBuffer),
		keys:     types.DefaultKeyMap(),
		help:     help.New(),
		picker:   picker,
		status:   components.NewStatusBar(),
	}
	opts = append([]merge.Option{merge.WithSink(m.sink)}, opts...)
	m.session = session.New(cfg, listener{events: m.events}, opts...)
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent()}
	if len(m.initial) > 0 {
		cmds = append(cmds, m.collect(m.initial, true))
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case messages.FileListMsg:
		m.setEntries(msg.Entries)
		return m, m.waitForEvent()

	case messages.ProgressMsg:
		if m.mode == common.Merging {
			m.percent, m.message = msg.Percent, msg.Message
		}
		return m, m.waitForEvent()

	case messages.SucceededMsg:
		if m.mode == common.Merging {
			m.status.SetText("PDF created successfully! Saved " + m.sink.Path(types.Artifact{Filename: msg.Filename}))
		}
		return m, m.waitForEvent()

	case messages.FailedMsg:
		if m.mode == common.Merging {
			m.status.SetError(msg.Message)
		}
		return m, m.waitForEvent()

	case messages.MergeDoneMsg:
		m.finishMerge(msg.Err)
		return m, nil

	case messages.FilesCollectedMsg:
		m.addCollected(msg)
		return m, nil
	}

	cmd := m.status.Update(msg)
	if m.mode == common.Picking {
		var pcmd tea.Cmd
		m.picker, pcmd = m.picker.Update(msg)
		cmd = tea.Batch(cmd, pcmd)
	}
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case common.Picking:
		return m.handlePickerKeys(msg)
	case common.Merging:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.toggleHelp()
		}
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ClosePicker) {
		m.mode = common.Normal
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.mode = common.Normal
		return m, tea.Batch(cmd, m.collect([]string{path}, false))
	}
	return m, cmd
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dragging := m.dragging()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()

	case key.Matches(msg, m.keys.Down):
		if dragging {
			m.moveDrag(1)
		} else if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if dragging {
			m.moveDrag(-1)
		} else if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.PickUp):
		m.pickUp()

	case key.Matches(msg, m.keys.Drop):
		if dragging {
			m.drop()
		}

	case key.Matches(msg, m.keys.CancelDrag):
		if dragging {
			m.gesture(filelist.Cancel(m.DragSource()))
			m.dragSlot = -1
		}

	case key.Matches(msg, m.keys.ToggleOrdering):
		on := !m.session.Ordering()
		m.session.SetOrdering(on)
		m.dragSlot = -1
		m.refresh()
		if on {
			m.status.SetText("Ordering mode on: space picks up a file")
		} else {
			m.status.SetText("Ordering mode off: files merge in selection order")
		}

	case key.Matches(msg, m.keys.AddFiles):
		m.mode = common.Picking
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.Merge):
		return m, m.startMerge(m.session.StartMerge)

	case key.Matches(msg, m.keys.Retry):
		return m, m.startMerge(m.session.Retry)

	case key.Matches(msg, m.keys.Redeliver):
		if _, ok := m.session.Artifact(); !ok {
			m.status.SetError("Nothing to save yet. Merge some files first.")
			return m, nil
		}
		return m, m.startMerge(func(ctx context.Context) (*merge.Result, error) {
			return nil, m.session.Redeliver(ctx)
		})

	case key.Matches(msg, m.keys.Reset):
		if err := m.session.Reset(); err != nil {
			m.status.SetError(err.Error())
			return m, nil
		}
		m.dragSlot = -1
		m.percent, m.message = 0, ""
		m.refresh()
		m.status.SetText("Selection cleared")
	}
	return m, nil
}

func (m *Model) toggleHelp() {
	m.showHelp = !m.showHelp
	m.help.ShowAll = m.showHelp
}

func (m *Model) pickUp() {
	if !m.session.Ordering() {
		m.status.SetError("Turn on ordering mode with o to reorder files")
		return
	}
	if len(m.entries) == 0 || m.dragging() {
		return
	}
	if m.gesture(filelist.Start(m.cursor)) {
		m.dragSlot = 2*m.cursor + 1
	}
}

// moveDrag moves the drag cursor over the 2n+1 slots and highlights the
// gap under it.
func (m *Model) moveDrag(delta int) {
	slot := min(max(m.dragSlot+delta, 0), 2*len(m.entries))
	if slot == m.dragSlot {
		return
	}
	m.dragSlot = slot
	if slot%2 == 0 {
		m.gesture(filelist.Over(slot / 2))
	}
}

func (m *Model) drop() {
	src := m.DragSource()
	slot := m.dragSlot
	m.dragSlot = -1

	if slot%2 == 0 {
		point := slot / 2
		if m.gesture(filelist.DropAt(src, point)) {
			if point > src {
				point--
			}
			m.cursor = point
		}
	} else {
		target := slot / 2
		if m.gesture(filelist.DropOn(src, target)) {
			m.cursor = target
		}
	}
	m.refresh()
}

func (m *Model) gesture(g filelist.Gesture) bool {
	if _, err := m.session.Gesture(g); err != nil {
		m.status.SetError(err.Error())
		return false
	}
	return true
}

func (m *Model) startMerge(run func(context.Context) (*merge.Result, error)) tea.Cmd {
	if m.dragging() {
		m.gesture(filelist.Cancel(m.DragSource()))
		m.dragSlot = -1
	}
	m.mode = common.Merging
	m.percent, m.message = 0, ""
	m.status.SetText("Merging...")
	m.status.SetLoading(true)

	ctx := m.ctx
	return tea.Batch(m.status.Tick, func() tea.Msg {
		_, err := run(ctx)
		return messages.MergeDoneMsg{Err: err}
	})
}

func (m *Model) finishMerge(err error) {
	m.mode = common.Normal
	m.status.SetLoading(false)

	run := m.session.Snapshot()
	m.percent, m.message = run.Percent, run.Message

	switch {
	case err == nil:
		a, _ := m.session.Artifact()
		m.status.SetText("PDF created successfully! Saved " + m.sink.Path(a))
	case errors.IsRunInProgress(err):
		m.status.SetError("A merge is already running")
	default:
		m.status.SetError(err.Error())
	}
}

func (m *Model) collect(paths []string, replace bool) tea.Cmd {
	ctx, opts := m.ctx, m.opts
	return func() tea.Msg {
		files, err := selection.Collect(ctx, paths, opts)
		return messages.FilesCollectedMsg{Files: files, Replace: replace, Err: err}
	}
}

func (m *Model) addCollected(msg messages.FilesCollectedMsg) {
	if msg.Err != nil {
		m.status.SetError(msg.Err.Error())
		return
	}
	if len(msg.Files) == 0 {
		m.status.SetError("No supported files found")
		return
	}

	var err error
	if msg.Replace {
		err = m.session.SelectFiles(msg.Files)
	} else {
		err = m.session.AddFiles(msg.Files)
	}
	if err != nil {
		m.status.SetError(err.Error())
		return
	}
	m.refresh()
	m.status.SetText(fmt.Sprintf("Added %d file(s)", len(msg.Files)))
}

func (m *Model) refresh() {
	m.setEntries(m.session.Entries())
}

func (m *Model) setEntries(entries []types.FileEntry) {
	m.entries = entries
	m.cursor = max(min(m.cursor, len(entries)-1), 0)
	if len(entries) == 0 {
		m.dragSlot = -1
	}
}

func (m *Model) dragging() bool {
	return m.session.DragState().Phase == filelist.Dragging && m.dragSlot >= 0
}

// Session exposes the underlying session, mainly for tests.
func (m *Model) Session() *session.Session {
	return m.session
}

func (m *Model) Entries() []types.FileEntry {
	return m.entries
}

func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Ordering() bool {
	return m.session.Ordering()
}

func (m *Model) DragSlot() int {
	if !m.dragging() {
		return -1
	}
	return m.dragSlot
}

func (m *Model) DragSource() int {
	if !m.dragging() {
		return -1
	}
	return m.session.DragState().Source
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) Progress() (int, string) {
	return m.percent, m.message
}

func (m *Model) Status() (string, bool) {
	if m.status.Loading() {
		return m.status.View(), false
	}
	return m.status.Text()
}

func (m *Model) PickerView() string {
	return m.picker.View() + "\n" + styles.Theme.Muted.Render(
		fmt.Sprintf("%s  enter adds, l opens a folder, tab closes", filepath.Base(m.picker.CurrentDirectory)))
}

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}

// Run starts the terminal UI.
func Run(cfg *config.Config, paths []string) error {
	p := tea.NewProgram(New(cfg, paths), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
