package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the terminal UI.
// It lives in pkg/types so the model and the help view share it.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Ordering
	ToggleOrdering key.Binding
	PickUp         key.Binding // Start dragging the file under the cursor
	Drop           key.Binding // Drop on the highlighted gap or file
	CancelDrag     key.Binding

	// Actions
	AddFiles    key.Binding
	ClosePicker key.Binding
	Merge       key.Binding
	Retry       key.Binding
	Redeliver   key.Binding
	Reset       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),

		ToggleOrdering: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "ordering mode")),
		PickUp:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:           key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		CancelDrag:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),

		AddFiles:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add files")),
		ClosePicker: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "close picker")),
		Merge:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "merge")),
		Retry:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "retry")),
		Redeliver:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save again")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.AddFiles, k.ToggleOrdering, k.Merge, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.AddFiles, k.ClosePicker},
		{k.ToggleOrdering, k.PickUp, k.Drop, k.CancelDrag},
		{k.Merge, k.Retry, k.Redeliver, k.Reset},
		{k.Help, k.Quit},
	}
}
