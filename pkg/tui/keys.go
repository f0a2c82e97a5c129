package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PrevDay      key.Binding
	NextDay      key.Binding
	Today        key.Binding
	Toggle       key.Binding
	Tab          key.Binding
	Focus        key.Binding
	StopFocus    key.Binding
	PauseFocus   key.Binding
	Add          key.Binding
	Note         key.Binding
	Schedule     key.Binding
	ExternalEdit key.Binding
	Delete       key.Binding
	Move         key.Binding
	Search       key.Binding
	Reload       key.Binding
	Sync         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h", "["),
			key.WithHelp("←/h", "previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l", "]"),
			key.WithHelp("→/l", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "today"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle done"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "start focus"),
		),
		StopFocus: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "stop focus"),
		),
		PauseFocus: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume focus"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add note"),
		),
		Schedule: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "set time"),
		),
		ExternalEdit: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "$EDITOR"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move mode"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "git sync"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  ←→ day  space toggle  f focus  a add  n note  t time  m move  / search  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"←/h [", "Previous day"},
		{"→/l ]", "Next day"},
		{".", "Jump to today"},
		{"space/x", "Toggle done"},
		{"tab", "Switch pane (agenda / details)"},
		{"f", "Start focus on selection"},
		{"F", "Stop focus"},
		{"p", "Pause or resume focus"},
		{"a", "Add a task on this day"},
		{"n", "Add a dated note"},
		{"t", "Set time for this day (empty clears)"},
		{"E", "Edit in $EDITOR"},
		{"d", "Delete (with confirmation)"},
		{"m", "Move mode (reorder within section)"},
		{"/", "Filter by title"},
		{"R", "Reload from filesystem"},
		{"s", "Git sync"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
