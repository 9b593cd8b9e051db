package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding used by the board screens
type KeyMap struct {
	Quit  key.Binding
	Back  key.Binding
	Enter key.Binding
	Tab   key.Binding
	Save  key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Grab   key.Binding

	NewColumn    key.Binding
	RenameColumn key.Binding
	DeleteColumn key.Binding

	Search        key.Binding
	Notifications key.Binding
	Clear         key.Binding
	Help          key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Grab: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "grab/drop"),
		),
		NewColumn: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "new column"),
		),
		RenameColumn: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename column"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete column"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notifications"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
