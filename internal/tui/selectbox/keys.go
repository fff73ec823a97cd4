package selectbox

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the select reacts to.
type KeyMap struct {
	// Open opens the popup while it is closed.
	Open key.Binding

	Next   key.Binding
	Prev   key.Binding
	First  key.Binding
	Last   key.Binding
	Commit key.Binding

	// Dismiss closes the popup without committing.
	Dismiss key.Binding
}

// DefaultKeyMap returns the listbox key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("down", "up", "enter", " "),
			key.WithHelp("↓/↑/enter/space", "open"),
		),
		Next: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous"),
		),
		First: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Commit, k.Dismiss}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open},
		{k.Next, k.Prev, k.First, k.Last},
		{k.Commit, k.Dismiss},
	}
}
