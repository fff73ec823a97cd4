// Package screens holds the console's screens: login, the record tabs of the
// dashboard, the record forms, the client page and the help panel.
package screens

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the dashboard shortcuts.
// It implements the help.KeyMap interface for automatic help text generation.
type KeyMap struct {
	// NextTab and PrevTab switch between record tabs
	NextTab key.Binding
	PrevTab key.Binding

	// Focus cycles between filter, search and table
	Focus key.Binding

	// Toggle flips the highlighted record between active and inactive
	Toggle key.Binding

	// Reload re-reads the records from the store
	Reload key.Binding

	// Add, Edit and Delete maintain the record under the cursor
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Open shows the client page of the highlighted client
	Open key.Binding

	// Back leaves the client page
	Back key.Binding

	Help   key.Binding
	Logout key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the dashboard key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+t", "]"),
			key.WithHelp("ctrl+t/]", "próxima aba"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "["),
			key.WithHelp("shift+tab/[", "aba anterior"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "alternar foco"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "ativar/inativar"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recarregar"),
		),
		Add: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "novo"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "editar"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "excluir"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "dados do cliente"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "voltar"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ajuda"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sair da conta"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "encerrar"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.NextTab, k.Toggle, k.Add, k.Edit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Focus},
		{k.Toggle, k.Reload},
		{k.Add, k.Edit, k.Delete, k.Open},
		{k.Help, k.Logout, k.Quit},
	}
}
