package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the timer
type KeyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Asleep key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s/space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Asleep: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a", "baby is asleep!"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Asleep, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
