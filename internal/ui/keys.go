package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the chat key bindings.
type KeyMap struct {
	Send      key.Binding
	Speak     key.Binding
	SelectUp  key.Binding
	SelectDn  key.Binding
	AutoSpeak key.Binding
	Listen    key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Speak: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "speak selected reply"),
		),
		SelectUp: key.NewBinding(
			key.WithKeys("ctrl+up", "ctrl+p"),
			key.WithHelp("C-↑", "older reply"),
		),
		SelectDn: key.NewBinding(
			key.WithKeys("ctrl+down", "ctrl+n"),
			key.WithHelp("C-↓", "newer reply"),
		),
		AutoSpeak: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "auto-speak"),
		),
		Listen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "listen"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// helpBindings lists the bindings worth showing for the given capabilities.
func (k KeyMap) helpBindings(stt, tts bool) []key.Binding {
	bindings := []key.Binding{k.Send}
	if tts {
		bindings = append(bindings, k.Speak, k.SelectUp, k.SelectDn, k.AutoSpeak)
	}
	if stt {
		bindings = append(bindings, k.Listen)
	}
	return append(bindings, k.Quit)
}
