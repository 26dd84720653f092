package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
// Plain keys go to the editor, so every action uses a control key.
type KeyMap struct {
	Submit key.Binding // Send the draft as a reply
	Skip   key.Binding // Move on without replying
	Retry  key.Binding // Fetch again when no task is loaded
	Help   key.Binding // Toggle full help
	Quit   key.Binding // Quit application
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Skip: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "skip"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "retry"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Skip, k.Retry, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Skip, k.Retry}, // Workflow
		{k.Help, k.Quit},            // General
	}
}

// setState enables only the bindings that make sense in the given state.
func (k *KeyMap) setState(ready, empty bool) {
	k.Submit.SetEnabled(ready)
	k.Skip.SetEnabled(ready)
	k.Retry.SetEnabled(empty)
}
