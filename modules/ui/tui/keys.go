package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Navigation
	NextTab key.Binding
	PrevTab key.Binding
	Link    key.Binding
	Back    key.Binding
	TabRoot key.Binding
	Refresh key.Binding

	// Session
	SignIn     key.Binding
	SignOut    key.Binding
	SwitchRole key.Binding

	// Other
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("Tab/→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("S-Tab/←", "prev tab"),
		),
		Link: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "open link"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("Esc", "back"),
		),
		TabRoot: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "tab root"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "refresh"),
		),

		// Session
		SignIn: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "sign in"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sign out"),
		),
		SwitchRole: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "switch role"),
		),

		// Other
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

// ShortHelp returns a brief help display
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Link, k.Back, k.NextTab, k.Help, k.Quit,
	}
}

// FullHelp returns detailed help for all keys
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Link, k.Back, k.TabRoot, k.NextTab, k.PrevTab, k.Refresh},
		// Session
		{k.SignIn, k.SignOut, k.SwitchRole},
		// Other
		{k.Help, k.Quit},
	}
}
