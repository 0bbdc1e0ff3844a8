package game_tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Submit    key.Binding
	Option1   key.Binding
	Option2   key.Binding
	Option3   key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	ToggleImg key.Binding
	Back      key.Binding
	Quit      key.Binding
}

func NewKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send action"),
		),
		Option1: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "choose option 1"),
		),
		Option2: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "choose option 2"),
		),
		Option3: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "choose option 3"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		ToggleImg: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle images"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
