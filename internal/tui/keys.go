package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the spin screen bindings shown in the help line.
type keyMap struct {
	Spin      key.Binding
	PowerUp   key.Binding
	PowerDown key.Binding
	Reset     key.Binding
	Back      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Spin: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "spin"),
		),
		PowerUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "more power"),
		),
		PowerDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "less power"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "menu"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Spin, k.PowerUp, k.PowerDown, k.Reset, k.Back}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
