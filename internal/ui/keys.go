package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Back     key.Binding
	Refresh  key.Binding
	Large    key.Binding
	Hotspots key.Binding
	Reveal   key.Binding
	OpenItem key.Binding
	Delete   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "right"),
			key.WithHelp("enter", "drill in"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "b"),
			key.WithHelp("←/b", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Large: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "large files"),
		),
		Hotspots: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hotspots"),
		),
		OpenItem: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Reveal: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "reveal"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete", "backspace"),
			key.WithHelp("⌫/d", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Delete, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.Refresh, k.Large, k.Hotspots},
		{k.OpenItem, k.Reveal, k.Delete, k.Quit},
	}
}
