package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	favorite  key.Binding
	selectKey key.Binding
	selectAll key.Binding
	more      key.Binding
	favs      key.Binding
	send      key.Binding
	yes       key.Binding
	no        key.Binding
	restart   key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		selectKey: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		selectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select shown")),
		more:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "show more")),
		favs:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "favorites")),
		send:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "send to selected")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "back to list")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.favorite, k.selectKey, k.selectAll},
		{k.more, k.favs, k.send},
		{k.back, k.restart, k.quit},
	}
}
