package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Case   key.Binding
	Faster key.Binding
	Slower key.Binding
	Spawn  key.Binding
	Remove key.Binding
	Dolly  key.Binding
	Help   key.Binding
	HUD    key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	cases := []string{"1", "2", "3", "4", "5", "6"}
	return keyMap{
		Case:   key.NewBinding(key.WithKeys(cases...), key.WithHelp("1-6", "case")),
		Faster: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "spin faster")),
		Slower: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "spin slower")),
		Spawn:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "add pigeon")),
		Remove: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "remove pigeon")),
		Dolly:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "dolly in")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		HUD:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hud")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Case, k.Spawn, k.Remove, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Case, k.Spawn, k.Remove},
		{k.Faster, k.Slower, k.Dolly},
		{k.HUD, k.Help, k.Quit},
	}
}
