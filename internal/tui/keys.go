package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	All    key.Binding
	Rent   key.Binding
	Buy    key.Binding
	Reload key.Binding
	Select key.Binding
	Search key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Rent:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rent")),
		Buy:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy")),
		Reload: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find id")),
		Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.All, k.Rent, k.Buy, k.Reload, k.Select, k.Search, k.Quit}
}

func (k keyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}
