package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Note     key.Binding
	Search   key.Binding
	Filter   key.Binding
	FilterN  key.Binding
	Collapse key.Binding
	Header   key.Binding
	Theme    key.Binding
	Import   key.Binding
	Export   key.Binding
	ExportC  key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Note:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "note")),
		Search:   key.NewBinding(key.WithKeys("/", "ctrl+k"), key.WithHelp("/", "search")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		FilterN:  key.NewBinding(key.WithKeys("0", "1", "2", "3", "4"), key.WithHelp("0-4", "risk level")),
		Collapse: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "fold")),
		Header:   key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("ctrl+h", "header")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Import:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export json")),
		ExportC:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export csv")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Toggle, k.Note, k.Search, k.Filter, k.Collapse}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{
		k.Toggle, k.Note, k.Search, k.Filter, k.FilterN, k.Collapse,
		k.Header, k.Theme, k.Import, k.Export, k.ExportC, k.Copy,
	}
}
