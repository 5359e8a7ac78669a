package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextMonth key.Binding
	PrevMonth key.Binding
	NextYear  key.Binding
	PrevYear  key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Today     key.Binding
	InputYear key.Binding
	InputMon  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextMonth: key.NewBinding(key.WithKeys("j", "]"), key.WithHelp("j/]", "next month")),
		PrevMonth: key.NewBinding(key.WithKeys("k", "["), key.WithHelp("k/[", "prev month")),
		NextYear:  key.NewBinding(key.WithKeys("J", "}"), key.WithHelp("J/}", "next year")),
		PrevYear:  key.NewBinding(key.WithKeys("K", "{"), key.WithHelp("K/{", "prev year")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev week")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next week")),
		Today:     key.NewBinding(key.WithKeys("."), key.WithHelp(".", "today")),
		InputYear: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "go to year")),
		InputMon:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "go to month")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMonth, k.PrevMonth, k.Today, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextMonth, k.PrevMonth, k.NextYear, k.PrevYear},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Today, k.InputYear, k.InputMon},
		{k.Help, k.Quit},
	}
}
