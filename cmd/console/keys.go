package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Confirm   key.Binding
	Interact  key.Binding
	Dismiss   key.Binding
	Inventory key.Binding
	QuestLog  key.Binding
	Reset     key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Interact:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "interact")),
		Dismiss:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "dismiss")),
		Inventory: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inventory")),
		QuestLog:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "quests")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "play again")),
		Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy line")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Interact, k.Confirm, k.Dismiss, k.Inventory, k.QuestLog, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Interact, k.Confirm, k.Dismiss, k.Copy},
		{k.Inventory, k.QuestLog, k.Reset, k.Quit},
	}
}
