package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start     key.Binding
	NextField key.Binding
	PrevField key.Binding
	CycleUp   key.Binding
	CycleDown key.Binding
	Copy      key.Binding
	Help      key.Binding
	Submit    key.Binding
	Clear     key.Binding
	Stop      key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		CycleUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "operator"),
		),
		CycleDown: key.NewBinding(
			key.WithKeys("down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy score"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit (empty skips)"),
		),
		Clear: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "clear"),
		),
		Stop: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func (k keyMap) stoppedHelp() []key.Binding {
	return []key.Binding{k.Start, k.NextField, k.CycleUp, k.Copy, k.Help, k.Quit}
}

func (k keyMap) runningHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Clear, k.Stop}
}
