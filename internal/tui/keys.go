package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Analyze   key.Binding
	Open      key.Binding
	Save      key.Binding
	Report    key.Binding
	Export    key.Binding
	Dashboard key.Binding
	Promote   key.Binding
	Dismiss   key.Binding
	Note      key.Binding
	UpDown    key.Binding
	Score     key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Analyze:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analyze ticker")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Report:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Dashboard: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dashboard")),
		Promote:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "promote")),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Note:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "edit note")),
		UpDown:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("j/k", "navigate")),
		Score:     key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5"), key.WithHelp("0-5", "score pillar")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) dashboardHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.Open, k.UpDown, k.Quit}
}

func (k keyMap) analysisHelp() []key.Binding {
	return []key.Binding{k.UpDown, k.Score, k.Note, k.Promote, k.Dismiss, k.Save, k.Report, k.Dashboard}
}

func (k keyMap) reportHelp() []key.Binding {
	return []key.Binding{k.Export, k.Dashboard, k.Quit}
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Open, k.Dashboard}
}
