package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] set for the TUI. List navigation is
// handled by the list widget itself, so only view transitions live here.
type keyMap struct {
	choose  key.Binding
	confirm key.Binding
	cancel  key.Binding
	again   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		choose:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
		confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "no")),
		again:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "sync again")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpFor returns the bindings shown in the footer of each view.
func (k keyMap) helpFor(view ViewState) []key.Binding {
	switch view {
	case EntryListView:
		return []key.Binding{k.choose, k.quit}
	case ConfirmView:
		return []key.Binding{k.confirm, k.cancel, k.quit}
	case ResultView:
		return []key.Binding{k.again, k.quit}
	default:
		return nil
	}
}
