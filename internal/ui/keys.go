package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Quit       key.Binding
	Collapse   key.Binding
	Focus      key.Binding
	Browse     key.Binding
	Group      key.Binding
	Up         key.Binding
	Down       key.Binding
	PlayPause  key.Binding
	Next       key.Binding
	Previous   key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	Expand     key.Binding
	Start      key.Binding
	Close      key.Binding

	// Music browser
	NextTab  key.Binding
	PrevRoom key.Binding
	NextRoom key.Binding
	Select   key.Binding

	// Group manager
	AddAll     key.Binding
	UngroupAll key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Collapse:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse")),
	Focus:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
	Browse:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "browse")),
	Group:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PlayPause:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
	Next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
	Previous:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
	VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
	VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
	Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Expand:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "quick play")),
	Start:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start bridge")),
	Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),

	NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	PrevRoom: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev room")),
	NextRoom: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next room")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),

	AddAll:     key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add all")),
	UngroupAll: key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "ungroup all")),
}

// panelHelp returns the bindings shown under the zone list
func (k keyMap) panelHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Browse, k.Group, k.Expand, k.Quit}
}

func (k keyMap) offlineHelp() []key.Binding {
	return []key.Binding{k.Start, k.Quit}
}
