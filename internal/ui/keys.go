package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard bindings. It satisfies help.KeyMap.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	NextGenre key.Binding
	PrevGenre key.Binding
	Free      key.Binding
	Sort      key.Binding
	Direction key.Binding
	Refresh   key.Binding
	Sync      key.Binding
	Charts    key.Binding
	Quit      key.Binding

	// Sync input bindings, active while the input has focus.
	Submit key.Binding
	Leave  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		NextGenre: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "genre")),
		PrevGenre: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev genre")),
		Free:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "free")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Direction: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "asc/desc")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Sync:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "sync")),
		Charts:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "charts")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
		Leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.NextGenre, k.Free, k.Sort, k.Direction, k.Refresh, k.Sync, k.Charts, k.Quit}
}

// FullHelp returns every binding, grouped by column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.NextGenre, k.PrevGenre, k.Free, k.Sort, k.Direction},
		{k.Refresh, k.Sync, k.Charts, k.Quit},
	}
}

// inputHelp is the help shown while the sync input has focus.
type inputHelp struct{ k keyMap }

func (h inputHelp) ShortHelp() []key.Binding { return []key.Binding{h.k.Submit, h.k.Leave} }

func (h inputHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
