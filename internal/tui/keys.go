package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit key.Binding
	Help key.Binding
	Fold key.Binding

	// Focus
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding

	// Lists
	Next   key.Binding
	Prev   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Sidebar
	Select key.Binding
	Filter key.Binding
	Reload key.Binding

	// Pane
	Open      key.Binding
	ExpandAll key.Binding
	Search    key.Binding
	Refetch   key.Binding
	Yank      key.Binding

	// Dialog
	Cycle   key.Binding
	Choose  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Fold: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Fold sidebar"),
		),

		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Focus left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Focus right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "Focus up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "Focus down"),
		),

		Next: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "Next row"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "Previous row"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Select: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "Open/close group"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter groups"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reload groups"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open row / load more"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Expand all"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Search condition"),
		),
		Refetch: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refetch"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy message"),
		),

		Cycle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		Choose: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Choose mode"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Fold},
		{k.Next, k.Prev, k.Top, k.Bottom},
		{k.Select, k.Filter, k.Reload},
		{k.Open, k.ExpandAll, k.Search, k.Refetch, k.Yank},
		{k.Cycle, k.Choose, k.Confirm, k.Cancel},
		{k.Help, k.Quit},
	}
}
