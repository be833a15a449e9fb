package components

import "github.com/charmbracelet/bubbles/key"

// GridKeyMap defines key bindings for feed grid navigation
type GridKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Home   key.Binding
	End    key.Binding
	Escape key.Binding
	Enter  key.Binding
	Filter key.Binding
}

// DefaultGridKeyMap returns the default grid key bindings
func DefaultGridKeyMap() GridKeyMap {
	return GridKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept filter"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
	}
}

// SearchKeyMap defines key bindings for the search modal
type SearchKeyMap struct {
	Escape     key.Binding
	Enter      key.Binding
	Up         key.Binding
	Down       key.Binding
	ToggleKind key.Binding
	Retry      key.Binding
}

// DefaultSearchKeyMap returns the default search modal key bindings
func DefaultSearchKeyMap() SearchKeyMap {
	return SearchKeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "next"),
		),
		ToggleKind: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "movies/tv"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "retry"),
		),
	}
}

// StripKeyMap defines key bindings for the recently viewed strip
type StripKeyMap struct {
	Left  key.Binding
	Right key.Binding
}

// DefaultStripKeyMap returns the default strip key bindings
func DefaultStripKeyMap() StripKeyMap {
	return StripKeyMap{
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next"),
		),
	}
}

// Package-level key map instances
var (
	GridKeys   = DefaultGridKeyMap()
	SearchKeys = DefaultSearchKeyMap()
	StripKeys  = DefaultStripKeyMap()
)
