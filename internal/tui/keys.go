package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines key bindings for the catalog browser.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	SortName   key.Binding
	SortNumber key.Binding
	LoadMore   key.Binding
	Search     key.Binding
	Demo       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		SortName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "sort name"),
		),
		SortNumber: key.NewBinding(
			key.WithKeys("#"),
			key.WithHelp("#", "sort number"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Demo: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "protected demo"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "done"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.SortName, k.SortNumber, k.LoadMore, k.Search, k.Demo, k.Quit}
}
