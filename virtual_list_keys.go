package vtview

import "github.com/xqrs/vtview/keybind"

// VirtualListKeyMap holds the key bindings of a [VirtualList].
type VirtualListKeyMap struct {
	Up       keybind.Keybind
	Down     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Top      keybind.Keybind
	Bottom   keybind.Keybind
}

// DefaultVirtualListKeyMap returns arrow, vi and pager style bindings.
func DefaultVirtualListKeyMap() VirtualListKeyMap {
	return VirtualListKeyMap{
		Up: keybind.NewKeybind(
			keybind.WithKeys("up", "k"),
			keybind.WithHelp("↑/k", "up"),
		),
		Down: keybind.NewKeybind(
			keybind.WithKeys("down", "j"),
			keybind.WithHelp("↓/j", "down"),
		),
		PageUp: keybind.NewKeybind(
			keybind.WithKeys("pgup", "ctrl+b"),
			keybind.WithHelp("pgup", "page up"),
		),
		PageDown: keybind.NewKeybind(
			keybind.WithKeys("pgdn", "ctrl+f", "space"),
			keybind.WithHelp("pgdn", "page down"),
		),
		Top: keybind.NewKeybind(
			keybind.WithKeys("home", "g"),
			keybind.WithHelp("g/home", "top"),
		),
		Bottom: keybind.NewKeybind(
			keybind.WithKeys("end", "G"),
			keybind.WithHelp("G/end", "bottom"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k VirtualListKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.PageDown}
}

// FullHelp implements help.KeyMap.
func (k VirtualListKeyMap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.Up, k.Down},
		{k.PageUp, k.PageDown},
		{k.Top, k.Bottom},
	}
}
