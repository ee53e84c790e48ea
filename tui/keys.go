package tui

import "github.com/charmbracelet/bubbles/key"

type Keymap struct {
	Quit        key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	ZoomInX     key.Binding
	ZoomOutX    key.Binding
	ZoomInY     key.Binding
	ZoomOutY    key.Binding
	Rescale     key.Binding
	Clear       key.Binding
}

var Keys = Keymap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ScrollLeft: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "scroll left"),
	),
	ScrollRight: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "scroll right"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	ZoomInX: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in x"),
	),
	ZoomOutX: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out x"),
	),
	ZoomInY: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "zoom in y"),
	),
	ZoomOutY: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "zoom out y"),
	),
	Rescale: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rescale"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear"),
	),
}

func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.ScrollLeft, k.ScrollRight, k.ScrollUp, k.ScrollDown, k.ZoomInX, k.ZoomOutX, k.ZoomInY, k.ZoomOutY, k.Rescale, k.Clear, k.Quit}
}
