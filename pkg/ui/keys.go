package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

// KeyMap lists the stepper view's bindings. It implements help.KeyMap.
type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	Activate key.Binding
	Select   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Next     key.Binding
	Prev     key.Binding
	Picker   key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev control")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next control")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev control")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next control")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "activate")),
		Select:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "activate")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus steps")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "leave steps")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next step")),
		Prev:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous step")),
		Picker:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "jump to step")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Right, k.Activate, k.Next, k.Picker, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Left, k.Right, k.Up, k.Down},
		{k.Home, k.End, k.Activate, k.Select},
		{k.Next, k.Prev, k.Picker, k.Copy},
		{k.Help, k.Quit},
	}
}

// controlKey translates a key press into the trigger keyboard protocol.
func (k KeyMap) controlKey(msg tea.KeyMsg) (stepper.Key, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return stepper.KeyArrowLeft, true
	case key.Matches(msg, k.Right):
		return stepper.KeyArrowRight, true
	case key.Matches(msg, k.Up):
		return stepper.KeyArrowUp, true
	case key.Matches(msg, k.Down):
		return stepper.KeyArrowDown, true
	case key.Matches(msg, k.Home):
		return stepper.KeyHome, true
	case key.Matches(msg, k.End):
		return stepper.KeyEnd, true
	case key.Matches(msg, k.Activate):
		return stepper.KeyEnter, true
	case key.Matches(msg, k.Select):
		return stepper.KeySpace, true
	}
	return "", false
}
