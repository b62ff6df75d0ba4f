package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jmylchreest/clicktone/internal/sfx"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Tab   key.Binding
	Home  key.Binding
	End   key.Binding
	Click key.Binding

	// Sound controls, routed through the sound manager
	Toggle     key.Binding
	Terminal   key.Binding
	Mechanical key.Binding
	Retro      key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Toggle, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Home, k.End},
		{k.Click, k.Toggle},
		{k.Terminal, k.Mechanical, k.Retro},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings with the sound chords
// taken from chords.
func DefaultKeyMap(chords sfx.Chords) KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "shift+tab"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to bottom"),
		),
		Click: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "activate"),
		),
		Toggle:     chordBinding(chords.Toggle, "toggle sound"),
		Terminal:   chordBinding(chords.Terminal, "terminal"),
		Mechanical: chordBinding(chords.Mechanical, "mechanical"),
		Retro:      chordBinding(chords.Retro, "retro"),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// chordBinding is a help-only binding; the chords themselves are matched
// by the sound manager.
func chordBinding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}
