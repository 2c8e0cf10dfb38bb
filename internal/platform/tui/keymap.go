package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chroma-arcade/internal/core"
)

// GameKeyMap defines the in-game key bindings. It doubles as the
// help.KeyMap rendered in the help bar under the board.
type GameKeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Rotate     key.Binding
	HardDrop   key.Binding
	SoftDrop   key.Binding
	Hold       key.Binding
	ToggleAI   key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Rotate, k.HardDrop, k.SoftDrop, k.Hold, k.ToggleAI, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Rotate, k.HardDrop, k.SoftDrop},
		{k.Hold, k.ToggleAI, k.Pause, k.Restart},
		{k.Back, k.Screenshot, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("x", "w", "z"),
			key.WithHelp("x/w", "rotate"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "drop"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓", "soft drop"),
		),
		Hold: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "hold"),
		),
		ToggleAI: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "ai"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "menu"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys     GameKeyMap
	bindings []actionBinding
}

type actionBinding struct {
	binding key.Binding
	action  core.Action
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return NewKeyMapperWith(DefaultGameKeyMap())
}

// NewKeyMapperWith creates a key mapper over custom bindings.
func NewKeyMapperWith(k GameKeyMap) *KeyMapper {
	return &KeyMapper{
		keys: k,
		bindings: []actionBinding{
			{k.Left, core.ActionLeft},
			{k.Right, core.ActionRight},
			{k.Rotate, core.ActionRotate},
			{k.HardDrop, core.ActionHardDrop},
			{k.SoftDrop, core.ActionSoftDrop},
			{k.Hold, core.ActionHold},
			{k.ToggleAI, core.ActionToggleAI},
			{k.Pause, core.ActionPause},
			{k.Restart, core.ActionRestart},
			{k.Back, core.ActionBack},
		},
	}
}

// Keys returns the bindings in use.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.ActionQuit, true
	}
	for _, b := range km.bindings {
		if key.Matches(msg, b.binding) {
			return b.action, false
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && action != core.ActionQuit {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
