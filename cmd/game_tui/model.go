// Package game_tui is the terminal front-end for the adventure core.
// It consumes the engine's turn list, status and budget snapshot and
// feeds player actions back in; all game semantics live in pkg/game.
package game_tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/voidrpg/void/pkg/game"
)

// initProgramRef holds the running program so the engine's change hook
// can push repaints from background tasks.
var initProgramRef *tea.Program

// SetProgram stores the program reference before Run starts it.
func SetProgram(p *tea.Program) {
	initProgramRef = p
}

type Screen int

const (
	StartScreen Screen = iota
	PlayScreen
)

type startField int

const (
	fieldName startField = iota
	fieldNewGame
	fieldContinue
)

// Model is the TUI state. Game state itself lives in the controller
// and engine; the model only mirrors what it needs to paint.
type Model struct {
	Controller *game.Controller
	Engine     *game.Engine
	Log        logrus.FieldLogger

	Screen        Screen
	NameInput     textinput.Model
	ImagesEnabled bool
	Cursor        startField

	ActionInput textinput.Model
	Viewport    viewport.Model
	Spinner     spinner.Model
	KeyMap      KeyMap

	Width   int
	Height  int
	Ready   bool
	SceneAt string // path of the last written scene illustration
	LastURL string

	styles styles
}

type styles struct {
	title    lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	user     lipgloss.Style
	model    lipgloss.Style
	errText  lipgloss.Style
	barFill  lipgloss.Style
	barEmpty lipgloss.Style
}

// NewModel builds the start-screen model.
func NewModel(controller *game.Controller, log logrus.FieldLogger) Model {
	name := textinput.New()
	name.Placeholder = game.DefaultPlayerName
	name.CharLimit = 32
	name.Focus()

	action := textinput.New()
	action.Placeholder = "O que você faz?"
	action.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		Controller:    controller,
		Log:           log,
		Screen:        StartScreen,
		NameInput:     name,
		ImagesEnabled: true,
		ActionInput:   action,
		Spinner:       sp,
		KeyMap:        NewKeyMap(),
	}
	m.styles = styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		user:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		barFill:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		barEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
	return m
}

// Init starts the spinner ticking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, func() tea.Msg { return InitProgramMsg{} })
}
