package game_tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/voidrpg/void/pkg/game"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case InitProgramMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()
		m.Ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case EngineChangedMsg:
		return m.refresh()

	case TurnFinishedMsg:
		// ErrBusy means the submission raced another turn and was
		// dropped, which is the designed behavior.
		if msg.Err != nil && msg.Err != game.ErrBusy {
			m.Log.WithError(msg.Err).Warn("turn failed")
		}
		return m.refresh()

	case SceneWrittenMsg:
		if msg.Err != nil {
			m.Log.WithError(msg.Err).Warn("could not write scene illustration")
			return m, nil
		}
		m.SceneAt = msg.Path
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.KeyMap.Quit) {
			return m, tea.Quit
		}
		if m.Screen == StartScreen {
			return m.updateStart(msg)
		}
		return m.updatePlay(msg)
	}

	return m, nil
}

func (m *Model) resize() {
	if m.Width == 0 {
		return
	}
	// header(3) + options block(5) + input(2) + status(1)
	vpHeight := m.Height - 11
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.Viewport.Width = m.Width
	m.Viewport.Height = vpHeight
}

func (m Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hasSave := m.Controller.HasSavedGame()

	switch msg.String() {
	case "up":
		if m.Cursor > fieldName {
			m.Cursor--
		}
		m.syncNameFocus()
		return m, nil
	case "down":
		last := fieldNewGame
		if hasSave {
			last = fieldContinue
		}
		if m.Cursor < last {
			m.Cursor++
		}
		m.syncNameFocus()
		return m, nil
	case "tab":
		m.ImagesEnabled = !m.ImagesEnabled
		return m, nil
	case "enter":
		switch m.Cursor {
		case fieldContinue:
			if !hasSave {
				return m, nil
			}
			engine, err := m.Controller.Continue()
			if err != nil {
				m.Log.WithError(err).Warn("continue failed")
				return m, nil
			}
			return m.enterPlay(engine, nil)
		default:
			engine := m.Controller.NewGame(m.NameInput.Value(), m.ImagesEnabled)
			return m.enterPlay(engine, startGameCmd(engine))
		}
	}

	if m.Cursor == fieldName {
		var cmd tea.Cmd
		m.NameInput, cmd = m.NameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) syncNameFocus() {
	if m.Cursor == fieldName {
		m.NameInput.Focus()
	} else {
		m.NameInput.Blur()
	}
}

// enterPlay attaches the model to an engine and switches screens. The
// change hook pushes repaints from the background image task.
func (m Model) enterPlay(engine *game.Engine, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.Engine = engine
	engine.OnChange(func() {
		if initProgramRef != nil {
			initProgramRef.Send(EngineChangedMsg{})
		}
	})
	m.Screen = PlayScreen
	m.SceneAt = ""
	m.LastURL = ""
	m.ActionInput.SetValue("")
	m.ActionInput.Focus()
	m.resize()
	m.Viewport.SetContent(m.renderTranscript())
	m.Viewport.GotoBottom()
	return m, cmd
}

func (m Model) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.KeyMap

	switch {
	case key.Matches(msg, km.Back):
		// Return to the menu without resetting; the save slot still
		// holds the session.
		m.Screen = StartScreen
		m.Cursor = fieldName
		m.syncNameFocus()
		return m, nil

	case key.Matches(msg, km.ScrollUp), key.Matches(msg, km.ScrollDn):
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, km.Option1):
		return m.chooseOption(0)
	case key.Matches(msg, km.Option2):
		return m.chooseOption(1)
	case key.Matches(msg, km.Option3):
		return m.chooseOption(2)

	case key.Matches(msg, km.Submit):
		text := strings.TrimSpace(m.ActionInput.Value())
		if text == "" {
			return m, nil
		}
		m.ActionInput.SetValue("")
		return m.submit(text)
	}

	var cmd tea.Cmd
	m.ActionInput, cmd = m.ActionInput.Update(msg)
	return m, cmd
}

// chooseOption submits the literal text of an offered choice. Options
// are only actionable on the most recent turn; the engine enforces
// that by construction.
func (m Model) chooseOption(idx int) (tea.Model, tea.Cmd) {
	options := m.Engine.CurrentOptions()
	if idx >= len(options) {
		return m, nil
	}
	return m.submit(options[idx])
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	if text == "/reset" {
		m.Controller.Reset()
		m.Engine = nil
		m.Screen = StartScreen
		m.Cursor = fieldName
		m.syncNameFocus()
		return m, nil
	}
	if m.Engine.Status() != game.StatusIdle {
		return m, nil
	}
	return m, submitActionCmd(m.Engine, text)
}

// refresh repaints the transcript and kicks off the scene write when a
// new illustration arrived.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.Engine == nil {
		return m, nil
	}
	m.Viewport.SetContent(m.renderTranscript())
	m.Viewport.GotoBottom()

	img := m.Engine.Image()
	if img.Phase == game.ImageCompleted && img.URL != "" && img.URL != m.LastURL {
		m.LastURL = img.URL
		return m, writeSceneCmd(img.URL)
	}
	return m, nil
}
