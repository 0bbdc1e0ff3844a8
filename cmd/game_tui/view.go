package game_tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/voidrpg/void/pkg/game"
)

// View renders the active screen.
func (m Model) View() string {
	if !m.Ready {
		return "carregando..."
	}
	if m.Screen == StartScreen {
		return m.viewStart()
	}
	return m.viewPlay()
}

func (m Model) viewStart() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("V.O.I.D.") + "\n")
	b.WriteString(m.styles.muted.Render("VIRTUAL OMNISCIENT INTERACTIVE DIRECTOR") + "\n\n")

	b.WriteString(m.cursorFor(fieldName) + "Nome do operador: " + m.NameInput.View() + "\n\n")

	images := "OFF"
	if m.ImagesEnabled {
		images = "ON"
	}
	b.WriteString(fmt.Sprintf("  Visual: %s %s\n\n",
		m.styles.accent.Render(images),
		m.styles.muted.Render("(tab alterna)")))

	b.WriteString(m.cursorFor(fieldNewGame) + "Iniciar nova sessão\n")
	if m.Controller.HasSavedGame() {
		b.WriteString(m.cursorFor(fieldContinue) + "Continuar sessão salva\n")
	}

	b.WriteString("\n" + m.styles.muted.Render("enter confirma · ctrl+c sai"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) cursorFor(f startField) string {
	if m.Cursor == f {
		return m.styles.accent.Render("> ")
	}
	return "  "
}

func (m Model) viewPlay() string {
	var b strings.Builder
	b.WriteString(m.viewHeader() + "\n")
	b.WriteString(m.Viewport.View() + "\n")
	b.WriteString(m.viewOptions())
	b.WriteString("\n> " + m.ActionInput.View() + "\n")
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m Model) viewHeader() string {
	session := m.Engine.Session()
	budget := m.Engine.Budget()

	percent := budget.Percent
	if budget.CurrentContext > 0 && percent < 1 {
		percent = 1 // display floor, the readout never looks dead
	}

	barWidth := 24
	filled := int(percent / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := m.styles.barFill.Render(strings.Repeat("█", filled)) +
		m.styles.barEmpty.Render(strings.Repeat("░", barWidth-filled))

	left := m.styles.title.Render("V.O.I.D.") + " " +
		m.styles.muted.Render("OP_"+strings.ToUpper(session.PlayerName))
	right := fmt.Sprintf("%s %s %d / 1.0M  acumulado %d",
		m.styles.muted.Render("Neural_Context_Load"), bar,
		budget.CurrentContext, budget.Accumulated)

	return left + "\n" + right + "\n" + m.styles.muted.Render(strings.Repeat("─", max(m.Width, 1)))
}

func (m Model) viewOptions() string {
	options := m.Engine.CurrentOptions()
	if len(options) == 0 || m.Engine.Status() != game.StatusIdle {
		return ""
	}
	keys := []string{"ctrl+a", "ctrl+b", "ctrl+d"}
	var b strings.Builder
	for i, opt := range options {
		if i >= len(keys) {
			break
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			m.styles.accent.Render("["+keys[i]+"]"), opt))
	}
	return b.String()
}

func (m Model) viewStatus() string {
	switch m.Engine.Status() {
	case game.StatusThinking:
		return m.Spinner.View() + " " + m.styles.accent.Render("PROCESSANDO...")
	case game.StatusGeneratingImage:
		return m.Spinner.View() + " " + m.styles.accent.Render("RENDERIZANDO REALIDADE...")
	}

	img := m.Engine.Image()
	switch img.Phase {
	case game.ImageCompleted:
		if m.SceneAt != "" {
			return m.styles.muted.Render("cena: " + m.SceneAt)
		}
		return m.styles.muted.Render("cena pronta")
	case game.ImageError:
		return m.styles.errText.Render("falha ao renderizar a cena")
	case game.ImageDisabled:
		return m.styles.muted.Render("TEXT_MODE_ONLY · imagens desativadas")
	}
	return m.styles.muted.Render("aguardando ação · /reset reinicia")
}

// renderTranscript paints the turn list for the viewport.
func (m Model) renderTranscript() string {
	var b strings.Builder
	for _, t := range m.Engine.Turns() {
		switch t.Role {
		case game.RoleUser:
			b.WriteString(m.styles.user.Render("VOCÊ ▸ ") + t.Content + "\n\n")
		case game.RoleModel:
			b.WriteString(m.styles.model.Render(t.Content) + "\n\n")
		}
	}
	return b.String()
}
