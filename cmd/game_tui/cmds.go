package game_tui

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voidrpg/void/pkg/game"
)

// Message types
type InitProgramMsg struct{}
type EngineChangedMsg struct{}
type TurnFinishedMsg struct{ Err error }
type SceneWrittenMsg struct {
	Path string
	Err  error
}

// startGameCmd runs the opening sequence of a fresh game.
func startGameCmd(engine *game.Engine) tea.Cmd {
	return func() tea.Msg {
		err := engine.Start(context.Background())
		return TurnFinishedMsg{Err: err}
	}
}

// submitActionCmd sends one player action through the engine. The
// engine's own gate drops the submission when a turn is in flight.
func submitActionCmd(engine *game.Engine, text string) tea.Cmd {
	return func() tea.Msg {
		err := engine.SubmitAction(context.Background(), text)
		return TurnFinishedMsg{Err: err}
	}
}

// writeSceneCmd decodes a data URI and writes the illustration next to
// the save slot so the player can open it; terminals cannot render it.
func writeSceneCmd(dataURI string) tea.Cmd {
	return func() tea.Msg {
		path, err := writeScene(dataURI)
		return SceneWrittenMsg{Path: path, Err: err}
	}
}

func writeScene(dataURI string) (string, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return "", fmt.Errorf("not a data URI")
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", fmt.Errorf("missing base64 payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}

	ext := ".png"
	if idx := strings.Index(mime, "/"); idx >= 0 && mime[idx+1:] != "" {
		ext = "." + mime[idx+1:]
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".void")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create scene directory: %w", err)
	}
	path := filepath.Join(dir, "scene"+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write scene file: %w", err)
	}
	return path, nil
}
