package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voidrpg/void/cmd/game_tui"
	"github.com/voidrpg/void/pkg/config"
	"github.com/voidrpg/void/pkg/game"
	"github.com/voidrpg/void/pkg/gemini"
	"github.com/voidrpg/void/pkg/save"
)

var playNoImages bool

// NewPlayCmd starts the interactive adventure.
func NewPlayCmd() *cobra.Command {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Start the interactive adventure",
		Long: `Opens the adventure terminal. A new game asks for an operator name;
a saved session, when present, can be continued where it left off.`,
		RunE: runPlay,
	}
	playCmd.Flags().BoolVar(&playNoImages, "no-images", false, "Force image generation off regardless of the start-screen toggle")
	return playCmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}

	log := newLogger(true)

	gateway := gemini.NewClient(gemini.Options{
		APIKey:           cfg.APIKey,
		TextModel:        cfg.TextModel,
		ImageModel:       cfg.ImageModel,
		NarrativeTimeout: time.Duration(cfg.NarrativeTimeout) * time.Second,
		ImageTimeout:     time.Duration(cfg.ImageTimeout) * time.Second,
	}, log.WithField("component", "gemini"))

	savePath := cfg.SavePath
	if savePath == "" {
		savePath = save.DefaultPath()
	}
	store := save.NewFileStore(savePath, log.WithField("component", "save"))

	controller := game.NewController(gateway, store, log.WithField("component", "game"))

	model := game_tui.NewModel(controller, log.WithField("component", "tui"))
	if playNoImages {
		model.ImagesEnabled = false
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	game_tui.SetProgram(p)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running adventure terminal: %w", err)
	}
	return nil
}
