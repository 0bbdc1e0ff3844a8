package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/voidrpg/void/pkg/config"
	"github.com/voidrpg/void/pkg/game"
	"github.com/voidrpg/void/pkg/save"
)

// NewSaveCmd inspects and manages the single save slot.
func NewSaveCmd() *cobra.Command {
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Inspect or clear the local save slot",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved session, if any",
		RunE:  runSaveShow,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved session",
		RunE:  runSaveClear,
	}

	saveCmd.AddCommand(showCmd)
	saveCmd.AddCommand(clearCmd)
	return saveCmd
}

func openStore() (*save.FileStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path := cfg.SavePath
	if path == "" {
		path = save.DefaultPath()
	}
	return save.NewFileStore(path, newLogger(false)), nil
}

func runSaveShow(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	session, ok := store.Load()
	if !ok {
		fmt.Println("No saved game.")
		return nil
	}

	budget := game.SnapshotBudget(session.Turns)
	accent := color.New(color.FgGreen).SprintFunc()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Player:\t%s\n", accent(session.PlayerName))
	fmt.Fprintf(w, "Started:\t%s\n", session.StartedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Turns:\t%d\n", len(session.Turns))
	fmt.Fprintf(w, "Images:\t%v\n", session.ImagesEnabled)
	fmt.Fprintf(w, "Context:\t%d / %d tokens (%.1f%%)\n", budget.CurrentContext, game.ContextLimit, budget.Percent)
	fmt.Fprintf(w, "Accumulated:\t%d tokens\n", budget.Accumulated)
	return w.Flush()
}

func runSaveClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	store.Clear()
	fmt.Println("Save slot cleared.")
	return nil
}
