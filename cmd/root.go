package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootDebug bool

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the void command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "void",
		Short:        "V.O.I.D. — a Gemini-driven text and image adventure",
		Long:         "V.O.I.D. (Virtual Omniscient Interactive Director) is an interactive adventure that drives Google Gemini for narrative turns, player choices and scene illustrations, with a single local save slot.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewPlayCmd())
	rootCmd.AddCommand(NewSaveCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

// newLogger builds the structured logger. While the TUI owns the
// terminal, log lines go to ~/.void/void.log instead of stdout.
func newLogger(toFile bool) *logrus.Logger {
	log := logrus.New()
	if rootDebug {
		log.SetLevel(logrus.DebugLevel)
	}
	if !toFile {
		return log
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	dir := filepath.Join(home, ".void")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	f, err := os.OpenFile(filepath.Join(dir, "void.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetOutput(f)
	return log
}
