package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// NewVersionCmd prints the version information for this binary.
func NewVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information for this binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				data, err := json.MarshalIndent(map[string]string{
					"version":    Version,
					"commit":     Commit,
					"build_date": BuildDate,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal version info to JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}
			fmt.Printf("void %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information in JSON format")
	return cmd
}
