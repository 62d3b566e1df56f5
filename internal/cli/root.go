// Package cli implements the reslate command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/reslate/internal/config"
)

// Version is reported by the version command and the --version flag.
// Overridden at build time via -ldflags "-X .../internal/cli.Version=...".
var Version = "0.1.0"

// cfg carries the environment defaults resolved in main before Execute.
var cfg = &config.Config{}

var rootCmd = &cobra.Command{
	Use:   "reslate",
	Short: "Rebuild PDF pages as editable PowerPoint slides",
	Long: `reslate converts PDF documents into PowerPoint decks whose text sits in
editable text boxes layered over the rendered page background. Pages
without a text layer fall back to optical character recognition when a
tesseract installation is available.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with the given environment defaults.
// It exits the process on failure.
func Execute(c *config.Config) {
	cfg = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reslate: %v\n", err)
		os.Exit(1)
	}
}
