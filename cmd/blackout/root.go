package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blackout",
	Short: "Proposal-scoped redaction for fiber configurations",
	Long: `Blackout produces, for each observing proposal present in a fiber
configuration record set, a private copy in which every science fiber owned
by a different proposal is irreversibly obscured. Calibration fibers (sky,
flux standards) remain visible in every copy.

Inputs are resolved by design identifier (decimal, 0x-hex, or file name);
outputs are written per proposal alongside an optional SQLite audit trail.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
