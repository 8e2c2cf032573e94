package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pfs-obs/blackout/pkg/fiberconf"
)

var runFlags struct {
	inDir  string
	outDir string
	salt   string
}

var runCmd = &cobra.Command{
	Use:   "run <design-identifier>",
	Short: "Redact one fiber configuration",
	Long: `Redact a fiber configuration into one copy per observing proposal.

The design identifier can be a decimal integer (e.g. 5734893949501672337),
a 0x-prefixed hex string (e.g. 0x4f966fa98c958b91), or a file name
(e.g. pfsConfig-0x4f966fa98c958b91.json). Decimal and hex identifiers are
resolved to the conventional file name inside the input directory.

Each output is named <input-prefix>_<proposal-id>.json and contains the full
record set with every other proposal's science fibers masked.

Examples:
  # Redact by hex identifier, directories from config
  blackout run 0x4f966fa98c958b91

  # Redact a file with explicit directories
  blackout run pfsConfig-0x4f966fa98c958b91.json --in /data/designs --out /data/redacted

  # Supply the secret salt on the command line (prefer BLACKOUT_MASKING_SALT)
  blackout run 0x4f966fa98c958b91 --salt "$(cat /etc/blackout/salt)"`,
	Args: cobra.ExactArgs(1),
	RunE: runRedaction,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.inDir, "in", "", "override input directory")
	runCmd.Flags().StringVar(&runFlags.outDir, "out", "", "override output directory")
	runCmd.Flags().StringVar(&runFlags.salt, "salt", "", "override secret salt for the hashed object ID strategy")
}

func runRedaction(cmd *cobra.Command, args []string) error {
	applyRunOverrides()

	p, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	name, err := fiberconf.ResolveIdentifier(args[0])
	if err != nil {
		return err
	}

	written, err := p.processFile(context.Background(), filepath.Join(p.cfg.Input.Dir, name))
	if err != nil {
		return err
	}

	for _, out := range written {
		fmt.Printf("✓ %s\n", filepath.Join(p.cfg.Output.Dir, out))
	}
	if len(written) == 0 {
		fmt.Println("no proposals to redact, nothing written")
	}
	return nil
}

// applyRunOverrides maps run flags onto the environment-style overrides so
// flag > env > file precedence holds.
func applyRunOverrides() {
	if runFlags.inDir != "" {
		setupOverrides.inputDir = runFlags.inDir
	}
	if runFlags.outDir != "" {
		setupOverrides.outputDir = runFlags.outDir
	}
	if runFlags.salt != "" {
		setupOverrides.salt = runFlags.salt
	}
}
