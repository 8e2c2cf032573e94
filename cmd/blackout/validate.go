package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pfs-obs/blackout/pkg/config"
	"pfs-obs/blackout/pkg/fiberconf"
)

var validateCmd = &cobra.Command{
	Use:   "validate [design-identifier]",
	Short: "Validate configuration and, optionally, an input file",
	Long: `Validate the configuration file and the masking policy it defines,
without writing anything. With a design identifier, the referenced fiber
configuration is also loaded and shape-checked.

Examples:
  # Validate configuration only
  blackout validate

  # Validate configuration and an input file
  blackout validate 0x4f966fa98c958b91`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	fmt.Println("✓ Configuration valid")

	policy, err := cfg.Masking.Policy()
	if err != nil {
		return fmt.Errorf("invalid masking configuration: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return err
	}
	fmt.Println("✓ Masking policy valid")

	if len(args) == 1 {
		name, err := fiberconf.ResolveIdentifier(args[0])
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Input.Dir, name)
		src, err := fiberconf.LoadFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s valid (%d fibers, design 0x%016x)\n", name, src.NumFibers(), src.Header.DesignID)
	}

	return nil
}
