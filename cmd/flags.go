package cmd

import (
	"github.com/spf13/cobra"
	"github.com/suitegen/suitegen/config"
)

// AttachCLIFlags attaches the command line flags to the command
func AttachCLIFlags(rootCmd *cobra.Command) {
	rootCmd.Flags().String("config", "", "the config file to use")
	rootCmd.Flags().String("expansion-file", "expansions.yml", "generation parameters file written by the CI system")
	rootCmd.Flags().String("test-list", "", "file listing the suite's test identifiers, one per line")
	rootCmd.Flags().String("output-dir", "", "directory to write generated configuration to")
	rootCmd.Flags().Bool("multiversion", false, "fan generated tasks out across version mix configurations")
	rootCmd.Flags().Bool("sharded", false, "use the sharded cluster version mixes")
	rootCmd.Flags().BoolP("verbose", "v", false, "enable verbose logging")
}

// applyFlagOverrides copies explicit flag values over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("expansion-file"); v != "" {
		cfg.ExpansionsFile = v
	}
	if v, _ := cmd.Flags().GetString("test-list"); v != "" {
		cfg.TestListFile = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetBool("multiversion"); v {
		cfg.Multiversion = true
	}
	if v, _ := cmd.Flags().GetBool("sharded"); v {
		cfg.Sharded = true
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
}
