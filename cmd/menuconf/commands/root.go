package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	projectPath string
	topFile     string
	verbose     bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "menuconf",
		Short: "menuconf - Kconfig-style configuration engine",
		Long: `menuconf parses Kconfig-dialect configuration trees and resolves,
edits, and serializes configurations against them.

Features:
  - Macro preprocessor with shell and toolchain probes
  - Tri-state value resolution with lazy cache invalidation
  - Byte-exact .config and autoconf.h serialization
  - Incremental per-symbol dependency markers for build systems
  - Optional Starlark snippet hook for host-side probes`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "menuconf.yaml", "project file path")
	rootCmd.PersistentFlags().StringVar(&topFile, "top", "Kconfig", "top configuration file (when no project file exists)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newAllDefConfigCommand())
	rootCmd.AddCommand(newAllYesConfigCommand())
	rootCmd.AddCommand(newAllModConfigCommand())
	rootCmd.AddCommand(newAllNoConfigCommand())
	rootCmd.AddCommand(newDefConfigCommand())
	rootCmd.AddCommand(newSaveDefConfigCommand())
	rootCmd.AddCommand(newSetConfigCommand())
	rootCmd.AddCommand(newGenConfigCommand())
	rootCmd.AddCommand(newLintCommand())

	return rootCmd
}
