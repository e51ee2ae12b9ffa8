package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenConfigCommand() *cobra.Command {
	var (
		syncDeps bool
		header   string
	)

	cmd := &cobra.Command{
		Use:   "genconfig",
		Short: "Generate the C header and build-system outputs",
		Long: `Load the configuration file and generate the autoconf C header.

With --sync-deps, the per-symbol marker files under the project's sync
directory are refreshed for every symbol whose value changed since the last
pass, so incremental builds can rebuild exactly what a value change
touches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if err := s.eng.LoadConfig(s.proj.ConfigFile(), true); err != nil {
				return err
			}

			path := s.proj.AutoconfFile()
			changed, err := s.eng.WriteAutoconf(path, header)
			if err != nil {
				return err
			}
			if changed {
				fmt.Printf("Header saved to %s\n", path)
			} else {
				fmt.Printf("No change to %s\n", path)
			}

			if syncDeps {
				if err := s.eng.SyncDeps(s.proj.SyncDir()); err != nil {
					return err
				}
				fmt.Printf("Dependency markers synced under %s\n", s.proj.SyncDir())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&syncDeps, "sync-deps", false, "refresh per-symbol dependency markers")
	cmd.Flags().StringVar(&header, "header", "", "header comment for the generated file")
	return cmd
}
