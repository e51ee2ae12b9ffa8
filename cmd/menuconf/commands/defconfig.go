package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newDefConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defconfig [file]",
		Short: "Apply a default-configuration file and write the full configuration",
		Long: `Apply a defconfig fragment and write the resulting full configuration.

Without an argument, the file is resolved through the symbol carrying
option defconfig_list, the way the reference build systems locate their
architecture defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				path = s.eng.DefconfigFilename()
				if path == "" {
					return fmt.Errorf("no defconfig file given and no defconfig_list default resolves")
				}
				log.Info().Str("file", path).Msg("Using defconfig_list default")
			}

			if err := s.eng.LoadConfig(path, true); err != nil {
				return err
			}
			return s.writeConfig()
		},
	}
	return cmd
}

func newSaveDefConfigCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "savedefconfig",
		Short: "Write a minimal configuration containing only non-default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if err := s.eng.LoadConfig(s.proj.ConfigFile(), true); err != nil {
				return err
			}

			changed, err := s.eng.WriteMinConfig(out, "")
			if err != nil {
				return err
			}
			if changed {
				fmt.Printf("Minimal configuration saved to %s\n", out)
			} else {
				fmt.Printf("No change to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "defconfig", "output file")
	return cmd
}
