package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSetConfigCommand() *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "setconfig NAME=VALUE ...",
		Short: "Assign symbol values on top of the current configuration",
		Long: `Assign one or more symbol values and write the configuration back.

Assignments go through the same validation as interactive editing: values
of the wrong type and values outside a declared range are rejected, and the
effective value is still clamped by visibility.`,
		Example: `  # Turn a feature on and size a buffer
  menuconf setconfig FOO=y BUF_SIZE=4096

  # Start from the tree defaults instead of .config
  menuconf setconfig --fresh FOO=m`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if !fresh {
				if err := s.eng.LoadConfig(s.proj.ConfigFile(), true); err != nil {
					return err
				}
			}

			for _, arg := range args {
				name, value, found := strings.Cut(arg, "=")
				if !found || name == "" {
					return fmt.Errorf("malformed assignment %q, expected NAME=VALUE", arg)
				}
				sym := s.eng.Sym(name)
				if sym == nil || !sym.IsDefined() {
					return fmt.Errorf("no symbol %s in the configuration tree", name)
				}
				if !sym.SetValue(value) {
					return fmt.Errorf("the value %q was rejected for %s", value, name)
				}
			}
			return s.writeConfig()
		},
	}

	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the existing configuration file")
	return cmd
}
