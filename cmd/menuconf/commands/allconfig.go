package commands

import (
	"github.com/spf13/cobra"

	"github.com/menuconf/menuconf/pkg/engine"
)

// setAllValues assigns every non-choice bool and tristate symbol the value
// pick returns for it, and every choice the given mode. pick returning ""
// leaves the symbol alone.
func setAllValues(eng *engine.Engine, mode engine.Tristate, pick func(*engine.Symbol) string) {
	for _, c := range eng.Choices() {
		c.SetValue(mode)
	}
	for _, sym := range eng.UniqueDefinedSyms() {
		if sym.Choice() != nil {
			continue
		}
		if t := sym.Type(); t != engine.BoolType && t != engine.TristateType {
			continue
		}
		if val := pick(sym); val != "" {
			sym.SetValue(val)
		}
	}
}

func newAllYesConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "allyesconfig",
		Short: "Write a configuration with everything enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			setAllValues(s.eng, engine.Y, func(*engine.Symbol) string { return "y" })
			return s.writeConfig()
		},
	}
}

func newAllModConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "allmodconfig",
		Short: "Write a configuration with everything as modules where possible",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			setAllValues(s.eng, engine.M, func(sym *engine.Symbol) string {
				if sym.Type() == engine.TristateType {
					return "m"
				}
				return "y"
			})
			return s.writeConfig()
		},
	}
}

func newAllNoConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "allnoconfig",
		Short: "Write a configuration with everything disabled",
		Long: `Write a configuration with every symbol off, except symbols
carrying option allnoconfig_y, which stay enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			setAllValues(s.eng, engine.N, func(sym *engine.Symbol) string {
				if sym.IsAllnoconfigY() {
					return "y"
				}
				return "n"
			})
			return s.writeConfig()
		},
	}
}

func newAllDefConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alldefconfig",
		Short: "Write a configuration with every symbol at its default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			// A freshly parsed tree has no user values, so the defaults are
			// already in effect.
			return s.writeConfig()
		},
	}
}
