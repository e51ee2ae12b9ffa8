package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLintCommand() *cobra.Command {
	var withConfig bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the configuration tree for problems",
		Long: `Parse the configuration tree and report every diagnostic it produces:
undefined symbol references, conflicting redefinitions, malformed defaults,
and so on. With --config, the configuration file is applied too, surfacing
assignments to unknown symbols and out-of-range values.

The exit status is non-zero when any diagnostic was reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quietDiagnostics = true
			defer func() { quietDiagnostics = false }()

			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if withConfig {
				if err := s.eng.LoadConfig(s.proj.ConfigFile(), true); err != nil {
					return err
				}
			}

			// Force full resolution so lazy diagnostics (unsatisfied
			// selects, clamped defaults) surface.
			for _, sym := range s.eng.UniqueDefinedSyms() {
				sym.StrValue()
			}
			s.eng.StaticChecks()

			warnings := s.reporter.Warnings()
			for _, w := range warnings {
				fmt.Fprintln(os.Stderr, w.String())
			}
			if n := len(warnings); n > 0 {
				return fmt.Errorf("%d problem(s) found", n)
			}
			fmt.Println("No problems found")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withConfig, "config", false, "also apply the configuration file")
	return cmd
}