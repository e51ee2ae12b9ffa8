package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menuconf/menuconf/pkg/engine"
	"github.com/menuconf/menuconf/pkg/project"
	"github.com/menuconf/menuconf/pkg/script"
	"github.com/menuconf/menuconf/pkg/telemetry"
)

// session bundles what every subcommand needs: the loaded engine, the
// project settings, and the warnings collected so far.
type session struct {
	eng      *engine.Engine
	proj     *project.Project
	reporter *telemetry.Reporter
}

// quietDiagnostics keeps the reporter from forwarding records to the
// logger as they arrive. The lint command sets it and prints the collected
// records itself, so each problem appears exactly once.
var quietDiagnostics bool

// loadSession reads the project file and parses the configuration tree.
func loadSession(cmd *cobra.Command) (*session, error) {
	proj, err := project.Load(projectPath, topFile)
	if err != nil {
		return nil, err
	}

	cfg := proj.Logging
	if cfg == (telemetry.LoggingConfig{}) {
		cfg = telemetry.DefaultLoggingConfig()
	}
	if verbose {
		cfg.Level = "debug"
	}
	logger, err := telemetry.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not set up logging: %w", err)
	}
	reporterLogger := logger
	if quietDiagnostics {
		reporterLogger = nil
	}
	reporter := telemetry.NewReporter(reporterLogger)

	opts := append(proj.EngineOptions(),
		engine.WithReporter(reporter),
		engine.WithLogger(logger),
	)
	if proj.Hook != "" {
		opts = append(opts, script.NewHook().Register(proj.Hook))
	}

	eng, err := engine.Load(proj.Top(), opts...)
	if err != nil {
		return nil, err
	}
	return &session{eng: eng, proj: proj, reporter: reporter}, nil
}

// writeConfig writes the current configuration to the project's config
// file and reports the outcome the way the generation tools do.
func (s *session) writeConfig() error {
	path := s.proj.ConfigFile()
	changed, err := s.eng.WriteConfig(path, "")
	if err != nil {
		return err
	}
	if changed {
		fmt.Printf("Configuration saved to %s\n", path)
	} else {
		fmt.Printf("No change to %s\n", path)
	}
	return nil
}
