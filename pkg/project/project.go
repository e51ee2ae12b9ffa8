// Package project loads the optional menuconf.yaml project file: a
// declarative wrapper around the engine options, so repeated invocations of
// the CLI tools agree on the top file, output paths, and strictness
// settings without re-passing flags.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/menuconf/menuconf/pkg/engine"
	"github.com/menuconf/menuconf/pkg/telemetry"
)

// DefaultFile is the project file name looked up in the working directory.
const DefaultFile = "menuconf.yaml"

// Project is the parsed project file.
type Project struct {
	// TopFile is the root of the configuration tree.
	TopFile string `yaml:"top_file" validate:"required"`

	// SrcTree is the directory source statements resolve against. Relative
	// paths are resolved against the project file's directory.
	SrcTree string `yaml:"src_tree,omitempty"`

	// ConfigPrefix overrides the CONFIG_ prefix.
	ConfigPrefix string `yaml:"config_prefix,omitempty"`

	// Output names the generated files.
	Output OutputConfig `yaml:"output,omitempty"`

	// Strict tightens diagnostics into fatal errors.
	Strict StrictConfig `yaml:"strict,omitempty"`

	// Env sets environment variables visible to the configuration tree,
	// overriding the process environment.
	Env map[string]string `yaml:"env,omitempty"`

	// Hook enables the embedded snippet evaluator under the given function
	// name. Empty means no hook.
	Hook string `yaml:"hook,omitempty"`

	// Logging configures the structured logger of the CLI tools.
	Logging telemetry.LoggingConfig `yaml:"logging,omitempty"`

	// dir is the directory the project file was read from.
	dir string
}

// OutputConfig names the files the generation commands write.
type OutputConfig struct {
	// Config is the configuration file, default .config (or
	// $KCONFIG_CONFIG).
	Config string `yaml:"config,omitempty"`

	// Autoconf is the C header, default include/generated/autoconf.h.
	Autoconf string `yaml:"autoconf,omitempty"`

	// SyncDir is the marker-file directory for incremental builds, default
	// include/config.
	SyncDir string `yaml:"sync_dir,omitempty"`
}

// StrictConfig promotes warning classes to fatal errors.
type StrictConfig struct {
	// References makes references to undefined symbols fatal.
	References bool `yaml:"references,omitempty"`

	// Vars makes expansions of undefined preprocessor variables fatal.
	Vars bool `yaml:"vars,omitempty"`
}

// Load reads and validates a project file. A missing file is not an error:
// it returns a zero-value project with only the top file set to the given
// fallback.
func Load(path, fallbackTop string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{TopFile: fallbackTop, dir: "."}, nil
		}
		return nil, fmt.Errorf("could not read project file %s: %w", path, err)
	}

	p := &Project{dir: filepath.Dir(path)}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("could not parse project file %s: %w", path, err)
	}
	if p.TopFile == "" {
		p.TopFile = fallbackTop
	}

	if err := validator.New().Struct(p); err != nil {
		return nil, fmt.Errorf("project file %s validation failed: %w", path, err)
	}
	return p, nil
}

// Top returns the top file path, resolved against the project directory.
func (p *Project) Top() string {
	return p.resolve(p.TopFile)
}

// ConfigFile returns the configuration file path, falling back to the
// engine's standard name resolution.
func (p *Project) ConfigFile() string {
	if p.Output.Config != "" {
		return p.resolve(p.Output.Config)
	}
	if name := os.Getenv("KCONFIG_CONFIG"); name != "" {
		return name
	}
	return ".config"
}

// AutoconfFile returns the C header path.
func (p *Project) AutoconfFile() string {
	if p.Output.Autoconf != "" {
		return p.resolve(p.Output.Autoconf)
	}
	return filepath.Join("include", "generated", "autoconf.h")
}

// SyncDir returns the marker-file directory.
func (p *Project) SyncDir() string {
	if p.Output.SyncDir != "" {
		return p.resolve(p.Output.SyncDir)
	}
	return filepath.Join("include", "config")
}

// EngineOptions translates the project settings into engine options.
func (p *Project) EngineOptions() []engine.Option {
	var opts []engine.Option
	if p.SrcTree != "" {
		opts = append(opts, engine.WithSrcTree(p.resolve(p.SrcTree)))
	}
	if p.ConfigPrefix != "" {
		opts = append(opts, engine.WithConfigPrefix(p.ConfigPrefix))
	}
	if p.Strict.References {
		opts = append(opts, engine.WithStrictReferences())
	}
	if p.Strict.Vars {
		opts = append(opts, engine.WithStrictUndefinedVars())
	}
	if len(p.Env) > 0 {
		env := p.Env
		opts = append(opts, engine.WithGetenv(func(name string) (string, bool) {
			if val, ok := env[name]; ok {
				return val, true
			}
			return os.LookupEnv(name)
		}))
	}
	return opts
}

func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) || p.dir == "" || p.dir == "." {
		return path
	}
	return filepath.Join(p.dir, path)
}
