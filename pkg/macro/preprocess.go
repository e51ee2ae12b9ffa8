package macro

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// Func is the uniform function contract: built-ins, toolchain probes, and
// host-supplied hooks all receive the call name and the already-expanded
// argument list and return replacement text. Returning an error aborts the
// parse with a fatal diagnostic.
type Func func(p *Preprocessor, loc Location, name string, args []string) (string, error)

// function is one registry entry.
type function struct {
	fn      Func
	minArgs int
	maxArgs int // -1 means unlimited
}

func (f function) expects() string {
	switch {
	case f.maxArgs < 0:
		return fmt.Sprintf("%d or more", f.minArgs)
	case f.minArgs == f.maxArgs:
		return strconv.Itoa(f.minArgs)
	default:
		return fmt.Sprintf("%d-%d", f.minArgs, f.maxArgs)
	}
}

// Preprocessor owns the variable table and function registry for one engine
// instance. It is not safe for concurrent use; each engine instance owns
// exactly one.
type Preprocessor struct {
	vars  map[string]*Variable
	funcs map[string]function

	runner      Runner
	getenv      func(string) (string, bool)
	reporter    *telemetry.Reporter
	strictUndef bool
	ctx         context.Context

	depth int
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithRunner sets the command-execution capability.
func WithRunner(r Runner) Option {
	return func(p *Preprocessor) { p.runner = r }
}

// WithGetenv sets the environment-lookup capability.
func WithGetenv(fn func(string) (string, bool)) Option {
	return func(p *Preprocessor) { p.getenv = fn }
}

// WithReporter sets the warnings channel.
func WithReporter(r *telemetry.Reporter) Option {
	return func(p *Preprocessor) { p.reporter = r }
}

// WithStrictUndefined makes a reference to an undefined variable a fatal
// "referenced before assignment" diagnostic instead of an empty expansion.
func WithStrictUndefined() Option {
	return func(p *Preprocessor) { p.strictUndef = true }
}

// WithContext sets the base context used for subprocess execution. The
// default is context.Background; the runner applies its own timeout on top.
func WithContext(ctx context.Context) Option {
	return func(p *Preprocessor) { p.ctx = ctx }
}

// New creates a preprocessor with the built-in function table installed.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		vars:   make(map[string]*Variable),
		funcs:  make(map[string]function),
		runner: &ExecRunner{},
		getenv: os.LookupEnv,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	registerBuiltins(p)
	return p
}

// Register adds a function to the registry, replacing any previous entry
// with the same name. maxArgs < 0 means unlimited.
func (p *Preprocessor) Register(name string, minArgs, maxArgs int, fn Func) {
	p.funcs[name] = function{fn: fn, minArgs: minArgs, maxArgs: maxArgs}
}

// Reporter returns the warnings channel the preprocessor reports to. Hook
// implementations use it for non-fatal diagnostics.
func (p *Preprocessor) Reporter() *telemetry.Reporter { return p.reporter }

// Getenv looks up an environment variable through the injected capability.
func (p *Preprocessor) Getenv(name string) (string, bool) { return p.getenv(name) }
