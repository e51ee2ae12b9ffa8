// Package script provides the Starlark-backed host-code hook: a
// preprocessor function that evaluates a user-supplied snippet and expands
// to a tri-state outcome. A snippet that runs to completion (or calls
// exit(0)) expands to "y"; exit with a non-zero code expands to "n" without
// a diagnostic; any other fault expands to "n" and reports the fault on the
// warnings channel.
//
// Every call evaluates in a fresh, isolated scope. Snippets cannot see the
// host process, the filesystem, or the results of earlier calls.
package script

import (
	"errors"
	"fmt"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/menuconf/menuconf/pkg/engine"
	"github.com/menuconf/menuconf/pkg/macro"
	"github.com/menuconf/menuconf/pkg/telemetry"
)

// DefaultTimeout bounds one snippet evaluation.
const DefaultTimeout = 30 * time.Second

// Hook evaluates configuration-tree snippets in an embedded Starlark
// interpreter.
type Hook struct {
	timeout time.Duration
}

// Option configures a Hook.
type Option func(*Hook)

// WithTimeout overrides the per-evaluation timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Hook) { h.timeout = d }
}

// NewHook creates a snippet evaluator.
func NewHook(opts ...Option) *Hook {
	h := &Hook{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register returns the engine option installing the hook as the
// preprocessor function $(name,<snippet>).
func (h *Hook) Register(name string) engine.Option {
	return engine.WithFunction(name, 1, 1, h.expand)
}

// exitError carries an explicit exit(code) out of the interpreter.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit(%d)", e.code)
}

// expand is the macro.Func contract: evaluate the snippet, map the outcome
// to y or n.
func (h *Hook) expand(p *macro.Preprocessor, loc macro.Location, name string, args []string) (string, error) {
	err := h.run(args[0])
	if err == nil {
		return "y", nil
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.code == 0 {
			return "y", nil
		}
		// An explicit non-zero exit is an ordinary negative probe result.
		return "n", nil
	}

	p.Reporter().WarnAt(telemetry.CategoryHook, loc.File, loc.Line,
		"%s hook failed (%s): %v", name, faultKind(err), err)
	return "n", nil
}

// run executes one snippet in a fresh scope, bounded by the timeout.
func (h *Hook) run(snippet string) error {
	done := make(chan error, 1)
	thread := &starlark.Thread{
		Name: "menuconf-hook",
		Print: func(_ *starlark.Thread, _ string) {
			// Snippets have no output channel.
		},
	}

	go func() {
		predeclared := starlark.StringDict{
			"struct": starlarkstruct.Default,
			"exit":   starlark.NewBuiltin("exit", builtinExit),
		}
		_, err := starlark.ExecFile(thread, "snippet.star", snippet, predeclared)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(h.timeout):
		thread.Cancel("timeout")
		<-done
		return fmt.Errorf("evaluation timeout after %v", h.timeout)
	}
}

// faultKind names the failure class for the diagnostic.
func faultKind(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return "runtime fault"
	}
	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return "syntax error"
	}
	return "fault"
}

// builtinExit implements exit(code=0): it aborts the snippet, carrying the
// code out as the probe outcome.
func builtinExit(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var code int = 0
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "code?", &code); err != nil {
		return nil, err
	}
	return nil, &exitError{code: code}
}
