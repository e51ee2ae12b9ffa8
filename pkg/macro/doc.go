// Package macro implements the configuration-language preprocessor.
//
// # Overview
//
// Before any structural parsing, each source line passes through the
// preprocessor, which expands $(...) forms (variables, built-in functions,
// user-registered functions, environment variables) and legacy $NAME
// environment references, and which consumes variable-assignment lines
// (name = value, name := value, name += value).
//
// # Components
//
// Preprocessor: owns the variable table and function registry for one engine
// instance. Expansion is fully recursive: inner $(...) forms expand before
// the enclosing call receives its arguments, and a direct expansion cycle is
// a fatal error.
//
// Runner: the injectable command-execution capability behind $(shell,...),
// $(success,...), and the toolchain probe functions. The default
// implementation runs subprocesses with os/exec under a configurable
// timeout; a timeout or spawn failure is a probe failure, never fatal.
//
// Func: the uniform function contract. Built-ins, toolchain probes, and
// host-supplied hooks (see pkg/script) all register through the same table,
// so dispatch has no special cases.
//
// # Argument splitting
//
// A function call's argument list splits on top-level commas only: commas
// and parentheses inside nested $(...) calls or inside single-, double-, or
// triple-quoted regions (with backslash escapes) are never separators.
package macro
