// Package engine implements the configuration-language engine: the
// statement parser, the symbol/choice/menu data model, the tri-state
// expression evaluator, the value and visibility resolver, and the
// configuration serializer.
//
// # Overview
//
// An Engine is built by parsing a configuration tree:
//
//	eng, err := engine.Load("Kconfig",
//	    engine.WithReporter(reporter),
//	)
//
// Parsing runs every line through the macro preprocessor (pkg/macro),
// builds the ordered menu-node tree, and populates the symbol and choice
// tables. After parsing, values and visibilities are computed on demand:
//
//	sym := eng.Sym("FOO")
//	sym.StrValue()   // current value, as written to configuration files
//	sym.TriValue()   // n/m/y for bool and tristate symbols
//	sym.Visibility() // what the prompts currently permit
//	sym.SetValue("y")
//
// Every computed value is memoized; assigning a symbol invalidates it and
// everything reachable over the reverse-dependency and menu-ancestor edges,
// so the next read recomputes lazily. Nothing is recomputed eagerly.
//
// # Core Domain Types
//
//   - Symbol: a named configuration item with a declared type, defaults,
//     ranges, and reverse dependencies contributed by select/imply
//   - Choice: an exactly-one or at-most-one grouping of symbols
//   - MenuNode: one entry in the ordered item tree; a symbol defined in
//     several places is one Symbol referenced by several MenuNodes
//   - Expr: an immutable expression tree shared across all dependents
//
// # Serialization
//
// LoadConfig applies a saved configuration through the same type, range,
// and visibility checks as programmatic assignment. WriteConfig,
// WriteMinConfig, and WriteAutoconf format output files and skip the write
// entirely when the content is byte-identical to what is already on disk.
// SyncDeps maintains the per-symbol marker files an incremental build
// system uses to detect value changes between runs.
//
// # Concurrency
//
// One Engine is single-threaded: no operation may be invoked concurrently
// on the same instance. Independent instances share no state and may run in
// parallel, one per configuration.
package engine
