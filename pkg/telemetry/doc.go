// Package telemetry provides structured logging and the warnings channel for
// the menuconf engine.
//
// # Architecture
//
// The package has two halves:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Warnings Channel - A stream of (severity, message, location) records
//     collected while parsing and resolving configurations
//
// Warnings are deliberately separate from fatal errors: the engine keeps
// parsing and applying while warnings accumulate, and a host decides whether
// to print them, batch them, or promote selected categories to errors.
//
// # Usage
//
// Initialize logging at application startup:
//
//	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stderr",
//	})
//
// Attach a warning reporter to an engine:
//
//	rep := telemetry.NewReporter(logger)
//	eng, err := engine.Load(path, engine.WithReporter(rep))
//	for _, w := range rep.Warnings() { ... }
package telemetry
