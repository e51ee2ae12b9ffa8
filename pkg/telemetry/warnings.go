package telemetry

import (
	"fmt"
	"sync"
)

// Severity is the severity of a warning record.
type Severity string

const (
	// SeverityInfo marks informational records, e.g. the $(info,...) macro.
	SeverityInfo Severity = "info"

	// SeverityWarning marks ordinary warnings.
	SeverityWarning Severity = "warning"

	// SeverityError marks diagnostics that accompany a fatal error.
	SeverityError Severity = "error"
)

// Category classifies a warning so that hosts can suppress or promote
// specific kinds without string matching.
type Category string

const (
	// CategoryGeneral is the default category.
	CategoryGeneral Category = "general"

	// CategoryUndefined covers references to undefined symbols.
	CategoryUndefined Category = "undefined-reference"

	// CategoryOverride covers repeated assignments to the same symbol while
	// applying a saved configuration.
	CategoryOverride Category = "override"

	// CategoryUnknown covers assignments to symbols the engine has never
	// seen, recorded while applying a saved configuration.
	CategoryUnknown Category = "unknown-symbol"

	// CategoryRange covers assignments outside a declared numeric range.
	CategoryRange Category = "range"

	// CategoryProbe covers failed external toolchain probes.
	CategoryProbe Category = "probe"

	// CategoryHook covers faults raised by user-supplied function hooks.
	CategoryHook Category = "hook"
)

// Warning is one record on the warnings channel. Warnings carry a source
// location when one is known; Line is 0 when the record is not tied to a
// specific line.
type Warning struct {
	Severity Severity
	Category Category
	Message  string
	File     string
	Line     int
}

// String formats the warning the way the CLI prints it.
func (w Warning) String() string {
	if w.File != "" {
		return fmt.Sprintf("%s:%d: %s: %s", w.File, w.Line, w.Severity, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Severity, w.Message)
}

// Reporter collects warnings and forwards them to a logger. A nil *Reporter
// is valid and drops everything, so library code can call it unconditionally.
//
// Suppression hides a category from the logger but still records it, so a
// batch consumer reading Warnings() sees every record.
type Reporter struct {
	mu         sync.Mutex
	logger     *Logger
	warnings   []Warning
	suppressed map[Category]bool
}

// NewReporter creates a reporter forwarding to the given logger. The logger
// may be nil, in which case records are only collected.
func NewReporter(logger *Logger) *Reporter {
	return &Reporter{
		logger:     logger,
		suppressed: make(map[Category]bool),
	}
}

// Suppress hides a category from the logger. Suppressed records are still
// collected.
func (r *Reporter) Suppress(cat Category) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppressed[cat] = true
}

// Report records a warning and forwards it to the logger unless its category
// is suppressed.
func (r *Reporter) Report(w Warning) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.warnings = append(r.warnings, w)
	hidden := r.suppressed[w.Category]
	logger := r.logger
	r.mu.Unlock()

	if hidden || logger == nil {
		return
	}
	if w.File != "" {
		logger = logger.WithLocation(w.File, w.Line)
	}
	switch w.Severity {
	case SeverityInfo:
		logger.Info(w.Message)
	case SeverityError:
		logger.Error(w.Message)
	default:
		logger.Warn(w.Message)
	}
}

// Warnf records a formatted warning without a source location.
func (r *Reporter) Warnf(cat Category, format string, args ...interface{}) {
	r.Report(Warning{
		Severity: SeverityWarning,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
	})
}

// WarnAt records a formatted warning tied to a source location.
func (r *Reporter) WarnAt(cat Category, file string, line int, format string, args ...interface{}) {
	r.Report(Warning{
		Severity: SeverityWarning,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
	})
}

// Infof records an informational message.
func (r *Reporter) Infof(format string, args ...interface{}) {
	r.Report(Warning{
		Severity: SeverityInfo,
		Category: CategoryGeneral,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnings returns a copy of every record collected so far, suppressed
// categories included.
func (r *Reporter) Warnings() []Warning {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Reset discards every collected record.
func (r *Reporter) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = r.warnings[:0]
}
