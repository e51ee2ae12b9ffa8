package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilReporterIsSafe(t *testing.T) {
	var r *Reporter
	r.Warnf(CategoryGeneral, "dropped %d", 1)
	r.WarnAt(CategoryRange, "Kconfig", 3, "dropped")
	r.Infof("dropped")
	r.Suppress(CategoryGeneral)
	r.Reset()
	assert.Nil(t, r.Warnings())
}

func TestReporterCollects(t *testing.T) {
	r := NewReporter(nil)
	r.Warnf(CategoryGeneral, "first %s", "warning")
	r.WarnAt(CategoryRange, "Kconfig", 12, "second")
	r.Infof("third")

	warnings := r.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, SeverityWarning, warnings[0].Severity)
	assert.Equal(t, "first warning", warnings[0].Message)
	assert.Equal(t, CategoryRange, warnings[1].Category)
	assert.Equal(t, 12, warnings[1].Line)
	assert.Equal(t, SeverityInfo, warnings[2].Severity)

	r.Reset()
	assert.Empty(t, r.Warnings())
}

func TestSuppressedStillCollected(t *testing.T) {
	r := NewReporter(nil)
	r.Suppress(CategoryProbe)
	r.Warnf(CategoryProbe, "probe failed")
	require.Len(t, r.Warnings(), 1, "suppression only hides records from the logger")
}

func TestWarningString(t *testing.T) {
	w := Warning{
		Severity: SeverityWarning,
		Category: CategoryRange,
		Message:  "value out of range",
		File:     "drivers/Kconfig",
		Line:     40,
	}
	assert.Equal(t, "drivers/Kconfig:40: warning: value out of range", w.String())

	w.File = ""
	assert.Equal(t, "warning: value out of range", w.String())
}

func TestWarningsReturnsCopy(t *testing.T) {
	r := NewReporter(nil)
	r.Warnf(CategoryGeneral, "one")
	first := r.Warnings()
	r.Warnf(CategoryGeneral, "two")
	assert.Len(t, first, 1)
	assert.Len(t, r.Warnings(), 2)
}
