package script

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuconf/menuconf/pkg/macro"
	"github.com/menuconf/menuconf/pkg/telemetry"
)

func evalSnippet(t *testing.T, h *Hook, snippet string) (string, []telemetry.Warning) {
	t.Helper()
	rep := telemetry.NewReporter(nil)
	p := macro.New(macro.WithReporter(rep))
	out, err := h.expand(p, macro.Location{File: "Kconfig", Line: 7}, "probe", []string{snippet})
	require.NoError(t, err)
	return out, rep.Warnings()
}

func TestCleanRunIsY(t *testing.T) {
	h := NewHook()
	out, warnings := evalSnippet(t, h, "x = 1 + 1")
	assert.Equal(t, "y", out)
	assert.Empty(t, warnings)
}

func TestExplicitExit(t *testing.T) {
	h := NewHook()

	out, warnings := evalSnippet(t, h, "exit(0)")
	assert.Equal(t, "y", out)
	assert.Empty(t, warnings)

	out, warnings = evalSnippet(t, h, "exit(1)")
	assert.Equal(t, "n", out)
	assert.Empty(t, warnings, "a non-zero exit is a negative result, not a fault")
}

func TestRuntimeFault(t *testing.T) {
	h := NewHook()
	out, warnings := evalSnippet(t, h, "undefined_name + 1")
	assert.Equal(t, "n", out)
	require.Len(t, warnings, 1)
	assert.Equal(t, telemetry.CategoryHook, warnings[0].Category)
	assert.Contains(t, warnings[0].Message, "runtime fault")
	assert.Equal(t, "Kconfig", warnings[0].File)
	assert.Equal(t, 7, warnings[0].Line)
}

func TestSyntaxFault(t *testing.T) {
	h := NewHook()
	out, warnings := evalSnippet(t, h, "def broken(")
	assert.Equal(t, "n", out)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "syntax error")
}

func TestIsolatedScopes(t *testing.T) {
	h := NewHook()

	out, _ := evalSnippet(t, h, "leak = 42")
	require.Equal(t, "y", out)

	out, warnings := evalSnippet(t, h, "leak + 1")
	assert.Equal(t, "n", out, "bindings must not survive across evaluations")
	require.NotEmpty(t, warnings)
}

func TestEvaluationTimeout(t *testing.T) {
	h := NewHook(WithTimeout(50 * time.Millisecond))
	out, warnings := evalSnippet(t, h, "x = 0\nfor i in range(1000000000):\n\tx += i\n")
	assert.Equal(t, "n", out)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "timeout")
}
