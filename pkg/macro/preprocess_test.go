package macro

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// fakeRunner records the last invocation and plays back canned results.
type fakeRunner struct {
	exit     int
	runErr   error
	shellOut string

	lastArgv  []string
	lastStdin string
	lastShell string
}

func (f *fakeRunner) Run(_ context.Context, argv []string, stdin string) (int, error) {
	f.lastArgv = argv
	f.lastStdin = stdin
	return f.exit, f.runErr
}

func (f *fakeRunner) Shell(_ context.Context, command string) (string, string, int, error) {
	f.lastShell = command
	return f.shellOut, "", f.exit, nil
}

func testPre(t *testing.T, env map[string]string, opts ...Option) (*Preprocessor, *telemetry.Reporter) {
	t.Helper()
	rep := telemetry.NewReporter(nil)
	opts = append([]Option{
		WithReporter(rep),
		WithGetenv(func(name string) (string, bool) {
			val, ok := env[name]
			return val, ok
		}),
	}, opts...)
	return New(opts...), rep
}

func assign(t *testing.T, p *Preprocessor, line string) {
	t.Helper()
	handled, err := p.ParseAssignment(line, Location{File: "Kconfig", Line: 1})
	require.NoError(t, err)
	require.True(t, handled, "expected %q to parse as an assignment", line)
}

func expand(t *testing.T, p *Preprocessor, s string) string {
	t.Helper()
	out, err := p.Expand(s, Location{File: "Kconfig", Line: 1})
	require.NoError(t, err)
	return out
}

func TestAssignmentFlavors(t *testing.T) {
	p, _ := testPre(t, nil)

	assign(t, p, "X := a")
	assign(t, p, "SIMPLE := $(X)")
	assign(t, p, "RECURSIVE = $(X)")
	assign(t, p, "X := b")

	assert.Equal(t, "a", expand(t, p, "$(SIMPLE)"), "simple flavor expands at assignment time")
	assert.Equal(t, "b", expand(t, p, "$(RECURSIVE)"), "recursive flavor expands at reference time")
}

func TestAppendAssignment(t *testing.T) {
	p, _ := testPre(t, nil)

	// Appending to an undefined variable makes it recursive.
	assign(t, p, "FLAGS += -Wall")
	assign(t, p, "FLAGS += -Wextra")
	assert.Equal(t, "-Wall -Wextra", expand(t, p, "$(FLAGS)"))

	assign(t, p, "X := 1")
	assign(t, p, "S := a")
	assign(t, p, "S += $(X)")
	assign(t, p, "X := 2")
	assert.Equal(t, "a 1", expand(t, p, "$(S)"), "simple flavor expands appended text immediately")
}

func TestSelfReferenceError(t *testing.T) {
	p, _ := testPre(t, nil)
	assign(t, p, "LOOP = $(LOOP)")

	_, err := p.Expand("$(LOOP)", Location{File: "Kconfig", Line: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursively references itself")
	assert.Contains(t, err.Error(), "Kconfig:3")
}

func TestQuotedArgumentSplitting(t *testing.T) {
	p, _ := testPre(t, nil)

	var got []string
	p.Register("python", 1, -1, func(_ *Preprocessor, _ Location, _ string, args []string) (string, error) {
		got = args
		return "", nil
	})

	expand(t, p, "$(python,run('a,b', 'c)d'))")
	require.Len(t, got, 1, "quoted commas and parens must not split arguments")
	assert.Equal(t, "run('a,b', 'c)d')", got[0])
}

func TestTripleQuotedArguments(t *testing.T) {
	p, _ := testPre(t, nil)

	var got []string
	p.Register("probe", 1, -1, func(_ *Preprocessor, _ Location, _ string, args []string) (string, error) {
		got = args
		return "", nil
	})

	expand(t, p, `$(probe,"""a,b)c""",second)`)
	require.Len(t, got, 2)
	assert.Equal(t, `"""a,b)c"""`, got[0])
	assert.Equal(t, "second", got[1])
}

func TestPositionalArguments(t *testing.T) {
	p, _ := testPre(t, nil)
	assign(t, p, "greet = hello $(1) from $(0)")

	assert.Equal(t, "hello world from greet", expand(t, p, "$(greet,world)"))
	assert.Equal(t, "hello  from greet", expand(t, p, "$(greet)"), "missing positional argument expands empty")
}

func TestLegacyEnvironmentReference(t *testing.T) {
	p, _ := testPre(t, map[string]string{"ARCH": "arm64"})

	assert.Equal(t, "arch is arm64", expand(t, p, "arch is $ARCH"))
	assert.Equal(t, "$UNDEFINED stays", expand(t, p, "$UNDEFINED stays"),
		"undefined legacy references are left verbatim")
}

func TestUndefinedModernReference(t *testing.T) {
	p, rep := testPre(t, nil)

	assert.Equal(t, "", expand(t, p, "$(NOPE)"))
	warnings := rep.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, telemetry.CategoryUndefined, warnings[0].Category)

	strict, _ := testPre(t, nil, WithStrictUndefined())
	_, err := strict.Expand("$(NOPE)", Location{File: "Kconfig", Line: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "referenced before assignment")
}

func TestEnvironmentFallback(t *testing.T) {
	p, _ := testPre(t, map[string]string{"CC": "clang"})
	assert.Equal(t, "clang", expand(t, p, "$(CC)"),
		"modern references fall back to the environment")

	assign(t, p, "CC := gcc")
	assert.Equal(t, "gcc", expand(t, p, "$(CC)"), "variables shadow the environment")
}

func TestFilenameLineno(t *testing.T) {
	p, _ := testPre(t, nil)
	out, err := p.Expand("$(filename):$(lineno)", Location{File: "drivers/Kconfig", Line: 42})
	require.NoError(t, err)
	assert.Equal(t, "drivers/Kconfig:42", out)
}

func TestErrorBuiltins(t *testing.T) {
	p, _ := testPre(t, nil)

	_, err := p.Expand("$(error,boom)", Location{File: "Kconfig", Line: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = p.Expand("$(error-if,n,boom)", Location{})
	assert.NoError(t, err)

	_, err = p.Expand("$(error-if,y,boom)", Location{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestArgumentCountMismatch(t *testing.T) {
	p, _ := testPre(t, nil)
	_, err := p.Expand("$(warning-if,y)", Location{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad number of arguments")
}

func TestShellBuiltin(t *testing.T) {
	runner := &fakeRunner{shellOut: "first\nsecond\n\n"}
	p, _ := testPre(t, nil, WithRunner(runner))

	assert.Equal(t, "first second", expand(t, p, "$(shell,echo hi)"))
	assert.Equal(t, "echo hi", runner.lastShell)
}

func TestSuccessFailure(t *testing.T) {
	runner := &fakeRunner{exit: 0}
	p, rep := testPre(t, nil, WithRunner(runner))

	assert.Equal(t, "y", expand(t, p, "$(success,true)"))
	assert.Equal(t, "n", expand(t, p, "$(failure,true)"))
	assert.Equal(t, "yes", expand(t, p, "$(if-success,true,yes,no)"))

	runner.exit = 1
	assert.Equal(t, "n", expand(t, p, "$(success,false)"))
	assert.Equal(t, "y", expand(t, p, "$(failure,false)"))
	assert.Equal(t, "no", expand(t, p, "$(if-success,false,yes,no)"))
	assert.Empty(t, rep.Warnings(), "a failing probe is not a diagnostic")

	runner.runErr = errors.New("no such file")
	assert.Equal(t, "n", expand(t, p, "$(success,missing-tool)"))
	warnings := rep.Warnings()
	require.NotEmpty(t, warnings)
	assert.Equal(t, telemetry.CategoryProbe, warnings[len(warnings)-1].Category)
}

func TestCcOptionBit(t *testing.T) {
	runner := &fakeRunner{exit: 0}
	p, _ := testPre(t, nil, WithRunner(runner))
	assign(t, p, "CC := my-gcc")

	assert.Equal(t, "-m64", expand(t, p, "$(cc-option-bit,-m64)"))
	assert.Equal(t, "my-gcc", runner.lastArgv[0], "the CC variable names the probed compiler")

	runner.exit = 1
	assert.Equal(t, "", expand(t, p, "$(cc-option-bit,-m64)"))
}

func TestAsInstrFeedsStdin(t *testing.T) {
	runner := &fakeRunner{exit: 0}
	p, _ := testPre(t, nil, WithRunner(runner))

	assert.Equal(t, "y", expand(t, p, "$(as-instr,fmadd x0)"))
	assert.Equal(t, "fmadd x0\n", runner.lastStdin)
}

func TestNestedExpansionInArguments(t *testing.T) {
	p, _ := testPre(t, nil)
	assign(t, p, "SUFFIX := _CORE")
	assign(t, p, "wrap = [$(1)]")

	assert.Equal(t, "[NET_CORE]", expand(t, p, "$(wrap,NET$(SUFFIX))"))
}

func TestMissingEndParen(t *testing.T) {
	p, _ := testPre(t, nil)
	_, err := p.Expand("$(shell,echo hi", Location{File: "Kconfig", Line: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing end parenthesis")
}

func TestShellSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"cc -Wall", []string{"cc", "-Wall"}},
		{`cc "-D NAME=\"v\""`, []string{"cc", `-D NAME="v"`}},
		{"cc '-D A B'", []string{"cc", "-D A B"}},
		{`cc a\ b`, []string{"cc", "a b"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shellSplit(tt.in), "shellSplit(%q)", tt.in)
	}
}

func TestFlattenOutput(t *testing.T) {
	assert.Equal(t, "a b", flattenOutput("a\nb\n"))
	assert.Equal(t, "one", flattenOutput("one"))
	assert.Equal(t, "", flattenOutput("\n\n"))
	assert.Equal(t, "a b", flattenOutput("a\r\nb\r\n"))
}

func TestSplitAssignmentRejectsComparisons(t *testing.T) {
	p, _ := testPre(t, nil)

	for _, line := range []string{
		"config FOO",
		"default y if BAR = BAZ",
		"A == B",
	} {
		handled, err := p.ParseAssignment(line, Location{})
		require.NoError(t, err)
		assert.False(t, handled, "%q must not parse as an assignment", line)
	}
}
