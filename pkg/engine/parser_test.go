package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

func TestBasicTree(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
mainmenu "Test Configuration"

config FOO
	bool "enable foo"
	default y

config SIZE
	int "buffer size"
	default 64

config NAME
	string "instance name"
	default "primary"
`,
	}, nil)

	assert.Equal(t, "Test Configuration", te.eng.MainmenuText())
	require.Len(t, te.eng.UniqueDefinedSyms(), 3)

	foo := te.sym(t, "FOO")
	assert.Equal(t, BoolType, foo.Type())
	assert.Equal(t, Y, foo.TriValue())

	prompt, _, has := foo.Nodes()[0].Prompt()
	assert.True(t, has)
	assert.Equal(t, "enable foo", prompt)

	assert.Equal(t, "64", te.sym(t, "SIZE").StrValue())
	assert.Equal(t, "primary", te.sym(t, "NAME").StrValue())
}

func TestMultiLocationDefinition(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config FOO
	bool "first"

config FOO
	default y
`,
	}, nil)

	foo := te.sym(t, "FOO")
	assert.Len(t, foo.Nodes(), 2, "one symbol, two defining nodes")
	assert.Len(t, te.eng.UniqueDefinedSyms(), 1)
	assert.Equal(t, Y, foo.TriValue())
}

func TestIfBlockPropagation(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config A
	bool "a"

if A
config B
	bool "b"
	default y
endif
`,
	}, nil)

	a := te.sym(t, "A")
	b := te.sym(t, "B")

	assert.Equal(t, N, b.Visibility(), "B is invisible while A is off")
	assert.Equal(t, N, b.TriValue())

	require.True(t, a.SetValue("y"))
	assert.Equal(t, Y, b.Visibility())
	assert.Equal(t, Y, b.TriValue())
}

func TestMenuAndVisibleIf(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config GATE
	bool "gate"

menu "Advanced"
	visible if GATE

config TUNE
	bool "tune"
	default y
endmenu
`,
	}, nil)

	require.Len(t, te.eng.Menus(), 1)
	tune := te.sym(t, "TUNE")

	// visible if hides the prompt without touching the value.
	assert.Equal(t, N, tune.Visibility())
	assert.Equal(t, Y, tune.TriValue())

	te.sym(t, "GATE").SetValue("y")
	assert.Equal(t, Y, tune.Visibility())
}

func TestHelpBlock(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": "config FOO\n" +
			"\tbool \"foo\"\n" +
			"\thelp\n" +
			"\t  First line.\n" +
			"\t  Second line.\n" +
			"\n" +
			"\t  After a blank.\n" +
			"\n" +
			"config BAR\n" +
			"\tbool \"bar\"\n",
	}, nil)

	foo := te.sym(t, "FOO")
	assert.Equal(t, "First line.\nSecond line.\n\nAfter a blank.\n", foo.Nodes()[0].Help())
	assert.NotNil(t, te.eng.Sym("BAR"), "the dedented line ends the help block")
}

func TestLineContinuation(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": "config FOO\n\tbool \\\n\t\"joined prompt\"\n\tdefault y\n",
	}, nil)

	prompt, _, has := te.sym(t, "FOO").Nodes()[0].Prompt()
	require.True(t, has)
	assert.Equal(t, "joined prompt", prompt)
}

func TestSourceGlobAndRsource(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
source "drv/*/Kconfig"
osource "missing/Kconfig"
`,
		"drv/net/Kconfig": "config NET\n\tbool \"net\"\n\nrsource \"extra\"\n",
		"drv/net/extra":   "config NET_EXTRA\n\tbool \"net extra\"\n",
		"drv/usb/Kconfig": "config USB\n\tbool \"usb\"\n",
	}, nil)

	var names []string
	for _, sym := range te.eng.UniqueDefinedSyms() {
		names = append(names, sym.Name())
	}
	assert.Equal(t, []string{"NET", "NET_EXTRA", "USB"}, names,
		"matches splice in sorted order, rsource resolves beside the including file")
}

func TestSourceMissingIsFatal(t *testing.T) {
	err := loadErr(t, map[string]string{
		"Kconfig": "source \"nope/Kconfig\"\n",
	})
	assert.True(t, IsInclusion(err))
}

func TestInclusionCycle(t *testing.T) {
	err := loadErr(t, map[string]string{
		"Kconfig":     "source \"sub/Kconfig\"\n",
		"sub/Kconfig": "source \"Kconfig\"\n",
	})
	assert.True(t, IsInclusion(err))
	assert.Contains(t, err.Error(), "recursive inclusion")
}

func TestMacroExpansionInStatements(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
SUFFIX := _CORE

config NET$(SUFFIX)
	bool "net core"
	default y
`,
	}, nil)

	assert.NotNil(t, te.eng.Sym("NET_CORE"))
	assert.Nil(t, te.eng.Sym("NET$(SUFFIX)"))
}

func TestChoiceMembership(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
choice
	prompt "pick one"
	default CH_B

config CH_A
	bool "a"

config CH_B
	bool "b"
endchoice
`,
	}, nil)

	require.Len(t, te.eng.Choices(), 1)
	c := te.eng.Choices()[0]

	require.Len(t, c.Members(), 2)
	assert.Equal(t, c, te.sym(t, "CH_A").Choice())

	assert.Equal(t, Y, c.TriValue(), "non-optional bool choice is in y mode")
	assert.Equal(t, te.sym(t, "CH_B"), c.Selection(), "the default wins with no user pick")
	assert.Equal(t, Y, te.sym(t, "CH_B").TriValue())
	assert.Equal(t, N, te.sym(t, "CH_A").TriValue())

	require.True(t, te.sym(t, "CH_A").SetValue("y"))
	assert.Equal(t, te.sym(t, "CH_A"), c.Selection())
	assert.Equal(t, N, te.sym(t, "CH_B").TriValue())
}

func TestNamedChoiceMergesBlocks(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
choice PROVIDER
	prompt "provider"

config P_ONE
	bool "one"
endchoice

choice PROVIDER
config P_TWO
	bool "two"
endchoice
`,
	}, nil)

	require.Len(t, te.eng.Choices(), 1)
	c := te.eng.NamedChoice("PROVIDER")
	require.NotNil(t, c)
	assert.Len(t, c.Members(), 2)
}

func TestOptionalChoice(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
choice
	prompt "maybe"
	optional

config OPT_A
	bool "a"
endchoice
`,
	}, nil)

	c := te.eng.Choices()[0]
	assert.True(t, c.IsOptional())
	assert.Equal(t, N, c.TriValue(), "an optional choice starts disabled")
	assert.Nil(t, c.Selection())

	c.SetValue(Y)
	assert.Equal(t, te.sym(t, "OPT_A"), c.Selection())
}

func TestImplicitSubmenu(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config A
	bool "a"

config B
	bool "b"
	depends on A

config C
	bool "c"
	depends on A = y

config D
	bool "d"
`,
	}, nil)

	aNode := te.sym(t, "A").Nodes()[0]
	require.NotNil(t, aNode.Child(), "dependent run nests below A")
	assert.Equal(t, te.sym(t, "B"), aNode.Child().Sym())
	assert.Equal(t, te.sym(t, "C"), aNode.Child().Next().Sym())

	assert.Equal(t, te.sym(t, "D"), aNode.Next().Sym(), "D stays a sibling of A")
}

func TestOptionEnv(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config ARCH
	string
	option env="ARCH"
`,
	}, map[string]string{"ARCH": "arm64"})

	arch := te.sym(t, "ARCH")
	assert.Equal(t, "arm64", arch.StrValue())
	assert.Equal(t, "ARCH", arch.EnvVar())
	assert.Empty(t, te.warningsOf(telemetry.CategoryGeneral))
}

func TestOptionEnvNameMismatchWarns(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config TARGET
	string
	option env="ARCH"
`,
	}, map[string]string{"ARCH": "arm64"})

	warnings := te.warningsOf(telemetry.CategoryGeneral)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "redundant")
}

func TestTypeInference(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config GUESS_INT
	default 42

config GUESS_HEX
	default 0xFF

config GUESS_STR
	default "hello"

config GUESS_BOOL
	default y

config ONLY_SELECTED

config SELECTOR
	bool "selector"
	select ONLY_SELECTED
`,
	}, nil)

	assert.Equal(t, IntType, te.sym(t, "GUESS_INT").Type())
	assert.Equal(t, HexType, te.sym(t, "GUESS_HEX").Type())
	assert.Equal(t, StringType, te.sym(t, "GUESS_STR").Type())
	assert.Equal(t, BoolType, te.sym(t, "GUESS_BOOL").Type())
	assert.Equal(t, BoolType, te.sym(t, "ONLY_SELECTED").Type())
}

func TestConflictingTypesWarn(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config FOO
	bool "first"

config FOO
	string "second"
`,
	}, nil)

	warnings := te.warningsOf(telemetry.CategoryGeneral)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "multiple types")
	assert.Equal(t, StringType, te.sym(t, "FOO").Type())
}

func TestUndefinedReferenceWarning(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config A
	bool "a"
	depends on MISSING
`,
	}, nil)

	require.Len(t, te.eng.UndefinedSyms(), 1)
	assert.Equal(t, "MISSING", te.eng.UndefinedSyms()[0].Name())
	require.NotEmpty(t, te.warningsOf(telemetry.CategoryUndefined))
}

func TestStrictReferencesFatal(t *testing.T) {
	err := loadErr(t, map[string]string{
		"Kconfig": "config A\n\tbool \"a\"\n\tdepends on MISSING\n",
	}, WithStrictReferences())
	assert.True(t, IsReference(err))
	assert.Contains(t, err.Error(), "MISSING")
}

func TestSyntaxErrors(t *testing.T) {
	trees := []string{
		"config\n",
		"config FOO\n\tbool \"foo\" extra\n",
		"menu\n",
		"config FOO\n\tdepends FOO\n",
		"if FOO\nconfig A\n\tbool \"a\"\n",  // unterminated if
		"endmenu\n",
	}
	for _, tree := range trees {
		err := loadErr(t, map[string]string{"Kconfig": tree})
		assert.True(t, IsSyntax(err), "tree %q should fail with a syntax error, got %v", tree, err)
	}
}
