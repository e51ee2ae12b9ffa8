package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

const serializeTree = `
config FOO
	bool "foo"
	default y

config BAR
	bool "bar"

menu "Networking"

config NAME
	string "name"
	default "eth0"
endmenu
`

func TestWriteConfigFormat(t *testing.T) {
	te := load(t, map[string]string{"Kconfig": serializeTree}, nil)

	require.True(t, te.sym(t, "NAME").SetValue(`say "hi"`))

	changed, err := te.eng.WriteConfig(".config", "")
	require.NoError(t, err)
	assert.True(t, changed)

	want := "CONFIG_FOO=y\n" +
		"# CONFIG_BAR is not set\n" +
		"\n#\n# Networking\n#\n" +
		"CONFIG_NAME=\"say \\\"hi\\\"\"\n"
	assert.Equal(t, want, te.fs.files[".config"])
}

func TestWriteConfigHeader(t *testing.T) {
	te := load(t, map[string]string{"Kconfig": serializeTree},
		map[string]string{"KCONFIG_CONFIG_HEADER": "# Generated file\n"})

	_, err := te.eng.WriteConfig(".config", "")
	require.NoError(t, err)
	assert.True(t, len(te.fs.files[".config"]) > 0)
	assert.Contains(t, te.fs.files[".config"], "# Generated file\n")

	// An explicit header wins over the environment.
	_, err = te.eng.WriteConfig(".config2", "# explicit\n")
	require.NoError(t, err)
	assert.Contains(t, te.fs.files[".config2"], "# explicit\n")
}

func TestWriteConfigSkipsUnchanged(t *testing.T) {
	te := load(t, map[string]string{"Kconfig": serializeTree}, nil)

	changed, err := te.eng.WriteConfig(".config", "")
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = te.eng.WriteConfig(".config", "")
	require.NoError(t, err)
	assert.False(t, changed, "an identical rendering must not rewrite the file")
	assert.Equal(t, 1, te.fs.writes[".config"])
	assert.NotContains(t, te.fs.files, ".config.old")
}

func TestWriteConfigBackup(t *testing.T) {
	te := load(t, map[string]string{"Kconfig": serializeTree}, nil)

	_, err := te.eng.WriteConfig(".config", "")
	require.NoError(t, err)
	original := te.fs.files[".config"]

	te.sym(t, "FOO").SetValue("n")
	changed, err := te.eng.WriteConfig(".config", "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, original, te.fs.files[".config.old"])
	assert.Contains(t, te.fs.files[".config"], "# CONFIG_FOO is not set\n")
}

func TestConfigRoundTrip(t *testing.T) {
	te := load(t, map[string]string{"Kconfig": serializeTree}, nil)

	te.sym(t, "BAR").SetValue("y")
	te.sym(t, "NAME").SetValue(`quo "ted" \ back`)
	_, err := te.eng.WriteConfig(".config", "")
	require.NoError(t, err)

	te2 := load(t, te.fs.files, nil)
	require.NoError(t, te2.eng.LoadConfig(".config", true))
	_, err = te2.eng.WriteConfig(".config.rt", "")
	require.NoError(t, err)

	assert.Equal(t, te.fs.files[".config"], te2.fs.files[".config.rt"],
		"loading a written configuration must reproduce it byte for byte")
}

func TestLoadConfigUnknownAndOverride(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": serializeTree,
		".config": "CONFIG_NOPE=y\n" +
			"CONFIG_FOO=n\n" +
			"CONFIG_FOO=y\n" +
			"# CONFIG_BAR is not set\n" +
			"# just a comment\n",
	}, nil)

	require.NoError(t, te.eng.LoadConfig(".config", true))

	require.Len(t, te.eng.MissingSyms(), 1)
	assert.Equal(t, "NOPE", te.eng.MissingSyms()[0].Name)
	require.NotEmpty(t, te.warningsOf(telemetry.CategoryUnknown))

	overrides := te.warningsOf(telemetry.CategoryOverride)
	require.Len(t, overrides, 1)
	assert.Contains(t, overrides[0].Message, "FOO set more than once")

	assert.Equal(t, Y, te.sym(t, "FOO").TriValue(), "the last assignment wins")
	assert.Equal(t, N, te.sym(t, "BAR").TriValue())
}

func TestLoadConfigRejectsOutOfRange(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": "config SIZE\n\tint \"size\"\n\trange 0 10\n\tdefault 5\n",
		".config": "CONFIG_SIZE=42\n",
	}, nil)

	require.NoError(t, te.eng.LoadConfig(".config", true))

	warnings := te.warningsOf(telemetry.CategoryRange)
	require.Len(t, warnings, 1)
	assert.Equal(t, telemetry.SeverityError, warnings[0].Severity)
	assert.Equal(t, "5", te.sym(t, "SIZE").StrValue(), "a rejected value leaves the default in place")
}

func TestLoadConfigMalformedString(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": "config NAME\n\tstring \"name\"\n\tdefault \"orig\"\n",
		".config": "CONFIG_NAME=unquoted\n",
	}, nil)

	require.NoError(t, te.eng.LoadConfig(".config", true))
	assert.Equal(t, "orig", te.sym(t, "NAME").StrValue())

	var found bool
	for _, w := range te.warningsOf(telemetry.CategoryGeneral) {
		if w.Line == 1 {
			found = true
		}
	}
	assert.True(t, found, "an unquoted string assignment is diagnosed with its line")
}

func TestWriteMinConfig(t *testing.T) {
	te := load(t, map[string]string{"Kconfig": serializeTree}, nil)

	te.sym(t, "BAR").SetValue("y")

	_, err := te.eng.WriteMinConfig("defconfig", "")
	require.NoError(t, err)
	assert.Equal(t, "CONFIG_BAR=y\n", te.fs.files["defconfig"],
		"only deviations from the defaults appear, without section headers")

	te.sym(t, "FOO").SetValue("n")
	_, err = te.eng.WriteMinConfig("defconfig", "")
	require.NoError(t, err)
	assert.Equal(t, "# CONFIG_FOO is not set\nCONFIG_BAR=y\n", te.fs.files["defconfig"])

	assert.Equal(t, N, te.sym(t, "FOO").TriValue(),
		"computing the minimal configuration leaves the live values alone")
}

func TestWriteAutoconf(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config MODULES
	bool "modules"
	default y
	option modules

config FOO
	bool "foo"
	default y

config OFF
	bool "off"

config MOD
	tristate "mod"
	default m

config SIZE
	int "size"
	default 5

config ADDR
	hex "addr"
	default 0x1F

config NAME
	string "name"
	default "hello"
`,
	}, nil)

	_, err := te.eng.WriteAutoconf("autoconf.h", "")
	require.NoError(t, err)

	want := "#define CONFIG_MODULES 1\n" +
		"#define CONFIG_FOO 1\n" +
		"#define CONFIG_MOD_MODULE 1\n" +
		"#define CONFIG_SIZE 5\n" +
		"#define CONFIG_ADDR 0x1F\n" +
		"#define CONFIG_NAME \"hello\"\n"
	assert.Equal(t, want, te.fs.files["autoconf.h"], "off symbols are absent entirely")

	// Hex values gain the 0x prefix the header needs when the user left it
	// off.
	require.True(t, te.sym(t, "ADDR").SetValue("AB"))
	_, err = te.eng.WriteAutoconf("autoconf.h", "")
	require.NoError(t, err)
	assert.Contains(t, te.fs.files["autoconf.h"], "#define CONFIG_ADDR 0xAB\n")
}

func TestCustomConfigPrefix(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": "config FOO\n\tbool \"foo\"\n\tdefault y\n",
		".config": "BR2_FOO=n\n",
	}, nil, WithConfigPrefix("BR2_"))

	require.NoError(t, te.eng.LoadConfig(".config", true))
	assert.Equal(t, N, te.sym(t, "FOO").TriValue())

	_, err := te.eng.WriteConfig("out", "")
	require.NoError(t, err)
	assert.Equal(t, "# BR2_FOO is not set\n", te.fs.files["out"])
}

func TestDefconfigFilename(t *testing.T) {
	files := map[string]string{
		"Kconfig": `
config DEFCONFIG_LIST
	string
	option defconfig_list
	default "missing_defconfig"
	default "board_defconfig"
`,
		"board_defconfig": "",
	}
	te := load(t, files, nil)
	require.NotNil(t, te.eng.DefconfigList())
	assert.Equal(t, "board_defconfig", te.eng.DefconfigFilename(),
		"the first default naming an existing file wins")

	delete(te.fs.files, "board_defconfig")
	te.fs.files["tree/board_defconfig"] = ""
	te2 := load(t, te.fs.files, nil, WithSrcTree("tree"))
	assert.Equal(t, "tree/board_defconfig", te2.eng.DefconfigFilename(),
		"candidates also resolve under the source tree")
}

func TestStandardConfigFilename(t *testing.T) {
	te := load(t, map[string]string{"Kconfig": ""}, nil)
	assert.Equal(t, ".config", te.eng.StandardConfigFilename())

	te = load(t, map[string]string{"Kconfig": ""},
		map[string]string{"KCONFIG_CONFIG": "alt.config"})
	assert.Equal(t, "alt.config", te.eng.StandardConfigFilename())
}
