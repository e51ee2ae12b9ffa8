package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerPath(t *testing.T) {
	assert.Equal(t, "foo.h", markerPath("FOO"))
	assert.Equal(t, "foo/bar.h", markerPath("FOO_BAR"))
	assert.Equal(t, "net/core/mtu.h", markerPath("NET_CORE_MTU"))
}

func TestSyncDeps(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config FOO
	bool "foo"
	default y

config BAR
	bool "bar"

config NET_CORE
	bool "net core"
	default y

config SIZE
	int "size"
	default 4
`,
	}, nil)

	// First pass: every enabled symbol counts as changed.
	require.NoError(t, te.eng.SyncDeps("out"))
	assert.Equal(t, 1, te.fs.touches["out/foo.h"])
	assert.Equal(t, 1, te.fs.touches["out/net/core.h"])
	assert.Equal(t, 1, te.fs.touches["out/size.h"])
	assert.Zero(t, te.fs.touches["out/bar.h"], "a symbol off in both passes has no marker")
	assert.Equal(t, "CONFIG_FOO=y\nCONFIG_NET_CORE=y\nCONFIG_SIZE=4\n", te.fs.files["out/auto.conf"])

	// Second pass with nothing changed refreshes nothing.
	require.NoError(t, te.eng.SyncDeps("out"))
	assert.Equal(t, 1, te.fs.touches["out/foo.h"])
	assert.Equal(t, 1, te.fs.touches["out/size.h"])

	// Only the marker of the symbol that changed is refreshed.
	te.sym(t, "FOO").SetValue("n")
	require.NoError(t, te.eng.SyncDeps("out"))
	assert.Equal(t, 2, te.fs.touches["out/foo.h"])
	assert.Equal(t, 1, te.fs.touches["out/size.h"])
	assert.Equal(t, "CONFIG_NET_CORE=y\nCONFIG_SIZE=4\n", te.fs.files["out/auto.conf"],
		"a disabled symbol disappears from auto.conf")

	// Turning a symbol on for the first time refreshes its marker.
	te.sym(t, "BAR").SetValue("y")
	require.NoError(t, te.eng.SyncDeps("out"))
	assert.Equal(t, 1, te.fs.touches["out/bar.h"])
}

func TestAutoConfValues(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config MODULES
	bool "modules"
	default y
	option modules

config MOD
	tristate "mod"
	default m

config NAME
	string "name"
	default "a \"b\""
`,
	}, nil)

	require.NoError(t, te.eng.SyncDeps("out"))
	assert.Equal(t,
		"CONFIG_MODULES=y\nCONFIG_MOD=m\nCONFIG_NAME=\"a \\\"b\\\"\"\n",
		te.fs.files["out/auto.conf"],
		"tristate values stay m and strings stay quoted in auto.conf")
}
