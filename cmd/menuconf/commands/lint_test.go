package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLint(t *testing.T, kconfig string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	top := filepath.Join(dir, "Kconfig")
	require.NoError(t, os.WriteFile(top, []byte(kconfig), 0644))

	projectPath = filepath.Join(dir, "menuconf.yaml")
	topFile = top
	verbose = false

	// The command writes diagnostics to stderr; capture it for the
	// duration of the run.
	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStderr := os.Stderr
	os.Stderr = w

	cmd := newLintCommand()
	cmd.SetArgs(nil)
	runErr := cmd.Execute()

	require.NoError(t, w.Close())
	os.Stderr = oldStderr
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func TestLintPrintsEachProblemOnce(t *testing.T) {
	out, err := runLint(t, "config A\n\tbool \"a\"\n\tdepends on MISSING\n")

	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(out, "undefined symbol MISSING"),
		"each diagnostic appears exactly once on stderr")
}

func TestLintCleanTree(t *testing.T) {
	out, err := runLint(t, "config A\n\tbool \"a\"\n\nconfig B\n\tbool \"b\"\n\tdepends on A\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "warning")
}
