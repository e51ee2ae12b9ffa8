package engine

import (
	"io/fs"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// memFS is the in-memory FS used by the engine tests. It counts writes and
// touches so tests can assert on skip-if-unchanged behavior.
type memFS struct {
	files   map[string]string
	writes  map[string]int
	touches map[string]int
}

func newMemFS(files map[string]string) *memFS {
	if files == nil {
		files = make(map[string]string)
	}
	return &memFS{
		files:   files,
		writes:  make(map[string]int),
		touches: make(map[string]int),
	}
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	if data, ok := m.files[path]; ok {
		return []byte(data), nil
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

func (m *memFS) WriteFile(path string, data []byte, _ fs.FileMode) error {
	m.files[path] = string(data)
	m.writes[path]++
	return nil
}

func (m *memFS) Glob(pattern string) ([]string, error) {
	var matches []string
	for name := range m.files {
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (m *memFS) Rename(oldpath, newpath string) error {
	data, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	m.files[newpath] = data
	delete(m.files, oldpath)
	return nil
}

func (m *memFS) MkdirAll(string, fs.FileMode) error { return nil }

func (m *memFS) Touch(path string) error {
	if _, ok := m.files[path]; !ok {
		m.files[path] = ""
	}
	m.touches[path]++
	return nil
}

// testEnv bundles a loaded engine with its filesystem and reporter.
type testEnv struct {
	eng *Engine
	fs  *memFS
	rep *telemetry.Reporter
}

// load parses an in-memory tree rooted at Kconfig. env is the whole
// environment the tree sees; the process environment is not consulted.
func load(t *testing.T, files map[string]string, env map[string]string, opts ...Option) *testEnv {
	t.Helper()
	fsys := newMemFS(files)
	rep := telemetry.NewReporter(nil)
	opts = append([]Option{
		WithFS(fsys),
		WithReporter(rep),
		WithGetenv(func(name string) (string, bool) {
			val, ok := env[name]
			return val, ok
		}),
	}, opts...)
	eng, err := Load("Kconfig", opts...)
	require.NoError(t, err)
	return &testEnv{eng: eng, fs: fsys, rep: rep}
}

// loadErr parses an in-memory tree expecting a fatal error.
func loadErr(t *testing.T, files map[string]string, opts ...Option) error {
	t.Helper()
	opts = append([]Option{
		WithFS(newMemFS(files)),
		WithGetenv(func(string) (string, bool) { return "", false }),
	}, opts...)
	_, err := Load("Kconfig", opts...)
	require.Error(t, err)
	return err
}

// sym fetches a symbol that must exist.
func (te *testEnv) sym(t *testing.T, name string) *Symbol {
	t.Helper()
	s := te.eng.Sym(name)
	require.NotNil(t, s, "symbol %s not found", name)
	return s
}

// warningsOf filters the collected warnings by category.
func (te *testEnv) warningsOf(cat telemetry.Category) []telemetry.Warning {
	var out []telemetry.Warning
	for _, w := range te.rep.Warnings() {
		if w.Category == cat {
			out = append(out, w)
		}
	}
	return out
}
