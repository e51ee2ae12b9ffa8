package engine

import (
	"path/filepath"
	"strings"
)

// SyncDeps maintains the per-symbol marker files build systems use for
// incremental rebuilds. outdir holds one marker per symbol, named from the
// symbol with underscores opening directories (FOO_BAR becomes foo/bar.h),
// plus auto.conf recording the values of the previous pass.
//
// A marker's modification time is refreshed exactly when the symbol's
// serialized value differs from the previous pass, so a consumer can treat
// "object file older than marker" as "compiled against a stale value".
func (e *Engine) SyncDeps(outdir string) error {
	autoConf := filepath.Join(outdir, "auto.conf")
	oldVals, err := e.loadOldVals(autoConf)
	if err != nil {
		return err
	}

	if err := e.fsys.MkdirAll(outdir, 0755); err != nil {
		return wrapError(ErrorClassIO, err, "could not create %q", outdir)
	}

	changed := 0
	for _, sym := range e.definedSyms {
		cur := sym.autoConfVal()
		if old, ok := oldVals[sym.name]; ok && old == cur {
			continue
		}
		if _, ok := oldVals[sym.name]; !ok && cur == "" {
			// Off in both passes.
			continue
		}

		marker := filepath.Join(outdir, markerPath(sym.name))
		if err := e.fsys.MkdirAll(filepath.Dir(marker), 0755); err != nil {
			return wrapError(ErrorClassIO, err, "could not create marker directory for %s", sym.name)
		}
		if err := e.fsys.Touch(marker); err != nil {
			return wrapError(ErrorClassIO, err, "could not touch marker for %s", sym.name)
		}
		changed++
	}

	if _, err := e.writeAutoConf(autoConf); err != nil {
		return err
	}
	e.logger.Debugf("sync-deps refreshed %d markers under %s", changed, outdir)
	return nil
}

// markerPath maps a symbol name to its marker file: lowercased, with
// underscores becoming directory separators, plus a .h suffix.
func markerPath(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", string(filepath.Separator)) + ".h"
}

// autoConfVal is the value a symbol contributes to auto.conf: its
// serialized value, except that off bool/tristate symbols and unwritten
// symbols contribute nothing.
func (s *Symbol) autoConfVal() string {
	val := s.StrValue()
	if !s.writeToConf {
		return ""
	}
	switch s.symType {
	case BoolType, TristateType:
		if val == "n" {
			return ""
		}
		return val
	case StringType:
		return "\"" + escapeString(val) + "\""
	default:
		return val
	}
}

// loadOldVals parses a previous auto.conf into a name-to-value map. A
// missing file means a first pass: every symbol counts as changed.
func (e *Engine) loadOldVals(path string) (map[string]string, error) {
	data, err := e.fsys.ReadFile(path)
	if err != nil {
		return map[string]string{}, nil
	}

	vals := make(map[string]string)
	prefix := e.configPrefix
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		rest := line[len(prefix):]
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			continue
		}
		vals[rest[:eq]] = rest[eq+1:]
	}
	return vals, nil
}

// writeAutoConf writes the auto.conf consumed by the next SyncDeps pass and
// by make-based build systems: enabled symbols only, no is-not-set lines.
func (e *Engine) writeAutoConf(path string) (bool, error) {
	var b strings.Builder
	prefix := e.configPrefix
	for _, sym := range e.definedSyms {
		val := sym.autoConfVal()
		if val == "" {
			continue
		}
		b.WriteString(prefix + sym.name + "=" + val + "\n")
	}
	return e.writeIfChanged(path, b.String(), false)
}
