package engine

import (
	"path/filepath"
	"strings"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// This file reads and writes the persisted configuration formats: the
// .config file, the minimal defconfig, and the C autoconf header. Output is
// byte-exact against the formats consumers parse, and every writer skips
// the write when the rendered content matches what is already on disk.

// LoadConfig applies a saved configuration file. With replace set, user
// values are reset first, so the file becomes the whole configuration;
// otherwise it layers on top of the current user values, the way merged
// defconfig fragments are applied.
//
// Assignments go through the same validation as SetValue: malformed and
// out-of-range values are rejected with a diagnostic and leave the prior
// state untouched. Assignments to unknown symbols are recorded and
// retrievable through MissingSyms.
func (e *Engine) LoadConfig(path string, replace bool) error {
	data, err := e.fsys.ReadFile(path)
	if err != nil {
		return wrapError(ErrorClassIO, err, "could not read configuration file %q", path)
	}

	e.missing = nil
	if replace {
		for _, sym := range e.definedSyms {
			sym.userValue = nil
		}
		for _, c := range e.choices {
			c.userValue = nil
			c.userSelection = nil
		}
		e.invalidateAll()
	}

	// Symbols assigned during this load, for override detection.
	assigned := make(map[*Symbol]string)

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lineno := i + 1
		name, value, unset, ok := e.parseConfigLine(line)
		if !ok {
			continue
		}

		sym := e.syms[name]
		if sym == nil || !sym.IsDefined() {
			e.missing = append(e.missing, Assignment{Name: name, Value: value, File: path, Line: lineno})
			e.reporter.WarnAt(telemetry.CategoryUnknown, path, lineno,
				"attempt to assign the value %q to the undefined symbol %s", value, name)
			continue
		}

		if unset {
			if sym.symType != BoolType && sym.symType != TristateType {
				continue
			}
			value = "n"
		} else if sym.symType == StringType {
			if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
				e.reporter.WarnAt(telemetry.CategoryGeneral, path, lineno,
					"malformed string literal for %s; assignment ignored", name)
				continue
			}
			value = unescapeString(value[1 : len(value)-1])
		}

		if old, seen := assigned[sym]; seen && old != value {
			e.reporter.WarnAt(telemetry.CategoryOverride, path, lineno,
				"%s set more than once. Old value %q, new value %q.", name, old, value)
		}
		if sym.SetValue(value) {
			assigned[sym] = value
		}
	}

	e.logger.Debugf("loaded configuration from %s (%d unknown symbols)", path, len(e.missing))
	return nil
}

// DefconfigFilename resolves the default-configuration file through the
// option defconfig_list symbol: the first default whose condition holds and
// whose file exists, checked as-is and under the source tree. It returns ""
// when no candidate resolves.
func (e *Engine) DefconfigFilename() string {
	if e.defconfigList == nil {
		return ""
	}
	for _, def := range e.defconfigList.defaults {
		if ExprValue(def.Cond) == N {
			continue
		}
		leaf, ok := def.Value.(*Symbol)
		if !ok {
			continue
		}
		name := leaf.name
		if _, err := e.fsys.ReadFile(name); err == nil {
			return name
		}
		if e.srcTree != "" {
			under := filepath.Join(e.srcTree, name)
			if _, err := e.fsys.ReadFile(under); err == nil {
				return under
			}
		}
	}
	return ""
}

// parseConfigLine matches the two statement forms of a configuration file:
// PREFIX_NAME=value and "# PREFIX_NAME is not set".
func (e *Engine) parseConfigLine(line string) (name, value string, unset, ok bool) {
	prefix := e.configPrefix

	if strings.HasPrefix(line, prefix) {
		rest := line[len(prefix):]
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			return "", "", false, false
		}
		return rest[:eq], rest[eq+1:], false, true
	}

	trimmed := strings.TrimPrefix(line, "# ")
	if trimmed != line && strings.HasPrefix(trimmed, prefix) && strings.HasSuffix(trimmed, " is not set") {
		name = strings.TrimSuffix(trimmed[len(prefix):], " is not set")
		if name != "" && !strings.ContainsAny(name, " \t") {
			return name, "n", true, true
		}
	}
	return "", "", false, false
}

// ConfigString returns the symbol as it appears in a configuration file,
// including the trailing newline, or "" when the symbol is not written
// (invisible with no inherited value).
func (s *Symbol) ConfigString() string {
	val := s.StrValue()
	if !s.writeToConf {
		return ""
	}
	prefix := s.eng.configPrefix
	switch s.symType {
	case BoolType, TristateType:
		if val == "n" {
			return "# " + prefix + s.name + " is not set\n"
		}
		return prefix + s.name + "=" + val + "\n"
	case StringType:
		return prefix + s.name + "=\"" + escapeString(val) + "\"\n"
	default:
		return prefix + s.name + "=" + val + "\n"
	}
}

// WriteConfig renders the configuration to path. The write is skipped when
// the rendered bytes match the existing file; a changed file is first
// preserved as path.old. The header, with every line prefixed by #, comes
// from the argument, else from $KCONFIG_CONFIG_HEADER, else it is empty.
// It reports whether the file changed on disk.
func (e *Engine) WriteConfig(path, header string) (bool, error) {
	if header == "" {
		header, _ = e.getenv("KCONFIG_CONFIG_HEADER")
	}
	contents := header + e.configContents(false)
	return e.writeIfChanged(path, contents, true)
}

// WriteMinConfig renders only the symbols whose value differs from what the
// tree would compute without any user values, producing a minimal
// defconfig. The same skip-if-unchanged rule as WriteConfig applies, without
// the .old backup.
func (e *Engine) WriteMinConfig(path, header string) (bool, error) {
	if header == "" {
		header, _ = e.getenv("KCONFIG_CONFIG_HEADER")
	}
	contents := header + e.configContents(true)
	return e.writeIfChanged(path, contents, false)
}

// WriteAutoconf renders the C header consumed by build systems: one #define
// per enabled symbol, with m states carried by a _MODULE suffix. The header
// argument defaults to $KCONFIG_AUTOHEADER_HEADER. Unchanged files are not
// rewritten, keeping their timestamps stable for make.
func (e *Engine) WriteAutoconf(path, header string) (bool, error) {
	if header == "" {
		header, _ = e.getenv("KCONFIG_AUTOHEADER_HEADER")
	}

	var b strings.Builder
	b.WriteString(header)
	prefix := e.configPrefix
	for _, sym := range e.definedSyms {
		val := sym.StrValue()
		if !sym.writeToConf {
			continue
		}
		switch sym.symType {
		case BoolType, TristateType:
			switch val {
			case "y":
				b.WriteString("#define " + prefix + sym.name + " 1\n")
			case "m":
				b.WriteString("#define " + prefix + sym.name + "_MODULE 1\n")
			}
		case StringType:
			b.WriteString("#define " + prefix + sym.name + " \"" + escapeString(val) + "\"\n")
		case IntType:
			b.WriteString("#define " + prefix + sym.name + " " + val + "\n")
		case HexType:
			if !strings.HasPrefix(strings.ToLower(val), "0x") {
				val = "0x" + val
			}
			b.WriteString("#define " + prefix + sym.name + " " + val + "\n")
		}
	}
	return e.writeIfChanged(path, b.String(), false)
}

// configContents renders the body of a configuration file: symbols in
// declaration order, interleaved with section headers for visible menus and
// comments. With minimal set, symbols whose value equals their no-user-value
// default are left out.
func (e *Engine) configContents(minimal bool) string {
	var defaults map[*Symbol]string
	if minimal {
		defaults = e.defaultValues()
	}

	for _, sym := range e.definedSyms {
		sym.written = false
	}

	var b strings.Builder
	walkNodes(e.root, func(node *MenuNode) {
		switch node.kind {
		case NodeSymbol:
			sym := node.sym
			if sym.written {
				return
			}
			sym.written = true
			entry := sym.ConfigString()
			if entry == "" {
				return
			}
			if minimal {
				if def, ok := defaults[sym]; ok && def == sym.StrValue() {
					return
				}
			}
			b.WriteString(entry)

		case NodeMenu, NodeComment:
			if minimal || node == e.root {
				return
			}
			if node.hasPrompt && ExprValue(node.promptCond) != N {
				b.WriteString("\n#\n# " + node.prompt + "\n#\n")
			}
		}
	})
	return b.String()
}

// defaultValues computes the value every defined symbol would have with all
// user values removed, restoring the live state afterwards.
func (e *Engine) defaultValues() map[*Symbol]string {
	savedSyms := make(map[*Symbol]*string, len(e.definedSyms))
	for _, sym := range e.definedSyms {
		savedSyms[sym] = sym.userValue
		sym.userValue = nil
	}
	savedModes := make(map[*Choice]*Tristate, len(e.choices))
	savedSels := make(map[*Choice]*Symbol, len(e.choices))
	for _, c := range e.choices {
		savedModes[c] = c.userValue
		savedSels[c] = c.userSelection
		c.userValue = nil
		c.userSelection = nil
	}
	e.invalidateAll()

	defaults := make(map[*Symbol]string, len(e.definedSyms))
	for _, sym := range e.definedSyms {
		val := sym.StrValue()
		if sym.writeToConf {
			defaults[sym] = val
		}
	}

	for sym, val := range savedSyms {
		sym.userValue = val
	}
	for c, mode := range savedModes {
		c.userValue = mode
		c.userSelection = savedSels[c]
	}
	e.invalidateAll()
	return defaults
}

// writeIfChanged writes contents to path unless the file already holds
// exactly those bytes. With backup set, a changed file is renamed to
// path.old first.
func (e *Engine) writeIfChanged(path, contents string, backup bool) (bool, error) {
	old, err := e.fsys.ReadFile(path)
	exists := err == nil
	if exists && string(old) == contents {
		e.logger.Debugf("no change to %s, skipping write", path)
		return false, nil
	}
	if exists && backup {
		// Best effort; a missing backup never blocks the write.
		_ = e.fsys.Rename(path, path+".old")
	}
	if err := e.fsys.WriteFile(path, []byte(contents), 0644); err != nil {
		return false, wrapError(ErrorClassIO, err, "could not write %q", path)
	}
	e.logger.Debugf("wrote %s (%d bytes)", path, len(contents))
	return true, nil
}
