package macro

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// Location identifies the source position an expansion is happening at, for
// diagnostics and for the filename/lineno built-ins.
type Location struct {
	File string
	Line int
}

// maxExpansionDepth bounds indirect expansion cycles that the per-variable
// counter cannot catch (e.g. mutual recursion through function arguments).
const maxExpansionDepth = 100

// Expand resolves every $(...) form and legacy $NAME environment reference
// in s. Undefined modern references expand to the empty string with a
// warning (or fail in strict-undefined mode); undefined legacy references
// stay verbatim.
func (p *Preprocessor) Expand(s string, loc Location) (string, error) {
	return p.expand(s, loc, nil)
}

// expand walks s, copying ordinary text and resolving references. frame is
// the positional-argument frame of the function call being expanded, nil at
// the top level.
func (p *Preprocessor) expand(s string, loc Location, frame []string) (string, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxExpansionDepth {
		return "", p.errorf(loc, "too deeply nested macro expansion (circular reference?)")
	}

	var res strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '$' {
			res.WriteByte(c)
			i++
			continue
		}
		switch {
		case i+1 < len(s) && s[i+1] == '(':
			val, next, err := p.expandMacro(s, i+2, loc, frame)
			if err != nil {
				return "", err
			}
			res.WriteString(val)
			i = next
		case i+1 < len(s) && isVarNameByte(s[i+1]):
			// Legacy $NAME environment reference. Undefined names are
			// left untouched.
			j := i + 1
			for j < len(s) && isVarNameByte(s[j]) {
				j++
			}
			name := s[i+1 : j]
			if val, ok := p.getenv(name); ok {
				res.WriteString(val)
			} else {
				res.WriteString(s[i:j])
			}
			i = j
		default:
			res.WriteByte(c)
			i++
		}
	}
	return res.String(), nil
}

// expandMacro parses one $(...) form starting just past the opening
// parenthesis, expands nested forms, splits arguments on top-level commas,
// and evaluates the call. It returns the value and the index past the
// closing parenthesis.
//
// Quoted regions (single, double, or triple quotes, with backslash escapes)
// hide commas and parentheses from the splitter, as do nested parentheses.
func (p *Preprocessor) expandMacro(s string, i int, loc Location, frame []string) (string, int, error) {
	var args []string
	var cur strings.Builder

	depth := 0
	quote := "" // active quote delimiter, "" when outside quotes

	for i < len(s) {
		if quote != "" {
			if s[i] == '\\' && i+1 < len(s) {
				cur.WriteString(s[i : i+2])
				i += 2
				continue
			}
			if strings.HasPrefix(s[i:], quote) {
				cur.WriteString(quote)
				i += len(quote)
				quote = ""
				continue
			}
			cur.WriteByte(s[i])
			i++
			continue
		}

		c := s[i]
		switch {
		case c == '$' && i+1 < len(s) && s[i+1] == '(':
			val, next, err := p.expandMacro(s, i+2, loc, frame)
			if err != nil {
				return "", 0, err
			}
			cur.WriteString(val)
			i = next

		case c == '\'' || c == '"':
			if strings.HasPrefix(s[i:], "'''") || strings.HasPrefix(s[i:], `"""`) {
				quote = s[i : i+3]
			} else {
				quote = s[i : i+1]
			}
			cur.WriteString(quote)
			i += len(quote)

		case c == '(':
			depth++
			cur.WriteByte(c)
			i++

		case c == ')':
			if depth == 0 {
				args = append(args, cur.String())
				val, err := p.eval(args, loc, frame)
				return val, i + 1, err
			}
			depth--
			cur.WriteByte(c)
			i++

		case c == ',' && depth == 0:
			args = append(args, cur.String())
			cur.Reset()
			i++

		default:
			cur.WriteByte(c)
			i++
		}
	}
	return "", 0, p.errorf(loc, "missing end parenthesis in macro expansion")
}

// eval resolves one parsed call: variable reference, function call,
// positional argument, or environment lookup, in that order.
func (p *Preprocessor) eval(args []string, loc Location, frame []string) (string, error) {
	name := args[0]

	if v, ok := p.vars[name]; ok {
		callFrame := append([]string{name}, args[1:]...)
		return p.expandVariable(v, loc, callFrame)
	}

	if fn, ok := p.funcs[name]; ok {
		n := len(args) - 1
		if n < fn.minArgs || (fn.maxArgs >= 0 && n > fn.maxArgs) {
			return "", p.errorf(loc, "bad number of arguments in call to %s, expected %s, got %d",
				name, fn.expects(), n)
		}
		return fn.fn(p, loc, name, args[1:])
	}

	// $(1), $(2), ... inside a function-call expansion; $(0) is the name
	// the call was made with.
	if n, err := strconv.Atoi(name); err == nil && n >= 0 {
		if n < len(frame) {
			return frame[n], nil
		}
		return "", nil
	}

	if val, ok := p.getenv(name); ok {
		return val, nil
	}

	if p.strictUndef {
		return "", p.errorf(loc, "variable %s referenced before assignment", name)
	}
	p.reporter.WarnAt(telemetry.CategoryUndefined, loc.File, loc.Line,
		"attempt to expand undefined variable or function %q (expanding to the empty string)", name)
	return "", nil
}

// expandVariable expands a variable's value, guarding against direct
// self-reference.
func (p *Preprocessor) expandVariable(v *Variable, loc Location, frame []string) (string, error) {
	if !v.IsRecursive {
		return v.Value, nil
	}
	if v.nExpansions > 0 {
		return "", p.errorf(loc, "variable %s recursively references itself", v.Name)
	}
	v.nExpansions++
	defer func() { v.nExpansions-- }()
	return p.expand(v.Value, loc, frame)
}

func (p *Preprocessor) errorf(loc Location, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if loc.File != "" {
		return fmt.Errorf("%s:%d: %s", loc.File, loc.Line, msg)
	}
	return fmt.Errorf("%s", msg)
}
