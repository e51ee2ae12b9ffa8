package macro

import (
	"strings"
)

// Variable is one preprocessor variable. Recursive-flavor variables
// (name = value) store their value unexpanded and re-expand it at every
// reference; simple-flavor variables (name := value) expand once, at
// assignment time.
type Variable struct {
	// Name is the variable name.
	Name string

	// Value is the unexpanded value for recursive variables and the
	// already-expanded value for simple variables.
	Value string

	// IsRecursive reports the flavor.
	IsRecursive bool

	// nExpansions guards against self-referential expansion.
	nExpansions int
}

// Var looks up a variable by name.
func (p *Preprocessor) Var(name string) (*Variable, bool) {
	v, ok := p.vars[name]
	return v, ok
}

// ExpandedValue returns the variable's fully expanded value, substituting
// args for the positional references $(1), $(2), ... ($(0) is the variable
// name itself). Simple-flavor variables return their value as-is.
func (p *Preprocessor) ExpandedValue(v *Variable, loc Location, args ...string) (string, error) {
	if !v.IsRecursive {
		return v.Value, nil
	}
	frame := append([]string{v.Name}, args...)
	return p.expandVariable(v, loc, frame)
}

// SetVar assigns a variable programmatically, as if by name := value.
func (p *Preprocessor) SetVar(name, value string) {
	p.vars[name] = &Variable{Name: name, Value: value}
}

// ParseAssignment consumes a variable-assignment line (name = value,
// name := value, name += value). It returns false when the line is not an
// assignment, leaving it for the statement lexer.
func (p *Preprocessor) ParseAssignment(line string, loc Location) (bool, error) {
	name, op, rhs, ok := splitAssignment(line)
	if !ok {
		return false, nil
	}

	// The left-hand side may itself contain $(...) forms.
	name, err := p.expand(name, loc, nil)
	if err != nil {
		return true, err
	}
	if name == "" {
		return true, p.errorf(loc, "empty variable name in assignment")
	}

	switch op {
	case ":=":
		val, err := p.expand(rhs, loc, nil)
		if err != nil {
			return true, err
		}
		p.vars[name] = &Variable{Name: name, Value: val}

	case "=":
		p.vars[name] = &Variable{Name: name, Value: rhs, IsRecursive: true}

	case "+=":
		v, defined := p.vars[name]
		if !defined {
			// Appending to an undefined variable makes it recursive.
			p.vars[name] = &Variable{Name: name, Value: rhs, IsRecursive: true}
			break
		}
		part := rhs
		if !v.IsRecursive {
			// Simple flavor expands the appended text immediately.
			if part, err = p.expand(rhs, loc, nil); err != nil {
				return true, err
			}
		}
		if v.Value == "" {
			v.Value = part
		} else {
			v.Value += " " + part
		}
	}
	return true, nil
}

// splitAssignment finds "name op value" with op one of :=, +=, =. The name
// may contain $(...) forms, whose parentheses must balance before the
// operator is recognized.
func splitAssignment(line string) (name, op, rhs string, ok bool) {
	i := 0
	depth := 0
	for i < len(line) {
		c := line[i]
		switch {
		case depth == 0 && isVarNameByte(c):
			i++
		case c == '$' && i+1 < len(line) && line[i+1] == '(':
			depth++
			i += 2
		case depth > 0 && c == '(':
			depth++
			i++
		case depth > 0 && c == ')':
			depth--
			i++
		case depth > 0:
			i++
		default:
			goto done
		}
	}
done:
	if i == 0 || depth != 0 {
		return "", "", "", false
	}
	name = line[:i]
	rest := line[i:]
	trimmed := strings.TrimLeft(rest, " \t")
	switch {
	case strings.HasPrefix(trimmed, ":="):
		op, rest = ":=", trimmed[2:]
	case strings.HasPrefix(trimmed, "+="):
		op, rest = "+=", trimmed[2:]
	case strings.HasPrefix(trimmed, "=") && !strings.HasPrefix(trimmed, "=="):
		op, rest = "=", trimmed[1:]
	default:
		return "", "", "", false
	}
	return name, op, strings.TrimSpace(rest), true
}

func isVarNameByte(c byte) bool {
	return c == '_' || c == '-' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
