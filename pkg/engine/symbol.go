package engine

import (
	"strconv"
	"strings"

	"github.com/menuconf/menuconf/pkg/telemetry"
)

// DefaultEntry is one (value, condition) pair from a default property,
// evaluated in declaration order with the first satisfied condition winning.
type DefaultEntry struct {
	Value Expr
	Cond  Expr
}

// TargetEntry is one select or imply property as declared, kept for
// serialization and static analysis. The effective reverse dependency it
// contributes lives on the target symbol.
type TargetEntry struct {
	Target *Symbol
	Cond   Expr
}

// RangeEntry is one (low, high, condition) triple from a range property.
// Low and high are symbols: numeric constants or references.
type RangeEntry struct {
	Low, High *Symbol
	Cond      Expr
}

// Symbol is a named configuration item. One Symbol exists per name in an
// engine, no matter how many menu nodes define it; every declaring node
// back-references it through Nodes.
type Symbol struct {
	eng  *Engine
	name string

	symType    SymbolType
	isConstant bool

	nodes []*MenuNode

	defaults []DefaultEntry
	selects  []TargetEntry
	implies  []TargetEntry
	ranges   []RangeEntry

	// revDep is the OR of every active select contributed from elsewhere;
	// weakRevDep collects implies the same way.
	revDep     Expr
	weakRevDep Expr

	// directDep is the OR over all defining nodes of their dependency
	// conditions.
	directDep Expr

	choice *Choice

	userValue *string

	cachedTri Tristate
	triValid  bool
	cachedStr string
	strValid  bool
	cachedVis Tristate
	visValid  bool

	dependents []invalidator

	// writeToConf is set as a side effect of value calculation and
	// decides whether the serializer emits the symbol at all.
	writeToConf bool
	written     bool

	envVar         string
	isAllnoconfigY bool
}

// invalidator is implemented by Symbol and Choice so that the dependency
// graph can hold both.
type invalidator interface {
	recInvalidate()
	cachesValid() bool
}

func (s *Symbol) exprNode() {}

// String returns the expression spelling of the symbol: its name, quoted
// when it is a non-tri-state constant.
func (s *Symbol) String() string {
	if s.isConstant && !s.isTriConst() {
		return `"` + escapeString(s.name) + `"`
	}
	return s.name
}

// Name returns the symbol name, without the configuration prefix.
func (s *Symbol) Name() string { return s.name }

// Type returns the declared type, after implicit-type inference.
func (s *Symbol) Type() SymbolType { return s.symType }

// IsConstant reports whether the symbol is a quoted or numeric constant.
func (s *Symbol) IsConstant() bool { return s.isConstant }

// IsDefined reports whether any menu node defines the symbol. Referenced
// but undefined symbols exist in the table with no nodes.
func (s *Symbol) IsDefined() bool { return len(s.nodes) > 0 }

// Nodes returns the menu nodes defining the symbol, in declaration order.
func (s *Symbol) Nodes() []*MenuNode { return s.nodes }

// Choice returns the choice the symbol is a member of, or nil.
func (s *Symbol) Choice() *Choice { return s.choice }

// Defaults returns the declared (value, condition) default pairs.
func (s *Symbol) Defaults() []DefaultEntry { return s.defaults }

// Selects returns the select properties declared on this symbol.
func (s *Symbol) Selects() []TargetEntry { return s.selects }

// Implies returns the imply properties declared on this symbol.
func (s *Symbol) Implies() []TargetEntry { return s.implies }

// Ranges returns the declared (low, high, condition) range triples.
func (s *Symbol) Ranges() []RangeEntry { return s.ranges }

// UserValue returns the value assigned by the user, if any.
func (s *Symbol) UserValue() (string, bool) {
	if s.userValue == nil {
		return "", false
	}
	return *s.userValue, true
}

// RevDep returns the reverse-dependency expression contributed by select
// statements elsewhere.
func (s *Symbol) RevDep() Expr { return s.revDep }

// WeakRevDep returns the reverse-dependency expression contributed by
// imply statements elsewhere.
func (s *Symbol) WeakRevDep() Expr { return s.weakRevDep }

// DirectDep returns the OR over all defining nodes of their dependency
// conditions.
func (s *Symbol) DirectDep() Expr { return s.directDep }

// EnvVar returns the environment variable named by option env, or "".
func (s *Symbol) EnvVar() string { return s.envVar }

// IsAllnoconfigY reports whether the symbol carries option allnoconfig_y
// and should stay enabled in all-no configurations.
func (s *Symbol) IsAllnoconfigY() bool { return s.isAllnoconfigY }

func (s *Symbol) isTriConst() bool {
	return s.isConstant && (s.name == "y" || s.name == "m" || s.name == "n")
}

func (s *Symbol) isYConst() bool { return s.isConstant && s.name == "y" }
func (s *Symbol) isNConst() bool { return s.isConstant && s.name == "n" }

// SetValue assigns a user value, subject to the same type, range, and
// visibility rules as applying a saved configuration. It returns false,
// reports a diagnostic, and leaves the prior state untouched when the value
// is rejected. The effective value seen afterwards is still clamped by
// visibility; an accepted assignment to an invisible symbol is recorded
// without changing the live configuration.
func (s *Symbol) SetValue(value string) bool {
	if !s.validateValue(value) {
		return false
	}

	if s.symType == BoolType && value == "m" {
		// Bool symbols have no module state.
		s.eng.reporter.Warnf(telemetry.CategoryGeneral,
			"assigning m to the bool symbol %s; using y instead", s.name)
		value = "y"
	}

	v := value
	s.userValue = &v

	// Selecting a choice member in y mode picks it as the selection.
	if s.choice != nil && s.symType != StringType {
		if tri, ok := TristateFromString(value); ok && tri == Y {
			s.choice.userSelection = s
			s.choice.recInvalidate()
		}
	}
	s.recInvalidate()
	return true
}

// Unset removes the user value, returning the symbol to its computed
// default.
func (s *Symbol) Unset() {
	if s.userValue == nil {
		return
	}
	s.userValue = nil
	if s.choice != nil && s.choice.userSelection == s {
		s.choice.userSelection = nil
		s.choice.recInvalidate()
	}
	s.recInvalidate()
}

// validateValue checks a candidate value against the symbol's type and, for
// int and hex symbols, against the active declared range. Range violations
// are rejected with a range diagnostic rather than clamped.
func (s *Symbol) validateValue(value string) bool {
	switch s.symType {
	case BoolType, TristateType:
		if _, ok := TristateFromString(value); ok {
			return true
		}
	case StringType:
		return true
	case IntType, HexType:
		n, err := parseNum(value, s.symType)
		if err != nil {
			break
		}
		low, high, ok := s.activeRange()
		if ok && (n < low || n > high) {
			s.eng.reporter.Report(telemetry.Warning{
				Severity: telemetry.SeverityError,
				Category: telemetry.CategoryRange,
				Message: "value " + value + " for " + s.name +
					" is outside the active range [" +
					formatNum(low, s.symType) + ", " + formatNum(high, s.symType) + "]; assignment rejected",
			})
			return false
		}
		return true
	default:
		// Assignments to typeless symbols are recorded as-is.
		return true
	}
	s.eng.reporter.Warnf(telemetry.CategoryGeneral,
		"the value %q is invalid for %s, which has type %s; assignment ignored",
		value, s.name, s.symType)
	return false
}

// activeRange returns the first range whose condition is satisfied.
func (s *Symbol) activeRange() (low, high int64, ok bool) {
	for _, r := range s.ranges {
		if ExprValue(r.Cond) != N {
			l, err1 := parseNum(r.Low.StrValue(), s.symType)
			h, err2 := parseNum(r.High.StrValue(), s.symType)
			if err1 != nil || err2 != nil {
				return 0, 0, false
			}
			return l, h, true
		}
	}
	return 0, 0, false
}

// parseNum parses a value in the base of the given type; hex accepts an
// optional 0x prefix.
func parseNum(s string, typ SymbolType) (int64, error) {
	if typ == HexType {
		return strconv.ParseInt(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

// formatNum renders a number the way values of the type are written.
func formatNum(n int64, typ SymbolType) string {
	if typ == HexType {
		return "0x" + strconv.FormatInt(n, 16)
	}
	return strconv.FormatInt(n, 10)
}

// escapeString escapes backslashes and double quotes for serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// unescapeString reverses escapeString.
func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
