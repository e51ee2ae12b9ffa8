package engine

import (
	"github.com/menuconf/menuconf/pkg/telemetry"
)

// This file implements value and visibility resolution: the lazily
// recomputed, cache-invalidated core of the engine. Nothing here walks the
// whole tree eagerly; every accessor computes on demand and memoizes, and
// assignments invalidate exactly the symbols and choices reachable over the
// reverse-dependency edges built at finalization.

// TriValue returns the current value of a bool or tristate symbol. Symbols
// of other types, and undefined symbols, are n in boolean contexts.
func (s *Symbol) TriValue() Tristate {
	if !s.triValid {
		s.cachedTri = s.calcTri()
		s.triValid = true
	}
	return s.cachedTri
}

// StrValue returns the value as written to configuration files: n/m/y for
// bool and tristate symbols, the numeric text for int and hex, the raw text
// for strings.
func (s *Symbol) StrValue() string {
	if !s.strValid {
		s.cachedStr = s.calcStr()
		s.strValid = true
	}
	return s.cachedStr
}

// Visibility returns the maximum value the symbol's prompts currently
// permit.
func (s *Symbol) Visibility() Tristate {
	if !s.visValid {
		s.cachedVis = s.calcVis()
		s.visValid = true
	}
	return s.cachedVis
}

// effType is the effective type: tristate demotes to bool while the
// modules symbol is off, so m assignments and m visibility promote to y.
func (s *Symbol) effType() SymbolType {
	if s.symType == TristateType && s != s.eng.modulesSym && !s.eng.modulesEnabled() {
		return BoolType
	}
	return s.symType
}

func (e *Engine) modulesEnabled() bool {
	return e.modulesSym != nil && e.modulesSym.TriValue() != N
}

// promptVisibility is the shared prompt scan for symbols and choices: the
// maximum over all declaring nodes of the prompt condition's value, with m
// promoted to y for non-tristate items.
func promptVisibility(nodes []*MenuNode, typ SymbolType) Tristate {
	vis := N
	for _, node := range nodes {
		if node.hasPrompt {
			vis = triMax(vis, ExprValue(node.promptCond))
		}
	}
	if vis == M && typ != TristateType {
		vis = Y
	}
	return vis
}

func (s *Symbol) calcVis() Tristate {
	if s.isConstant {
		return N
	}
	vis := promptVisibility(s.nodes, s.effType())

	if s.choice != nil {
		// A non-tristate member of a tristate choice is only assignable
		// while the choice is in y mode.
		if s.choice.symType == TristateType && s.symType != TristateType && s.choice.TriValue() != Y {
			return N
		}
		vis = triMin(vis, s.choice.TriValue())
	}
	return vis
}

func (s *Symbol) calcTri() Tristate {
	if s.isConstant {
		if tri, ok := TristateFromString(s.name); ok {
			return tri
		}
		return N
	}
	if t := s.effType(); t != BoolType && t != TristateType {
		return N
	}

	vis := s.Visibility()
	s.writeToConf = vis != N

	if s.choice != nil {
		return s.calcChoiceMemberTri(vis)
	}

	val := N
	if vis != N && s.userValue != nil {
		// A permitted user value wins, clamped by visibility.
		if tri, ok := TristateFromString(*s.userValue); ok {
			val = triMin(tri, vis)
		}
	} else {
		// First default whose condition holds, weakened by the condition's
		// own value.
		for _, def := range s.defaults {
			condVal := ExprValue(def.Cond)
			if condVal == N {
				continue
			}
			val = triMin(ExprValue(def.Value), condVal)
			if val != N {
				s.writeToConf = true
			}
			break
		}

		// The imply floor applies only without an explicit user value and
		// only while the direct dependencies are met.
		if floor := ExprValue(s.weakRevDep); floor != N && ExprValue(s.directDep) != N {
			val = triMax(val, floor)
			s.writeToConf = true
		}
	}

	// The select floor applies last and unconditionally.
	if floor := ExprValue(s.revDep); floor != N {
		if ExprValue(s.directDep) < floor {
			s.eng.reporter.Warnf(telemetry.CategoryGeneral,
				"%s is selected to %s, but its direct dependencies evaluate to %s",
				s.name, floor, ExprValue(s.directDep))
		}
		val = triMax(val, floor)
		s.writeToConf = true
	}

	// Bool symbols have no m state.
	if val == M && s.effType() == BoolType {
		val = Y
	}
	return val
}

// calcChoiceMemberTri derives a member's value from its choice's mode.
func (s *Symbol) calcChoiceMemberTri(vis Tristate) Tristate {
	switch s.choice.TriValue() {
	case Y:
		if s.choice.Selection() == s {
			return Y
		}
	case M:
		// Members are individually selectable as modules.
		if vis != N && s.userValue != nil {
			if tri, ok := TristateFromString(*s.userValue); ok && tri != N {
				return M
			}
		}
	}
	return N
}

func (s *Symbol) calcStr() string {
	if s.isConstant {
		return s.name
	}

	switch s.effType() {
	case BoolType, TristateType:
		return s.TriValue().String()

	case IntType, HexType:
		return s.calcNumStr()

	case StringType:
		vis := s.Visibility()
		s.writeToConf = vis != N
		if vis != N && s.userValue != nil {
			return *s.userValue
		}
		for _, def := range s.defaults {
			if ExprValue(def.Cond) != N {
				s.writeToConf = true
				return leafStr(def.Value)
			}
		}
		return ""
	}
	// Undefined and typeless symbols have no value.
	s.writeToConf = false
	return ""
}

// calcNumStr resolves an int or hex symbol. User values were range-checked
// at assignment time; defaults clamp into the active range with a warning,
// and a symbol with a range but no default starts at the range's low bound.
func (s *Symbol) calcNumStr() string {
	vis := s.Visibility()
	s.writeToConf = vis != N

	if vis != N && s.userValue != nil {
		return *s.userValue
	}

	var val string
	for _, def := range s.defaults {
		if ExprValue(def.Cond) != N {
			val = leafStr(def.Value)
			s.writeToConf = true
			break
		}
	}

	low, high, hasRange := s.activeRange()
	if !hasRange {
		return val
	}
	if val == "" {
		return formatNum(low, s.symType)
	}
	n, err := parseNum(val, s.symType)
	if err != nil {
		s.eng.reporter.Warnf(telemetry.CategoryGeneral,
			"the default %q of %s is not a valid %s value", val, s.name, s.symType)
		return formatNum(low, s.symType)
	}
	if n < low || n > high {
		clamped := max64(min64(n, high), low)
		s.eng.reporter.Warnf(telemetry.CategoryRange,
			"default %s of %s is outside the active range [%s, %s]; clamped to %s",
			val, s.name, formatNum(low, s.symType), formatNum(high, s.symType),
			formatNum(clamped, s.symType))
		return formatNum(clamped, s.symType)
	}
	return val
}

// Assignable returns the tri-state values a user assignment can currently
// give the symbol, in increasing order. It is empty for invisible and
// non-bool symbols.
func (s *Symbol) Assignable() []Tristate {
	if t := s.effType(); t != BoolType && t != TristateType {
		return nil
	}
	vis := s.Visibility()
	if vis == N {
		return nil
	}
	floor := ExprValue(s.revDep)
	if s.choice != nil {
		floor = N
	}

	var out []Tristate
	for _, v := range []Tristate{N, M, Y} {
		if v > vis || v < floor {
			continue
		}
		if v == M && s.effType() == BoolType {
			continue
		}
		out = append(out, v)
	}
	// A floor of m on a bool symbol forces y.
	if len(out) == 0 && floor != N {
		out = []Tristate{vis}
	}
	return out
}

// cachesValid reports whether any cached state would need invalidation.
func (s *Symbol) cachesValid() bool {
	return s.triValid || s.strValid || s.visValid
}

// invalidate drops the cached value and visibility.
func (s *Symbol) invalidate() {
	s.triValid = false
	s.strValid = false
	s.visValid = false
}

// recInvalidate invalidates the symbol and, transitively, everything
// reachable over the reverse-dependency and menu-ancestor edges. Already
// invalid entries stop the walk, keeping it linear.
func (s *Symbol) recInvalidate() {
	s.invalidate()
	for _, dep := range s.dependents {
		if dep.cachesValid() {
			dep.recInvalidate()
		}
	}
}

// invalidateAll drops every cache; used when a whole saved configuration
// replaces the current user values.
func (e *Engine) invalidateAll() {
	for _, sym := range e.syms {
		sym.invalidate()
	}
	for _, c := range e.choices {
		c.invalidate()
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
