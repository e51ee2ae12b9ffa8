package engine

import (
	"strconv"
	"strings"
)

// Expr is one node of an immutable expression tree. Leaves are *Symbol and
// *Choice; interior nodes are NotExpr, AndExpr, OrExpr, and CompareExpr.
// Expressions are shared read-only across all dependents and never mutated
// after construction.
type Expr interface {
	// String returns the canonical textual form, reparseable as input.
	String() string

	exprNode()
}

// NotExpr is logical negation.
type NotExpr struct {
	Operand Expr
}

// AndExpr is logical conjunction.
type AndExpr struct {
	Left, Right Expr
}

// OrExpr is logical disjunction.
type OrExpr struct {
	Left, Right Expr
}

// CompareOp is the operator of a CompareExpr.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpUnequal
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

// String returns the source spelling of the operator.
func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpUnequal:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	default:
		return ">="
	}
}

// CompareExpr compares two leaves.
type CompareExpr struct {
	Op          CompareOp
	Left, Right Expr
}

func (*NotExpr) exprNode()     {}
func (*AndExpr) exprNode()     {}
func (*OrExpr) exprNode()      {}
func (*CompareExpr) exprNode() {}

// ExprValue evaluates an expression to a tri-state: AND is minimum, OR is
// maximum, and NOT yields y for an n operand and n otherwise.
func ExprValue(e Expr) Tristate {
	switch e := e.(type) {
	case *Symbol:
		return e.TriValue()
	case *Choice:
		return e.TriValue()
	case *NotExpr:
		if ExprValue(e.Operand) == N {
			return Y
		}
		return N
	case *AndExpr:
		return triMin(ExprValue(e.Left), ExprValue(e.Right))
	case *OrExpr:
		return triMax(ExprValue(e.Left), ExprValue(e.Right))
	case *CompareExpr:
		return compareValue(e)
	}
	return N
}

// compareValue evaluates a comparison. Operands compare as numbers when
// both convert (bool/tristate symbols count as 0/1/2, int/hex and numeric
// constants parse in their base); otherwise they compare as strings,
// lexicographically for the ordering operators.
func compareValue(e *CompareExpr) Tristate {
	var result int
	ln, lok := leafNum(e.Left)
	rn, rok := leafNum(e.Right)
	if lok && rok {
		switch {
		case ln < rn:
			result = -1
		case ln > rn:
			result = 1
		}
	} else {
		result = strings.Compare(leafStr(e.Left), leafStr(e.Right))
	}

	var ok bool
	switch e.Op {
	case OpEqual:
		ok = result == 0
	case OpUnequal:
		ok = result != 0
	case OpLess:
		ok = result < 0
	case OpLessEqual:
		ok = result <= 0
	case OpGreater:
		ok = result > 0
	case OpGreaterEqual:
		ok = result >= 0
	}
	if ok {
		return Y
	}
	return N
}

// leafStr returns the comparison string of a leaf.
func leafStr(e Expr) string {
	switch e := e.(type) {
	case *Symbol:
		return e.StrValue()
	case *Choice:
		return e.TriValue().String()
	}
	return ""
}

// leafNum converts a leaf for numeric comparison. String-typed symbols
// never convert, so comparisons involving them fall back to string order.
func leafNum(e Expr) (int64, bool) {
	sym, ok := e.(*Symbol)
	if !ok {
		return 0, false
	}
	switch sym.symType {
	case BoolType, TristateType:
		return int64(sym.TriValue()), true
	case IntType:
		n, err := strconv.ParseInt(sym.StrValue(), 10, 64)
		return n, err == nil
	case HexType:
		n, err := strconv.ParseInt(strings.TrimPrefix(sym.StrValue(), "0x"), 16, 64)
		return n, err == nil
	case UnknownType:
		// Constants detect their base from the spelling.
		n, err := strconv.ParseInt(sym.StrValue(), 0, 64)
		return n, err == nil
	}
	return 0, false
}

// String returns the canonical form: && and || print their operands with
// parentheses around the other operator, ! parenthesizes compound operands,
// constants are quoted, and symbols print bare. The output reparses to an
// equal tree.
func (e *AndExpr) String() string {
	return parenthesize(e.Left, opOr) + " && " + parenthesize(e.Right, opOr)
}

func (e *OrExpr) String() string {
	return parenthesize(e.Left, opAnd) + " || " + parenthesize(e.Right, opAnd)
}

func (e *NotExpr) String() string {
	switch e.Operand.(type) {
	case *Symbol, *Choice:
		return "!" + e.Operand.String()
	}
	return "!(" + e.Operand.String() + ")"
}

func (e *CompareExpr) String() string {
	return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
}

type exprOp int

const (
	opAnd exprOp = iota
	opOr
)

// parenthesize wraps the operand in parentheses when it is the given
// operator, keeping mixed && / || chains unambiguous in the printed form.
func parenthesize(e Expr, op exprOp) string {
	switch e.(type) {
	case *AndExpr:
		if op == opAnd {
			return "(" + e.String() + ")"
		}
	case *OrExpr:
		if op == opOr {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

// walkExprLeaves calls visit for every Symbol and Choice leaf of e.
func walkExprLeaves(e Expr, visit func(Expr)) {
	switch e := e.(type) {
	case *Symbol, *Choice:
		visit(e)
	case *NotExpr:
		walkExprLeaves(e.Operand, visit)
	case *AndExpr:
		walkExprLeaves(e.Left, visit)
		walkExprLeaves(e.Right, visit)
	case *OrExpr:
		walkExprLeaves(e.Left, visit)
		walkExprLeaves(e.Right, visit)
	case *CompareExpr:
		walkExprLeaves(e.Left, visit)
		walkExprLeaves(e.Right, visit)
	}
}

// exprDependsOn reports whether expr depends directly on sym: sym itself,
// sym = y, sym = m, sym != n, or a conjunction containing one of those.
// Used to derive implicit submenus from dependency chains.
func exprDependsOn(expr Expr, sym *Symbol) bool {
	switch e := expr.(type) {
	case *Symbol:
		return e == sym
	case *CompareExpr:
		left, right := e.Left, e.Right
		if right == Expr(sym) {
			left, right = right, left
		}
		if left != Expr(sym) {
			return false
		}
		other, ok := right.(*Symbol)
		if !ok {
			return false
		}
		switch e.Op {
		case OpEqual:
			return other == sym.eng.ySym || other == sym.eng.mSym
		case OpUnequal:
			return other == sym.eng.nSym
		}
		return false
	case *AndExpr:
		return exprDependsOn(e.Left, sym) || exprDependsOn(e.Right, sym)
	}
	return false
}

// makeAnd builds a conjunction, absorbing the constants y and n.
func makeAnd(e1, e2 Expr) Expr {
	if s, ok := e1.(*Symbol); ok {
		if s.isYConst() {
			return e2
		}
		if s.isNConst() {
			return s
		}
	}
	if s, ok := e2.(*Symbol); ok {
		if s.isYConst() {
			return e1
		}
		if s.isNConst() {
			return s
		}
	}
	return &AndExpr{Left: e1, Right: e2}
}

// makeOr builds a disjunction, absorbing the constants n and y.
func makeOr(e1, e2 Expr) Expr {
	if s, ok := e1.(*Symbol); ok {
		if s.isNConst() {
			return e2
		}
		if s.isYConst() {
			return s
		}
	}
	if s, ok := e2.(*Symbol); ok {
		if s.isNConst() {
			return e1
		}
		if s.isYConst() {
			return s
		}
	}
	return &OrExpr{Left: e1, Right: e2}
}
