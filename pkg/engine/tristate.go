package engine

// Tristate is the value domain of bool and tristate symbols: off, module,
// on, with N < M < Y.
type Tristate int

const (
	// N is off.
	N Tristate = 0

	// M is module: enabled, but built separately.
	M Tristate = 1

	// Y is on.
	Y Tristate = 2
)

// String returns the configuration-file spelling: "n", "m", or "y".
func (t Tristate) String() string {
	switch t {
	case M:
		return "m"
	case Y:
		return "y"
	default:
		return "n"
	}
}

// TristateFromString parses "n", "m", or "y".
func TristateFromString(s string) (Tristate, bool) {
	switch s {
	case "n":
		return N, true
	case "m":
		return M, true
	case "y":
		return Y, true
	}
	return N, false
}

func triMin(a, b Tristate) Tristate {
	if a < b {
		return a
	}
	return b
}

func triMax(a, b Tristate) Tristate {
	if a > b {
		return a
	}
	return b
}

// SymbolType is a symbol's declared type. Symbols without an explicit type
// keep UnknownType until finalization infers one from usage.
type SymbolType int

const (
	// UnknownType marks symbols whose type was never declared.
	UnknownType SymbolType = iota

	// BoolType symbols take the values n and y.
	BoolType

	// TristateType symbols take the values n, m, and y.
	TristateType

	// StringType symbols hold free-form text.
	StringType

	// IntType symbols hold decimal integers.
	IntType

	// HexType symbols hold hexadecimal integers.
	HexType
)

// String returns the keyword spelling of the type.
func (t SymbolType) String() string {
	switch t {
	case BoolType:
		return "bool"
	case TristateType:
		return "tristate"
	case StringType:
		return "string"
	case IntType:
		return "int"
	case HexType:
		return "hex"
	default:
		return "unknown"
	}
}
