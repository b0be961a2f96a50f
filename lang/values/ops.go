package values

import "fmt"

// BinOp is the operator-independent form of a binary operator, resolved
// from either a pre-3.11 dedicated BINARY_*/INPLACE_* opcode or a ≥3.11
// BINARY_OP sub-operation index (see lang/machine/handlers_arith.go).
type BinOp int

//nolint:revive
const (
	Add BinOp = iota
	Sub
	Mul
	TrueDiv
	FloorDiv
	Mod
	Pow
	LShift
	RShift
	And
	Or
	Xor
)

func (op BinOp) String() string {
	return [...]string{"+", "-", "*", "/", "//", "%", "**", "<<", ">>", "&", "|", "^"}[op]
}

// UnaryOp is the operator-independent form of a unary operator.
type UnaryOp int

//nolint:revive
const (
	Pos UnaryOp = iota
	Neg
	Not
	Invert
)

func (op UnaryOp) String() string {
	return [...]string{"+", "-", "not", "~"}[op]
}

// CompareOp mirrors opcode.CompareOp without importing lang/opcode, to
// keep this package below lang/machine in the dependency order.
type CompareOp int

//nolint:revive
const (
	CmpLT CompareOp = iota
	CmpLE
	CmpEQ
	CmpNE
	CmpGT
	CmpGE
)

// Binary evaluates x `op` y, trying x as the left operand and, on failure
// or absence of HasBinary, y as the right operand — the same left/right
// fallback CPython's binary_op1 performs.
func Binary(op BinOp, x, y Value) (Value, error) {
	if hb, ok := x.(HasBinary); ok {
		v, err := hb.Binary(op, y, SideLeft)
		if err == nil {
			return v, nil
		}
	}
	if hb, ok := y.(HasBinary); ok {
		return hb.Binary(op, x, SideRight)
	}
	return nil, fmt.Errorf("unsupported operand type(s) for %s: %q and %q", op, x.Type(), y.Type())
}

// Unary evaluates `op`x.
func Unary(op UnaryOp, x Value) (Value, error) {
	hu, ok := x.(HasUnary)
	if !ok {
		return nil, fmt.Errorf("bad operand type for unary %s: %q", op, x.Type())
	}
	return hu.Unary(op)
}

// Compare evaluates x `op` y for the six rich-comparison predicates.
// Equality/inequality fall back to HasEqual when available; the four
// ordering predicates require Ordered.
func Compare(op CompareOp, x, y Value) (Value, error) {
	switch op {
	case CmpEQ, CmpNE:
		eq, err := valuesEqual(x, y)
		if err != nil {
			return nil, err
		}
		if op == CmpNE {
			eq = !eq
		}
		return Bool(eq), nil
	default:
		ox, ok := x.(Ordered)
		if !ok {
			return nil, fmt.Errorf("'%s' not supported between instances of %q and %q", compareSymbol(op), x.Type(), y.Type())
		}
		c, err := ox.Cmp(y)
		if err == errUnordered {
			// NaN compares false against everything, it never errors.
			return Bool(false), nil
		}
		if err != nil {
			return nil, err
		}
		switch op {
		case CmpLT:
			return Bool(c < 0), nil
		case CmpLE:
			return Bool(c <= 0), nil
		case CmpGT:
			return Bool(c > 0), nil
		case CmpGE:
			return Bool(c >= 0), nil
		}
		return nil, fmt.Errorf("unknown compare op %d", op)
	}
}

func compareSymbol(op CompareOp) string {
	return [...]string{"<", "<=", "==", "!=", ">", ">="}[op]
}

func valuesEqual(x, y Value) (bool, error) {
	if he, ok := x.(HasEqual); ok {
		return he.Equal(y)
	}
	if he, ok := y.(HasEqual); ok {
		return he.Equal(x)
	}
	return x == y, nil
}

// Truth reports the boolean value of x for JUMP_IF_*/POP_JUMP_IF_* and
// UNARY_NOT, following the same "explicit Truth method, else non-zero
// length, else true" fallback CPython's object_truth uses.
func Truth(x Value) bool {
	type truther interface{ Truth() bool }
	if t, ok := x.(truther); ok {
		return t.Truth()
	}
	if s, ok := x.(Sequence); ok {
		return s.Len() != 0
	}
	if m, ok := x.(Mapping); ok {
		return len(m.Keys()) != 0
	}
	return true
}
