package values

import (
	"fmt"
	"math"
)

// Float is the VM's floating-point value.
type Float float64

func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }
func (f Float) Type() string   { return "float" }
func (f Float) Truth() bool    { return f != 0 }

func (f Float) Equal(y Value) (bool, error) {
	switch y := y.(type) {
	case Float:
		return f == y, nil
	case Int:
		return float64(f) == float64(y), nil
	case Bool:
		return float64(f) == float64(boolToInt(y)), nil
	default:
		return false, nil
	}
}

// Cmp follows CPython's float comparison: NaN compares unordered with
// everything, including itself, so neither < nor == nor > holds. Callers
// needing a total order must check math.IsNaN before relying on Cmp's
// result.
func (f Float) Cmp(y Value) (int, error) {
	var yf float64
	switch y := y.(type) {
	case Float:
		yf = float64(y)
	case Int:
		yf = float64(y)
	case Bool:
		yf = float64(boolToInt(y))
	default:
		return 0, fmt.Errorf("cannot compare float and %s", y.Type())
	}
	xf := float64(f)
	if math.IsNaN(xf) || math.IsNaN(yf) {
		return 0, errUnordered
	}
	switch {
	case xf < yf:
		return -1, nil
	case xf > yf:
		return 1, nil
	default:
		return 0, nil
	}
}

var errUnordered = fmt.Errorf("unordered comparison (NaN)")

func (f Float) Unary(op UnaryOp) (Value, error) {
	switch op {
	case Pos:
		return f, nil
	case Neg:
		return -f, nil
	case Not:
		return Bool(!f.Truth()), nil
	}
	return nil, fmt.Errorf("bad unary op %s on float", op)
}

func (f Float) Binary(op BinOp, y Value, side Side) (Value, error) {
	var yf Float
	switch y := y.(type) {
	case Float:
		yf = y
	case Int:
		yf = Float(y)
	case Bool:
		yf = Float(boolToInt(y))
	default:
		return nil, fmt.Errorf("unsupported operand type for %s: float and %s", op, y.Type())
	}
	a, b := f, yf
	if side == SideRight {
		a, b = yf, f
	}
	switch op {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case TrueDiv:
		if b == 0 {
			return nil, fmt.Errorf("float division by zero")
		}
		return a / b, nil
	case FloorDiv:
		if b == 0 {
			return nil, fmt.Errorf("float floor division by zero")
		}
		return Float(math.Floor(float64(a / b))), nil
	case Mod:
		if b == 0 {
			return nil, fmt.Errorf("float modulo by zero")
		}
		return Float(math.Mod(float64(a), float64(b))), nil
	case Pow:
		return Float(math.Pow(float64(a), float64(b))), nil
	}
	return nil, fmt.Errorf("unsupported operand type for %s: float and float", op)
}
