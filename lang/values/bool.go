package values

// Bool is the VM's boolean value. It is a distinct type from Int (unlike
// CPython, where bool is an Int subclass) since this module does not model
// a class hierarchy; Truth and Compare treat it as a 0/1 Int for arithmetic
// contexts via Binary's numeric tower in int.go.
type Bool bool

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (b Bool) Type() string { return "bool" }

func (b Bool) Truth() bool { return bool(b) }

func (b Bool) Equal(y Value) (bool, error) {
	switch y := y.(type) {
	case Bool:
		return b == y, nil
	case Int:
		return Int(boolToInt(b)) == y, nil
	default:
		return false, nil
	}
}

func (b Bool) Cmp(y Value) (int, error) {
	return Int(boolToInt(b)).Cmp(y)
}

func (b Bool) Unary(op UnaryOp) (Value, error) {
	return Int(boolToInt(b)).Unary(op)
}

func (b Bool) Binary(op BinOp, y Value, side Side) (Value, error) {
	return Int(boolToInt(b)).Binary(op, y, side)
}

func boolToInt(b Bool) int64 {
	if b {
		return 1
	}
	return 0
}
