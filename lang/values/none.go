package values

// NoneType is the singleton absent-value type, the result of a function
// with no explicit return and the target of the RESUME/RETURN_VALUE
// handling for such functions.
type NoneType struct{}

// None is the sole NoneType value.
var None = NoneType{}

func (NoneType) String() string { return "None" }
func (NoneType) Type() string   { return "NoneType" }
func (NoneType) Truth() bool    { return false }

func (NoneType) Equal(y Value) (bool, error) {
	_, ok := y.(NoneType)
	return ok, nil
}

// Null is the ≥3.11 PUSH_NULL calling-convention marker: a value that may
// occupy the operand stack slot beneath a callable but must never be
// visible to, or produced by, evaluated code. It is distinct from None.
type nullType struct{}

// Null is the sole nullType value.
var Null = nullType{}

func (nullType) String() string { return "<null>" }
func (nullType) Type() string   { return "<null>" }
