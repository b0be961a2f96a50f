// Package values implements the host-independent part of the value/object
// model: the Value interface and its capability interfaces, the small set
// of VM-internal types (Cell, Function, Traceback, Null) spec.md §3 names,
// and the dispatch helpers (Binary, Unary, Compare, Truth) the dispatch
// loop calls instead of switching on concrete types.
//
// A real built-in object library — real numeric towers, real strings,
// user-defined classes — is an external collaborator (spec.md §1). The
// concrete types in this package (Bool, Int, Float, Str, List, Tuple,
// Dict, Set, NoneType) are a minimal standard library sufficient to run
// and test the VM, not a claim to completeness.
package values

import "fmt"

// Value is anything the VM can push onto an operand stack, store in a
// local, or pass as an argument. Most behavior is reached through the
// narrower capability interfaces below, following the teacher's
// lang/machine/value.go pattern instead of a closed sum type.
type Value interface {
	String() string
	Type() string
}

// Ordered is implemented by values that support a 3-way comparison.
type Ordered interface {
	Value
	Cmp(y Value) (int, error)
}

// HasEqual is implemented by values whose equality is not simply Go's `==`
// on the concrete type (e.g. numeric cross-type equality, container
// equality).
type HasEqual interface {
	Value
	Equal(y Value) (bool, error)
}

// Iterable is implemented by values that can produce an Iterator, the
// target of GET_ITER.
type Iterable interface {
	Value
	Iterate() Iterator
}

// Iterator is the state object FOR_ITER steps.
type Iterator interface {
	// Next reports the next value, or ok=false at exhaustion.
	Next() (v Value, ok bool)
}

// Sequence is implemented by ordered, indexable, length-known containers.
type Sequence interface {
	Value
	Len() int
	Index(i int) (Value, error)
}

// Indexable is implemented by anything BINARY_SUBSCR can read from
// (sequences by integer, mappings by arbitrary key).
type Indexable interface {
	Value
	GetIndex(key Value) (Value, error)
}

// HasSetIndex is implemented by anything STORE_SUBSCR/DELETE_SUBSCR can
// write to.
type HasSetIndex interface {
	Value
	SetIndex(key Value, v Value) error
	DelIndex(key Value) error
}

// Mapping is implemented by dict-like values; MATCH_MAPPING and the
// mapping-unpacking call forms use it.
type Mapping interface {
	Value
	Get(key Value) (Value, bool, error)
	Keys() []Value
}

// HasSetKey is the Mapping analogue of HasSetIndex, kept distinct because
// not every Indexable is a Mapping (lists are indexable but not mappings).
type HasSetKey interface {
	Value
	SetKey(key, v Value) error
}

// Side identifies which operand of a binary operator a HasBinary
// implementation is being asked to act as, mirroring Python's left/right
// dunder-method fallback protocol.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// HasBinary is implemented by values that define binary arithmetic/bitwise
// operators, dispatched by BINARY_OP (≥3.11) or the per-operator BINARY_*
// opcodes (<3.11).
type HasBinary interface {
	Value
	Binary(op BinOp, y Value, side Side) (Value, error)
}

// HasUnary is implemented by values that define unary operators.
type HasUnary interface {
	Value
	Unary(op UnaryOp) (Value, error)
}

// HasAttrs is implemented by values with named attributes, the target of
// LOAD_ATTR/LOAD_METHOD.
type HasAttrs interface {
	Value
	Attr(name string) (Value, error)
}

// HasSetField is the HasAttrs analogue for STORE_ATTR/DELETE_ATTR.
type HasSetField interface {
	Value
	SetField(name string, v Value) error
	DelField(name string) error
}

// Callable is implemented by the non-bytecode values CALL*/PRECALL+CALL
// can invoke: a NativeFunc, or a host callable reached through this
// interface. Function does not implement it; lang/machine calls it
// directly.
type Callable interface {
	Value
	Call(args []Value, kwargs map[string]Value) (Value, error)
}

// NoSuchAttrError is returned by Attr/SetField/DelField implementations
// for an unknown name, letting callers distinguish "no such attribute"
// from an evaluation error raised while resolving it.
type NoSuchAttrError struct {
	Type, Name string
}

func (e *NoSuchAttrError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", e.Type, e.Name)
}
