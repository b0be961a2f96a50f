package values

import (
	"fmt"

	"github.com/mna/pyvm/lang/code"
)

// Function is a bytecode function value: a Code object closed over its
// defining module's globals and, for a nested function, its enclosing
// frame's cells. It does not implement Callable itself — invoking it
// means building a new Frame, which is lang/machine's job (see
// lang/machine/call.go) — but it is the value LOAD_CONST/MAKE_FUNCTION
// produce and CALL*/PRECALL+CALL look up.
type Function struct {
	Code    *code.Code
	Name    string
	Qualname string

	Defaults   []Value
	KwDefaults map[string]Value
	Annotations map[string]Value

	Closure []*Cell
	Globals *Dict
}

func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Qualname) }
func (f *Function) Type() string   { return "function" }

// NativeFunc wraps a Go function as a callable value, the escape hatch for
// host-provided built-ins (print, len, and the like) that spec.md's
// external "host built-in object library" would otherwise supply.
type NativeFunc struct {
	Name string
	Fn   func(args []Value, kwargs map[string]Value) (Value, error)
}

func (n *NativeFunc) String() string { return fmt.Sprintf("<built-in function %s>", n.Name) }
func (n *NativeFunc) Type() string   { return "builtin_function_or_method" }

func (n *NativeFunc) Call(args []Value, kwargs map[string]Value) (Value, error) {
	return n.Fn(args, kwargs)
}

var _ Callable = (*NativeFunc)(nil)
