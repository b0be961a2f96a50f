package machine

import (
	"github.com/mna/pyvm/lang/code"
	"github.com/mna/pyvm/lang/values"
)

// Status is a Frame's lifecycle state.
type Status int

//nolint:revive
const (
	StatusCreated Status = iota
	StatusExecuting
	StatusSuspended // a generator frame parked at a YIELD_VALUE/YIELD_FROM
	StatusReturned
	StatusRaised
)

// Frame is one activation record, spec.md §3's Frame entity. A frame owns
// its own operand stack and block stack; locals and cells are allocated
// once at frame construction (see call.go) and never resized.
type Frame struct {
	Code *code.Code

	// IP is the offset, in Code.Instructions, of the next instruction to
	// decode — spec.md's f_lasti, named IP here since it always points at
	// the *next* instruction rather than the last one executed.
	IP int

	Stack  []values.Value // operand stack, bottom at index 0
	Blocks []Block        // block stack, bottom at index 0

	Globals *values.Dict
	Locals  map[string]values.Value // only used when Code.Flags has FlagNewLocals and the frame is not fast-local (module/class level)

	// Fast is the LOAD_FAST/STORE_FAST slot array, indexed by
	// Code.Varnames position. Cells captured by a nested closure are
	// boxed separately in CellVars/FreeVars, never stored in Fast.
	Fast []values.Value

	CellVars []*values.Cell // one per Code.Cellvars entry
	FreeVars []*values.Cell // one per Code.Freevars entry, supplied by Function.Closure

	// Fallthrough is set before resuming a suspended generator frame
	// (spec.md §9's generator-resumption note). The dispatch loop does not
	// read it: a parked frame's IP already points past its yield.
	Fallthrough bool

	Caller *Frame
	Status Status

	// pendingExc is cleared by the unwind engine when a return/yield enters
	// a finally/with handler; nothing in this module sets it to a non-nil
	// exception.
	pendingExc *values.Exception

	// pending holds a return/yield value parked while a finally/with
	// block runs to completion; END_FINALLY consumes it.
	pending *pendingFinally

	// pendingKwNames holds the keyword-argument names a ≥3.11 KW_NAMES
	// instruction recorded for the CALL that immediately follows it.
	pendingKwNames []string
}

// NewFrame allocates a frame for c with one fast-local slot per
// c.Varnames entry and the given globals; cells are filled in by call.go once argument binding and
// closure capture are known.
func NewFrame(c *code.Code, globals *values.Dict, caller *Frame) *Frame {
	f := &Frame{
		Code:    c,
		Globals: globals,
		Caller:  caller,
		Fast:    make([]values.Value, len(c.Varnames)),
		Status:  StatusCreated,
	}
	if c.Flags&code.FlagNewLocals != 0 {
		f.Locals = make(map[string]values.Value)
	}
	return f
}

func (f *Frame) push(v values.Value) { f.Stack = append(f.Stack, v) }

func (f *Frame) pop() values.Value {
	n := len(f.Stack) - 1
	v := f.Stack[n]
	f.Stack[n] = nil
	f.Stack = f.Stack[:n]
	return v
}

func (f *Frame) popn(n int) []values.Value {
	if n == 0 {
		return nil
	}
	start := len(f.Stack) - n
	out := make([]values.Value, n)
	copy(out, f.Stack[start:])
	f.Stack = f.Stack[:start]
	return out
}

func (f *Frame) top() values.Value { return f.Stack[len(f.Stack)-1] }

func (f *Frame) peek(depth int) values.Value { return f.Stack[len(f.Stack)-depth] }

func (f *Frame) setTop(v values.Value) { f.Stack[len(f.Stack)-1] = v }

func (f *Frame) setPeek(depth int, v values.Value) { f.Stack[len(f.Stack)-depth] = v }

func (f *Frame) pushBlock(b Block) { f.Blocks = append(f.Blocks, b) }

func (f *Frame) popBlock() Block {
	n := len(f.Blocks) - 1
	b := f.Blocks[n]
	f.Blocks = f.Blocks[:n]
	return b
}

func (f *Frame) topBlock() Block { return f.Blocks[len(f.Blocks)-1] }

func (f *Frame) hasBlock() bool { return len(f.Blocks) > 0 }

// unwindStackTo truncates the operand stack to depth, dropping whatever a
// partially-evaluated expression left above the block's recorded depth.
func (f *Frame) unwindStackTo(depth int) {
	for len(f.Stack) > depth {
		f.pop()
	}
}

// currentLine reports the source line IP currently maps to, for
// diagnostics and traceback construction.
func (f *Frame) currentLine() int { return int(f.Code.LineForOffset(f.IP)) }
