package machine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/pyvm/lang/code"
	"github.com/mna/pyvm/lang/opcode"
	"github.com/mna/pyvm/lang/values"
)

// Thread is the VM entity of spec.md §3: one frame call stack, the
// current exception being propagated, and the opcode table/handler set
// selected for this thread's configured version. A Thread is not safe for
// concurrent use (spec.md §5 — no thread safety is a stated non-goal).
type Thread struct {
	Name string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Version opcode.Version
	Variant opcode.Variant

	table    *opcode.Table
	handlers map[opcode.Op]handlerFunc
	formats  map[opcode.Op]StackFormatter

	// MaxSteps bounds the number of instructions a single run_code call
	// will execute before it gives up with an InternalError, guarding
	// against runaway fixtures; zero means unbounded.
	MaxSteps uint64
	steps    uint64

	// MaxCallDepth bounds frame nesting the same way; zero means unbounded.
	MaxCallDepth int

	top *Frame // innermost frame currently executing, nil when idle

	// lastException is the VM's "current exception" register: the
	// exception an except clause's bare `raise`/RERAISE reinstates. The
	// unwind engine sets it on entry to a handler; POP_EXCEPT clears it.
	lastException *values.Exception

	ctx context.Context
}

// Option configures a new Thread.
type Option func(*Thread)

func WithVersion(v opcode.Version) Option { return func(t *Thread) { t.Version = v } }
func WithVariant(v opcode.Variant) Option { return func(t *Thread) { t.Variant = v } }
func WithMaxSteps(n uint64) Option        { return func(t *Thread) { t.MaxSteps = n } }
func WithMaxCallDepth(n int) Option       { return func(t *Thread) { t.MaxCallDepth = n } }
func WithStdio(out, errw io.Writer, in io.Reader) Option {
	return func(t *Thread) { t.Stdout, t.Stderr, t.Stdin = out, errw, in }
}

// NewThread builds a Thread, resolving its opcode table once from the
// configured (or defaulted) version/variant — the "per-version handler
// table built from a base table with version specific overrides" spec.md
// §9 calls for, composed at construction time rather than re-derived on
// every dispatch.
func NewThread(ctx context.Context, opts ...Option) *Thread {
	t := &Thread{
		Name:    "main",
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
		Version: opcode.V311,
		Variant: opcode.CPython,
		ctx:     ctx,
	}
	for _, o := range opts {
		o(t)
	}
	t.table = opcode.Get(t.Version, t.Variant)
	t.handlers = buildHandlers(t.table.Era)
	t.formats = buildStackFormatters(t.table.Era)
	return t
}

// RunCode is the module's sole entry point (spec.md §6): it builds a
// top-level frame for c, runs it to completion, and returns its result or
// the user exception it raised (as an error).
func (t *Thread) RunCode(c *code.Code, globals *values.Dict) (values.Value, error) {
	t.steps = 0
	if globals == nil {
		globals = values.NewDict(len(c.Names))
	}
	fn := &values.Function{
		Code:     c,
		Name:     c.Name,
		Qualname: c.Name,
		Globals:  globals,
	}
	return t.CallFunction(fn, nil, nil)
}

func (t *Thread) checkStep() error {
	t.steps++
	if t.MaxSteps != 0 && t.steps > t.MaxSteps {
		return internalf("dispatch", "exceeded max step count (%d)", t.MaxSteps)
	}
	if t.ctx != nil {
		select {
		case <-t.ctx.Done():
			return fmt.Errorf("%w", t.ctx.Err())
		default:
		}
	}
	return nil
}

// depth reports the current frame-call-stack depth, walking the Caller
// chain from the innermost frame.
func (t *Thread) depth() int {
	n := 0
	for f := t.top; f != nil; f = f.Caller {
		n++
	}
	return n
}
