package machine

import (
	"fmt"

	"github.com/mna/pyvm/lang/values"
)

// handlerFunc implements one byte-operation: spec.md §4.3's "Handlers"
// component. It reads its operands off f's operand stack, performs its
// effect, and reports what should happen next via stepResult.
type handlerFunc func(t *Thread, f *Frame, instr Instruction) (stepResult, error)

// stepResult is a handler's report back to the dispatch loop.
type stepResult struct {
	why   Why
	value values.Value // meaningful for WhyReturn/WhyYield; for WhyContinue, the loop offset to jump to
	// jumped, when true, means the handler already set f.IP itself (a
	// taken jump, or FOR_ITER on exhaustion); otherwise the loop advances
	// IP to instr.Next.
	jumped bool
}

func stepNormal() (stepResult, error) { return stepResult{why: WhyNot}, nil }

// dispatch implements spec.md §4.4: the per-frame fetch/decode/execute
// loop, plus the block-stack-aware unwind machinery that handles
// break/continue/return/yield/exception signals. The returned Why tells
// the caller (runFrame) whether the frame ran to completion (WhyReturn)
// or parked itself at a YIELD_VALUE/YIELD_FROM (WhyYield), so it knows
// whether the frame is still resumable.
func (t *Thread) dispatch(f *Frame) (values.Value, Why, error) {
	for {
		if err := t.checkStep(); err != nil {
			return nil, WhyNot, err
		}

		instr, err := t.decode(f, f.IP)
		if err != nil {
			return nil, WhyNot, err
		}

		h := t.handlers[instr.Op]
		if h == nil {
			return nil, WhyNot, internalf("dispatch", "no handler registered for opcode %s", instr.Op)
		}

		res, err := h(t, f, instr)
		if err != nil {
			exc, ok := err.(*values.Exception)
			if !ok {
				// VM-internal/runtime errors are never catchable by program
				// except clauses; they abort the frame outright.
				return nil, WhyNot, err
			}
			exc = exc.WithTraceback(f.Code.Name, f.Code.Filename, f.currentLine())
			if w := t.unwindBlockStack(f, WhyException, nil, exc); w == WhyNot {
				continue
			}
			return nil, WhyException, exc
		}

		if !res.jumped {
			f.IP = instr.Next
		}

		switch res.why {
		case WhyNot:
			continue

		case WhyReturn, WhyYield:
			if w := t.unwindBlockStack(f, res.why, res.value, nil); w == WhyNot {
				continue
			}
			return res.value, res.why, nil

		case WhyBreak, WhyContinue:
			if w := t.unwindBlockStack(f, res.why, res.value, nil); w != WhyNot {
				return nil, WhyNot, internalf("dispatch", "%s used outside a loop", res.why)
			}

		default:
			return nil, WhyNot, internalf("dispatch", "unhandled control signal %s", res.why)
		}
	}
}

// raise constructs a *values.Exception suitable for returning as a
// handler's error, the common path RAISE_VARARGS and argument-binding
// failures both use.
func raise(kind string, args ...values.Value) error {
	return values.NewException(kind, args...)
}

func typeErrorf(format string, args ...interface{}) error {
	return raise("TypeError", values.Str(fmt.Sprintf(format, args...)))
}
