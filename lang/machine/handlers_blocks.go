package machine

import "github.com/mna/pyvm/lang/values"

func setupBlock(kind BlockKind) handlerFunc {
	return func(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
		f.pushBlock(Block{
			Kind:          kind,
			HandlerOffset: instr.Next + instr.Arg,
			StackDepth:    len(f.Stack),
		})
		return stepNormal()
	}
}

func opPopBlock(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.popBlock()
	return stepNormal()
}

// opPopExcept discards the except-handler marker block pushed by the
// unwind engine on entry to an except/finally handler, along with the
// exception value it carried, and restores the thread's previous "current
// exception" — here simplified to simply clearing it, since nested
// exception handlers are not chained through Thread.lastException in this
// module.
func opPopExcept(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	if f.hasBlock() && f.topBlock().Kind == BlockExceptHandler {
		f.popBlock()
	}
	if len(f.Stack) > 0 {
		if _, ok := f.top().(*values.Exception); ok {
			f.pop()
		}
	}
	t.lastException = nil
	return stepNormal()
}

// opEndFinally implements the end of a finally block: if a return/yield
// was parked by the unwind engine (the block was entered to let cleanup
// code run before actually returning/yielding), resume it; otherwise, if
// an exception is sitting on the stack (the block was entered by
// exception unwinding), re-raise it; otherwise this was reached by normal
// fallthrough and there is nothing to do.
func opEndFinally(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	if f.pending != nil {
		p := f.pending
		f.pending = nil
		if f.hasBlock() && f.topBlock().Kind == BlockExceptHandler {
			f.popBlock()
		}
		return stepResult{why: p.why, value: p.value}, nil
	}
	if f.hasBlock() && f.topBlock().Kind == BlockExceptHandler {
		f.popBlock()
		if len(f.Stack) > 0 {
			if exc, ok := f.top().(*values.Exception); ok {
				f.pop()
				return stepResult{}, exc
			}
		}
	}
	return stepNormal()
}

// opRaiseVarargs implements RAISE_VARARGS: arg is 0 (bare `raise`, 1
// (`raise exc`) or 2 (`raise exc from cause`).
func opRaiseVarargs(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	switch instr.Arg {
	case 0:
		if t.lastException == nil {
			return stepResult{}, raise("RuntimeError", values.Str("No active exception to re-raise"))
		}
		return stepResult{}, t.lastException
	case 1:
		v := f.pop()
		return stepResult{}, toException(v)
	case 2:
		cause := f.pop()
		v := f.pop()
		exc := toException(v)
		if ce, ok := cause.(*values.Exception); ok {
			exc.Cause = ce
		}
		return stepResult{}, exc
	default:
		return stepResult{}, internalf("RAISE_VARARGS", "bad argument count %d", instr.Arg)
	}
}

func toException(v values.Value) *values.Exception {
	if exc, ok := v.(*values.Exception); ok {
		return exc
	}
	return values.NewException(v.Type(), v)
}

// opReraise implements ≥3.8 RERAISE: re-raise the current exception
// without going through RAISE_VARARGS's argument conventions.
func opReraise(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	if t.lastException == nil {
		return stepResult{}, internalf("RERAISE", "no exception being handled")
	}
	return stepResult{}, t.lastException
}

// opCheckExcMatch implements ≥3.11 CHECK_EXC_MATCH: TOS is the exception
// type name to test against, TOS1 is the exception instance; pushes a
// bool without popping the exception (so a non-matching clause can try
// the next one).
func opCheckExcMatch(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	kind := f.pop()
	excVal := f.top()
	exc, ok := excVal.(*values.Exception)
	if !ok {
		return stepResult{}, &RuntimeError{Msg: "CHECK_EXC_MATCH applied to a non-exception value"}
	}
	name, ok := kind.(values.Str)
	if !ok {
		return stepResult{}, &RuntimeError{Msg: "CHECK_EXC_MATCH argument must be a type name"}
	}
	f.push(values.Bool(exc.Matches(string(name))))
	return stepNormal()
}

// opBeforeAsyncWith/opSetupWith/opWithCleanupStart/opWithCleanupFinish
// implement a minimal context-manager protocol: __enter__/__exit__ are
// looked up via HasAttrs and invoked via Thread.CallValue. Suppression of
// an in-flight exception by __exit__ returning a truthy value is
// supported; async context managers are treated identically to sync ones
// (no actual awaiting, since this module models no coroutine scheduler).

func opSetupWith(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	mgr, ok := f.top().(values.HasAttrs)
	if !ok {
		return stepResult{}, typeErrorf("%q object does not support the context manager protocol", f.top().Type())
	}
	exit, err := mgr.Attr("__exit__")
	if err != nil {
		return stepResult{}, raise("AttributeError", values.Str(err.Error()))
	}
	enter, err := mgr.Attr("__enter__")
	if err != nil {
		return stepResult{}, raise("AttributeError", values.Str(err.Error()))
	}
	f.pop()
	result, err := t.CallValue(enter, nil, nil)
	if err != nil {
		return stepResult{}, err
	}
	f.push(exit)
	f.pushBlock(Block{Kind: BlockWith, HandlerOffset: instr.Next + instr.Arg, StackDepth: len(f.Stack)})
	f.push(result)
	return stepNormal()
}

func opBeforeAsyncWith(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	return opSetupWith(t, f, instr)
}

func opWithCleanupStart(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	var excArgs []values.Value
	if len(f.Stack) > 0 {
		if exc, ok := f.top().(*values.Exception); ok {
			f.pop()
			excArgs = []values.Value{values.Str(exc.Kind)}
			f.push(exc)
		}
	}
	exit := f.peek(2)
	result, err := t.CallValue(exit, excArgs, nil)
	if err != nil {
		return stepResult{}, err
	}
	f.push(result)
	return stepNormal()
}

func opWithCleanupFinish(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	result := f.pop()
	if exc, ok := f.top().(*values.Exception); ok && values.Truth(result) {
		f.pop()
		_ = exc
	}
	return stepNormal()
}
