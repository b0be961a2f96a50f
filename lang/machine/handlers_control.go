package machine

import "github.com/mna/pyvm/lang/values"

func opJumpForward(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.IP = instr.Next + instr.Arg
	return stepResult{jumped: true}, nil
}

func opJumpAbsolute(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.IP = instr.Arg
	return stepResult{jumped: true}, nil
}

// opJumpBackward implements ≥3.10 JUMP_BACKWARD: arg is a delta from the
// post-argument offset, not an absolute target (spec.md's "JUMP_BACKWARD
// with delta d sets ip to post-arg-offset − 2·d" boundary property; the
// ×2 doubling already happened in decode, so here it's a plain subtraction).
func opJumpBackward(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.IP = instr.Next - instr.Arg
	return stepResult{jumped: true}, nil
}

func opPopJumpIfTrue(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.pop()
	if values.Truth(v) {
		f.IP = instr.Arg
		return stepResult{jumped: true}, nil
	}
	return stepNormal()
}

func opPopJumpIfFalse(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.pop()
	if !values.Truth(v) {
		f.IP = instr.Arg
		return stepResult{jumped: true}, nil
	}
	return stepNormal()
}

func opPopJumpForwardIfTrue(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.pop()
	if values.Truth(v) {
		f.IP = instr.Next + instr.Arg
		return stepResult{jumped: true}, nil
	}
	return stepNormal()
}

func opPopJumpForwardIfFalse(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.pop()
	if !values.Truth(v) {
		f.IP = instr.Next + instr.Arg
		return stepResult{jumped: true}, nil
	}
	return stepNormal()
}

func opPopJumpBackwardIfTrue(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.pop()
	if values.Truth(v) {
		f.IP = instr.Next - instr.Arg
		return stepResult{jumped: true}, nil
	}
	return stepNormal()
}

func opPopJumpBackwardIfFalse(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.pop()
	if !values.Truth(v) {
		f.IP = instr.Next - instr.Arg
		return stepResult{jumped: true}, nil
	}
	return stepNormal()
}

func opJumpIfTrueOrPop(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	if values.Truth(f.top()) {
		f.IP = instr.Arg
		return stepResult{jumped: true}, nil
	}
	f.pop()
	return stepNormal()
}

func opJumpIfFalseOrPop(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	if !values.Truth(f.top()) {
		f.IP = instr.Arg
		return stepResult{jumped: true}, nil
	}
	f.pop()
	return stepNormal()
}

// opGetIter implements GET_ITER: replace TOS with an iterator over it.
func opGetIter(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.pop()
	it, ok := v.(values.Iterable)
	if !ok {
		return stepResult{}, typeErrorf("%q object is not iterable", v.Type())
	}
	f.push(iteratorValue{it.Iterate()})
	return stepNormal()
}

// iteratorValue adapts a values.Iterator to a pushable Value so it can
// live on the operand stack between GET_ITER and FOR_ITER.
type iteratorValue struct{ it values.Iterator }

func (iteratorValue) String() string { return "<iterator>" }
func (iteratorValue) Type() string   { return "iterator" }

// opForIter implements FOR_ITER: advance TOS's iterator, pushing the next
// value, or jump past the loop body (popping the iterator) at exhaustion.
func opForIter(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	iv, ok := f.top().(iteratorValue)
	if !ok {
		return stepResult{}, internalf("FOR_ITER", "top of stack is not an iterator (%T)", f.top())
	}
	v, more := iv.it.Next()
	if !more {
		f.pop()
		f.IP = instr.Next + instr.Arg
		return stepResult{jumped: true}, nil
	}
	f.push(v)
	return stepNormal()
}
