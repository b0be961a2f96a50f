package machine

import "github.com/mna/pyvm/lang/values"

func opNop(t *Thread, f *Frame, instr Instruction) (stepResult, error) { return stepNormal() }

func opPopTop(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.pop()
	return stepNormal()
}

func opDupTop(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.push(f.top())
	return stepNormal()
}

func opDupTopTwo(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	a, b := f.peek(2), f.peek(1)
	f.push(a)
	f.push(b)
	return stepNormal()
}

func opRotTwo(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	a, b := f.peek(2), f.peek(1)
	f.setPeek(2, b)
	f.setPeek(1, a)
	return stepNormal()
}

func opRotThree(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	a, b, c := f.peek(3), f.peek(2), f.peek(1)
	f.setPeek(3, b)
	f.setPeek(2, c)
	f.setPeek(1, a)
	return stepNormal()
}

func opRotFour(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	a, b, c, d := f.peek(4), f.peek(3), f.peek(2), f.peek(1)
	f.setPeek(4, b)
	f.setPeek(3, c)
	f.setPeek(2, d)
	f.setPeek(1, a)
	return stepNormal()
}

// opCopy implements ≥3.11 COPY: push a copy of the item `arg` deep (1 =
// top) without disturbing anything below it.
func opCopy(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.push(f.peek(instr.Arg))
	return stepNormal()
}

// opSwap implements ≥3.11 SWAP: exchange the top item with the one `arg`
// deep.
func opSwap(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	top := f.peek(1)
	other := f.peek(instr.Arg)
	f.setPeek(1, other)
	f.setPeek(instr.Arg, top)
	return stepNormal()
}

// opPushNull implements ≥3.11 PUSH_NULL: push the calling-convention
// marker slot a CALL sequence expects beneath a bound callable.
func opPushNull(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.push(values.Null)
	return stepNormal()
}

// opResume implements ≥3.11 RESUME: a no-op marker instruction CPython
// uses for instrumentation hooks this module does not implement.
func opResume(t *Thread, f *Frame, instr Instruction) (stepResult, error) { return stepNormal() }

// opCache implements ≥3.11 CACHE: hidden inline-cache padding, always a
// no-op (spec.md's stated non-goal: no inline-cache specialization).
func opCache(t *Thread, f *Frame, instr Instruction) (stepResult, error) { return stepNormal() }

func opExtendedArg(t *Thread, f *Frame, instr Instruction) (stepResult, error) { return stepNormal() }
