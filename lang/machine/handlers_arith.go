package machine

import "github.com/mna/pyvm/lang/values"

func unaryHandler(op values.UnaryOp) handlerFunc {
	return func(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
		v := f.pop()
		r, err := values.Unary(op, v)
		if err != nil {
			return stepResult{}, typeErrorf("%s", err)
		}
		f.push(r)
		return stepNormal()
	}
}

// binaryHandler implements every pre-3.11 dedicated BINARY_*/INPLACE_*
// opcode: pop two operands, apply op, push the result. This module does
// not distinguish in-place from copying arithmetic (no mutable numeric
// types), so INPLACE_* opcodes share this same handler as BINARY_*.
func binaryHandler(op values.BinOp) handlerFunc {
	return func(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
		y := f.pop()
		x := f.pop()
		r, err := values.Binary(op, x, y)
		if err != nil {
			return stepResult{}, typeErrorf("%s", err)
		}
		f.push(r)
		return stepNormal()
	}
}

func opBinarySubscr(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	key := f.pop()
	obj := f.pop()
	idx, ok := obj.(values.Indexable)
	if !ok {
		return stepResult{}, typeErrorf("%q object is not subscriptable", obj.Type())
	}
	v, err := idx.GetIndex(key)
	if err != nil {
		return stepResult{}, raise("TypeError", values.Str(err.Error()))
	}
	f.push(v)
	return stepNormal()
}

func opStoreSubscr(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	key := f.pop()
	obj := f.pop()
	val := f.pop()
	si, ok := obj.(values.HasSetIndex)
	if !ok {
		return stepResult{}, typeErrorf("%q object does not support item assignment", obj.Type())
	}
	if err := si.SetIndex(key, val); err != nil {
		return stepResult{}, raise("TypeError", values.Str(err.Error()))
	}
	return stepNormal()
}

func opDeleteSubscr(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	key := f.pop()
	obj := f.pop()
	si, ok := obj.(values.HasSetIndex)
	if !ok {
		return stepResult{}, typeErrorf("%q object does not support item deletion", obj.Type())
	}
	if err := si.DelIndex(key); err != nil {
		return stepResult{}, raise("TypeError", values.Str(err.Error()))
	}
	return stepNormal()
}

func opCompareOp(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	y := f.pop()
	x := f.pop()
	r, err := values.Compare(values.CompareOp(instr.Arg), x, y)
	if err != nil {
		return stepResult{}, typeErrorf("%s", err)
	}
	f.push(r)
	return stepNormal()
}

// opBinaryOp implements ≥3.11's unified BINARY_OP: the immediate indexes
// the _nb_ops sub-operation table (opcode.BinSubOp), collapsing what used
// to be two dozen dedicated opcodes into one.
func opBinaryOp(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	y := f.pop()
	x := f.pop()
	op, ok := binSubOpToBinOp[instr.Arg]
	if !ok {
		return stepResult{}, internalf("BINARY_OP", "unknown sub-operation %d", instr.Arg)
	}
	r, err := values.Binary(op, x, y)
	if err != nil {
		return stepResult{}, typeErrorf("%s", err)
	}
	f.push(r)
	return stepNormal()
}

var binSubOpToBinOp = map[int]values.BinOp{
	0:  values.Add,
	1:  values.And,
	2:  values.FloorDiv,
	3:  values.LShift,
	4:  values.Mul,
	5:  values.Mod,
	6:  values.Or,
	7:  values.Pow,
	8:  values.RShift,
	9:  values.Sub,
	10: values.TrueDiv,
	11: values.Xor,
	// 12-23: the in-place variants, same semantics here (see binaryHandler doc).
	12: values.Add,
	13: values.And,
	14: values.FloorDiv,
	15: values.LShift,
	16: values.Mul,
	17: values.Mod,
	18: values.Or,
	19: values.Pow,
	20: values.RShift,
	21: values.Sub,
	22: values.TrueDiv,
	23: values.Xor,
}
