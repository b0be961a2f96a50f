package machine

import "github.com/mna/pyvm/lang/values"

func (f *Frame) constAt(i int) values.Value {
	return f.Code.Consts[i].(values.Value)
}

func (f *Frame) cellAt(i int) *values.Cell {
	if i < len(f.CellVars) {
		return f.CellVars[i]
	}
	return f.FreeVars[i-len(f.CellVars)]
}

func opLoadConst(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.push(f.constAt(instr.Arg))
	return stepNormal()
}

func (f *Frame) lookupName(name string) (values.Value, bool) {
	if f.Locals != nil {
		if v, ok := f.Locals[name]; ok {
			return v, true
		}
	}
	if v, ok, _ := f.Globals.Get(values.Str(name)); ok {
		return v, true
	}
	return nil, false
}

func opLoadName(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	v, ok := f.lookupName(name)
	if !ok {
		return stepResult{}, raise("NameError", values.Str("name '"+name+"' is not defined"))
	}
	f.push(v)
	return stepNormal()
}

func opStoreName(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	v := f.pop()
	if f.Locals != nil {
		f.Locals[name] = v
	} else {
		_ = f.Globals.SetKey(values.Str(name), v)
	}
	return stepNormal()
}

func opDeleteName(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	if f.Locals != nil {
		if _, ok := f.Locals[name]; !ok {
			return stepResult{}, raise("NameError", values.Str("name '"+name+"' is not defined"))
		}
		delete(f.Locals, name)
		return stepNormal()
	}
	if err := f.Globals.DelIndex(values.Str(name)); err != nil {
		return stepResult{}, raise("NameError", values.Str("name '"+name+"' is not defined"))
	}
	return stepNormal()
}

func opLoadGlobal(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	v, ok, _ := f.Globals.Get(values.Str(name))
	if !ok {
		return stepResult{}, raise("NameError", values.Str("name '"+name+"' is not defined"))
	}
	f.push(v)
	return stepNormal()
}

func opStoreGlobal(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	v := f.pop()
	_ = f.Globals.SetKey(values.Str(name), v)
	return stepNormal()
}

func opDeleteGlobal(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	if err := f.Globals.DelIndex(values.Str(name)); err != nil {
		return stepResult{}, raise("NameError", values.Str("name '"+name+"' is not defined"))
	}
	return stepNormal()
}

func opLoadFast(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	v := f.Fast[instr.Arg]
	if v == nil {
		name := f.Code.Varnames[instr.Arg]
		return stepResult{}, raise("UnboundLocalError", values.Str("local variable '"+name+"' referenced before assignment"))
	}
	f.push(v)
	return stepNormal()
}

func opStoreFast(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.Fast[instr.Arg] = f.pop()
	return stepNormal()
}

func opDeleteFast(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.Fast[instr.Arg] = nil
	return stepNormal()
}

func opLoadDeref(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.push(f.cellAt(instr.Arg).Get())
	return stepNormal()
}

func opStoreDeref(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.cellAt(instr.Arg).Set(f.pop())
	return stepNormal()
}

func opDeleteDeref(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.cellAt(instr.Arg).Set(nil)
	return stepNormal()
}

func opLoadClosure(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	f.push(f.cellAt(instr.Arg))
	return stepNormal()
}

func opLoadAttr(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	obj := f.pop()
	ha, ok := obj.(values.HasAttrs)
	if !ok {
		return stepResult{}, typeErrorf("%q object has no attribute %q", obj.Type(), name)
	}
	v, err := ha.Attr(name)
	if err != nil {
		return stepResult{}, raise("AttributeError", values.Str(err.Error()))
	}
	f.push(v)
	return stepNormal()
}

// opLoadMethod implements the PyPy-family optimized method lookup, or (on
// CPython-variant tables where it's also wired, see table.go) behaves
// identically to LOAD_ATTR followed by a PUSH_NULL-style marker so
// CALL_METHOD knows whether a bound method or a plain attribute was
// found. This module does not special-case bound-method identity, so it
// simply pushes the attribute then Null, matching CALL_METHOD's expected
// stack shape.
func opLoadMethod(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	obj := f.pop()
	ha, ok := obj.(values.HasAttrs)
	if !ok {
		return stepResult{}, typeErrorf("%q object has no attribute %q", obj.Type(), name)
	}
	v, err := ha.Attr(name)
	if err != nil {
		return stepResult{}, raise("AttributeError", values.Str(err.Error()))
	}
	f.push(v)
	f.push(values.Null)
	return stepNormal()
}

func opStoreAttr(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	obj := f.pop()
	val := f.pop()
	hs, ok := obj.(values.HasSetField)
	if !ok {
		return stepResult{}, typeErrorf("%q object has no attribute %q", obj.Type(), name)
	}
	if err := hs.SetField(name, val); err != nil {
		return stepResult{}, raise("AttributeError", values.Str(err.Error()))
	}
	return stepNormal()
}

func opDeleteAttr(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	name := f.Code.Names[instr.Arg]
	obj := f.pop()
	hs, ok := obj.(values.HasSetField)
	if !ok {
		return stepResult{}, typeErrorf("%q object has no attribute %q", obj.Type(), name)
	}
	if err := hs.DelField(name); err != nil {
		return stepResult{}, raise("AttributeError", values.Str(err.Error()))
	}
	return stepNormal()
}
