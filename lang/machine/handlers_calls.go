package machine

import (
	"github.com/mna/pyvm/lang/code"
	"github.com/mna/pyvm/lang/opcode"
	"github.com/mna/pyvm/lang/values"
)

const (
	mkDefaults    = 0x01
	mkKwDefaults  = 0x02
	mkAnnotations = 0x04
	mkClosure     = 0x08
)

// opMakeFunction implements MAKE_FUNCTION: build a values.Function from a
// code object constant and whatever optional defaults/annotations/closure
// the flag bits say were pushed ahead of it, matching CPython's own
// pre-3.11 stack order (closure, annotations, kwdefaults, defaults, code,
// qualname) generalized across this module's single MAKE_FUNCTION opcode
// for every era. The qualname operand is popped before 3.11; on 3.11 it is
// not on the stack and the code object's own Name is used instead.
func opMakeFunction(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	var qualnameVal values.Value
	if t.table.Era != opcode.EraV311 {
		qualnameVal = f.pop()
	}
	codeVal := f.pop()
	c, ok := codeVal.(*code.Code)
	if !ok {
		return stepResult{}, internalf("MAKE_FUNCTION", "TOS1 is not a code object (%T)", codeVal)
	}

	fn := &values.Function{
		Code:     c,
		Name:     c.Name,
		Qualname: c.Name,
		Globals:  f.Globals,
	}
	if qn, ok := qualnameVal.(values.Str); ok && qn != "" {
		fn.Qualname = string(qn)
	}

	if instr.Arg&mkClosure != 0 {
		tup, ok := f.pop().(values.Tuple)
		if !ok {
			return stepResult{}, internalf("MAKE_FUNCTION", "closure operand is not a tuple")
		}
		fn.Closure = make([]*values.Cell, len(tup))
		for i, v := range tup {
			cell, ok := v.(*values.Cell)
			if !ok {
				return stepResult{}, internalf("MAKE_FUNCTION", "closure element %d is not a cell", i)
			}
			fn.Closure[i] = cell
		}
	}
	if instr.Arg&mkAnnotations != 0 {
		d, ok := f.pop().(*values.Dict)
		if !ok {
			return stepResult{}, internalf("MAKE_FUNCTION", "annotations operand is not a dict")
		}
		fn.Annotations = dictToStringMap(d)
	}
	if instr.Arg&mkKwDefaults != 0 {
		d, ok := f.pop().(*values.Dict)
		if !ok {
			return stepResult{}, internalf("MAKE_FUNCTION", "kwdefaults operand is not a dict")
		}
		fn.KwDefaults = dictToStringMap(d)
	}
	if instr.Arg&mkDefaults != 0 {
		tup, ok := f.pop().(values.Tuple)
		if !ok {
			return stepResult{}, internalf("MAKE_FUNCTION", "defaults operand is not a tuple")
		}
		fn.Defaults = tup
	}

	f.push(fn)
	return stepNormal()
}

func dictToStringMap(d *values.Dict) map[string]values.Value {
	out := make(map[string]values.Value, len(d.Keys()))
	for _, k := range d.Keys() {
		v, _, _ := d.Get(k)
		if s, ok := k.(values.Str); ok {
			out[string(s)] = v
		}
	}
	return out
}

// opCallFunction implements pre-3.11 CALL_FUNCTION: arg positional
// arguments, then the callable.
func opCallFunction(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	args := f.popn(instr.Arg)
	callee := f.pop()
	v, err := t.CallValue(callee, args, nil)
	if err != nil {
		return stepResult{}, err
	}
	f.push(v)
	return stepNormal()
}

// opCallFunctionKW implements CALL_FUNCTION_KW: a trailing tuple constant
// names the last len(names) of the arg values as keyword arguments.
func opCallFunctionKW(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	namesTuple, ok := f.pop().(values.Tuple)
	if !ok {
		return stepResult{}, internalf("CALL_FUNCTION_KW", "keyword-names operand is not a tuple")
	}
	all := f.popn(instr.Arg)
	kwcount := len(namesTuple)
	poscount := len(all) - kwcount
	kwargs := make(map[string]values.Value, kwcount)
	for i, nameVal := range namesTuple {
		name, _ := nameVal.(values.Str)
		kwargs[string(name)] = all[poscount+i]
	}
	callee := f.pop()
	v, err := t.CallValue(callee, all[:poscount], kwargs)
	if err != nil {
		return stepResult{}, err
	}
	f.push(v)
	return stepNormal()
}

const callExHasKwargs = 0x01

// opCallFunctionEx implements CALL_FUNCTION_EX: TOS is an optional kwargs
// dict (if arg&1), TOS1 is an args sequence (`f(*args, **kwargs)`).
func opCallFunctionEx(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	var kwargs map[string]values.Value
	if instr.Arg&callExHasKwargs != 0 {
		d, ok := f.pop().(*values.Dict)
		if !ok {
			return stepResult{}, internalf("CALL_FUNCTION_EX", "kwargs operand is not a dict")
		}
		kwargs = dictToStringMap(d)
	}
	argsVal := f.pop()
	it, ok := argsVal.(values.Iterable)
	if !ok {
		return stepResult{}, typeErrorf("argument after * must be iterable, not %q", argsVal.Type())
	}
	var args []values.Value
	iter := it.Iterate()
	for {
		v, more := iter.Next()
		if !more {
			break
		}
		args = append(args, v)
	}
	callee := f.pop()
	v, err := t.CallValue(callee, args, kwargs)
	if err != nil {
		return stepResult{}, err
	}
	f.push(v)
	return stepNormal()
}

// opCallMethod implements LOAD_METHOD's counterpart: pop arg positional
// arguments, the Null marker opLoadMethod pushed, and the method value
// beneath it.
func opCallMethod(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	args := f.popn(instr.Arg)
	f.pop() // the Null marker
	method := f.pop()
	v, err := t.CallValue(method, args, nil)
	if err != nil {
		return stepResult{}, err
	}
	f.push(v)
	return stepNormal()
}

// opPrecall implements ≥3.11 PRECALL: a specialization hint opcode this
// module does not specialize on, so it is a no-op (spec.md's stated
// non-goal: no inline-cache/specialized-opcode behavior).
func opPrecall(t *Thread, f *Frame, instr Instruction) (stepResult, error) { return stepNormal() }

// opKwNames implements ≥3.11 KW_NAMES: the immediate indexes a constant
// tuple of keyword-argument names for the CALL that immediately follows.
func opKwNames(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	tup, ok := f.constAt(instr.Arg).(values.Tuple)
	if !ok {
		return stepResult{}, internalf("KW_NAMES", "constant is not a tuple")
	}
	names := make([]string, len(tup))
	for i, v := range tup {
		s, _ := v.(values.Str)
		names[i] = string(s)
	}
	f.pendingKwNames = names
	return stepNormal()
}

// opCall implements ≥3.11 CALL: arg is the total argument count (pos+kw,
// the trailing ones named by a preceding KW_NAMES); beneath the arguments
// is the callable and, beneath that, either Null (plain function call) or
// any other value, which is passed as the first positional argument.
func opCall(t *Thread, f *Frame, instr Instruction) (stepResult, error) {
	all := f.popn(instr.Arg)
	var args []values.Value
	var kwargs map[string]values.Value
	if n := len(f.pendingKwNames); n > 0 {
		poscount := len(all) - n
		kwargs = make(map[string]values.Value, n)
		for i, name := range f.pendingKwNames {
			kwargs[name] = all[poscount+i]
		}
		args = all[:poscount]
		f.pendingKwNames = nil
	} else {
		args = all
	}

	callee := f.pop()
	marker := f.pop()
	if marker.Type() != "<null>" {
		args = append([]values.Value{marker}, args...)
	}

	v, err := t.CallValue(callee, args, kwargs)
	if err != nil {
		return stepResult{}, err
	}
	f.push(v)
	return stepNormal()
}
