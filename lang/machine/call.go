package machine

import (
	"fmt"

	"github.com/mna/pyvm/lang/code"
	"github.com/mna/pyvm/lang/values"
)

// CallValue invokes any callable value: a bytecode Function (which builds
// and runs a new Frame) or anything implementing values.Callable (a
// NativeFunc or a host-provided callable). This is the single call path
// CALL_FUNCTION*/CALL_METHOD/PRECALL+CALL all funnel through.
func (t *Thread) CallValue(callee values.Value, args []values.Value, kwargs map[string]values.Value) (values.Value, error) {
	switch fn := callee.(type) {
	case *values.Function:
		return t.CallFunction(fn, args, kwargs)
	case values.Callable:
		return fn.Call(args, kwargs)
	default:
		return nil, values.NewException("TypeError", values.Str(fmt.Sprintf("%q object is not callable", callee.Type())))
	}
}

// CallFunction implements spec.md §4.5's argument-binding and frame-push
// procedure for a bytecode Function, then drives it to completion through
// the dispatch loop. For a generator function the body is not run: the
// bound frame is returned wrapped in a *Generator.
func (t *Thread) CallFunction(fn *values.Function, args []values.Value, kwargs map[string]values.Value) (values.Value, error) {
	if t.MaxCallDepth != 0 && t.depth() >= t.MaxCallDepth {
		return nil, values.NewException("RecursionError", values.Str("maximum recursion depth exceeded"))
	}

	f := NewFrame(fn.Code, fn.Globals, t.top)
	if err := t.bindArgs(f, fn, args, kwargs); err != nil {
		return nil, err
	}
	t.bindCells(f, fn)

	if fn.Code.Flags&code.FlagGenerator != 0 {
		return &Generator{thread: t, frame: f}, nil
	}
	return t.runFrame(f)
}

// bindArgs implements the positional/keyword/defaults/*args/**kwargs
// binding CALL_FUNCTION[_KW|_EX] ultimately reduces to.
func (t *Thread) bindArgs(f *Frame, fn *values.Function, args []values.Value, kwargs map[string]values.Value) error {
	c := fn.Code
	nparams := c.ArgCount + c.KwOnlyCount

	npos := len(args)
	if npos > c.ArgCount && c.Flags&code.FlagVarargs == 0 {
		return values.NewException("TypeError", values.Str(fmt.Sprintf(
			"%s() takes %d positional argument(s) but %d were given", fn.Name, c.ArgCount, npos)))
	}

	bound := 0
	for i := 0; i < c.ArgCount && i < npos; i++ {
		f.Fast[i] = args[i]
		bound++
	}

	if c.Flags&code.FlagVarargs != 0 {
		extra := []values.Value{}
		if npos > c.ArgCount {
			extra = append(extra, args[c.ArgCount:]...)
		}
		f.Fast[nparams] = values.NewTuple(extra)
	}

	// keyword-only and remaining positional-or-keyword parameters, filled
	// from kwargs if present.
	for i := bound; i < nparams; i++ {
		name := c.Varnames[i]
		if v, ok := kwargs[name]; ok {
			f.Fast[i] = v
			delete(kwargs, name)
			continue
		}
		if dv, ok := defaultFor(fn, c, i); ok {
			f.Fast[i] = dv
			continue
		}
		return values.NewException("TypeError", values.Str(fmt.Sprintf("%s() missing required argument: %q", fn.Name, name)))
	}

	kwIdx := nparams
	if c.Flags&code.FlagVarargs != 0 {
		kwIdx++
	}
	if c.Flags&code.FlagVarKeywords != 0 {
		d := values.NewDict(len(kwargs))
		for k, v := range kwargs {
			_ = d.SetKey(values.Str(k), v)
		}
		f.Fast[kwIdx] = d
	} else if len(kwargs) > 0 {
		for k := range kwargs {
			return values.NewException("TypeError", values.Str(fmt.Sprintf("%s() got an unexpected keyword argument %q", fn.Name, k)))
		}
	}
	return nil
}

// defaultFor resolves parameter i's default value: positional defaults
// apply to the trailing len(fn.Defaults) of the c.ArgCount positional
// parameters (right-aligned, matching
// CPython's co_argcount/defaults convention), keyword-only defaults are
// looked up by name in fn.KwDefaults.
func defaultFor(fn *values.Function, c *code.Code, i int) (values.Value, bool) {
	if i < c.ArgCount {
		firstWithDefault := c.ArgCount - len(fn.Defaults)
		if i >= firstWithDefault {
			return fn.Defaults[i-firstWithDefault], true
		}
		return nil, false
	}
	name := c.Varnames[i]
	v, ok := fn.KwDefaults[name]
	return v, ok
}

// bindCells wires up a frame's cell variables: one fresh *values.Cell per
// Code.Cellvars entry (re-homing any that shadow a fast-local parameter),
// and fn.Closure's cells copied in Code.Freevars order for the ones the
// function captured from its defining frame.
func (t *Thread) bindCells(f *Frame, fn *values.Function) {
	c := fn.Code
	f.CellVars = make([]*values.Cell, len(c.Cellvars))
	for i, name := range c.Cellvars {
		var initial values.Value
		for vi, vn := range c.Varnames {
			if vn == name {
				initial = f.Fast[vi]
			}
		}
		f.CellVars[i] = values.NewCell(initial)
	}
	f.FreeVars = make([]*values.Cell, len(c.Freevars))
	copy(f.FreeVars, fn.Closure)
}

// runFrame pushes f as the thread's current frame, runs the dispatch loop
// to completion or suspension, and restores the caller frame. A generator
// frame that hits YIELD_VALUE/YIELD_FROM is left StatusSuspended rather
// than StatusReturned, so Generator.Next can re-enter it later.
func (t *Thread) runFrame(f *Frame) (values.Value, error) {
	prev := t.top
	t.top = f
	defer func() { t.top = prev }()

	f.Status = StatusExecuting
	v, why, err := t.dispatch(f)
	if err != nil {
		f.Status = StatusRaised
		return nil, err
	}
	if why == WhyYield {
		f.Status = StatusSuspended
		return v, nil
	}
	f.Status = StatusReturned
	return v, nil
}

// resumeFrame re-enters a StatusSuspended frame at its parked IP,
// delivering sendVal as the result of the YIELD_VALUE/YIELD_FROM
// expression it suspended at, per spec.md §9's generator-resumption
// design note.
func (t *Thread) resumeFrame(f *Frame, sendVal values.Value) (values.Value, error) {
	prev := t.top
	t.top = f
	defer func() { t.top = prev }()

	f.Fallthrough = true
	f.push(sendVal)
	f.Status = StatusExecuting
	v, why, err := t.dispatch(f)
	f.Fallthrough = false
	if err != nil {
		f.Status = StatusRaised
		return nil, err
	}
	if why == WhyYield {
		f.Status = StatusSuspended
		return v, nil
	}
	f.Status = StatusReturned
	return v, nil
}
