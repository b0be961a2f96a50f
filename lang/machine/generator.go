package machine

import "github.com/mna/pyvm/lang/values"

// Generator wraps a suspended/resumable Frame for a function whose code
// carries code.FlagGenerator: calling such a function builds a Generator
// instead of running its body, realizing spec.md §9's "generator
// resumption sets fallthrough=true and re-enters the loop" design note as
// Generator.Next/Send driving Thread.runFrame/resumeFrame.
type Generator struct {
	thread *Thread
	frame  *Frame
	done   bool
}

func (g *Generator) String() string { return "<generator>" }
func (g *Generator) Type() string   { return "generator" }

// Iterate implements values.Iterable: a generator is its own iterator, so
// GET_ITER on a generator value is a no-op handoff.
func (g *Generator) Iterate() values.Iterator { return g }

// Next implements values.Iterator, driving the frame to its next
// YIELD_VALUE or to completion (reported as ok=false; CPython signals
// this with StopIteration, which the plain Iterator protocol FOR_ITER
// consumes has no slot for, so the value is simply dropped here).
func (g *Generator) Next() (values.Value, bool) {
	v, err := g.Send(values.None)
	if err != nil || g.done {
		return nil, false
	}
	return v, true
}

// Send resumes the generator, delivering v as the result of the
// YIELD_VALUE expression it is currently parked at (values.None for the
// frame's first resumption, which starts execution at IP 0 instead of
// delivering a sent value).
func (g *Generator) Send(v values.Value) (values.Value, error) {
	if g.done {
		return nil, raise("StopIteration", values.None)
	}

	var (
		result values.Value
		err    error
	)
	switch g.frame.Status {
	case StatusCreated:
		result, err = g.thread.runFrame(g.frame)
	case StatusSuspended:
		result, err = g.thread.resumeFrame(g.frame, v)
	default:
		return nil, raise("StopIteration", values.None)
	}
	if err != nil {
		g.done = true
		return nil, err
	}
	if g.frame.Status != StatusSuspended {
		g.done = true
	}
	return result, nil
}
