package values

import "fmt"

// Traceback is a lazily-built singly linked list of frame records, one per
// stack level the exception has unwound through so far. lang/machine
// prepends a node each time an exception propagates out of a frame,
// exactly as spec.md §3 describes; frames are never referenced directly so
// that a Traceback can outlive the Frame it was recorded from.
type Traceback struct {
	Name     string
	Filename string
	Line     int
	Next     *Traceback
}

// Push returns a new Traceback node prepended to tb (tb may be nil).
func (tb *Traceback) Push(name, filename string, line int) *Traceback {
	return &Traceback{Name: name, Filename: filename, Line: line, Next: tb}
}

func (tb *Traceback) String() string {
	if tb == nil {
		return "<no traceback>"
	}
	return fmt.Sprintf("  File %q, line %d, in %s", tb.Filename, tb.Line, tb.Name)
}

func (tb *Traceback) Type() string { return "traceback" }

// Frames returns the traceback's nodes from outermost to innermost (the
// order tracebacks are conventionally printed in).
func (tb *Traceback) Frames() []*Traceback {
	var frames []*Traceback
	for n := tb; n != nil; n = n.Next {
		frames = append(frames, n)
	}
	return frames
}
