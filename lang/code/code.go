// Package code defines the compiled-code object that lang/machine executes:
// an immutable bundle of instructions, constants, and the several name
// tables a frame resolves LOAD_*/STORE_* arguments against. Code objects
// are accepted as already compiled (see spec.md §6); this package has no
// notion of how they were produced.
package code

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Flags bits on a Code object, mirroring the handful of flags the VM
// itself inspects (most others — coroutine-ness, optimization level, and
// so on — are the compiler's concern, not the VM's, and are not modeled).
type Flags uint32

const (
	// FlagNewLocals marks a code object whose frame gets a fresh locals
	// dict/slice on each call, as opposed to sharing the caller's (used for
	// module- and class-level code in some legacy versions).
	FlagNewLocals Flags = 1 << iota
	// FlagVarargs marks a function whose last positional parameter collects
	// extra positional arguments (`*args`).
	FlagVarargs
	// FlagVarKeywords marks a function whose last parameter collects extra
	// keyword arguments (`**kwargs`).
	FlagVarKeywords
	// FlagGenerator marks a function whose frame suspends at YIELD_VALUE /
	// YIELD_FROM instead of returning.
	FlagGenerator
)

// LineEntry maps a half-open instruction-offset range to a source line,
// the table form used by tracebacks and by the "current line" rendering
// mentioned in spec.md §4.4's diagnostic logging.
type LineEntry struct {
	StartOffset int32
	EndOffset   int32
	Line        int32
}

// Code is a compiled-code object: one per function/module/class body,
// matching spec.md §3's Code entity. All slices are considered immutable
// after construction; nothing in lang/machine mutates a Code object.
type Code struct {
	Name     string
	Filename string

	Instructions []byte

	Consts    []interface{} // lang/values.Value, kept as interface{} to avoid an import cycle
	Names     []string
	Varnames  []string
	Cellvars  []string
	Freevars  []string

	ArgCount      int
	KwOnlyCount   int
	StackSize     int
	FirstLine     int32
	Flags         Flags
	Lines         []LineEntry
}

func (c *Code) String() string {
	return fmt.Sprintf("<code %s, file %q, line %d>", c.Name, c.Filename, c.FirstLine)
}

// Type satisfies the same String()/Type() shape lang/values.Value
// requires, so a Code object can sit directly in another Code object's
// Consts (as MAKE_FUNCTION expects) without a wrapper type.
func (c *Code) Type() string { return "code" }

// LineForOffset returns the source line a given instruction offset belongs
// to, or 0 if the offset isn't covered by the line table (e.g. a hand
// assembled fixture that omitted line information).
func (c *Code) LineForOffset(offset int) int32 {
	for _, e := range c.Lines {
		if int32(offset) >= e.StartOffset && int32(offset) < e.EndOffset {
			return e.Line
		}
	}
	return 0
}

// CellIndex reports whether name is a cell variable of this code object
// (one captured by a nested closure) and its index into Cellvars.
func (c *Code) CellIndex(name string) (int, bool) {
	i := slices.Index(c.Cellvars, name)
	return max(i, 0), i >= 0
}

// FreeIndex reports whether name is a free variable of this code object
// (one captured from an enclosing scope) and its index into Freevars.
func (c *Code) FreeIndex(name string) (int, bool) {
	i := slices.Index(c.Freevars, name)
	return max(i, 0), i >= 0
}
