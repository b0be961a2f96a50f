package values

import "fmt"

// Cell is a shared mutable box for a closed-over variable, spec.md §3's
// Cell entity: LOAD_CLOSURE captures one, LOAD_DEREF/STORE_DEREF read and
// write through it, and a nested Function's Closure slice holds the ones
// it captured from its defining frame.
type Cell struct {
	v Value
}

func NewCell(v Value) *Cell { return &Cell{v: v} }

func (c *Cell) Get() Value {
	if c.v == nil {
		return None
	}
	return c.v
}

func (c *Cell) Set(v Value) { c.v = v }

func (c *Cell) String() string { return fmt.Sprintf("<cell %s>", c.Get().String()) }
func (c *Cell) Type() string   { return "cell" }
