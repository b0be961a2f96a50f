package values

import (
	"fmt"
	"strings"
)

// List is the VM's mutable sequence value, the target of BUILD_LIST and
// LIST_APPEND (comprehension accumulation).
type List struct {
	elems []Value
}

var (
	_ Value        = (*List)(nil)
	_ Sequence     = (*List)(nil)
	_ Indexable    = (*List)(nil)
	_ HasSetIndex  = (*List)(nil)
	_ Iterable     = (*List)(nil)
)

func NewList(elems []Value) *List { return &List{elems: elems} }

func (l *List) String() string {
	parts := make([]string, len(l.elems))
	for i, v := range l.elems {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Type() string { return "list" }
func (l *List) Truth() bool  { return len(l.elems) != 0 }
func (l *List) Len() int     { return len(l.elems) }

func (l *List) Append(v Value) { l.elems = append(l.elems, v) }

func (l *List) Elems() []Value { return l.elems }

func (l *List) Index(i int) (Value, error) {
	if i < 0 {
		i += len(l.elems)
	}
	if i < 0 || i >= len(l.elems) {
		return nil, fmt.Errorf("list index out of range")
	}
	return l.elems[i], nil
}

func (l *List) GetIndex(key Value) (Value, error) {
	i, ok := key.(Int)
	if !ok {
		return nil, fmt.Errorf("list indices must be integers, not %s", key.Type())
	}
	return l.Index(int(i))
}

func (l *List) SetIndex(key, v Value) error {
	i, ok := key.(Int)
	if !ok {
		return fmt.Errorf("list indices must be integers, not %s", key.Type())
	}
	idx := int(i)
	if idx < 0 {
		idx += len(l.elems)
	}
	if idx < 0 || idx >= len(l.elems) {
		return fmt.Errorf("list assignment index out of range")
	}
	l.elems[idx] = v
	return nil
}

func (l *List) DelIndex(key Value) error {
	i, ok := key.(Int)
	if !ok {
		return fmt.Errorf("list indices must be integers, not %s", key.Type())
	}
	idx := int(i)
	if idx < 0 {
		idx += len(l.elems)
	}
	if idx < 0 || idx >= len(l.elems) {
		return fmt.Errorf("list assignment index out of range")
	}
	l.elems = append(l.elems[:idx], l.elems[idx+1:]...)
	return nil
}

func (l *List) Iterate() Iterator { return &sliceIterator{elems: l.elems} }
