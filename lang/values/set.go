package values

import (
	"strings"

	"github.com/dolthub/swiss"
)

// Set is the VM's set value, the target of BUILD_SET and SET_ADD
// (set-comprehension accumulation).
type Set struct {
	m *swiss.Map[Value, struct{}]
}

var (
	_ Value    = (*Set)(nil)
	_ Iterable = (*Set)(nil)
)

func NewSet(elems []Value) *Set {
	s := &Set{m: swiss.NewMap[Value, struct{}](uint32(len(elems) + 1))}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

func (s *Set) Add(v Value) { s.m.Put(v, struct{}{}) }

func (s *Set) Has(v Value) bool {
	_, ok := s.m.Get(v)
	return ok
}

func (s *Set) String() string {
	parts := make([]string, 0, s.m.Count())
	s.m.Iter(func(k Value, _ struct{}) bool {
		parts = append(parts, k.String())
		return false
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *Set) Type() string { return "set" }
func (s *Set) Truth() bool  { return s.m.Count() != 0 }
func (s *Set) Len() int     { return s.m.Count() }

func (s *Set) Iterate() Iterator {
	elems := make([]Value, 0, s.m.Count())
	s.m.Iter(func(k Value, _ struct{}) bool {
		elems = append(elems, k)
		return false
	})
	return &sliceIterator{elems: elems}
}

func (s *Set) Equal(y Value) (bool, error) {
	ys, ok := y.(*Set)
	if !ok || s.m.Count() != ys.m.Count() {
		return false, nil
	}
	equal := true
	s.m.Iter(func(k Value, _ struct{}) bool {
		if !ys.Has(k) {
			equal = false
			return true
		}
		return false
	})
	return equal, nil
}
