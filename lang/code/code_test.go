package code_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/pyvm/lang/code"
)

func TestLineForOffset(t *testing.T) {
	c := &code.Code{
		Lines: []code.LineEntry{
			{StartOffset: 0, EndOffset: 4, Line: 1},
			{StartOffset: 4, EndOffset: 10, Line: 2},
		},
	}
	assert.EqualValues(t, 1, c.LineForOffset(0))
	assert.EqualValues(t, 1, c.LineForOffset(3))
	assert.EqualValues(t, 2, c.LineForOffset(4))
	assert.EqualValues(t, 0, c.LineForOffset(100))
}

func TestCellFreeIndex(t *testing.T) {
	c := &code.Code{
		Cellvars: []string{"x", "y"},
		Freevars: []string{"z"},
	}

	idx, ok := c.CellIndex("y")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = c.CellIndex("nope")
	assert.False(t, ok)

	idx, ok = c.FreeIndex("z")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestCodeTypeAndString(t *testing.T) {
	c := &code.Code{Name: "f", Filename: "m.py", FirstLine: 3}
	assert.Equal(t, "code", c.Type())
	assert.Contains(t, c.String(), "f")
	assert.Contains(t, c.String(), "m.py")
}
