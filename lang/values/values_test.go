package values_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/pyvm/lang/values"
)

func TestIntArithmetic(t *testing.T) {
	v, err := values.Binary(values.Add, values.Int(2), values.Int(3))
	require.NoError(t, err)
	assert.Equal(t, values.Int(5), v)

	v, err = values.Binary(values.FloorDiv, values.Int(-7), values.Int(2))
	require.NoError(t, err)
	assert.Equal(t, values.Int(-4), v) // Python floor division rounds toward -Inf

	v, err = values.Binary(values.Mod, values.Int(-7), values.Int(2))
	require.NoError(t, err)
	assert.Equal(t, values.Int(1), v) // result follows the divisor's sign
}

func TestIntFloatCoercion(t *testing.T) {
	v, err := values.Binary(values.TrueDiv, values.Int(1), values.Int(2))
	require.NoError(t, err)
	assert.Equal(t, values.Float(0.5), v)
}

func TestCompareNaN(t *testing.T) {
	nan := values.Float(math.NaN())
	v, err := values.Compare(values.CmpLT, nan, values.Float(1))
	require.NoError(t, err)
	assert.Equal(t, values.Bool(false), v)

	v, err = values.Compare(values.CmpEQ, nan, nan)
	require.NoError(t, err)
	assert.Equal(t, values.Bool(false), v)
}

func TestTruth(t *testing.T) {
	assert.True(t, values.Truth(values.Int(1)))
	assert.False(t, values.Truth(values.Int(0)))
	assert.False(t, values.Truth(values.Str("")))
	assert.True(t, values.Truth(values.Str("x")))
	assert.False(t, values.Truth(values.None))
}

func TestDictSetKeyGet(t *testing.T) {
	d := values.NewDict(0)
	require.NoError(t, d.SetKey(values.Str("a"), values.Int(1)))
	v, ok, err := d.Get(values.Str("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, values.Int(1), v)

	_, ok, err = d.Get(values.Str("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetAdd(t *testing.T) {
	s := values.NewSet([]values.Value{values.Int(1), values.Int(2)})
	s.Add(values.Int(2))
	assert.Equal(t, 2, s.Len())
}

func TestListAppendAndIndex(t *testing.T) {
	l := values.NewList([]values.Value{values.Int(1)})
	l.Append(values.Int(2))
	assert.Equal(t, 2, l.Len())
	v, err := l.Index(1)
	require.NoError(t, err)
	assert.Equal(t, values.Int(2), v)
}

func TestTupleLenAndIndex(t *testing.T) {
	tup := values.NewTuple([]values.Value{values.Int(1), values.Int(2)})
	assert.Equal(t, 2, tup.Len())
	v, err := tup.Index(0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(1), v)
}

func TestCellGetSet(t *testing.T) {
	c := &values.Cell{}
	assert.Equal(t, values.None, c.Get())
	c.Set(values.Int(42))
	assert.Equal(t, values.Int(42), c.Get())
}

func TestExceptionMatches(t *testing.T) {
	exc := values.NewException("ValueError", values.Str("bad"))
	assert.True(t, exc.Matches("ValueError"))
	assert.False(t, exc.Matches("TypeError"))
}
