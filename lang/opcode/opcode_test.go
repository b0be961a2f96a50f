package opcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/pyvm/lang/opcode"
)

func TestEra(t *testing.T) {
	cases := []struct {
		v    opcode.Version
		want opcode.Era
	}{
		{opcode.V27, opcode.EraLegacy},
		{opcode.Version{3, 2}, opcode.EraPy3},
		{opcode.V36, opcode.EraWordcode},
		{opcode.V39, opcode.EraWordcode},
		{opcode.V310, opcode.EraWordcode310},
		{opcode.V311, opcode.EraV311},
		{opcode.Version{3, 12}, opcode.EraV311},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.Era(), "version %s", c.v)
	}
}

func TestGetTableBasics(t *testing.T) {
	cases := []struct {
		desc string
		v    opcode.Version
		enc  opcode.ArgEncoding
		dbl  bool
	}{
		{"legacy", opcode.V27, opcode.Arg2Byte, false},
		{"py3", opcode.Version{3, 4}, opcode.Arg2Byte, false},
		{"wordcode", opcode.Version{3, 7}, opcode.Arg1ByteWordcode, false},
		{"wordcode310", opcode.V310, opcode.Arg1ByteWordcode, true},
		{"v311", opcode.V311, opcode.Arg1ByteWordcode, true},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			tbl := opcode.Get(c.v, opcode.CPython)
			assert.Equal(t, c.enc, tbl.ArgEnc)
			assert.Equal(t, c.dbl, tbl.DoubleJump)
			assert.True(t, tbl.Valid(opcode.LOAD_CONST))
			assert.True(t, tbl.Valid(opcode.RETURN_VALUE))
		})
	}
}

func TestTableEraSpecificOpcodes(t *testing.T) {
	legacy := opcode.Get(opcode.V27, opcode.CPython)
	require.True(t, legacy.Valid(opcode.SETUP_LOOP))
	require.False(t, legacy.Valid(opcode.CALL))

	v311 := opcode.Get(opcode.V311, opcode.CPython)
	require.True(t, v311.Valid(opcode.CALL))
	require.True(t, v311.Valid(opcode.PUSH_NULL))
	require.False(t, v311.Valid(opcode.SETUP_LOOP))
	require.False(t, v311.Valid(opcode.BINARY_ADD))
}

func TestTableKind(t *testing.T) {
	tbl := opcode.Get(opcode.V311, opcode.CPython)
	assert.Equal(t, opcode.KindConst, tbl.Kind(opcode.LOAD_CONST))
	assert.Equal(t, opcode.KindLocal, tbl.Kind(opcode.LOAD_FAST))
	assert.Equal(t, opcode.KindJRel, tbl.Kind(opcode.JUMP_FORWARD))
	assert.Equal(t, opcode.KindPlain, tbl.Kind(opcode.CALL))
}

func TestHasArgument(t *testing.T) {
	tbl := opcode.Get(opcode.V311, opcode.CPython)
	assert.False(t, tbl.HasArgument(opcode.NOP))
	assert.True(t, tbl.HasArgument(opcode.LOAD_CONST))
}

func TestPyPyVariantAddsLoadMethod(t *testing.T) {
	cpy := opcode.Get(opcode.Version{3, 4}, opcode.CPython)
	pypy := opcode.Get(opcode.Version{3, 4}, opcode.PyPy)
	assert.False(t, cpy.Valid(opcode.LOAD_METHOD))
	assert.True(t, pypy.Valid(opcode.LOAD_METHOD))
}

func TestOpStringRoundTrip(t *testing.T) {
	for _, op := range []opcode.Op{opcode.NOP, opcode.LOAD_CONST, opcode.CALL, opcode.RETURN_VALUE} {
		name := op.String()
		require.NotEqual(t, "ILLEGAL_OP", name)
		got, ok := opcode.ParseName(name)
		require.True(t, ok)
		assert.Equal(t, op, got)
	}

	_, ok := opcode.ParseName("NOT_AN_OPCODE")
	assert.False(t, ok)
}

func TestCompareOpString(t *testing.T) {
	assert.Equal(t, "==", opcode.CompareOp(2).String())
}
