package asm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/pyvm/lang/asm"
	"github.com/mna/pyvm/lang/opcode"
)

func TestAssembleSimpleReturn(t *testing.T) {
	src := `
name: main
constants: 40, 2
code:
	LOAD_CONST 0
	LOAD_CONST 1
	BINARY_ADD
	RETURN_VALUE
`
	c, err := asm.Assemble(opcode.V27, opcode.CPython, src)
	require.NoError(t, err)
	assert.Equal(t, "main", c.Name)
	assert.Len(t, c.Consts, 2)
	// LOAD_CONST (1 + 2 bytes) x2, BINARY_ADD (1 byte, no arg), RETURN_VALUE (1 byte)
	assert.Equal(t, 8, len(c.Instructions))
}

func TestAssembleWordcodeCall(t *testing.T) {
	src := `
name: greet
names: print
constants: "hi"
code:
	LOAD_NAME print
	LOAD_CONST 0
	CALL_FUNCTION 1
	RETURN_VALUE
`
	c, err := asm.Assemble(opcode.Version{3, 7}, opcode.CPython, src)
	require.NoError(t, err)
	// every wordcode instruction is exactly 2 bytes
	assert.Equal(t, 8, len(c.Instructions))
	assert.Equal(t, []string{"print"}, c.Names)
}

func TestAssembleForwardJump(t *testing.T) {
	src := `
name: jumpy
constants: 1
code:
	JUMP_FORWARD @done
	LOAD_CONST 0
done:
	RETURN_VALUE
`
	c, err := asm.Assemble(opcode.Version{3, 7}, opcode.CPython, src)
	require.NoError(t, err)
	// JUMP_FORWARD (2 bytes), LOAD_CONST (2 bytes, skipped at runtime), RETURN_VALUE (2 bytes)
	require.Equal(t, 6, len(c.Instructions))
	// arg of JUMP_FORWARD is the distance from the *next* instruction to the label
	assert.EqualValues(t, 2, c.Instructions[1])
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	_, err := asm.Assemble(opcode.V311, opcode.CPython, "name: x\ncode:\n\tTOTALLY_BOGUS\n")
	require.Error(t, err)
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := asm.Assemble(opcode.Version{3, 7}, opcode.CPython, "name: x\ncode:\n\tJUMP_FORWARD @nowhere\n")
	require.Error(t, err)
}

func TestDasmRendersOffsetsAndMnemonics(t *testing.T) {
	src := `
name: main
constants: 1, 2
code:
	LOAD_CONST 0
	LOAD_CONST 1
	BINARY_ADD
	RETURN_VALUE
`
	c, err := asm.Assemble(opcode.V27, opcode.CPython, src)
	require.NoError(t, err)
	out := asm.Dasm(c, opcode.V27, opcode.CPython)
	assert.Contains(t, out, "LOAD_CONST")
	assert.Contains(t, out, "BINARY_ADD")
	assert.Contains(t, out, "RETURN_VALUE")
}
