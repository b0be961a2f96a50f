package machine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/pyvm/lang/asm"
	"github.com/mna/pyvm/lang/machine"
	"github.com/mna/pyvm/lang/opcode"
	"github.com/mna/pyvm/lang/values"
)

func run(t *testing.T, v opcode.Version, src string) values.Value {
	t.Helper()
	c, err := asm.Assemble(v, opcode.CPython, src)
	require.NoError(t, err)
	th := machine.NewThread(context.Background(), machine.WithVersion(v))
	res, err := th.RunCode(c, nil)
	require.NoError(t, err)
	return res
}

func TestAddAndReturn(t *testing.T) {
	src := `
name: main
constants: 40, 2
code:
	LOAD_CONST 0
	LOAD_CONST 1
	BINARY_ADD
	RETURN_VALUE
`
	assert.Equal(t, values.Int(42), run(t, opcode.V27, src))
}

func TestCompareAndPopJump(t *testing.T) {
	src := `
name: main
constants: 1, 2, 10, 20
code:
	LOAD_CONST 0
	LOAD_CONST 1
	COMPARE_OP LT
	POP_JUMP_IF_FALSE @else
	LOAD_CONST 2
	RETURN_VALUE
else:
	LOAD_CONST 3
	RETURN_VALUE
`
	assert.Equal(t, values.Int(10), run(t, opcode.V27, src))
}

func TestForIterSumsAList(t *testing.T) {
	src := `
name: main
constants: 1, 2, 3, 0
varnames: total, x
code:
	LOAD_CONST 3
	STORE_FAST total
	LOAD_CONST 0
	LOAD_CONST 1
	LOAD_CONST 2
	BUILD_LIST 3
	GET_ITER
loop:
	FOR_ITER @done
	STORE_FAST x
	LOAD_FAST total
	LOAD_FAST x
	BINARY_ADD
	STORE_FAST total
	JUMP_ABSOLUTE @loop
done:
	LOAD_FAST total
	RETURN_VALUE
`
	assert.Equal(t, values.Int(6), run(t, opcode.V27, src))
}

func TestJumpBackwardLoop(t *testing.T) {
	src := `
name: main
constants: 3, 1, 0
varnames: n, total
code:
	LOAD_CONST 2
	STORE_FAST total
	LOAD_CONST 0
	STORE_FAST n
loop:
	LOAD_FAST n
	POP_JUMP_IF_FALSE @done
	LOAD_FAST total
	LOAD_FAST n
	BINARY_ADD
	STORE_FAST total
	LOAD_FAST n
	LOAD_CONST 1
	BINARY_SUBTRACT
	STORE_FAST n
	JUMP_BACKWARD @loop
done:
	LOAD_FAST total
	RETURN_VALUE
`
	assert.Equal(t, values.Int(6), run(t, opcode.V310, src))
}

func TestPopJumpBackwardIfTrue(t *testing.T) {
	src := `
name: main
constants: 3, 1, 0
varnames: n, total
code:
	RESUME 0
	LOAD_CONST 2
	STORE_FAST total
	LOAD_CONST 0
	STORE_FAST n
loop:
	LOAD_FAST total
	LOAD_FAST n
	BINARY_OP 0
	STORE_FAST total
	LOAD_FAST n
	LOAD_CONST 1
	BINARY_OP 9
	STORE_FAST n
	LOAD_FAST n
	POP_JUMP_BACKWARD_IF_TRUE @loop
	LOAD_FAST total
	RETURN_VALUE
`
	assert.Equal(t, values.Int(6), run(t, opcode.V311, src))
}

func TestGeneratorSuspendResume(t *testing.T) {
	src := `
name: gen
flags: generator
constants: 1, 2, None
code:
	LOAD_CONST 0
	YIELD_VALUE
	POP_TOP
	LOAD_CONST 1
	YIELD_VALUE
	POP_TOP
	LOAD_CONST 2
	RETURN_VALUE
`
	c, err := asm.Assemble(opcode.V27, opcode.CPython, src)
	require.NoError(t, err)

	th := machine.NewThread(context.Background(), machine.WithVersion(opcode.V27))
	fn := &values.Function{Code: c, Name: c.Name, Qualname: c.Name, Globals: values.NewDict(0)}
	result, err := th.CallFunction(fn, nil, nil)
	require.NoError(t, err)

	gen, ok := result.(*machine.Generator)
	require.True(t, ok, "calling a generator function must return a *machine.Generator, got %T", result)

	v1, more := gen.Next()
	require.True(t, more)
	assert.Equal(t, values.Int(1), v1)

	v2, more := gen.Next()
	require.True(t, more)
	assert.Equal(t, values.Int(2), v2)

	_, more = gen.Next()
	assert.False(t, more, "generator must report exhaustion after its final RETURN_VALUE")
}

func TestRaiseAndCatch(t *testing.T) {
	src := `
name: main
constants: "boom", 99
code:
	SETUP_EXCEPT @handler
	LOAD_CONST 0
	RAISE_VARARGS 1
	POP_BLOCK
	JUMP_FORWARD @end
handler:
	POP_TOP
	LOAD_CONST 1
	RETURN_VALUE
end:
	RETURN_VALUE
`
	assert.Equal(t, values.Int(99), run(t, opcode.V27, src))
}

func TestWordcodeAddAndReturn(t *testing.T) {
	src := `
name: main
constants: 1, 2
code:
	LOAD_CONST 0
	LOAD_CONST 1
	BINARY_ADD
	RETURN_VALUE
`
	assert.Equal(t, values.Int(3), run(t, opcode.Version{3, 7}, src))
}

func TestV311ResumeAndReturn(t *testing.T) {
	src := `
name: main
constants: 7
code:
	RESUME 0
	LOAD_CONST 0
	RETURN_VALUE
`
	assert.Equal(t, values.Int(7), run(t, opcode.V311, src))
}
