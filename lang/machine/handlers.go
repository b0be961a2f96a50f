package machine

import (
	"fmt"

	"github.com/mna/pyvm/lang/opcode"
	"github.com/mna/pyvm/lang/values"
)

// commonHandlers covers every opcode present in all five eras (see
// lang/opcode/table.go's opsCommon) plus the handful whose handler is
// identical across the eras that do have it, even though not every era
// assigns it the same opcode number meaning (that distinction lives in
// the Table, not here).
var commonHandlers = map[opcode.Op]handlerFunc{
	opcode.NOP:         opNop,
	opcode.POP_TOP:     opPopTop,
	opcode.DUP_TOP:     opDupTop,
	opcode.DUP_TOP_TWO: opDupTopTwo,
	opcode.ROT_TWO:     opRotTwo,
	opcode.ROT_THREE:   opRotThree,
	opcode.ROT_FOUR:    opRotFour,

	opcode.UNARY_POSITIVE: unaryHandler(values.Pos),
	opcode.UNARY_NEGATIVE: unaryHandler(values.Neg),
	opcode.UNARY_NOT:      unaryHandler(values.Not),
	opcode.UNARY_INVERT:   unaryHandler(values.Invert),

	opcode.BINARY_SUBSCR: opBinarySubscr,
	opcode.STORE_SUBSCR:  opStoreSubscr,
	opcode.DELETE_SUBSCR: opDeleteSubscr,
	opcode.COMPARE_OP:    opCompareOp,

	opcode.BUILD_LIST:      opBuildList,
	opcode.BUILD_TUPLE:     opBuildTuple,
	opcode.BUILD_SET:       opBuildSet,
	opcode.BUILD_MAP:       opBuildMap,
	opcode.LIST_APPEND:     opListAppend,
	opcode.SET_ADD:         opSetAdd,
	opcode.MAP_ADD:         opMapAdd,
	opcode.UNPACK_SEQUENCE: opUnpackSequence,

	opcode.LOAD_CONST:    opLoadConst,
	opcode.LOAD_NAME:     opLoadName,
	opcode.STORE_NAME:    opStoreName,
	opcode.DELETE_NAME:   opDeleteName,
	opcode.LOAD_GLOBAL:   opLoadGlobal,
	opcode.STORE_GLOBAL:  opStoreGlobal,
	opcode.DELETE_GLOBAL: opDeleteGlobal,
	opcode.LOAD_FAST:     opLoadFast,
	opcode.STORE_FAST:    opStoreFast,
	opcode.DELETE_FAST:   opDeleteFast,
	opcode.LOAD_ATTR:     opLoadAttr,
	opcode.STORE_ATTR:    opStoreAttr,
	opcode.DELETE_ATTR:   opDeleteAttr,
	opcode.LOAD_METHOD:   opLoadMethod,
	opcode.LOAD_DEREF:    opLoadDeref,
	opcode.STORE_DEREF:   opStoreDeref,
	opcode.DELETE_DEREF:  opDeleteDeref,
	opcode.LOAD_CLOSURE:  opLoadClosure,

	opcode.JUMP_FORWARD:         opJumpForward,
	opcode.JUMP_ABSOLUTE:        opJumpAbsolute,
	opcode.JUMP_BACKWARD:        opJumpBackward,
	opcode.POP_JUMP_IF_TRUE:     opPopJumpIfTrue,
	opcode.POP_JUMP_IF_FALSE:    opPopJumpIfFalse,
	opcode.JUMP_IF_TRUE_OR_POP:  opJumpIfTrueOrPop,
	opcode.JUMP_IF_FALSE_OR_POP: opJumpIfFalseOrPop,

	opcode.POP_JUMP_FORWARD_IF_TRUE:   opPopJumpForwardIfTrue,
	opcode.POP_JUMP_FORWARD_IF_FALSE:  opPopJumpForwardIfFalse,
	opcode.POP_JUMP_BACKWARD_IF_TRUE:  opPopJumpBackwardIfTrue,
	opcode.POP_JUMP_BACKWARD_IF_FALSE: opPopJumpBackwardIfFalse,

	opcode.SETUP_LOOP:          setupBlock(BlockLoop),
	opcode.SETUP_EXCEPT:        setupBlock(BlockExcept),
	opcode.SETUP_FINALLY:       setupBlock(BlockFinally),
	opcode.SETUP_WITH:          opSetupWith,
	opcode.BEFORE_ASYNC_WITH:   opBeforeAsyncWith,
	opcode.WITH_CLEANUP_START:  opWithCleanupStart,
	opcode.WITH_CLEANUP_FINISH: opWithCleanupFinish,
	opcode.POP_BLOCK:           opPopBlock,
	opcode.POP_EXCEPT:          opPopExcept,
	opcode.END_FINALLY:         opEndFinally,
	opcode.RAISE_VARARGS:       opRaiseVarargs,
	opcode.RERAISE:             opReraise,
	opcode.CHECK_EXC_MATCH:     opCheckExcMatch,

	opcode.CALL_FUNCTION:    opCallFunction,
	opcode.CALL_FUNCTION_KW: opCallFunctionKW,
	opcode.CALL_FUNCTION_EX: opCallFunctionEx,
	opcode.CALL_METHOD:      opCallMethod,
	opcode.PRECALL:          opPrecall,
	opcode.KW_NAMES:         opKwNames,
	opcode.CALL:             opCall,

	opcode.MAKE_FUNCTION: opMakeFunction,

	opcode.GET_ITER:    opGetIter,
	opcode.FOR_ITER:    opForIter,
	opcode.YIELD_VALUE: opYieldValue,
	opcode.YIELD_FROM:  opYieldFrom,
	opcode.RESUME:      opResume,

	opcode.MATCH_MAPPING:          opMatchMapping,
	opcode.MATCH_SEQUENCE:         opMatchSequence,
	opcode.MATCH_KEYS:             opMatchKeys,
	opcode.COPY_DICT_WITHOUT_KEYS: opCopyDictWithoutKeys,

	opcode.RETURN_VALUE: opReturnValue,
	opcode.CACHE:        opCache,
	opcode.EXTENDED_ARG: opExtendedArg,

	opcode.SWAP:      opSwap,
	opcode.COPY:      opCopy,
	opcode.PUSH_NULL: opPushNull,

	opcode.BINARY_OP: opBinaryOp,
}

var legacyBinaryHandlers = map[opcode.Op]handlerFunc{
	opcode.BINARY_ADD:          binaryHandler(values.Add),
	opcode.BINARY_SUBTRACT:     binaryHandler(values.Sub),
	opcode.BINARY_MULTIPLY:     binaryHandler(values.Mul),
	opcode.BINARY_TRUE_DIVIDE:  binaryHandler(values.TrueDiv),
	opcode.BINARY_FLOOR_DIVIDE: binaryHandler(values.FloorDiv),
	opcode.BINARY_MODULO:       binaryHandler(values.Mod),
	opcode.BINARY_POWER:        binaryHandler(values.Pow),
	opcode.BINARY_LSHIFT:       binaryHandler(values.LShift),
	opcode.BINARY_RSHIFT:       binaryHandler(values.RShift),
	opcode.BINARY_AND:          binaryHandler(values.And),
	opcode.BINARY_OR:           binaryHandler(values.Or),
	opcode.BINARY_XOR:          binaryHandler(values.Xor),

	opcode.INPLACE_ADD:          binaryHandler(values.Add),
	opcode.INPLACE_SUBTRACT:     binaryHandler(values.Sub),
	opcode.INPLACE_MULTIPLY:     binaryHandler(values.Mul),
	opcode.INPLACE_TRUE_DIVIDE:  binaryHandler(values.TrueDiv),
	opcode.INPLACE_FLOOR_DIVIDE: binaryHandler(values.FloorDiv),
	opcode.INPLACE_MODULO:       binaryHandler(values.Mod),
	opcode.INPLACE_POWER:        binaryHandler(values.Pow),
	opcode.INPLACE_LSHIFT:       binaryHandler(values.LShift),
	opcode.INPLACE_RSHIFT:       binaryHandler(values.RShift),
	opcode.INPLACE_AND:          binaryHandler(values.And),
	opcode.INPLACE_OR:           binaryHandler(values.Or),
	opcode.INPLACE_XOR:          binaryHandler(values.Xor),
}

// buildHandlers composes the handler table for a given era: the common
// table, plus the legacy per-operator binary handlers for every era that
// still has dedicated BINARY_*/INPLACE_* opcodes (everything before
// v311), plus whatever else that era's opcode set needs that the common
// table doesn't already cover.
func buildHandlers(era opcode.Era) map[opcode.Op]handlerFunc {
	h := make(map[opcode.Op]handlerFunc, len(commonHandlers)+len(legacyBinaryHandlers))
	for op, fn := range commonHandlers {
		h[op] = fn
	}
	if era != opcode.EraV311 {
		for op, fn := range legacyBinaryHandlers {
			h[op] = fn
		}
	}
	return h
}

// StackFormatter renders a human-readable operand summary for one
// instruction, the recovered stack_fmt feature (SPEC_FULL.md §4). A Thread
// builds its set at construction; nothing in this module calls them, not
// the dispatch loop and not lang/asm's Dasm.
type StackFormatter func(f *Frame, instr Instruction) string

func buildStackFormatters(era opcode.Era) map[opcode.Op]StackFormatter {
	return map[opcode.Op]StackFormatter{
		opcode.LOAD_CONST: func(f *Frame, instr Instruction) string {
			return fmt.Sprintf("(%s)", f.constAt(instr.Arg).String())
		},
		opcode.LOAD_FAST: func(f *Frame, instr Instruction) string {
			return fmt.Sprintf("(%s)", f.Code.Varnames[instr.Arg])
		},
		opcode.LOAD_NAME: func(f *Frame, instr Instruction) string {
			return fmt.Sprintf("(%s)", f.Code.Names[instr.Arg])
		},
		opcode.LOAD_GLOBAL: func(f *Frame, instr Instruction) string {
			return fmt.Sprintf("(%s)", f.Code.Names[instr.Arg])
		},
		opcode.MAKE_FUNCTION: func(f *Frame, instr Instruction) string {
			if len(f.Stack) == 0 {
				return ""
			}
			return fmt.Sprintf("(%s)", f.top().String())
		},
		opcode.COMPARE_OP: func(f *Frame, instr Instruction) string {
			return fmt.Sprintf("(%s)", opcode.CompareOp(instr.Arg))
		},
	}
}
