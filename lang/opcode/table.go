package opcode

// Table is the resolved opcode table for one (Version, Variant) pair: which
// opcodes exist, how the decoder should interpret each one's raw argument,
// and the handful of version-sensitive scalars the decoder needs.
type Table struct {
	Version Version
	Variant Variant
	Era     Era
	ArgEnc  ArgEncoding

	// DoubleJump reports whether a decoded jump argument must be multiplied
	// by two to get a byte offset (≥3.10's doubled "instruction units").
	DoubleJump bool

	valid map[Op]bool
	kind  map[Op]OpKind
}

// Valid reports whether op is a legal opcode in this table.
func (t *Table) Valid(op Op) bool { return t.valid[op] }

// Kind reports how the decoder should resolve op's raw argument. Callers
// should only consult Kind for an op that Valid reports true for.
func (t *Table) Kind(op Op) OpKind { return t.kind[op] }

// HasArgument reports whether op carries an argument at all. In this
// module every opcode except the handful in noArgOps takes one (unused
// slots are simply ignored by the corresponding handler), mirroring
// xdis' "HAVE_ARGUMENT" cutoff generalized to a per-opcode predicate
// instead of a single numeric threshold, since opcode numbers here are
// not ordered the way CPython's opcode.h orders them.
func (t *Table) HasArgument(op Op) bool { return !noArgOps[op] }

var noArgOps = map[Op]bool{
	NOP: true, POP_TOP: true, DUP_TOP: true, DUP_TOP_TWO: true,
	ROT_TWO: true, ROT_THREE: true, ROT_FOUR: true, PUSH_NULL: true,
	UNARY_POSITIVE: true, UNARY_NEGATIVE: true, UNARY_NOT: true, UNARY_INVERT: true,
	BINARY_ADD: true, BINARY_SUBTRACT: true, BINARY_MULTIPLY: true,
	BINARY_TRUE_DIVIDE: true, BINARY_FLOOR_DIVIDE: true, BINARY_MODULO: true,
	BINARY_POWER: true, BINARY_LSHIFT: true, BINARY_RSHIFT: true,
	BINARY_AND: true, BINARY_OR: true, BINARY_XOR: true, BINARY_SUBSCR: true,
	INPLACE_ADD: true, INPLACE_SUBTRACT: true, INPLACE_MULTIPLY: true,
	INPLACE_TRUE_DIVIDE: true, INPLACE_FLOOR_DIVIDE: true, INPLACE_MODULO: true,
	INPLACE_POWER: true, INPLACE_LSHIFT: true, INPLACE_RSHIFT: true,
	INPLACE_AND: true, INPLACE_OR: true, INPLACE_XOR: true,
	STORE_SUBSCR: true, DELETE_SUBSCR: true,
	GET_ITER: true, YIELD_VALUE: true, YIELD_FROM: true,
	POP_BLOCK: true, POP_EXCEPT: true, END_FINALLY: true,
	WITH_CLEANUP_START: true, WITH_CLEANUP_FINISH: true, BEFORE_ASYNC_WITH: true,
	RETURN_VALUE:           true,
	MATCH_MAPPING:          true,
	MATCH_SEQUENCE:         true,
	COPY_DICT_WITHOUT_KEYS: true,
	CACHE:                  true,
}

// baseKind classifies every opcode this module knows about that needs a
// table lookup to resolve its argument; opcodes absent from this map use
// KindPlain (the raw integer, used as-is or ignored).
var baseKind = map[Op]OpKind{
	LOAD_CONST: KindConst,

	LOAD_NAME: KindName, STORE_NAME: KindName, DELETE_NAME: KindName,
	LOAD_GLOBAL: KindName, STORE_GLOBAL: KindName, DELETE_GLOBAL: KindName,
	LOAD_ATTR: KindName, STORE_ATTR: KindName, DELETE_ATTR: KindName,
	LOAD_METHOD: KindName,

	LOAD_FAST: KindLocal, STORE_FAST: KindLocal, DELETE_FAST: KindLocal,

	LOAD_DEREF: KindFree, STORE_DEREF: KindFree, DELETE_DEREF: KindFree,
	LOAD_CLOSURE: KindFree,

	JUMP_FORWARD:               KindJRel,
	POP_JUMP_FORWARD_IF_TRUE:   KindJRel,
	POP_JUMP_FORWARD_IF_FALSE:  KindJRel,
	FOR_ITER:                   KindJRel,
	SETUP_FINALLY:              KindJRel,
	SETUP_WITH:                 KindJRel,
	SETUP_LOOP:                 KindJRel,
	SETUP_EXCEPT:               KindJRel,

	JUMP_ABSOLUTE:              KindJAbs,
	POP_JUMP_IF_TRUE:           KindJAbs,
	POP_JUMP_IF_FALSE:          KindJAbs,
	JUMP_IF_TRUE_OR_POP:        KindJAbs,
	JUMP_IF_FALSE_OR_POP:       KindJAbs,

	JUMP_BACKWARD:              KindJBack,
	POP_JUMP_BACKWARD_IF_TRUE:  KindJBack,
	POP_JUMP_BACKWARD_IF_FALSE: KindJBack,

	COMPARE_OP: KindCompare,
}

// opsCommon is every opcode present in every era: the stack, control-flow,
// container, call and name/const/local/free families that changed only in
// encoding, not in existence, across the version range this module covers.
var opsCommon = []Op{
	NOP, POP_TOP, DUP_TOP, ROT_TWO, ROT_THREE,
	UNARY_POSITIVE, UNARY_NEGATIVE, UNARY_NOT, UNARY_INVERT,
	STORE_SUBSCR, DELETE_SUBSCR,
	COMPARE_OP,
	BUILD_LIST, BUILD_TUPLE, BUILD_SET, BUILD_MAP,
	LIST_APPEND, SET_ADD, MAP_ADD, UNPACK_SEQUENCE,
	LOAD_CONST, LOAD_NAME, STORE_NAME, DELETE_NAME,
	LOAD_GLOBAL, STORE_GLOBAL, DELETE_GLOBAL,
	LOAD_FAST, STORE_FAST, DELETE_FAST,
	LOAD_ATTR, STORE_ATTR, DELETE_ATTR,
	JUMP_FORWARD, POP_JUMP_IF_TRUE, POP_JUMP_IF_FALSE,
	JUMP_IF_TRUE_OR_POP, JUMP_IF_FALSE_OR_POP,
	SETUP_FINALLY, POP_BLOCK, RAISE_VARARGS,
	MAKE_FUNCTION,
	GET_ITER, FOR_ITER,
	YIELD_VALUE,
	RETURN_VALUE,
	EXTENDED_ARG,
}

func newTable(v Version, variant Variant) *Table {
	t := &Table{
		Version: v,
		Variant: variant,
		Era:     v.Era(),
		valid:   make(map[Op]bool),
		kind:    make(map[Op]OpKind),
	}
	for _, op := range opsCommon {
		t.valid[op] = true
		t.kind[op] = baseKind[op]
	}

	switch t.Era {
	case EraLegacy:
		t.ArgEnc = Arg2Byte
		t.addAll(DUP_TOP_TWO, ROT_FOUR, JUMP_ABSOLUTE,
			BINARY_ADD, BINARY_SUBTRACT, BINARY_MULTIPLY, BINARY_FLOOR_DIVIDE,
			BINARY_MODULO, BINARY_POWER, BINARY_LSHIFT, BINARY_RSHIFT,
			BINARY_AND, BINARY_OR, BINARY_XOR, BINARY_SUBSCR,
			INPLACE_ADD, INPLACE_SUBTRACT, INPLACE_MULTIPLY, INPLACE_FLOOR_DIVIDE,
			INPLACE_MODULO, INPLACE_POWER, INPLACE_LSHIFT, INPLACE_RSHIFT,
			INPLACE_AND, INPLACE_OR, INPLACE_XOR,
			SETUP_LOOP, SETUP_EXCEPT, END_FINALLY,
			CALL_FUNCTION, CALL_FUNCTION_KW, CALL_FUNCTION_EX,
			LOAD_DEREF, STORE_DEREF, LOAD_CLOSURE,
			YIELD_FROM,
		)

	case EraPy3:
		t.ArgEnc = Arg2Byte
		t.addAll(DUP_TOP_TWO, ROT_FOUR, JUMP_ABSOLUTE,
			BINARY_ADD, BINARY_SUBTRACT, BINARY_MULTIPLY, BINARY_TRUE_DIVIDE,
			BINARY_FLOOR_DIVIDE, BINARY_MODULO, BINARY_POWER, BINARY_LSHIFT,
			BINARY_RSHIFT, BINARY_AND, BINARY_OR, BINARY_XOR, BINARY_SUBSCR,
			INPLACE_ADD, INPLACE_SUBTRACT, INPLACE_MULTIPLY, INPLACE_TRUE_DIVIDE,
			INPLACE_FLOOR_DIVIDE, INPLACE_MODULO, INPLACE_POWER, INPLACE_LSHIFT,
			INPLACE_RSHIFT, INPLACE_AND, INPLACE_OR, INPLACE_XOR,
			SETUP_LOOP, SETUP_EXCEPT, SETUP_WITH, END_FINALLY,
			WITH_CLEANUP_START, WITH_CLEANUP_FINISH, BEFORE_ASYNC_WITH,
			CALL_FUNCTION, CALL_FUNCTION_KW, CALL_FUNCTION_EX,
			LOAD_DEREF, STORE_DEREF, LOAD_CLOSURE,
			YIELD_FROM,
		)

	case EraWordcode:
		t.ArgEnc = Arg1ByteWordcode
		t.addAll(DUP_TOP_TWO, ROT_FOUR, JUMP_ABSOLUTE,
			BINARY_ADD, BINARY_SUBTRACT, BINARY_MULTIPLY, BINARY_TRUE_DIVIDE,
			BINARY_FLOOR_DIVIDE, BINARY_MODULO, BINARY_POWER, BINARY_LSHIFT,
			BINARY_RSHIFT, BINARY_AND, BINARY_OR, BINARY_XOR, BINARY_SUBSCR,
			INPLACE_ADD, INPLACE_SUBTRACT, INPLACE_MULTIPLY, INPLACE_TRUE_DIVIDE,
			INPLACE_FLOOR_DIVIDE, INPLACE_MODULO, INPLACE_POWER, INPLACE_LSHIFT,
			INPLACE_RSHIFT, INPLACE_AND, INPLACE_OR, INPLACE_XOR,
			SETUP_WITH, BEFORE_ASYNC_WITH, POP_EXCEPT,
			WITH_CLEANUP_START, WITH_CLEANUP_FINISH,
			CALL_FUNCTION, CALL_FUNCTION_KW, CALL_FUNCTION_EX, CALL_METHOD, LOAD_METHOD,
			LOAD_DEREF, STORE_DEREF, DELETE_DEREF, LOAD_CLOSURE,
			YIELD_FROM,
		)
		if v.AtLeast(V38) {
			t.addAll(RERAISE)
		} else {
			t.addAll(SETUP_LOOP, SETUP_EXCEPT)
		}

	case EraWordcode310:
		t.ArgEnc = Arg1ByteWordcode
		t.DoubleJump = true
		t.addAll(ROT_FOUR, JUMP_BACKWARD,
			BINARY_SUBSCR,
			INPLACE_ADD, INPLACE_SUBTRACT, INPLACE_MULTIPLY, INPLACE_TRUE_DIVIDE,
			INPLACE_FLOOR_DIVIDE, INPLACE_MODULO, INPLACE_POWER, INPLACE_LSHIFT,
			INPLACE_RSHIFT, INPLACE_AND, INPLACE_OR, INPLACE_XOR,
			BINARY_ADD, BINARY_SUBTRACT, BINARY_MULTIPLY, BINARY_TRUE_DIVIDE,
			BINARY_FLOOR_DIVIDE, BINARY_MODULO, BINARY_POWER, BINARY_LSHIFT,
			BINARY_RSHIFT, BINARY_AND, BINARY_OR, BINARY_XOR,
			SETUP_WITH, BEFORE_ASYNC_WITH, POP_EXCEPT, RERAISE,
			WITH_CLEANUP_START, WITH_CLEANUP_FINISH,
			CALL_FUNCTION, CALL_FUNCTION_KW, CALL_FUNCTION_EX, CALL_METHOD, LOAD_METHOD,
			LOAD_DEREF, STORE_DEREF, DELETE_DEREF, LOAD_CLOSURE,
			YIELD_FROM,
			MATCH_MAPPING, MATCH_SEQUENCE, MATCH_KEYS, COPY_DICT_WITHOUT_KEYS,
		)
		// JUMP_ABSOLUTE is neither in opsCommon nor added here; backward
		// jumps are JUMP_BACKWARD.

	case EraV311:
		t.ArgEnc = Arg1ByteWordcode
		t.DoubleJump = true
		t.addAll(SWAP, COPY, PUSH_NULL,
			BINARY_OP,
			POP_JUMP_FORWARD_IF_TRUE, POP_JUMP_FORWARD_IF_FALSE,
			POP_JUMP_BACKWARD_IF_TRUE, POP_JUMP_BACKWARD_IF_FALSE,
			JUMP_BACKWARD,
			SETUP_WITH, BEFORE_ASYNC_WITH, POP_EXCEPT, RERAISE, CHECK_EXC_MATCH,
			WITH_CLEANUP_START, WITH_CLEANUP_FINISH,
			PRECALL, KW_NAMES, CALL,
			LOAD_DEREF, STORE_DEREF, DELETE_DEREF, LOAD_CLOSURE,
			YIELD_FROM, RESUME,
			MATCH_MAPPING, MATCH_SEQUENCE, MATCH_KEYS, COPY_DICT_WITHOUT_KEYS,
			CACHE,
		)
		t.kind[BINARY_OP] = KindPlain
		t.kind[CALL] = KindPlain
		t.kind[PRECALL] = KindPlain
		t.kind[KW_NAMES] = KindConst
		t.kind[COPY] = KindPlain
		t.kind[SWAP] = KindPlain
	}

	if variant == PyPy {
		t.addAll(LOAD_METHOD, CALL_METHOD)
		t.kind[LOAD_METHOD] = KindName
	}

	return t
}

func (t *Table) addAll(ops ...Op) {
	for _, op := range ops {
		t.valid[op] = true
		if k, ok := baseKind[op]; ok {
			t.kind[op] = k
		}
	}
}

// Get returns the table for a given version and variant, built fresh each
// call; callers (typically lang/machine.NewThread) build it once and keep it for
// the lifetime of a Thread.
func Get(v Version, variant Variant) *Table {
	return newTable(v, variant)
}
