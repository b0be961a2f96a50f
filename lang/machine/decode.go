package machine

import (
	"github.com/mna/pyvm/lang/opcode"
)

// Instruction is one decoded instruction: the resolved opcode, its raw
// argument (already EXTENDED_ARG-accumulated and, for ≥3.10, already
// doubled for jump kinds), and the offset of the following instruction.
type Instruction struct {
	Op     opcode.Op
	Arg    int
	Offset int // offset this instruction started at, for line-table lookups
	Next   int // offset of the following instruction
}

// decode implements spec.md §4.2: it reads one logical instruction
// starting at ip, transparently consuming any EXTENDED_ARG prefixes first.
func (t *Thread) decode(f *Frame, ip int) (Instruction, error) {
	code := f.Code.Instructions
	tbl := t.table

	arg := 0
	start := ip
	for {
		if ip >= len(code) {
			return Instruction{}, internalf("decode", "instruction pointer %d past end of code (len %d)", ip, len(code))
		}
		op := opcode.Op(code[ip])
		ip++

		var rawArg int
		switch tbl.ArgEnc {
		case opcode.Arg2Byte:
			if tbl.HasArgument(op) {
				if ip+1 >= len(code) {
					return Instruction{}, internalf("decode", "truncated 2-byte argument at offset %d", ip)
				}
				rawArg = int(code[ip]) | int(code[ip+1])<<8
				ip += 2
			}
		case opcode.Arg1ByteWordcode:
			if ip >= len(code) {
				return Instruction{}, internalf("decode", "truncated wordcode argument at offset %d", ip)
			}
			rawArg = int(code[ip])
			ip++
		}

		if op == opcode.EXTENDED_ARG {
			shift := 16
			if tbl.ArgEnc == opcode.Arg1ByteWordcode {
				shift = 8
			}
			arg = (arg << shift) | rawArg
			continue
		}

		arg |= rawArg
		if !tbl.Valid(op) {
			return Instruction{}, internalf("decode", "opcode %s not valid for version %s", op, t.Version)
		}

		// Per spec.md §9 Open Question (ii): doubling is applied exactly
		// once to the fully-accumulated argument, not per EXTENDED_ARG
		// prefix.
		if tbl.DoubleJump {
			switch tbl.Kind(op) {
			case opcode.KindJRel, opcode.KindJAbs, opcode.KindJBack:
				arg *= 2
			}
		}

		return Instruction{Op: op, Arg: arg, Offset: start, Next: ip}, nil
	}
}
