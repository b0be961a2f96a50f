package asm

import (
	"fmt"
	"strings"

	"github.com/mna/pyvm/lang/code"
	"github.com/mna/pyvm/lang/opcode"
)

// Dasm renders c's bytecode as human-readable listing, one line per
// instruction: offset, line number (when it changes), mnemonic and a
// best-effort operand annotation. It walks the same EXTENDED_ARG
// accumulation and argument-kind rules as lang/machine's decoder, but
// independently (this package does not import lang/machine).
func Dasm(c *code.Code, v opcode.Version, variant opcode.Variant) string {
	tbl := opcode.Get(v, variant)
	var b strings.Builder
	lastLine := int32(-1)

	ip := 0
	arg := 0
	start := ip
	code_ := c.Instructions
	for ip < len(code_) {
		op := opcode.Op(code_[ip])
		ip++
		var rawArg int
		switch tbl.ArgEnc {
		case opcode.Arg2Byte:
			if tbl.HasArgument(op) {
				rawArg = int(code_[ip]) | int(code_[ip+1])<<8
				ip += 2
			}
		default:
			rawArg = int(code_[ip])
			ip++
		}
		if op == opcode.EXTENDED_ARG {
			shift := 8
			if tbl.ArgEnc == opcode.Arg2Byte {
				shift = 16
			}
			arg = (arg << shift) | rawArg
			continue
		}
		arg |= rawArg
		if tbl.DoubleJump {
			switch tbl.Kind(op) {
			case opcode.KindJRel, opcode.KindJAbs, opcode.KindJBack:
				arg *= 2
			}
		}

		line := c.LineForOffset(start)
		lineCol := "   "
		if line != lastLine {
			lineCol = fmt.Sprintf("%3d", line)
			lastLine = line
		}
		fmt.Fprintf(&b, "%s %6d %-28s %s\n", lineCol, start, op, annotate(c, tbl, op, arg, ip))

		arg = 0
		start = ip
	}
	return b.String()
}

func annotate(c *code.Code, tbl *opcode.Table, op opcode.Op, arg, next int) string {
	switch tbl.Kind(op) {
	case opcode.KindConst:
		if arg < len(c.Consts) {
			return fmt.Sprintf("%d (%v)", arg, c.Consts[arg])
		}
	case opcode.KindName:
		if arg < len(c.Names) {
			return fmt.Sprintf("%d (%s)", arg, c.Names[arg])
		}
	case opcode.KindLocal:
		if arg < len(c.Varnames) {
			return fmt.Sprintf("%d (%s)", arg, c.Varnames[arg])
		}
	case opcode.KindFree:
		if arg < len(c.Cellvars) {
			return fmt.Sprintf("%d (%s)", arg, c.Cellvars[arg])
		}
		if i := arg - len(c.Cellvars); i < len(c.Freevars) {
			return fmt.Sprintf("%d (%s)", arg, c.Freevars[i])
		}
	case opcode.KindJRel:
		return fmt.Sprintf("%d (to %d)", arg, next+arg)
	case opcode.KindJAbs:
		return fmt.Sprintf("%d (to %d)", arg, arg)
	case opcode.KindJBack:
		return fmt.Sprintf("%d (to %d)", arg, next-arg)
	case opcode.KindCompare:
		return fmt.Sprintf("%d (%s)", arg, opcode.CompareOp(arg))
	}
	return fmt.Sprintf("%d", arg)
}
