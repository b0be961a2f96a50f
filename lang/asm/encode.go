package asm

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/mna/pyvm/lang/code"
	"github.com/mna/pyvm/lang/opcode"
)

// layoutInsn is a rawInsn resolved to an opcode and laid out at a byte
// offset. Every instruction is assumed to fit in its era's base width (no
// EXTENDED_ARG emission): this assembler targets hand-written fixtures and
// cmd/pyvm demo programs, none of which need an operand or jump distance
// over 65535 (2-byte eras) or 255 (wordcode eras). lang/machine's decoder
// handles EXTENDED_ARG-prefixed code perfectly well; this package simply
// never needs to emit it.
type layoutInsn struct {
	rawInsn
	op     opcode.Op
	offset int
	size   int
}

var compareNames = map[string]int{
	"LT": 0, "LE": 1, "EQ": 2, "NE": 3, "GT": 4, "GE": 5,
}

// encode lays out insns against tbl and writes the resulting bytes into c.
func encode(c *code.Code, tbl *opcode.Table, insns []rawInsn) error {
	labels := map[string]int{}

	layout := make([]layoutInsn, 0, len(insns))
	offset := 0
	for _, ri := range insns {
		if ri.label != "" {
			labels[ri.label] = offset
		}
		if ri.mnemonic == "" {
			continue
		}
		op, ok := opcode.ParseName(ri.mnemonic)
		if !ok {
			return fmt.Errorf("line %d: unknown mnemonic %q", ri.line, ri.mnemonic)
		}
		if !tbl.Valid(op) {
			return fmt.Errorf("line %d: opcode %s not valid for this version", ri.line, op)
		}
		size := baseSize(tbl, op)
		layout = append(layout, layoutInsn{rawInsn: ri, op: op, offset: offset, size: size})
		offset += size
	}

	buf := make([]byte, 0, offset)
	for _, li := range layout {
		next := li.offset + li.size
		arg, err := resolveOperand(c, tbl, li, next, labels)
		if err != nil {
			return err
		}
		maxArg := maxArgFor(tbl)
		if arg < 0 || arg > maxArg {
			return fmt.Errorf("line %d: operand %d out of range [0,%d] for this version's encoding (EXTENDED_ARG emission is not supported by this assembler)", li.line, arg, maxArg)
		}
		buf = append(buf, byte(li.op))
		switch tbl.ArgEnc {
		case opcode.Arg2Byte:
			if tbl.HasArgument(li.op) {
				buf = append(buf, byte(arg&0xFF), byte((arg>>8)&0xFF))
			}
		default: // Arg1ByteWordcode
			buf = append(buf, byte(arg&0xFF))
		}
	}
	c.Instructions = buf
	return nil
}

func maxArgFor(tbl *opcode.Table) int {
	if tbl.ArgEnc == opcode.Arg2Byte {
		return 0xFFFF
	}
	return 0xFF
}

// baseSize is the instruction's encoded width.
func baseSize(tbl *opcode.Table, op opcode.Op) int {
	switch tbl.ArgEnc {
	case opcode.Arg2Byte:
		if tbl.HasArgument(op) {
			return 3
		}
		return 1
	default: // Arg1ByteWordcode: always opcode byte + arg byte
		return 2
	}
}

func resolveOperand(c *code.Code, tbl *opcode.Table, li layoutInsn, next int, labels map[string]int) (int, error) {
	op := li.op
	operand := strings.TrimSpace(li.operand)
	kind := tbl.Kind(op)

	switch kind {
	case opcode.KindJRel:
		target, err := resolveLabel(operand, labels, li.line)
		if err != nil {
			return 0, err
		}
		arg := target - next
		if arg < 0 {
			return 0, fmt.Errorf("line %d: forward jump target %s is behind the instruction", li.line, operand)
		}
		return doubleIfNeeded(tbl, arg), nil
	case opcode.KindJAbs:
		target, err := resolveLabel(operand, labels, li.line)
		if err != nil {
			return 0, err
		}
		return doubleIfNeeded(tbl, target), nil
	case opcode.KindJBack:
		target, err := resolveLabel(operand, labels, li.line)
		if err != nil {
			return 0, err
		}
		arg := next - target
		if arg < 0 {
			return 0, fmt.Errorf("line %d: backward jump target %s is ahead of the instruction", li.line, operand)
		}
		return doubleIfNeeded(tbl, arg), nil
	case opcode.KindName:
		return resolveOrAppend(&c.Names, operand), nil
	case opcode.KindLocal:
		return resolveOrAppend(&c.Varnames, operand), nil
	case opcode.KindFree:
		if idx, ok := indexOf(c.Cellvars, operand); ok {
			return idx, nil
		}
		if idx, ok := indexOf(c.Freevars, operand); ok {
			return len(c.Cellvars) + idx, nil
		}
		return resolveOrAppend(&c.Freevars, operand) + len(c.Cellvars), nil
	case opcode.KindCompare:
		if n, ok := compareNames[strings.ToUpper(operand)]; ok {
			return n, nil
		}
		return parseInt(operand, li.line)
	default: // KindConst, KindPlain
		return parseInt(operand, li.line)
	}
}

func doubleIfNeeded(tbl *opcode.Table, v int) int {
	if tbl.DoubleJump {
		return v / 2
	}
	return v
}

func resolveLabel(operand string, labels map[string]int, line int) (int, error) {
	name := strings.TrimPrefix(operand, "@")
	off, ok := labels[name]
	if !ok {
		return 0, fmt.Errorf("line %d: undefined label %q", line, operand)
	}
	return off, nil
}

func resolveOrAppend(list *[]string, operand string) int {
	if idx, ok := indexOf(*list, operand); ok {
		return idx
	}
	if n, err := strconv.Atoi(operand); err == nil {
		return n
	}
	*list = append(*list, operand)
	return len(*list) - 1
}

func indexOf(list []string, name string) (int, bool) {
	i := slices.Index(list, name)
	return i, i >= 0
}

func parseInt(operand string, line int) (int, error) {
	if operand == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(operand)
	if err != nil {
		return 0, fmt.Errorf("line %d: operand %q is not an integer", line, operand)
	}
	return n, nil
}
