// Package asm is a small textual assembler/disassembler for lang/code.Code
// objects, used to build test fixtures and to drive cmd/pyvm without a
// front-end compiler (spec.md §6 accepts Code objects as already
// compiled; this package is the test/demo convenience that produces them
// by hand, mirroring the teacher's lang/compiler asm.go/Dasm pair).
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/pyvm/lang/code"
	"github.com/mna/pyvm/lang/opcode"
	"github.com/mna/pyvm/lang/values"
)

// Source sections, one per line starting with "name:" at column 0; the
// "code:" section runs until the next such line or end of input.
const (
	secName     = "name"
	secFilename = "filename"
	secArgcount = "argcount"
	secKwonly   = "kwonlyargcount"
	secFlags    = "flags"
	secConsts   = "constants"
	secNames    = "names"
	secVarnames = "varnames"
	secCells    = "cellvars"
	secFree     = "freevars"
	secCode     = "code"
)

var flagNames = map[string]code.Flags{
	"newlocals": code.FlagNewLocals,
	"varargs":   code.FlagVarargs,
	"varkw":     code.FlagVarKeywords,
	"generator": code.FlagGenerator,
}

type rawInsn struct {
	label   string // label defined at this instruction, if any
	mnemonic string
	operand string // raw operand text: integer, quoted string ref, or @label
	line    int
}

// Assemble parses src (see the section constants above for its format) into a
// Code object, resolving jump operands (`@label`) against the version's
// opcode table so the emitted bytes match exactly what lang/machine's
// decoder for that table expects.
func Assemble(v opcode.Version, variant opcode.Variant, src string) (*code.Code, error) {
	tbl := opcode.Get(v, variant)

	c := &code.Code{}
	var rawConsts []string
	var insns []rawInsn

	lines := strings.Split(src, "\n")
	section := ""
	for lineNo, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !strings.HasPrefix(line, "\t") && !strings.HasPrefix(line, "    ") && strings.Contains(trimmed, ":") && isSectionHeader(trimmed) {
			parts := strings.SplitN(trimmed, ":", 2)
			section = strings.TrimSpace(parts[0])
			rest := strings.TrimSpace(parts[1])
			if err := applySectionHeader(c, section, rest, &rawConsts); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			continue
		}
		switch section {
		case secCode:
			insn, err := parseInsnLine(trimmed, lineNo+1)
			if err != nil {
				return nil, err
			}
			insns = append(insns, insn)
		case secConsts:
			rawConsts = append(rawConsts, splitCSV(trimmed)...)
		case secNames:
			c.Names = append(c.Names, splitCSV(trimmed)...)
		case secVarnames:
			c.Varnames = append(c.Varnames, splitCSV(trimmed)...)
		case secCells:
			c.Cellvars = append(c.Cellvars, splitCSV(trimmed)...)
		case secFree:
			c.Freevars = append(c.Freevars, splitCSV(trimmed)...)
		}
	}

	consts, err := parseConsts(rawConsts)
	if err != nil {
		return nil, err
	}
	c.Consts = consts

	if err := encode(c, tbl, insns); err != nil {
		return nil, err
	}
	return c, nil
}

func isSectionHeader(trimmed string) bool {
	name := strings.TrimSpace(strings.SplitN(trimmed, ":", 2)[0])
	switch name {
	case secName, secFilename, secArgcount, secKwonly, secFlags, secConsts, secNames, secVarnames, secCells, secFree, secCode:
		return true
	default:
		return false
	}
}

func applySectionHeader(c *code.Code, section, rest string, rawConsts *[]string) error {
	switch section {
	case secName:
		c.Name = rest
	case secFilename:
		c.Filename = rest
	case secArgcount:
		n, err := strconv.Atoi(rest)
		if err != nil {
			return err
		}
		c.ArgCount = n
	case secKwonly:
		n, err := strconv.Atoi(rest)
		if err != nil {
			return err
		}
		c.KwOnlyCount = n
	case secFlags:
		for _, name := range splitCSV(rest) {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			fl, ok := flagNames[name]
			if !ok {
				return fmt.Errorf("unknown flag %q", name)
			}
			c.Flags |= fl
		}
	case secConsts:
		*rawConsts = append(*rawConsts, splitCSV(rest)...)
	case secNames:
		c.Names = append(c.Names, splitCSV(rest)...)
	case secVarnames:
		c.Varnames = append(c.Varnames, splitCSV(rest)...)
	case secCells:
		c.Cellvars = append(c.Cellvars, splitCSV(rest)...)
	case secFree:
		c.Freevars = append(c.Freevars, splitCSV(rest)...)
	}
	return nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseConsts(raw []string) ([]interface{}, error) {
	out := make([]interface{}, len(raw))
	for i, r := range raw {
		v, err := parseConst(r)
		if err != nil {
			return nil, fmt.Errorf("constant %d (%q): %w", i, r, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseConst(r string) (values.Value, error) {
	switch {
	case r == "None":
		return values.None, nil
	case r == "True":
		return values.Bool(true), nil
	case r == "False":
		return values.Bool(false), nil
	case strings.HasPrefix(r, `"`) && strings.HasSuffix(r, `"`) && len(r) >= 2:
		return values.Str(r[1 : len(r)-1]), nil
	default:
		if i, err := strconv.ParseInt(r, 10, 64); err == nil {
			return values.Int(i), nil
		}
		if f, err := strconv.ParseFloat(r, 64); err == nil {
			return values.Float(f), nil
		}
		return nil, fmt.Errorf("unrecognized constant literal")
	}
}

func parseInsnLine(line string, lineNo int) (rawInsn, error) {
	label := ""
	if colon := strings.Index(line, ":"); colon >= 0 && !strings.Contains(line[:colon], " ") {
		label = strings.TrimSpace(line[:colon])
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return rawInsn{label: label, line: lineNo}, nil
		}
	}
	fields := strings.Fields(line)
	insn := rawInsn{label: label, mnemonic: fields[0], line: lineNo}
	if len(fields) > 1 {
		insn.operand = strings.Join(fields[1:], " ")
	}
	return insn, nil
}
