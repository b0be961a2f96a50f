package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/pyvm/lang/asm"
)

// Disasm implements the "disasm" command: assemble the program at args[0]
// and print its disassembly listing instead of running it.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	v, variant, _, err := c.resolveTarget()
	if err != nil {
		return printError(stdio, err)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, err)
	}
	prog, err := asm.Assemble(v, variant, string(src))
	if err != nil {
		return printError(stdio, fmt.Errorf("%s: %w", args[0], err))
	}

	fmt.Fprint(stdio.Stdout, asm.Dasm(prog, v, variant))
	return nil
}
