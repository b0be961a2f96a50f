package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/pyvm/lang/asm"
	"github.com/mna/pyvm/lang/machine"
	"github.com/mna/pyvm/lang/values"
)

// Run implements the "run" command: assemble the program at args[0] and
// execute it, printing the returned value to stdout.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	v, variant, cfg, err := c.resolveTarget()
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

	th := machine.NewThread(ctx,
		machine.WithVersion(v),
		machine.WithVariant(variant),
		machine.WithMaxSteps(uint64(cfg.MaxSteps)),
		machine.WithMaxCallDepth(cfg.MaxDepth),
	)
	result, err := th.RunCode(prog, values.NewDict(0))
	if err != nil {
		return printError(stdio, err)
	}
	fmt.Fprintln(stdio.Stdout, result.String())
	return nil
}
