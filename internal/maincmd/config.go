package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/pyvm/internal/vmconfig"
)

// Config implements the "config" command: resolve the current
// environment-derived vmconfig.Config (ignoring --config, since the
// point is to seed a new file from the environment) and write it as YAML
// to args[0], for a user to hand-edit and then pass back via --config.
func (c *Cmd) Config(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := vmconfig.Load("")
	if err != nil {
		return printError(stdio, err)
	}
	if err := vmconfig.WriteYAML(args[0], cfg); err != nil {
		return printError(stdio, err)
	}
	fmt.Fprintf(stdio.Stdout, "wrote %s\n", args[0])
	return nil
}
