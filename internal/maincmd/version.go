package maincmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/pyvm/internal/vmconfig"
	"github.com/mna/pyvm/lang/opcode"
)

// resolveTarget loads vmconfig.Config (environment, overlaid by
// --config's YAML file if given) and resolves it together with the
// --version-target/--variant flags into an opcode.Version/Variant pair:
// an explicit flag always wins, otherwise the config's value applies.
func (c *Cmd) resolveTarget() (opcode.Version, opcode.Variant, *vmconfig.Config, error) {
	cfg, err := vmconfig.Load(c.ConfigPath)
	if err != nil {
		return opcode.Version{}, 0, nil, fmt.Errorf("loading config: %w", err)
	}

	vs := c.VersionTarget
	if vs == "" {
		vs = cfg.Version
	}
	parts := strings.SplitN(vs, ".", 2)
	if len(parts) != 2 {
		return opcode.Version{}, 0, nil, fmt.Errorf("invalid --version-target %q, expected major.minor", vs)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return opcode.Version{}, 0, nil, fmt.Errorf("invalid --version-target %q: %w", vs, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return opcode.Version{}, 0, nil, fmt.Errorf("invalid --version-target %q: %w", vs, err)
	}
	v := opcode.Version{Major: major, Minor: minor}

	variantName := c.Variant
	if variantName == "" {
		variantName = cfg.Variant
	}
	variant := opcode.CPython
	switch strings.ToLower(variantName) {
	case "", "cpython":
		variant = opcode.CPython
	case "pypy":
		variant = opcode.PyPy
	default:
		return opcode.Version{}, 0, nil, fmt.Errorf("unknown --variant %q", variantName)
	}
	return v, variant, cfg, nil
}
