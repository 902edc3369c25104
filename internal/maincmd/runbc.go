package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/diag"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/vm"
)

// RunBytecode loads a previously compiled chunk from args[0] and runs it on
// the VM directly, skipping the scan/parse/check/compile phases entirely:
// spec.md §6's `prog --run <in.zbc>`.
func (c *Cmd) RunBytecode(ctx context.Context, stdio mainer.Stdio, cfg Config, args []string) mainer.ExitCode {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitRuntime
	}
	chk, err := compiler.Decode(data)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitCompile
	}

	m := vm.New()
	m.Stdout = stdio.Stdout
	m.Debug = cfg.Debug
	applyLimits(m, cfg)
	if _, err := m.Run(ctx, chk); err != nil {
		printErr(stdio, diag.FromVMError(err.(*vm.Error)))
		return exitRuntime
	}
	return mainer.Success
}
