package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/diag"
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/interp"
	"github.com/mna/zero/lang/token"
)

// Old runs args[0] through the legacy tree-walking interpreter instead of
// the VM, spec.md §6's `prog --old <source>`.
func (c *Cmd) Old(ctx context.Context, stdio mainer.Stdio, cfg Config, args []string) mainer.ExitCode {
	src, code, ok := readSource(stdio, args[0])
	if !ok {
		return code
	}
	fset := token.NewFileSet()
	chunk, file, code, ok := frontend(stdio, fset, args[0], src)
	if !ok {
		return code
	}

	ip := interp.New()
	ip.Stdout = stdio.Stdout
	if cfg.MaxSteps > 0 {
		ip.MaxSteps = uint64(cfg.MaxSteps)
	}
	if _, err := ip.Run(ctx, chunk); err != nil {
		return printInterpErr(stdio, err, file)
	}
	return mainer.Success
}

// printInterpErr mirrors printCompileErr: interp.Run can fail either during
// its own internal checker.CheckWithTypes call (a *checker.Error) or during
// evaluation (an *interp.Error).
func printInterpErr(stdio mainer.Stdio, err error, file *token.File) mainer.ExitCode {
	switch e := err.(type) {
	case *checker.Error:
		printErr(stdio, diag.FromCheckerError(e, file))
		return exitType
	case *interp.Error:
		printErr(stdio, diag.FromInterpError(e))
		return exitRuntime
	default:
		printErr(stdio, diag.FromError(err, file))
		return exitRuntime
	}
}
