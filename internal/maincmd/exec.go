package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/diag"
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/vm"
)

// Exec is the default command (no mode flag): compile args[0] to bytecode
// and run it on the VM, spec.md §6's `prog <source>`.
func (c *Cmd) Exec(ctx context.Context, stdio mainer.Stdio, cfg Config, args []string) mainer.ExitCode {
	src, code, ok := readSource(stdio, args[0])
	if !ok {
		return code
	}
	fset := token.NewFileSet()
	chunk, file, code, ok := frontend(stdio, fset, args[0], src)
	if !ok {
		return code
	}

	chk, err := compiler.Compile(chunk)
	if err != nil {
		return printCompileErr(stdio, err, file)
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

// applyLimits copies the env-sourced VM ceilings onto m, leaving the VM's
// own defaults in place when the config value is unset (<= 0).
func applyLimits(m *vm.VM, cfg Config) {
	if cfg.MaxStack > 0 {
		m.MaxStack = cfg.MaxStack
	}
	if cfg.MaxSteps > 0 {
		m.MaxSteps = cfg.MaxSteps
	}
}

// printCompileErr renders the failure from compiler.Compile, which may be
// either a *checker.Error (the program never passed type-checking) or a
// *compiler.Error (a structural problem found only during lowering),
// returning the matching phase's exit code.
func printCompileErr(stdio mainer.Stdio, err error, file *token.File) mainer.ExitCode {
	switch e := err.(type) {
	case *checker.Error:
		printErr(stdio, diag.FromCheckerError(e, file))
		return exitType
	case *compiler.Error:
		printErr(stdio, diag.FromCompilerError(e, file))
		return exitCompile
	default:
		printErr(stdio, diag.FromError(err, file))
		return exitCompile
	}
}
