package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/mna/zero/lang/token"
)

// Check runs the scanner, parser and type checker over args[0] and reports
// the first failure, without compiling or running anything.
func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, cfg Config, args []string) mainer.ExitCode {
	src, code, ok := readSource(stdio, args[0])
	if !ok {
		return code
	}
	fset := token.NewFileSet()
	chunk, file, code, ok := frontend(stdio, fset, args[0], src)
	if !ok {
		return code
	}
	if code, ok := typecheck(stdio, chunk, file); !ok {
		return code
	}
	return mainer.Success
}
