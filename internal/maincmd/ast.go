package maincmd

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/mna/mainer"
	"github.com/mna/zero/lang/token"
)

// AST dumps the parsed structure of args[0] via go-spew, the same
// pretty-printer the compiler's disassembler uses for nested constants.
func (c *Cmd) AST(ctx context.Context, stdio mainer.Stdio, cfg Config, args []string) mainer.ExitCode {
	src, code, ok := readSource(stdio, args[0])
	if !ok {
		return code
	}
	fset := token.NewFileSet()
	chunk, _, code, ok := frontend(stdio, fset, args[0], src)
	if !ok {
		return code
	}
	fmt.Fprint(stdio.Stdout, spew.Sdump(chunk))
	return mainer.Success
}
