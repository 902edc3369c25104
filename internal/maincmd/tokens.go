package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/diag"
	"github.com/mna/zero/lang/scanner"
	"github.com/mna/zero/lang/token"
)

// Tokens dumps every token the scanner produces for args[0], one per line,
// the debugging aid behind the teacher's own `tokenize` command.
func (c *Cmd) Tokens(ctx context.Context, stdio mainer.Stdio, cfg Config, args []string) mainer.ExitCode {
	src, code, ok := readSource(stdio, args[0])
	if !ok {
		return code
	}
	fset := token.NewFileSet()
	toks, err := scanner.ScanFile(ctx, fset, args[0], src)
	file := fset.File(args[0])
	for _, tv := range toks {
		fmt.Fprintf(stdio.Stdout, "%s: %s", file.Position(tv.Value.Pos), tv.Token)
		if lit := tv.Token.Literal(tv.Value); lit != "" {
			fmt.Fprintf(stdio.Stdout, " %s", lit)
		}
		fmt.Fprintln(stdio.Stdout)
	}
	if err != nil {
		printErr(stdio, diag.FromError(err, file))
		return exitScanParse
	}
	return mainer.Success
}
