package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/token"
)

// CompileTo compiles args[0] and writes the encoded bytecode to args[1],
// spec.md §6's `prog --compile <source> <out.zbc>`.
func (c *Cmd) CompileTo(ctx context.Context, stdio mainer.Stdio, cfg Config, args []string) mainer.ExitCode {
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

	if cfg.Debug {
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(chk, args[0]))
	}
	if err := os.WriteFile(args[1], compiler.Encode(chk), 0o644); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitCompile
	}
	return mainer.Success
}
