package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/diag"
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/parser"
	"github.com/mna/zero/lang/token"
)

// Exit codes distinguish which pipeline phase failed, refining spec.md §6's
// "non-zero on error" the way the teacher's mainer.ExitCode model
// encourages: a caller scripting around this binary can tell a type error
// from a crashed VM without scraping stderr.
const (
	exitRuntime   mainer.ExitCode = 1
	exitScanParse mainer.ExitCode = 2
	exitType      mainer.ExitCode = 3
	exitCompile   mainer.ExitCode = 4
)

// readSource loads filename's contents, printing an I/O failure the same
// way a scan/parse error prints (there is no further phase to distinguish
// it from: the program was never even read).
func readSource(stdio mainer.Stdio, filename string) ([]byte, mainer.ExitCode, bool) {
	src, err := os.ReadFile(filename)
	if err != nil {
		printErr(stdio, diag.FromError(err, nil))
		return nil, exitScanParse, false
	}
	return src, 0, true
}

// frontend scans and parses filename, printing a diagnostic and the
// scan/parse exit code on failure. The returned *token.File resolves bare
// token.Pos values from later phases (checker, compiler) into full
// positions.
func frontend(stdio mainer.Stdio, fset *token.FileSet, filename string, src []byte) (*ast.Chunk, *token.File, mainer.ExitCode, bool) {
	chunk, err := parser.ParseChunk(fset, filename, src)
	if err != nil {
		printErr(stdio, diag.FromError(err, nil))
		return nil, nil, exitScanParse, false
	}
	return chunk, fset.File(filename), 0, true
}

// typecheck runs the checker over chunk, printing the first failure (the
// pipeline halts at the first error throughout, matching spec.md §7).
func typecheck(stdio mainer.Stdio, chunk *ast.Chunk, file *token.File) (mainer.ExitCode, bool) {
	if errs := checker.Check(chunk); len(errs) > 0 {
		printErr(stdio, diag.FromCheckerError(errs[0], file))
		return exitType, false
	}
	return 0, true
}

func printErr(stdio mainer.Stdio, d diag.Diagnostic) {
	fmt.Fprintln(stdio.Stderr, d.Simple())
}
