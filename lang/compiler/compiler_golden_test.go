package compiler_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/zero/internal/filetest"
	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/parser"
	"github.com/mna/zero/lang/token"
)

func readTestdata(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

var testUpdateCompilerTests = flag.Bool("test.update-compiler-tests", false, "If set, replace expected compiler golden-file results with actual results.")

// TestCompileGolden compiles every testdata/in/*.zero fixture and checks the
// resulting error (or its absence, for a program that compiles cleanly)
// against the matching testdata/out/<name>.err golden file. This exercises
// the same golden-file harness the teacher repo used for its scanner and
// parser tests, repurposed here for the checker/compiler error text that
// internal/diag's codes.go renders diagnostics from.
func TestCompileGolden(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".zero") {
		t.Run(fi.Name(), func(t *testing.T) {
			fset := token.NewFileSet()
			src := readTestdata(t, filepath.Join(srcDir, fi.Name()))

			chunk, err := parser.ParseChunk(fset, fi.Name(), src)
			var errStr string
			if err == nil {
				_, err = compiler.Compile(chunk)
			}
			if err != nil {
				errStr = err.Error()
			}
			filetest.DiffErrors(t, fi, errStr, resultDir, testUpdateCompilerTests)
		})
	}
}
