package diag_test

import (
	"strings"
	"testing"

	"github.com/mna/zero/internal/diag"
	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/interp"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/vm"
	"github.com/stretchr/testify/require"
)

func TestCodesSortedAndComplete(t *testing.T) {
	codes := diag.Codes()
	require.NotEmpty(t, codes)
	for i := 1; i < len(codes); i++ {
		require.True(t, codes[i-1] < codes[i], "codes must be sorted: %s >= %s", codes[i-1], codes[i])
	}
	for _, c := range codes {
		entry, ok := diag.Lookup(c)
		require.True(t, ok)
		require.NotEmpty(t, entry.Title)
	}
}

func TestFromCheckerErrorMapsCode(t *testing.T) {
	fset := token.NewFileSet()
	file := fset.AddFile("t.zero", 0, 10)
	file.AddLine(0)
	err := &checker.Error{Kind: checker.UndefinedVariable, Pos: token.MakePos(1, 1), Msg: `undefined variable "x"`}
	d := diag.FromCheckerError(err, file)
	require.Equal(t, diag.Code("T002"), d.Code)
	require.Equal(t, diag.PhaseChecker, d.Phase)
	require.Contains(t, d.Simple(), "T002")
}

func TestFromVMErrorMapsCode(t *testing.T) {
	err := &vm.Error{Kind: vm.DivisionByZero, Line: 3, Msg: "division by zero"}
	d := diag.FromVMError(err)
	require.Equal(t, diag.Code("R005"), d.Code)
	require.Equal(t, diag.PhaseRuntime, d.Phase)
	require.Contains(t, d.Simple(), "R005")
}

func TestDetailedRendersSourceSnippetAndCaret(t *testing.T) {
	fset := token.NewFileSet()
	src := []byte("let x = 1;\nlet y = x + z;\n")
	file := fset.AddFile("t.zero", 0, len(src))
	for i, b := range src {
		if b == '\n' {
			file.AddLine(i + 1)
		}
	}
	err := &checker.Error{Kind: checker.UndefinedVariable, Pos: file.Pos(23), Msg: `undefined variable "z"`}
	d := diag.FromCheckerError(err, file)
	out := d.Detailed(src)
	require.Contains(t, out, "T002")
	require.Contains(t, out, "let y = x + z;")
	require.Contains(t, out, "^")
	require.True(t, strings.Contains(out, "help:"))
}

func TestFromInterpErrorSharesVMCodes(t *testing.T) {
	err := &interp.Error{Kind: vm.UndefinedVariable, Line: 5, Msg: `undefined variable "q"`}
	d := diag.FromInterpError(err)
	require.Equal(t, diag.Code("R004"), d.Code)
	require.Equal(t, diag.PhaseRuntime, d.Phase)

	var asErr error = err
	require.Equal(t, d, diag.FromError(asErr, nil))
}

func TestSimpleHasNoSourceSnippet(t *testing.T) {
	err := &vm.Error{Kind: vm.StackUnderflow, Line: 1, Msg: "pop on empty stack"}
	d := diag.FromVMError(err)
	require.NotContains(t, d.Simple(), "\n")
}
