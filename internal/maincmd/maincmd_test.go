package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/zero/internal/maincmd"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "prog.zero")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func stdio(stdout, stderr *bytes.Buffer) mainer.Stdio {
	return mainer.Stdio{Stdout: stdout, Stderr: stderr}
}

const validProgram = `
fn add(a: int, b: int) -> int {
	return a + b;
}
print(add(2, 3));
`

func TestExecRunsProgram(t *testing.T) {
	path := writeSource(t, t.TempDir(), validProgram)
	var out, errs bytes.Buffer
	var c maincmd.Cmd
	code := c.Main([]string{"zero", path}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Equal(t, "5\n", out.String())
	require.Empty(t, errs.String())
}

func TestExecReportsTypeErrorWithExitCode3(t *testing.T) {
	path := writeSource(t, t.TempDir(), `print(1 + true);`)
	var out, errs bytes.Buffer
	var c maincmd.Cmd
	code := c.Main([]string{"zero", path}, stdio(&out, &errs))
	require.Equal(t, mainer.ExitCode(3), code)
	require.Contains(t, errs.String(), "T008")
	require.Contains(t, errs.String(), "arithmetic requires numeric operands")
}

func TestExecReportsParseErrorWithExitCode2(t *testing.T) {
	path := writeSource(t, t.TempDir(), `let x = ;`)
	var out, errs bytes.Buffer
	var c maincmd.Cmd
	code := c.Main([]string{"zero", path}, stdio(&out, &errs))
	require.Equal(t, mainer.ExitCode(2), code)
	require.NotEmpty(t, errs.String())
}

func TestOldRunsProgramOnInterpreter(t *testing.T) {
	path := writeSource(t, t.TempDir(), validProgram)
	var out, errs bytes.Buffer
	c := maincmd.Cmd{Old: true}
	code := c.Main([]string{"zero", "--old", path}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Equal(t, "5\n", out.String())
}

func TestCompileThenRunBytecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, validProgram)
	bc := filepath.Join(dir, "prog.zbc")

	var out, errs bytes.Buffer
	c := maincmd.Cmd{Compile: true}
	code := c.Main([]string{"zero", "--compile", src, bc}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Empty(t, out.String())

	data, err := os.ReadFile(bc)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	out.Reset()
	errs.Reset()
	c2 := maincmd.Cmd{RunBC: true}
	code = c2.Main([]string{"zero", "--run", bc}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Equal(t, "5\n", out.String())
}

func TestTokensDumpsTokens(t *testing.T) {
	path := writeSource(t, t.TempDir(), `let x = 1;`)
	var out, errs bytes.Buffer
	c := maincmd.Cmd{Tokens: true}
	code := c.Main([]string{"zero", "--tokens", path}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out.String(), ": let")
	require.Contains(t, out.String(), ": identifier x")
}

func TestASTDumpsStructure(t *testing.T) {
	path := writeSource(t, t.TempDir(), `let x = 1;`)
	var out, errs bytes.Buffer
	c := maincmd.Cmd{AST: true}
	code := c.Main([]string{"zero", "--ast", path}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out.String(), "VarDeclStmt")
}

func TestCheckReportsSuccessOnValidProgram(t *testing.T) {
	path := writeSource(t, t.TempDir(), validProgram)
	var out, errs bytes.Buffer
	c := maincmd.Cmd{Check: true}
	code := c.Main([]string{"zero", "--check", path}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Empty(t, errs.String())
}

func TestCheckReportsTypeErrorWithoutRunning(t *testing.T) {
	path := writeSource(t, t.TempDir(), `print(1 + true);`)
	var out, errs bytes.Buffer
	c := maincmd.Cmd{Check: true}
	code := c.Main([]string{"zero", "--check", path}, stdio(&out, &errs))
	require.Equal(t, mainer.ExitCode(3), code)
	require.Empty(t, out.String())
	require.NotEmpty(t, errs.String())
}

func TestValidateRejectsMultipleModeFlags(t *testing.T) {
	c := maincmd.Cmd{Old: true, Check: true}
	c.SetArgs([]string{"prog.zero"})
	err := c.Validate()
	require.Error(t, err)
}

func TestValidateRejectsWrongArgCount(t *testing.T) {
	var c maincmd.Cmd
	c.SetArgs(nil)
	err := c.Validate()
	require.Error(t, err)
}

func TestValidateRejectsCompileWithOneArg(t *testing.T) {
	c := maincmd.Cmd{Compile: true}
	c.SetArgs([]string{"only_one.zero"})
	err := c.Validate()
	require.Error(t, err)
}

func TestZeroDebugEnvPrintsDisassembly(t *testing.T) {
	t.Setenv("ZERO_DEBUG", "1")
	path := writeSource(t, t.TempDir(), validProgram)
	var out, errs bytes.Buffer
	var c maincmd.Cmd
	code := c.Main([]string{"zero", path}, stdio(&out, &errs))
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out.String(), "== <toplevel> ==")
}
