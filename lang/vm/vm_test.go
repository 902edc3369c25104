package vm_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/parser"
	"github.com/mna/zero/lang/token"
	"github.com/mna/zero/lang/vm"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) string {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(src))
	require.NoError(t, err)
	code, err := compiler.Compile(chunk)
	require.NoError(t, err)

	var out bytes.Buffer
	m := vm.New()
	m.Stdout = &out
	_, err = m.Run(context.Background(), code)
	require.NoError(t, err)
	return out.String()
}

func TestRunArithmeticAndPrint(t *testing.T) {
	out := run(t, `let x = 10; let y = 20; print(x + y);`)
	require.Equal(t, "30\n", out)
}

func TestRunFunctionCall(t *testing.T) {
	out := run(t, `
fn add(a: int, b: int) -> int {
	return a + b;
}
print(add(5, 3));`)
	require.Equal(t, "8\n", out)
}

func TestRunWhileLoop(t *testing.T) {
	out := run(t, `
var i = 0;
while i < 3 {
	print(i);
	i = i + 1;
}`)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestRunRecursion(t *testing.T) {
	out := run(t, `
fn fact(n: int) -> int {
	if n <= 1 {
		return 1;
	}
	return n * fact(n - 1);
}
print(fact(5));`)
	require.Equal(t, "120\n", out)
}

func TestRunArrayMutationAndNegativeIndex(t *testing.T) {
	out := run(t, `
var a = [1, 2, 3];
a[1] = 99;
print(a[1]);
print(a[-1]);`)
	require.Equal(t, "99\n3\n", out)
}

func TestRunStructFieldSum(t *testing.T) {
	out := run(t, `
struct P { x: int, y: int };
let p = P { x: 1, y: 2 };
print(p.x + p.y);`)
	require.Equal(t, "3\n", out)
}

func TestRunStructDisplay(t *testing.T) {
	out := run(t, `
struct P { x: int, y: int };
let p = P { x: 1, y: 2 };
print(p);`)
	require.Equal(t, "{x: 1, y: 2}\n", out)
}

func TestRunMethodCall(t *testing.T) {
	out := run(t, `
struct Counter { n: int };
impl Counter {
	fn get(self) -> int {
		return self.n;
	}
}
let c = Counter { n: 7 };
print(c.get());`)
	require.Equal(t, "7\n", out)
}

func TestRunForLoopBreakAndContinue(t *testing.T) {
	out := run(t, `
for i in 0..5 {
	if i == 3 {
		break;
	}
	if i == 1 {
		continue;
	}
	print(i);
}`)
	require.Equal(t, "0\n2\n", out)
}

func TestRunIndexOutOfBoundsIsRuntimeError(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(`let a = [1]; print(a[5]);`))
	require.NoError(t, err)
	code, err := compiler.Compile(chunk)
	require.NoError(t, err)

	m := vm.New()
	m.Stdout = &bytes.Buffer{}
	_, err = m.Run(context.Background(), code)
	require.Error(t, err)
	var verr *vm.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, vm.InvalidOperation, verr.Kind)
}

func TestRunDivisionByZero(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(`print(1 / 0);`))
	require.NoError(t, err)
	code, err := compiler.Compile(chunk)
	require.NoError(t, err)

	m := vm.New()
	m.Stdout = &bytes.Buffer{}
	_, err = m.Run(context.Background(), code)
	require.Error(t, err)
	var verr *vm.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, vm.DivisionByZero, verr.Kind)
}

func TestRunStepLimitExceeded(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(`
var i = 0;
while i < 1000000 {
	i = i + 1;
}`))
	require.NoError(t, err)
	code, err := compiler.Compile(chunk)
	require.NoError(t, err)

	m := vm.New()
	m.Stdout = &bytes.Buffer{}
	m.MaxSteps = 100
	_, err = m.Run(context.Background(), code)
	require.Error(t, err)
	var verr *vm.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, vm.ResourceExhausted, verr.Kind)
}

func TestAssembleAndRun(t *testing.T) {
	chunk, err := compiler.Assemble(`
constants:
  int 1
  int 2
code:
  LoadConst 0
  LoadConst 1
  Add
  Print
  Halt
`)
	require.NoError(t, err)

	var out bytes.Buffer
	m := vm.New()
	m.Stdout = &out
	_, err = m.Run(context.Background(), chunk)
	require.NoError(t, err)
	require.Equal(t, "3\n", out.String())
}
