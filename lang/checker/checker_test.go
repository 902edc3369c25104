package checker_test

import (
	"testing"

	"github.com/mna/zero/lang/checker"
	"github.com/mna/zero/lang/parser"
	"github.com/mna/zero/lang/token"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, src string) []*checker.Error {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(src))
	require.NoError(t, err)
	return checker.Check(chunk)
}

func TestCheckValidProgram(t *testing.T) {
	errs := check(t, `
fn add(a: int, b: int) -> int {
	return a + b;
}
print(add(5, 3));`)
	require.Empty(t, errs)
}

func TestCheckVarDeclTypeMismatch(t *testing.T) {
	errs := check(t, `let x: int = "hi";`)
	require.Len(t, errs, 1)
	require.Equal(t, checker.TypeMismatch, errs[0].Kind)
}

func TestCheckUndefinedVariable(t *testing.T) {
	errs := check(t, `print(missing);`)
	require.Len(t, errs, 1)
	require.Equal(t, checker.UndefinedVariable, errs[0].Kind)
}

func TestCheckImmutableAssignment(t *testing.T) {
	errs := check(t, `
fn run() {
	let x = 1;
	x = 2;
}`)
	require.Len(t, errs, 1)
	require.Equal(t, checker.ImmutableAssignment, errs[0].Kind)
}

func TestCheckBreakOutsideLoop(t *testing.T) {
	errs := check(t, `
fn run() {
	break;
}`)
	require.Len(t, errs, 1)
	require.Equal(t, checker.BreakOutsideLoop, errs[0].Kind)
}

func TestCheckArgumentCountMismatch(t *testing.T) {
	errs := check(t, `
fn add(a: int, b: int) -> int {
	return a + b;
}
print(add(1));`)
	require.Len(t, errs, 1)
	require.Equal(t, checker.ArgumentCountMismatch, errs[0].Kind)
}

func TestCheckStructFieldAccess(t *testing.T) {
	errs := check(t, `
struct Point { x: int, y: int };
let p = Point { x: 1, y: 2 };
print(p.x + p.y);`)
	require.Empty(t, errs)
}

func TestCheckStructUndefinedField(t *testing.T) {
	errs := check(t, `
struct Point { x: int, y: int };
let p = Point { x: 1, y: 2 };
print(p.z);`)
	require.Len(t, errs, 1)
	require.Equal(t, checker.InvalidOperation, errs[0].Kind)
}

func TestCheckMethodCall(t *testing.T) {
	errs := check(t, `
struct Point { x: int, y: int };
impl Point {
	fn sum(self) -> int {
		return self.x + self.y;
	}
}
let p = Point { x: 1, y: 2 };
print(p.sum());`)
	require.Empty(t, errs)
}

func TestCheckForLoopVariable(t *testing.T) {
	errs := check(t, `
fn run() {
	for i in 0..10 {
		print(i);
	}
}`)
	require.Empty(t, errs)
}

func TestCheckArrayIndexAssign(t *testing.T) {
	errs := check(t, `
fn run() {
	var xs = [1, 2, 3];
	xs[0] = 99;
}`)
	require.Empty(t, errs)
}

func TestCheckArrayMixedElementTypes(t *testing.T) {
	errs := check(t, `let xs = [1, "two"];`)
	require.Len(t, errs, 1)
	require.Equal(t, checker.InvalidOperation, errs[0].Kind)
}
