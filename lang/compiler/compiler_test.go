package compiler_test

import (
	"testing"

	"github.com/mna/zero/lang/compiler"
	"github.com/mna/zero/lang/parser"
	"github.com/mna/zero/lang/token"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *compiler.Chunk {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(src))
	require.NoError(t, err)
	out, err := compiler.Compile(chunk)
	require.NoError(t, err)
	return out
}

func opcodes(chunk *compiler.Chunk) []compiler.OpCode {
	var ops []compiler.OpCode
	for i := 0; i < len(chunk.Code); {
		op := compiler.OpCode(chunk.Code[i])
		ops = append(ops, op)
		i += op.InstrSize()
	}
	return ops
}

func TestCompileGlobalVarDecl(t *testing.T) {
	chunk := compile(t, `let x = 5;`)
	require.Equal(t, []compiler.OpCode{
		compiler.OpLoadConst,
		compiler.OpStoreGlobal,
		compiler.OpPop,
		compiler.OpHalt,
	}, opcodes(chunk))
	require.Equal(t, compiler.Int(5), chunk.Constants[0])
}

func TestCompileArithmetic(t *testing.T) {
	chunk := compile(t, `print(1 + 2 * 3);`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpAdd)
	require.Contains(t, ops, compiler.OpMul)
	require.Contains(t, ops, compiler.OpPrint)
}

func TestCompileIfElse(t *testing.T) {
	chunk := compile(t, `
if true {
	print(1);
} else {
	print(2);
}`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpJumpIfFalse)
	require.Contains(t, ops, compiler.OpJump)
}

func TestCompileWhileLoop(t *testing.T) {
	chunk := compile(t, `
var i = 0;
while i < 10 {
	i = i + 1;
}`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpLoop)
	require.Contains(t, ops, compiler.OpLt)
}

func TestCompileForRangeLoop(t *testing.T) {
	chunk := compile(t, `
for i in 0..5 {
	print(i);
}`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpLoop)
	require.Contains(t, ops, compiler.OpAdd)
}

func TestCompileFunctionDeclAndCall(t *testing.T) {
	chunk := compile(t, `
fn add(a: int, b: int) -> int {
	return a + b;
}
print(add(1, 2));`)
	var found bool
	for _, c := range chunk.Constants {
		if c.Kind == compiler.KindFunction {
			found = true
			require.Equal(t, 2, c.Fn.Arity)
		}
	}
	require.True(t, found, "expected a compiled Function constant")
	require.Contains(t, opcodes(chunk), compiler.OpCall)
}

func TestCompileStructLiteralAndFieldAccess(t *testing.T) {
	chunk := compile(t, `
struct Point {
	x: int,
	y: int
};
let p = Point{x: 1, y: 2};
print(p.x);`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpNewStruct)
	require.Contains(t, ops, compiler.OpFieldGet)
}

func TestCompileArrayIndexAssign(t *testing.T) {
	chunk := compile(t, `
var a = [1, 2, 3];
a[0] = 9;
print(a[0]);`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpNewArray)
	require.Contains(t, ops, compiler.OpArraySet)
	require.Contains(t, ops, compiler.OpArrayGet)
}

func TestCompileBreakInsideWhile(t *testing.T) {
	chunk := compile(t, `
while true {
	break;
}`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpJump)
}

func TestCompileMethodCall(t *testing.T) {
	chunk := compile(t, `
struct Counter {
	n: int
};
impl Counter {
	fn get(self) -> int {
		return self.n;
	}
}
let c = Counter{n: 3};
print(c.get());`)
	ops := opcodes(chunk)
	require.Contains(t, ops, compiler.OpCall)
	require.Contains(t, ops, compiler.OpFieldGet)
}

func TestCompileRejectsTypeError(t *testing.T) {
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(`let x: int = "hi";`))
	require.NoError(t, err)
	_, err = compiler.Compile(chunk)
	require.Error(t, err)
}
