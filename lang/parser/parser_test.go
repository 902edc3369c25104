package parser_test

import (
	"testing"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/parser"
	"github.com/mna/zero/lang/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(src))
	require.NoError(t, err)
	return chunk
}

func TestParseVarDecl(t *testing.T) {
	chunk := parse(t, `let x: int = 1 + 2;`)
	require.Len(t, chunk.Block.Stmts, 1)
	decl, ok := chunk.Block.Stmts[0].(*ast.VarDeclStmt)
	require.True(t, ok)
	require.False(t, decl.Mutable)
	require.Equal(t, "x", decl.Name)
	require.NotNil(t, decl.Type)
	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.Add, bin.Op)
}

func TestParseMutableVar(t *testing.T) {
	chunk := parse(t, `var total = 0;`)
	decl := chunk.Block.Stmts[0].(*ast.VarDeclStmt)
	require.True(t, decl.Mutable)
}

func TestParseFnDecl(t *testing.T) {
	chunk := parse(t, `
fn add(a: int, b: int) -> int {
	return a + b;
}`)
	fn, ok := chunk.Block.Stmts[0].(*ast.FnDeclStmt)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.NotNil(t, fn.Return)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestParseStructDeclAndLiteral(t *testing.T) {
	chunk := parse(t, `
struct Point { x: int, y: int };
let p = Point { x: 1, y: 2 };`)
	require.Len(t, chunk.Block.Stmts, 2)
	sd, ok := chunk.Block.Stmts[0].(*ast.StructDeclStmt)
	require.True(t, ok)
	require.Equal(t, "Point", sd.Name)
	require.Len(t, sd.Fields, 2)

	decl := chunk.Block.Stmts[1].(*ast.VarDeclStmt)
	lit, ok := decl.Init.(*ast.StructLiteralExpr)
	require.True(t, ok)
	require.Equal(t, "Point", lit.Name)
	require.Len(t, lit.Fields, 2)
}

func TestParseIfElseChain(t *testing.T) {
	chunk := parse(t, `
fn classify(n: int) -> int {
	if n < 0 {
		return 0;
	} else if n == 0 {
		return 1;
	} else {
		return 2;
	}
}`)
	fn := chunk.Block.Stmts[0].(*ast.FnDeclStmt)
	ifs := fn.Body.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifs.Else)
	elseIf, ok := ifs.Else.(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, elseIf.Else)
	_, ok = elseIf.Else.(*ast.BlockStmt)
	require.True(t, ok)
}

func TestParseWhileAndAssign(t *testing.T) {
	chunk := parse(t, `
fn run() {
	var i = 0;
	while i < 10 {
		i = i + 1;
	}
}`)
	fn := chunk.Block.Stmts[0].(*ast.FnDeclStmt)
	ws, ok := fn.Body.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok)
	assignStmt := ws.Body.Stmts[0].(*ast.ExprStmt)
	assign, ok := assignStmt.X.(*ast.AssignExpr)
	require.True(t, ok)
	require.Equal(t, "i", assign.Name)
}

func TestParseForRange(t *testing.T) {
	chunk := parse(t, `
fn run() {
	for i in 0..10 {
		print(i);
	}
}`)
	fn := chunk.Block.Stmts[0].(*ast.FnDeclStmt)
	fs, ok := fn.Body.Stmts[0].(*ast.ForStmt)
	require.True(t, ok)
	require.Equal(t, "i", fs.VarName)
	require.Len(t, fs.Body.Stmts, 1)
}

func TestParseCompoundAssignDesugars(t *testing.T) {
	chunk := parse(t, `
fn run() {
	var total = 0;
	total += 5;
}`)
	fn := chunk.Block.Stmts[0].(*ast.FnDeclStmt)
	stmt := fn.Body.Stmts[1].(*ast.ExprStmt)
	assign := stmt.X.(*ast.AssignExpr)
	bin, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.Add, bin.Op)
	ident, ok := bin.Left.(*ast.IdentifierExpr)
	require.True(t, ok)
	require.Equal(t, "total", ident.Name)
}

func TestParseIndexAndFieldAssign(t *testing.T) {
	chunk := parse(t, `
fn run() {
	xs[0] = 1;
	p.x = 2;
}`)
	fn := chunk.Block.Stmts[0].(*ast.FnDeclStmt)
	_, ok := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.IndexAssignExpr)
	require.True(t, ok)
	_, ok = fn.Body.Stmts[1].(*ast.ExprStmt).X.(*ast.FieldAssignExpr)
	require.True(t, ok)
}

func TestParseMethodCall(t *testing.T) {
	chunk := parse(t, `
fn run() {
	p.distance(q);
}`)
	fn := chunk.Block.Stmts[0].(*ast.FnDeclStmt)
	stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.MethodCallExpr)
	require.True(t, ok)
	require.Equal(t, "distance", call.Name)
	require.Len(t, call.Args, 1)
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	chunk := parse(t, `let xs: [int] = [1, 2, 3]; let y = xs[1];`)
	decl := chunk.Block.Stmts[0].(*ast.VarDeclStmt)
	arr, ok := decl.Init.(*ast.ArrayExpr)
	require.True(t, ok)
	require.Len(t, arr.Elems, 3)

	decl2 := chunk.Block.Stmts[1].(*ast.VarDeclStmt)
	idx, ok := decl2.Init.(*ast.IndexExpr)
	require.True(t, ok)
	_ = idx
}

func TestParseImplBlock(t *testing.T) {
	chunk := parse(t, `
struct Point { x: int, y: int };
impl Point {
	fn sum(self) -> int {
		return self.x + self.y;
	}
}`)
	require.Len(t, chunk.Block.Stmts, 2)
	impl, ok := chunk.Block.Stmts[1].(*ast.ImplBlockStmt)
	require.True(t, ok)
	require.Equal(t, "Point", impl.TypeName)
	require.Len(t, impl.Methods, 1)
	require.Equal(t, "sum", impl.Methods[0].Name)
}

func TestParseTypeAlias(t *testing.T) {
	chunk := parse(t, `type Ints = [int];`)
	alias, ok := chunk.Block.Stmts[0].(*ast.TypeAliasStmt)
	require.True(t, ok)
	require.Equal(t, "Ints", alias.Name)
	_, ok = alias.Target.(*ast.ArrayTypeExpr)
	require.True(t, ok)
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	fset := token.NewFileSet()
	_, err := parser.ParseChunk(fset, "test.zero", []byte(`let x = ;`))
	require.Error(t, err)
}

func TestParseErrorMissingSemicolon(t *testing.T) {
	fset := token.NewFileSet()
	_, err := parser.ParseChunk(fset, "test.zero", []byte(`let x = 1`))
	require.Error(t, err)
}
