package ast_test

import (
	"testing"

	"github.com/mna/zero/lang/ast"
	"github.com/stretchr/testify/require"
)

func TestWalkCountsNodes(t *testing.T) {
	chunk := &ast.Chunk{
		Block: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.ExprStmt{X: &ast.BinaryExpr{
					Left:  &ast.IntegerExpr{Raw: "1", Value: 1},
					Op:    ast.Add,
					Right: &ast.IntegerExpr{Raw: "2", Value: 2},
				}},
				&ast.PrintStmt{Value: &ast.IdentifierExpr{Name: "x"}},
			},
		},
	}

	var count int
	ast.Walk(ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) bool {
		if dir == ast.Enter {
			count++
		}
		return true
	}), chunk)

	// chunk, block, 2 stmts (the print is one of them), binary+2 ints, ident = 8
	require.Equal(t, 8, count)
}
