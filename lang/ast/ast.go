// Package ast defines the abstract syntax tree produced by the parser: one
// node type per production in the grammar, each reporting its source span
// and able to walk its children via the Visitor pattern.
package ast

import "github.com/mna/zero/lang/token"

// Node represents any node in the AST.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk enters each child node inside itself, implementing the Visitor
	// pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node
	stmt()
}

// Chunk is the root of a parsed source file: its top-level list of
// declarations and statements.
type Chunk struct {
	Name  string // filename, may be empty
	Block *Block
	EOF   token.Pos
}

func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

// Block is a brace-delimited sequence of statements.
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
}

func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
