package ast

import "github.com/mna/zero/lang/token"

// TypeExpr is the syntactic form of a type annotation, as written in source
// (e.g. "int", "[int]", "Point"). The checker resolves it to a semantic
// types.Type.
type TypeExpr interface {
	Node
	typeExpr()
}

type (
	// NamedTypeExpr is a primitive type keyword or a named (struct/alias)
	// reference.
	NamedTypeExpr struct {
		Start token.Pos
		Name  string
	}

	// ArrayTypeExpr is an array type, "[" TypeExpr "]".
	ArrayTypeExpr struct {
		Lbrack, Rbrack token.Pos
		Elem           TypeExpr
	}

	// StructTypeExpr is an inline struct type, "struct" "{" fields "}", used
	// by type aliases of the form `type T = struct { ... }`.
	StructTypeExpr struct {
		Struct, Rbrace token.Pos
		Fields         []*FieldDecl
	}
)

func (*NamedTypeExpr) typeExpr()  {}
func (*ArrayTypeExpr) typeExpr()  {}
func (*StructTypeExpr) typeExpr() {}

func (n *NamedTypeExpr) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Name))
}
func (n *NamedTypeExpr) Walk(Visitor) {}

func (n *ArrayTypeExpr) Span() (token.Pos, token.Pos) { return n.Lbrack, n.Rbrack }
func (n *ArrayTypeExpr) Walk(v Visitor)               { Walk(v, n.Elem) }

func (n *StructTypeExpr) Span() (token.Pos, token.Pos) { return n.Struct, n.Rbrace }
func (n *StructTypeExpr) Walk(v Visitor) {
	for _, f := range n.Fields {
		Walk(v, f.Type)
	}
}

// FieldDecl is a single `name: Type` field in a struct declaration or
// struct type expression.
type FieldDecl struct {
	Name    string
	NamePos token.Pos
	Colon   token.Pos
	Type    TypeExpr
}

// Param is a single function parameter, `name` or `name: Type`.
type Param struct {
	Name    string
	NamePos token.Pos
	Type    TypeExpr // nil if unannotated
}
