package ast

import "github.com/mna/zero/lang/token"

type (
	// ExprStmt is an expression used as a statement.
	ExprStmt struct {
		X Expr
	}

	// VarDeclStmt declares a variable: `let`/`var` name [: Type] [= init] ;
	VarDeclStmt struct {
		Start   token.Pos // position of "let" or "var"
		Mutable bool      // true for "var", false for "let"
		Name    string
		NamePos token.Pos
		Type    TypeExpr // nil if not annotated
		Init    Expr     // nil if no initializer
		Semi    token.Pos
	}

	// FnDeclStmt declares a named function.
	FnDeclStmt struct {
		Fn      token.Pos
		Name    string
		NamePos token.Pos
		Params  []*Param
		Return  TypeExpr // nil if unannotated (void)
		Body    *Block
	}

	// StructDeclStmt declares a struct type.
	StructDeclStmt struct {
		Struct  token.Pos
		Name    string
		NamePos token.Pos
		Fields  []*FieldDecl
		Semi    token.Pos
	}

	// TypeAliasStmt declares a type alias: type Name = Type ;
	TypeAliasStmt struct {
		Type    token.Pos
		Name    string
		NamePos token.Pos
		Target  TypeExpr
		Semi    token.Pos
	}

	// ImplBlockStmt attaches methods to a named (struct) type.
	ImplBlockStmt struct {
		Impl     token.Pos
		TypeName string
		NamePos  token.Pos
		Methods  []*FnDeclStmt
		Rbrace   token.Pos
	}

	// ReturnStmt is a return statement; Value is nil for a bare `return;`.
	ReturnStmt struct {
		Start token.Pos
		Value Expr
		Semi  token.Pos
	}

	// IfStmt is an if/else statement. Else is nil (no else branch), a
	// *BlockStmt (plain else), or an *IfStmt (else-if chain).
	IfStmt struct {
		If   token.Pos
		Cond Expr
		Then *Block
		Else Stmt
	}

	// WhileStmt is a while loop.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Body  *Block
	}

	// ForStmt is a `for var in start..end { body }` loop.
	ForStmt struct {
		For      token.Pos
		VarName  string
		VarPos   token.Pos
		RangeLo  Expr
		RangeHi  Expr
		Body     *Block
	}

	// BreakStmt is a break statement.
	BreakStmt struct {
		Start token.Pos
		Semi  token.Pos
	}

	// ContinueStmt is a continue statement.
	ContinueStmt struct {
		Start token.Pos
		Semi  token.Pos
	}

	// PrintStmt is a print(expr) statement.
	PrintStmt struct {
		Print          token.Pos
		Lparen, Rparen token.Pos
		Value          Expr
		Semi           token.Pos
	}

	// BlockStmt is a standalone `{ ... }` block used as a statement.
	BlockStmt struct {
		Block *Block
	}
)

func (*ExprStmt) stmt()       {}
func (*VarDeclStmt) stmt()    {}
func (*FnDeclStmt) stmt()     {}
func (*StructDeclStmt) stmt() {}
func (*TypeAliasStmt) stmt()  {}
func (*ImplBlockStmt) stmt()  {}
func (*ReturnStmt) stmt()     {}
func (*IfStmt) stmt()         {}
func (*WhileStmt) stmt()      {}
func (*ForStmt) stmt()        {}
func (*BreakStmt) stmt()      {}
func (*ContinueStmt) stmt()   {}
func (*PrintStmt) stmt()      {}
func (*BlockStmt) stmt()      {}

func (n *ExprStmt) Span() (token.Pos, token.Pos) { return n.X.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.X) }

func (n *VarDeclStmt) Span() (token.Pos, token.Pos) { return n.Start, n.Semi }
func (n *VarDeclStmt) Walk(v Visitor) {
	if n.Type != nil {
		Walk(v, n.Type)
	}
	if n.Init != nil {
		Walk(v, n.Init)
	}
}

func (n *FnDeclStmt) Span() (token.Pos, token.Pos) { _, e := n.Body.Span(); return n.Fn, e }
func (n *FnDeclStmt) Walk(v Visitor) {
	for _, p := range n.Params {
		if p.Type != nil {
			Walk(v, p.Type)
		}
	}
	if n.Return != nil {
		Walk(v, n.Return)
	}
	Walk(v, n.Body)
}

func (n *StructDeclStmt) Span() (token.Pos, token.Pos) { return n.Struct, n.Semi }
func (n *StructDeclStmt) Walk(v Visitor) {
	for _, f := range n.Fields {
		Walk(v, f.Type)
	}
}

func (n *TypeAliasStmt) Span() (token.Pos, token.Pos) { return n.Type, n.Semi }
func (n *TypeAliasStmt) Walk(v Visitor)               { Walk(v, n.Target) }

func (n *ImplBlockStmt) Span() (token.Pos, token.Pos) { return n.Impl, n.Rbrace }
func (n *ImplBlockStmt) Walk(v Visitor) {
	for _, m := range n.Methods {
		Walk(v, m)
	}
}

func (n *ReturnStmt) Span() (token.Pos, token.Pos) { return n.Start, n.Semi }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

func (n *IfStmt) Span() (token.Pos, token.Pos) {
	_, e := n.Then.Span()
	if n.Else != nil {
		_, e = n.Else.Span()
	}
	return n.If, e
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}

func (n *WhileStmt) Span() (token.Pos, token.Pos) { _, e := n.Body.Span(); return n.While, e }
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}

func (n *ForStmt) Span() (token.Pos, token.Pos) { _, e := n.Body.Span(); return n.For, e }
func (n *ForStmt) Walk(v Visitor) {
	Walk(v, n.RangeLo)
	Walk(v, n.RangeHi)
	Walk(v, n.Body)
}

func (n *BreakStmt) Span() (token.Pos, token.Pos) { return n.Start, n.Semi }
func (n *BreakStmt) Walk(Visitor)                 {}

func (n *ContinueStmt) Span() (token.Pos, token.Pos) { return n.Start, n.Semi }
func (n *ContinueStmt) Walk(Visitor)                 {}

func (n *PrintStmt) Span() (token.Pos, token.Pos) { return n.Print, n.Semi }
func (n *PrintStmt) Walk(v Visitor)               { Walk(v, n.Value) }

func (n *BlockStmt) Span() (token.Pos, token.Pos) { return n.Block.Span() }
func (n *BlockStmt) Walk(v Visitor)               { Walk(v, n.Block) }
