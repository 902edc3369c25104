package ast

import "github.com/mna/zero/lang/token"

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
)

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	Not UnaryOp = iota
	Negate
)

type (
	// IntegerExpr is an integer literal.
	IntegerExpr struct {
		Start token.Pos
		Raw   string
		Value int64
	}

	// FloatExpr is a floating-point literal.
	FloatExpr struct {
		Start token.Pos
		Raw   string
		Value float64
	}

	// StringExpr is a string literal; Value is already escape-decoded.
	StringExpr struct {
		Start token.Pos
		Raw   string
		Value string
	}

	// CharExpr is a char literal; Value is already escape-decoded.
	CharExpr struct {
		Start token.Pos
		Raw   string
		Value string
	}

	// BooleanExpr is a true/false literal.
	BooleanExpr struct {
		Start token.Pos
		Value bool
	}

	// IdentifierExpr is a bare identifier reference.
	IdentifierExpr struct {
		Start token.Pos
		Name  string
	}

	// ArrayExpr is an array literal.
	ArrayExpr struct {
		Lbrack, Rbrack token.Pos
		Elems          []Expr
	}

	// BinaryExpr is a binary operator expression.
	BinaryExpr struct {
		Left  Expr
		Op    BinaryOp
		OpPos token.Pos
		Right Expr
	}

	// UnaryExpr is a unary operator expression.
	UnaryExpr struct {
		Op    UnaryOp
		OpPos token.Pos
		Right Expr
	}

	// CallExpr is a function call.
	CallExpr struct {
		Callee         Expr
		Lparen, Rparen token.Pos
		Args           []Expr
	}

	// MethodCallExpr is a method call on a struct value, obj.name(args).
	MethodCallExpr struct {
		Obj            Expr
		Dot            token.Pos
		Name           string
		NamePos        token.Pos
		Lparen, Rparen token.Pos
		Args           []Expr
	}

	// IndexExpr reads an array element, obj[idx].
	IndexExpr struct {
		Obj            Expr
		Lbrack, Rbrack token.Pos
		Index          Expr
	}

	// IndexAssignExpr writes an array element, obj[idx] = val.
	IndexAssignExpr struct {
		Obj            Expr
		Lbrack, Rbrack token.Pos
		Index          Expr
		Assign         token.Pos
		Value          Expr
	}

	// AssignExpr assigns to a plain identifier, name = val.
	AssignExpr struct {
		Name    string
		NamePos token.Pos
		Assign  token.Pos
		Value   Expr
	}

	// FieldAccessExpr reads a struct field, obj.field.
	FieldAccessExpr struct {
		Obj     Expr
		Dot     token.Pos
		Field   string
		FieldPos token.Pos
	}

	// FieldAssignExpr writes a struct field, obj.field = val.
	FieldAssignExpr struct {
		Obj      Expr
		Dot      token.Pos
		Field    string
		FieldPos token.Pos
		Assign   token.Pos
		Value    Expr
	}

	// StructFieldInit is a single `name: value` pair in a StructLiteralExpr.
	StructFieldInit struct {
		Name    string
		NamePos token.Pos
		Colon   token.Pos
		Value   Expr
	}

	// StructLiteralExpr constructs a struct value, Name{field: value, ...}.
	StructLiteralExpr struct {
		Name           string
		NamePos        token.Pos
		Lbrace, Rbrace token.Pos
		Fields         []*StructFieldInit
	}
)

func (*IntegerExpr) expr()       {}
func (*FloatExpr) expr()         {}
func (*StringExpr) expr()        {}
func (*CharExpr) expr()          {}
func (*BooleanExpr) expr()       {}
func (*IdentifierExpr) expr()    {}
func (*ArrayExpr) expr()         {}
func (*BinaryExpr) expr()        {}
func (*UnaryExpr) expr()         {}
func (*CallExpr) expr()          {}
func (*MethodCallExpr) expr()    {}
func (*IndexExpr) expr()         {}
func (*IndexAssignExpr) expr()   {}
func (*AssignExpr) expr()        {}
func (*FieldAccessExpr) expr()   {}
func (*FieldAssignExpr) expr()   {}
func (*StructLiteralExpr) expr() {}

func (n *IntegerExpr) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *IntegerExpr) Walk(Visitor) {}

func (n *FloatExpr) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *FloatExpr) Walk(Visitor) {}

func (n *StringExpr) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *StringExpr) Walk(Visitor) {}

func (n *CharExpr) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *CharExpr) Walk(Visitor) {}

func (n *BooleanExpr) Span() (token.Pos, token.Pos) { return n.Start, n.Start }
func (n *BooleanExpr) Walk(Visitor)                 {}

func (n *IdentifierExpr) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Name))
}
func (n *IdentifierExpr) Walk(Visitor) {}

func (n *ArrayExpr) Span() (token.Pos, token.Pos) { return n.Lbrack, n.Rbrack }
func (n *ArrayExpr) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}

func (n *BinaryExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *UnaryExpr) Span() (token.Pos, token.Pos) {
	_, end := n.Right.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Right) }

func (n *CallExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Callee.Span()
	return start, n.Rparen
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *MethodCallExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Obj.Span()
	return start, n.Rparen
}
func (n *MethodCallExpr) Walk(v Visitor) {
	Walk(v, n.Obj)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *IndexExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Obj.Span()
	return start, n.Rbrack
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Obj)
	Walk(v, n.Index)
}

func (n *IndexAssignExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Obj.Span()
	_, end := n.Value.Span()
	return start, end
}
func (n *IndexAssignExpr) Walk(v Visitor) {
	Walk(v, n.Obj)
	Walk(v, n.Index)
	Walk(v, n.Value)
}

func (n *AssignExpr) Span() (token.Pos, token.Pos) {
	_, end := n.Value.Span()
	return n.NamePos, end
}
func (n *AssignExpr) Walk(v Visitor) { Walk(v, n.Value) }

func (n *FieldAccessExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Obj.Span()
	return start, n.FieldPos + token.Pos(len(n.Field))
}
func (n *FieldAccessExpr) Walk(v Visitor) { Walk(v, n.Obj) }

func (n *FieldAssignExpr) Span() (token.Pos, token.Pos) {
	start, _ := n.Obj.Span()
	_, end := n.Value.Span()
	return start, end
}
func (n *FieldAssignExpr) Walk(v Visitor) {
	Walk(v, n.Obj)
	Walk(v, n.Value)
}

func (n *StructLiteralExpr) Span() (token.Pos, token.Pos) { return n.NamePos, n.Rbrace }
func (n *StructLiteralExpr) Walk(v Visitor) {
	for _, f := range n.Fields {
		Walk(v, f.Value)
	}
}
