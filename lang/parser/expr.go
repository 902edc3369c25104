package parser

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// parseExpr parses a full expression, starting at the assignment level.
func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

// assignment := (ident | index | field) ("=" | "+=" | "-=" | "*=" | "/=" | "%=") assignment
//             | logicalOr
func (p *parser) parseAssignment() ast.Expr {
	left := p.parseOr()

	if p.tok != token.ASSIGN && !p.tok.IsAssignOp() {
		return left
	}
	op := p.tok
	assignPos := p.val.Pos
	p.advance()
	rhs := p.parseAssignment()

	if op != token.ASSIGN {
		rhs = &ast.BinaryExpr{Left: left, Op: compoundOp(op), OpPos: assignPos, Right: rhs}
	}

	switch target := left.(type) {
	case *ast.IdentifierExpr:
		return &ast.AssignExpr{Name: target.Name, NamePos: target.Start, Assign: assignPos, Value: rhs}
	case *ast.IndexExpr:
		return &ast.IndexAssignExpr{Obj: target.Obj, Lbrack: target.Lbrack, Rbrack: target.Rbrack, Index: target.Index, Assign: assignPos, Value: rhs}
	case *ast.FieldAccessExpr:
		return &ast.FieldAssignExpr{Obj: target.Obj, Dot: target.Dot, Field: target.Field, FieldPos: target.FieldPos, Assign: assignPos, Value: rhs}
	default:
		p.fail(assignPos, "invalid assignment target")
		return nil
	}
}

func compoundOp(tok token.Token) ast.BinaryOp {
	switch tok {
	case token.PLUSEQ:
		return ast.Add
	case token.MINUSEQ:
		return ast.Sub
	case token.STAREQ:
		return ast.Mul
	case token.SLASHEQ:
		return ast.Div
	case token.PERCENTEQ:
		return ast.Mod
	}
	panic("unreachable")
}

// logicalOr := logicalAnd ("||" logicalAnd)*
func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.tok == token.OROR {
		opPos := p.val.Pos
		p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Left: left, Op: ast.Or, OpPos: opPos, Right: right}
	}
	return left
}

// logicalAnd := equality ("&&" equality)*
func (p *parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.tok == token.ANDAND {
		opPos := p.val.Pos
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Left: left, Op: ast.And, OpPos: opPos, Right: right}
	}
	return left
}

// equality := comparison (("==" | "!=") comparison)*
func (p *parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.tok == token.EQ || p.tok == token.NEQ {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseComparison()
		bop := ast.Eq
		if op == token.NEQ {
			bop = ast.Ne
		}
		left = &ast.BinaryExpr{Left: left, Op: bop, OpPos: opPos, Right: right}
	}
	return left
}

// comparison := term (("<" | "<=" | ">" | ">=") term)*
func (p *parser) parseComparison() ast.Expr {
	left := p.parseTerm()
	for p.tok == token.LT || p.tok == token.LE || p.tok == token.GT || p.tok == token.GE {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseTerm()
		var bop ast.BinaryOp
		switch op {
		case token.LT:
			bop = ast.Lt
		case token.LE:
			bop = ast.Le
		case token.GT:
			bop = ast.Gt
		case token.GE:
			bop = ast.Ge
		}
		left = &ast.BinaryExpr{Left: left, Op: bop, OpPos: opPos, Right: right}
	}
	return left
}

// term := factor (("+" | "-") factor)*
func (p *parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.tok == token.PLUS || p.tok == token.MINUS {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseFactor()
		bop := ast.Add
		if op == token.MINUS {
			bop = ast.Sub
		}
		left = &ast.BinaryExpr{Left: left, Op: bop, OpPos: opPos, Right: right}
	}
	return left
}

// factor := unary (("*" | "/" | "%") unary)*
func (p *parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.tok == token.STAR || p.tok == token.SLASH || p.tok == token.PERCENT {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseUnary()
		var bop ast.BinaryOp
		switch op {
		case token.STAR:
			bop = ast.Mul
		case token.SLASH:
			bop = ast.Div
		case token.PERCENT:
			bop = ast.Mod
		}
		left = &ast.BinaryExpr{Left: left, Op: bop, OpPos: opPos, Right: right}
	}
	return left
}

// unary := ("!" | "-") unary | suffix
func (p *parser) parseUnary() ast.Expr {
	if p.tok == token.BANG || p.tok == token.MINUS {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseUnary()
		uop := ast.Not
		if op == token.MINUS {
			uop = ast.Negate
		}
		return &ast.UnaryExpr{Op: uop, OpPos: opPos, Right: right}
	}
	return p.parseSuffix()
}

// suffix := primary ( "(" args ")" | "[" expr "]" | "." IDENT ("(" args ")")? )*
func (p *parser) parseSuffix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case token.LPAREN:
			lparen := p.expect(token.LPAREN)
			var args []ast.Expr
			if p.tok != token.RPAREN {
				args = p.parseArgs()
			}
			rparen := p.expect(token.RPAREN)
			x = &ast.CallExpr{Callee: x, Lparen: lparen, Rparen: rparen, Args: args}
		case token.LBRACK:
			lbrack := p.expect(token.LBRACK)
			idx := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			x = &ast.IndexExpr{Obj: x, Lbrack: lbrack, Rbrack: rbrack, Index: idx}
		case token.DOT:
			dot := p.expect(token.DOT)
			namePos := p.val.Pos
			name := p.val.Raw
			p.expect(token.IDENT)
			if p.tok == token.LPAREN {
				lparen := p.expect(token.LPAREN)
				var args []ast.Expr
				if p.tok != token.RPAREN {
					args = p.parseArgs()
				}
				rparen := p.expect(token.RPAREN)
				x = &ast.MethodCallExpr{Obj: x, Dot: dot, Name: name, NamePos: namePos, Lparen: lparen, Rparen: rparen, Args: args}
			} else {
				x = &ast.FieldAccessExpr{Obj: x, Dot: dot, Field: name, FieldPos: namePos}
			}
		default:
			return x
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	for {
		args = append(args, p.parseExpr())
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	return args
}

// primary := INT | FLOAT | STRING | CHAR | "true" | "false"
//          | IDENT ("{" structFields "}")?
//          | "(" expr ")"
//          | "[" (expr ("," expr)*)? "]"
func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.INT:
		e := &ast.IntegerExpr{Start: p.val.Pos, Raw: p.val.Raw, Value: p.val.Int}
		p.advance()
		return e
	case token.FLOAT:
		e := &ast.FloatExpr{Start: p.val.Pos, Raw: p.val.Raw, Value: p.val.Float}
		p.advance()
		return e
	case token.STRING:
		e := &ast.StringExpr{Start: p.val.Pos, Raw: p.val.Raw, Value: p.val.String}
		p.advance()
		return e
	case token.CHAR:
		e := &ast.CharExpr{Start: p.val.Pos, Raw: p.val.Raw, Value: p.val.String}
		p.advance()
		return e
	case token.TRUE:
		e := &ast.BooleanExpr{Start: p.val.Pos, Value: true}
		p.advance()
		return e
	case token.FALSE:
		e := &ast.BooleanExpr{Start: p.val.Pos, Value: false}
		p.advance()
		return e
	case token.IDENT:
		start := p.val.Pos
		name := p.val.Raw
		p.advance()
		if p.tok == token.LBRACE && !p.noStructLiteral {
			return p.parseStructLiteral(name, start)
		}
		return &ast.IdentifierExpr{Start: start, Name: name}
	case token.LPAREN:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return x
	case token.LBRACK:
		lbrack := p.expect(token.LBRACK)
		var elems []ast.Expr
		if p.tok != token.RBRACK {
			elems = p.parseArgs()
		}
		rbrack := p.expect(token.RBRACK)
		return &ast.ArrayExpr{Lbrack: lbrack, Rbrack: rbrack, Elems: elems}
	default:
		p.failf(p.val.Pos, "unexpected token %s, expected an expression", p.currentDesc())
		return nil
	}
}

// parseStructLiteral parses the "{" field ("," field)* "}" suffix of a
// struct literal, given the already-consumed type name and its position.
func (p *parser) parseStructLiteral(name string, namePos token.Pos) ast.Expr {
	lbrace := p.expect(token.LBRACE)
	var fields []*ast.StructFieldInit
	if p.tok != token.RBRACE {
		for {
			var f ast.StructFieldInit
			f.NamePos = p.val.Pos
			f.Name = p.val.Raw
			p.expect(token.IDENT)
			f.Colon = p.expect(token.COLON)
			f.Value = p.parseExpr()
			fields = append(fields, &f)
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.StructLiteralExpr{Name: name, NamePos: namePos, Lbrace: lbrace, Rbrace: rbrace, Fields: fields}
}
