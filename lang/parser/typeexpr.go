package parser

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// parseType parses a single type annotation:
//
//	type := "int"|"int64"|"float"|"string"|"bool"|"void"|"null"
//	      | "[" type "]"
//	      | "struct" "{" fields "}"
//	      | IDENT
func (p *parser) parseType() ast.TypeExpr {
	switch {
	case p.tok.IsTypeKeyword():
		start := p.val.Pos
		name := p.val.Raw
		p.advance()
		return &ast.NamedTypeExpr{Start: start, Name: name}
	case p.tok == token.IDENT:
		start := p.val.Pos
		name := p.val.Raw
		p.advance()
		return &ast.NamedTypeExpr{Start: start, Name: name}
	case p.tok == token.LBRACK:
		lbrack := p.expect(token.LBRACK)
		elem := p.parseType()
		rbrack := p.expect(token.RBRACK)
		return &ast.ArrayTypeExpr{Lbrack: lbrack, Rbrack: rbrack, Elem: elem}
	case p.tok == token.STRUCT:
		structPos := p.expect(token.STRUCT)
		p.expect(token.LBRACE)
		var fields []*ast.FieldDecl
		if p.tok != token.RBRACE {
			fields = p.parseFieldDecls()
		}
		rbrace := p.expect(token.RBRACE)
		return &ast.StructTypeExpr{Struct: structPos, Rbrace: rbrace, Fields: fields}
	default:
		p.failf(p.val.Pos, "unexpected token %s, expected a type", p.currentDesc())
		return nil
	}
}
