package parser

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// parseDeclaration parses a single top-level-or-block production:
// declaration := varDecl | fnDecl | structDecl | typeAlias | implBlock | statement
func (p *parser) parseDeclaration() ast.Stmt {
	switch p.tok {
	case token.LET, token.VAR:
		return p.parseVarDecl()
	case token.FN:
		return p.parseFnDecl()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.TYPE:
		return p.parseTypeAlias()
	case token.IMPL:
		return p.parseImplBlock()
	default:
		return p.parseStatement()
	}
}

// varDecl := ("let"|"var") IDENT (":" type)? ("=" expression)? ";"
func (p *parser) parseVarDecl() *ast.VarDeclStmt {
	var n ast.VarDeclStmt
	n.Start = p.val.Pos
	n.Mutable = p.tok == token.VAR
	p.advance() // consume let/var

	n.NamePos = p.val.Pos
	n.Name = p.val.Raw
	p.expect(token.IDENT)

	if p.tok == token.COLON {
		p.advance()
		n.Type = p.parseType()
	}
	if p.tok == token.ASSIGN {
		p.advance()
		n.Init = p.parseExpr()
	}
	n.Semi = p.expect(token.SEMI)
	return &n
}

// fnDecl := "fn" IDENT "(" params? ")" ("->" type)? "{" declaration* "}"
func (p *parser) parseFnDecl() *ast.FnDeclStmt {
	var n ast.FnDeclStmt
	n.Fn = p.expect(token.FN)
	n.NamePos = p.val.Pos
	n.Name = p.val.Raw
	p.expect(token.IDENT)

	p.expect(token.LPAREN)
	if p.tok != token.RPAREN {
		n.Params = p.parseParams()
	}
	p.expect(token.RPAREN)

	if p.tok == token.ARROW {
		p.advance()
		n.Return = p.parseType()
	}
	n.Body = p.parseBraceBlock()
	return &n
}

// params := param ("," param)*   param := IDENT (":" type)?
func (p *parser) parseParams() []*ast.Param {
	var params []*ast.Param
	for {
		var prm ast.Param
		prm.NamePos = p.val.Pos
		prm.Name = p.val.Raw
		p.expect(token.IDENT)
		if p.tok == token.COLON {
			p.advance()
			prm.Type = p.parseType()
		}
		params = append(params, &prm)
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	return params
}

// structDecl := "struct" IDENT "{" (field ("," field)*)? "}" ";"
func (p *parser) parseStructDecl() *ast.StructDeclStmt {
	var n ast.StructDeclStmt
	n.Struct = p.expect(token.STRUCT)
	n.NamePos = p.val.Pos
	n.Name = p.val.Raw
	p.expect(token.IDENT)
	p.expect(token.LBRACE)
	if p.tok != token.RBRACE {
		n.Fields = p.parseFieldDecls()
	}
	p.expect(token.RBRACE)
	n.Semi = p.expect(token.SEMI)
	return &n
}

func (p *parser) parseFieldDecls() []*ast.FieldDecl {
	var fields []*ast.FieldDecl
	for {
		var f ast.FieldDecl
		f.NamePos = p.val.Pos
		f.Name = p.val.Raw
		p.expect(token.IDENT)
		f.Colon = p.expect(token.COLON)
		f.Type = p.parseType()
		fields = append(fields, &f)
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	return fields
}

// typeAlias := "type" IDENT "=" (type | "struct" "{" fields "}") ";"
func (p *parser) parseTypeAlias() *ast.TypeAliasStmt {
	var n ast.TypeAliasStmt
	n.Type = p.expect(token.TYPE)
	n.NamePos = p.val.Pos
	n.Name = p.val.Raw
	p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	n.Target = p.parseType()
	n.Semi = p.expect(token.SEMI)
	return &n
}

// implBlock := "impl" IDENT "{" fnDecl* "}"
func (p *parser) parseImplBlock() *ast.ImplBlockStmt {
	var n ast.ImplBlockStmt
	n.Impl = p.expect(token.IMPL)
	n.NamePos = p.val.Pos
	n.TypeName = p.val.Raw
	p.expect(token.IDENT)
	p.expect(token.LBRACE)
	for p.tok != token.RBRACE {
		n.Methods = append(n.Methods, p.parseFnDecl())
	}
	n.Rbrace = p.expect(token.RBRACE)
	return &n
}
