package parser

import (
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/token"
)

// statement := "return" expr? ";"
//            | "if" expr block ("else" (if | block))?
//            | "while" expr block
//            | "for" IDENT "in" expr ".." expr block
//            | "print" "(" expr ")" ";"
//            | "break" ";" | "continue" ";"
//            | block
//            | expr ";"
func (p *parser) parseStatement() ast.Stmt {
	switch p.tok {
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.PRINT:
		return p.parsePrint()
	case token.BREAK:
		start := p.expect(token.BREAK)
		semi := p.expect(token.SEMI)
		return &ast.BreakStmt{Start: start, Semi: semi}
	case token.CONTINUE:
		start := p.expect(token.CONTINUE)
		semi := p.expect(token.SEMI)
		return &ast.ContinueStmt{Start: start, Semi: semi}
	case token.LBRACE:
		return &ast.BlockStmt{Block: p.parseBraceBlock()}
	default:
		return p.parseExprStmt()
	}
}

// parseBraceBlock parses "{" declaration* "}".
func (p *parser) parseBraceBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	var blk ast.Block
	blk.Start = start
	for p.tok != token.RBRACE {
		blk.Stmts = append(blk.Stmts, p.parseDeclaration())
	}
	blk.End = p.val.Pos
	p.expect(token.RBRACE)
	return &blk
}

func (p *parser) parseReturn() *ast.ReturnStmt {
	var n ast.ReturnStmt
	n.Start = p.expect(token.RETURN)
	if p.tok != token.SEMI {
		n.Value = p.parseExpr()
	}
	n.Semi = p.expect(token.SEMI)
	return &n
}

func (p *parser) parseIf() *ast.IfStmt {
	var n ast.IfStmt
	n.If = p.expect(token.IF)
	n.Cond = p.parseCondExpr()
	n.Then = p.parseBraceBlock()
	if p.tok == token.ELSE {
		p.advance()
		if p.tok == token.IF {
			n.Else = p.parseIf()
		} else {
			n.Else = &ast.BlockStmt{Block: p.parseBraceBlock()}
		}
	}
	return &n
}

func (p *parser) parseWhile() *ast.WhileStmt {
	var n ast.WhileStmt
	n.While = p.expect(token.WHILE)
	n.Cond = p.parseCondExpr()
	n.Body = p.parseBraceBlock()
	return &n
}

// for := "for" IDENT "in" expr ".." expr block
func (p *parser) parseFor() *ast.ForStmt {
	var n ast.ForStmt
	n.For = p.expect(token.FOR)
	n.VarPos = p.val.Pos
	n.VarName = p.val.Raw
	p.expect(token.IDENT)
	p.expect(token.IN)
	n.RangeLo = p.parseRangeOperand()
	p.expect(token.DOTDOT)
	n.RangeHi = p.parseRangeOperand()
	n.Body = p.parseBraceBlock()
	return &n
}

// parseRangeOperand parses a range endpoint at a precedence tighter than
// ".." so that "a..b" isn't swallowed by a looser binary expression, and
// with struct literals suppressed for the same reason as if/while
// conditions.
func (p *parser) parseRangeOperand() ast.Expr {
	prev := p.noStructLiteral
	p.noStructLiteral = true
	x := p.parseTerm()
	p.noStructLiteral = prev
	return x
}

func (p *parser) parsePrint() *ast.PrintStmt {
	var n ast.PrintStmt
	n.Print = p.expect(token.PRINT)
	n.Lparen = p.expect(token.LPAREN)
	n.Value = p.parseExpr()
	n.Rparen = p.expect(token.RPAREN)
	n.Semi = p.expect(token.SEMI)
	return &n
}

func (p *parser) parseExprStmt() *ast.ExprStmt {
	x := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.ExprStmt{X: x}
}
