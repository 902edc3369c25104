// Package parser implements the single-pass recursive-descent parser that
// turns a token stream into an AST. The parser does not recover from
// errors: the first one aborts parsing and is returned to the caller.
package parser

import (
	"fmt"
	"os"

	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/scanner"
	"github.com/mna/zero/lang/token"
)

// ParseFile reads and parses a single source file.
func ParseFile(fset *token.FileSet, filename string) (*ast.Chunk, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseChunk(fset, filename, src)
}

// ParseChunk parses a single chunk of source, registering it in fset under
// filename for position reporting.
func ParseChunk(fset *token.FileSet, filename string, src []byte) (*ast.Chunk, error) {
	var p parser
	if err := p.init(fset, filename, src); err != nil {
		return nil, err
	}
	return p.parseChunk()
}

// firstError is the sentinel returned (wrapped) on the first parse error;
// the parser does not attempt to recover or continue past it.
type firstError struct {
	pos token.Position
	msg string
}

func (e *firstError) Error() string { return e.pos.String() + ": " + e.msg }

// Position returns the source position of the parse error, so callers
// (internal/diag, in particular) can render a detailed diagnostic without
// needing to know about the unexported firstError type.
func (e *firstError) Position() token.Position { return e.pos }

type parser struct {
	scanner scanner.Scanner
	file    *token.File

	tok token.Token
	val token.Value

	// noStructLiteral suppresses parsing "ident { ... }" as a struct literal
	// while parsing the condition of an if/while/for, where the brace would
	// otherwise be ambiguous with the statement's body block.
	noStructLiteral bool

	err *firstError // set once the first error is encountered
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) error {
	p.file = fset.AddFile(filename, -1, len(src))
	p.scanner.Init(p.file, src, func(pos token.Position, msg string) {
		if p.err == nil {
			p.err = &firstError{pos: pos, msg: msg}
		}
	})
	p.advance()
	return nil
}

func (p *parser) advance() {
	if p.err != nil {
		return
	}
	p.tok = p.scanner.Scan(&p.val)
}

func (p *parser) position(pos token.Pos) token.Position { return p.file.Position(pos) }

// fail records the first parse error and panics with it; recovered in
// parseChunk.
func (p *parser) fail(pos token.Pos, msg string) {
	if p.err == nil {
		p.err = &firstError{pos: p.position(pos), msg: msg}
	}
	panic(p.err)
}

func (p *parser) failf(pos token.Pos, format string, args ...any) {
	p.fail(pos, fmt.Sprintf(format, args...))
}

// expect consumes the current token if it matches tok, returning its
// position; otherwise it aborts parsing with an UnexpectedToken/EOF error.
func (p *parser) expect(tok token.Token) token.Pos {
	if p.tok != tok {
		if p.tok == token.EOF {
			p.failf(p.val.Pos, "unexpected end of file, expected %s", tok.GoString())
		} else {
			p.failf(p.val.Pos, "unexpected token %s, expected %s", p.currentDesc(), tok.GoString())
		}
	}
	pos := p.val.Pos
	p.advance()
	return pos
}

func (p *parser) currentDesc() string {
	if lit := p.tok.Literal(p.val); lit != "" {
		return lit
	}
	return p.tok.GoString()
}

func (p *parser) atTypeStart() bool {
	return p.tok == token.IDENT || p.tok == token.LBRACK || p.tok == token.STRUCT || p.tok.IsTypeKeyword()
}

func (p *parser) at(tok token.Token) bool { return p.tok == tok }

// parseCondExpr parses an expression in a position immediately followed by a
// "{" block (if/while/for conditions), where a bare "ident {" must not be
// read as a struct literal.
func (p *parser) parseCondExpr() ast.Expr {
	prev := p.noStructLiteral
	p.noStructLiteral = true
	x := p.parseExpr()
	p.noStructLiteral = prev
	return x
}

func (p *parser) parseChunk() (chunk *ast.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*firstError)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()

	block := &ast.Block{Start: p.val.Pos}
	for p.tok != token.EOF {
		block.Stmts = append(block.Stmts, p.parseDeclaration())
	}
	block.End = p.val.Pos
	eof := p.expect(token.EOF)
	return &ast.Chunk{Block: block, EOF: eof}, nil
}
