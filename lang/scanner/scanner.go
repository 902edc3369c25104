// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements the lexer: it turns source bytes into a stream
// of token.Token values, tracking line/column/offset positions and reporting
// lexical errors through a caller-supplied callback.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/mna/zero/lang/token"
)

// Error and ErrorList mirror the standard library's go/scanner error types:
// a single positioned error, and a sortable list of such errors.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// ErrorList is a list of *Error, sorted by position once scanning/parsing
// completes.
type ErrorList []*Error

// Add appends a new error for the given position.
func (el *ErrorList) Add(pos token.Position, msg string) {
	*el = append(*el, &Error{Pos: pos, Msg: msg})
}

func (el ErrorList) Len() int      { return len(el) }
func (el ErrorList) Swap(i, j int) { el[i], el[j] = el[j], el[i] }
func (el ErrorList) Less(i, j int) bool {
	if el[i].Pos.Filename != el[j].Pos.Filename {
		return el[i].Pos.Filename < el[j].Pos.Filename
	}
	return el[i].Pos.Offset < el[j].Pos.Offset
}

// Sort orders the list by file and offset.
func (el ErrorList) Sort() { sort.Sort(el) }

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0], len(el)-1)
}

// Err returns el as an error if it is non-empty, else nil.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// TokenAndValue combines the token kind with its decoded attributes.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanFile tokenizes a single source file eagerly and returns every token
// produced (including the final EOF), along with any lexical errors.
func ScanFile(ctx context.Context, fset *token.FileSet, filename string, src []byte) ([]TokenAndValue, error) {
	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
	)
	f := fset.AddFile(filename, -1, len(src))
	s.Init(f, src, el.Add)

	var out []TokenAndValue
	for {
		tok := s.Scan(&tokVal)
		out = append(out, TokenAndValue{Token: tok, Value: tokVal})
		if tok == token.EOF {
			break
		}
	}
	el.Sort()
	return out, el.Err()
}

// ScanFiles is a helper that reads and tokenizes each named file.
func ScanFiles(ctx context.Context, files ...string) (*token.FileSet, [][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}
	fs := token.NewFileSet()
	var el ErrorList
	tokensByFile := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}
		toks, ferr := ScanFile(ctx, fs, file, b)
		tokensByFile[i] = toks
		if ferr != nil {
			if list, ok := ferr.(ErrorList); ok {
				el = append(el, list...)
			}
		}
	}
	el.Sort()
	return fs, tokensByFile, el.Err()
}

// Scanner tokenizes a single source file for the parser to consume.
type Scanner struct {
	// immutable state after Init
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	// mutable scanning state
	cur         rune // current character, -1 at EOF
	off         int  // byte offset of cur
	roff        int  // byte offset following cur
	invalidByte byte // set when cur is utf8.RuneError due to a bad encoding
}

var bom = [3]byte{0xEF, 0xBB, 0xBF}

// Init prepares the scanner to tokenize src, whose size must match
// file.Size().
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0

	if len(src) >= len(bom) && bytes.Equal(src[:len(bom)], bom[:]) {
		s.off += len(bom)
		s.roff += len(bom)
	}
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}
	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}

	s.invalidByte = 0
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
			s.invalidByte = s.src[s.roff]
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

func (s *Scanner) advanceIf(matches ...byte) bool {
	for _, m := range matches {
		if rune(m) == s.cur {
			s.advance()
			return true
		}
	}
	return false
}

// Scan returns the next token, writing its attributes (position and, for
// literal tokens, decoded value) into tokVal.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.Lookup(lit)
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDecimal(cur) || (cur == '.' && isDecimal(rune(s.peek()))):
		var lit string
		tok, lit = s.number()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		if tok == token.INT {
			v, err := strconv.ParseInt(lit, 10, 64)
			for i := 0; err != nil && i < len(lit); i++ {
				if lit[i] != 'e' && lit[i] != 'E' {
					continue
				}
				// exponent form such as 2e3: scale the mantissa, and make the
				// literal a FLOAT if the value does not fit an int64
				v, err = strconv.ParseInt(lit[:i], 10, 64)
				exp, _ := strconv.Atoi(lit[i+1:])
				for ; err == nil && exp > 0 && tok == token.INT; exp-- {
					if v > (1<<63-1)/10 {
						tok = token.FLOAT
					}
					v *= 10
				}
			}
			if err != nil {
				s.error(start, "integer literal value out of range")
			}
			tokVal.Int = v
		}
		if tok == token.FLOAT {
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				s.error(start, "float literal value out of range")
			}
			tokVal.Float = v
		}

	default:
		s.advance()
		switch cur {
		case '=':
			tok = token.ASSIGN
			if s.advanceIf('=') {
				tok = token.EQ
			}
		case '!':
			tok = token.BANG
			if s.advanceIf('=') {
				tok = token.NEQ
			}
		case '<':
			tok = token.LT
			if s.advanceIf('=') {
				tok = token.LE
			}
		case '>':
			tok = token.GT
			if s.advanceIf('=') {
				tok = token.GE
			}
		case '&':
			tok = token.ILLEGAL
			if s.advanceIf('&') {
				tok = token.ANDAND
			} else {
				s.errorf(start, "illegal character %#U, expected '&&'", cur)
			}
		case '|':
			tok = token.ILLEGAL
			if s.advanceIf('|') {
				tok = token.OROR
			} else {
				s.errorf(start, "illegal character %#U, expected '||'", cur)
			}
		case '+':
			tok = token.PLUS
			if s.advanceIf('=') {
				tok = token.PLUSEQ
			}
		case '-':
			tok = token.MINUS
			if s.advanceIf('=') {
				tok = token.MINUSEQ
			} else if s.advanceIf('>') {
				tok = token.ARROW
			}
		case '*':
			tok = token.STAR
			if s.advanceIf('=') {
				tok = token.STAREQ
			}
		case '/':
			tok = token.SLASH
			if s.advanceIf('=') {
				tok = token.SLASHEQ
			}
		case '%':
			tok = token.PERCENT
			if s.advanceIf('=') {
				tok = token.PERCENTEQ
			}
		case '.':
			tok = token.DOT
			if s.advanceIf('.') {
				tok = token.DOTDOT
			}
		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE
		case '[':
			tok = token.LBRACK
		case ']':
			tok = token.RBRACK
		case ',':
			tok = token.COMMA
		case ';':
			tok = token.SEMI
		case ':':
			tok = token.COLON
		case '"':
			var val string
			var lit string
			lit, val = s.shortString()
			tok = token.STRING
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}
			return tok
		case '\'':
			var val string
			var lit string
			lit, val = s.charLiteral()
			tok = token.CHAR
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}
			return tok
		case -1:
			tok = token.EOF
		default:
			if cur == utf8.RuneError && s.invalidByte > 0 {
				cur = rune(s.invalidByte)
				s.invalidByte = 0
			}
			s.errorf(start, "illegal character %#U", cur)
			tok = token.ILLEGAL
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return isDecimal(rn) || rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
