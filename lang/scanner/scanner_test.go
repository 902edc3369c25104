package scanner_test

import (
	"testing"

	"github.com/mna/zero/lang/scanner"
	"github.com/mna/zero/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, []token.Value, error) {
	t.Helper()
	fset := token.NewFileSet()
	f := fset.AddFile("test.zero", -1, len(src))

	var (
		s   scanner.Scanner
		el  scanner.ErrorList
		val token.Value
	)
	s.Init(f, []byte(src), el.Add)

	var toks []token.Token
	var vals []token.Value
	for {
		tok := s.Scan(&val)
		toks = append(toks, tok)
		vals = append(vals, val)
		if tok == token.EOF {
			break
		}
	}
	return toks, vals, el.Err()
}

func TestScanBasic(t *testing.T) {
	toks, vals, err := scanAll(t, `let x = 10 + 20;`)
	require.NoError(t, err)
	require.Equal(t, []token.Token{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.SEMI, token.EOF,
	}, toks)
	require.Equal(t, "x", vals[1].Raw)
	require.Equal(t, int64(10), vals[3].Int)
	require.Equal(t, int64(20), vals[5].Int)
}

func TestScanDotDot(t *testing.T) {
	toks, _, err := scanAll(t, `1..5`)
	require.NoError(t, err)
	require.Equal(t, []token.Token{token.INT, token.DOTDOT, token.INT, token.EOF}, toks)
}

func TestScanFloatFraction(t *testing.T) {
	toks, vals, err := scanAll(t, `3.14`)
	require.NoError(t, err)
	require.Equal(t, []token.Token{token.FLOAT, token.EOF}, toks)
	require.InDelta(t, 3.14, vals[0].Float, 0.0001)
}

func TestScanExponentClassification(t *testing.T) {
	// a non-negative exponent <= 18 with no fractional part is still an Int.
	toks, _, err := scanAll(t, `2e3`)
	require.NoError(t, err)
	require.Equal(t, token.INT, toks[0])

	// a negative exponent always yields a Float.
	toks, _, err = scanAll(t, `5e-1`)
	require.NoError(t, err)
	require.Equal(t, token.FLOAT, toks[0])

	// an exponent too large to fit stays a Float.
	toks, _, err = scanAll(t, `2e20`)
	require.NoError(t, err)
	require.Equal(t, token.FLOAT, toks[0])
}

func TestScanString(t *testing.T) {
	toks, vals, err := scanAll(t, `"hello\nworld"`)
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0])
	require.Equal(t, "hello\nworld", vals[0].String)
}

func TestScanCharLiteral(t *testing.T) {
	toks, vals, err := scanAll(t, `'a' '\n' '\x41'`)
	require.NoError(t, err)
	require.Equal(t, []token.Token{token.CHAR, token.CHAR, token.CHAR, token.EOF}, toks)
	require.Equal(t, "a", vals[0].String)
	require.Equal(t, "\n", vals[1].String)
	require.Equal(t, "A", vals[2].String)
}

func TestScanUnterminatedString(t *testing.T) {
	_, _, err := scanAll(t, "\"abc")
	require.Error(t, err)
}

func TestScanKeywordsAndOperators(t *testing.T) {
	toks, _, err := scanAll(t, `fn struct impl == != <= >= -> += && ||`)
	require.NoError(t, err)
	require.Equal(t, []token.Token{
		token.FN, token.STRUCT, token.IMPL, token.EQ, token.NEQ, token.LE, token.GE,
		token.ARROW, token.PLUSEQ, token.ANDAND, token.OROR, token.EOF,
	}, toks)
}
