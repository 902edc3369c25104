package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String(), "token %d", tok)
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		ident string
		want  Token
	}{
		{"let", LET}, {"fn", FN}, {"struct", STRUCT}, {"impl", IMPL},
		{"while", WHILE}, {"break", BREAK}, {"continue", CONTINUE},
		{"foo", IDENT}, {"", IDENT},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Lookup(c.ident), "ident %q", c.ident)
	}
}

func TestIsAssignOp(t *testing.T) {
	require.True(t, PLUSEQ.IsAssignOp())
	require.False(t, ASSIGN.IsAssignOp())
	require.False(t, PLUS.IsAssignOp())
}

func TestIsTypeKeyword(t *testing.T) {
	require.True(t, INT_KW.IsTypeKeyword())
	require.True(t, NULL.IsTypeKeyword())
	require.False(t, IDENT.IsTypeKeyword())
}
